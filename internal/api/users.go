package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
)

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for an API token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.Post(ctx, "/token", body)
	if err != nil {
		return "", err
	}

	var token tokenResponse
	if err := json.Unmarshal(resp.Body, &token); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}

	return token.Token, nil
}

// Register creates a new account. The platform sends a confirmation email;
// the account stays unconfirmed until the user acts on it.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]interface{}{
		"user": map[string]string{"email": email, "password": password},
	}

	_, err := c.Post(ctx, "/users", body)

	return err
}

// Authorize verifies the stored token is still valid and returns the
// account it belongs to.
func (c *Client) Authorize(ctx context.Context) (*nimbus.User, error) {
	resp, err := c.Get(ctx, "/users/me", nil)
	if err != nil {
		return nil, err
	}

	var user nimbus.User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// Logout invalidates the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Delete(ctx, "/token")
	return err
}

// Collaborators lists users with access to a cloud.
func (c *Client) Collaborators(ctx context.Context, codeName string) ([]nimbus.Collaborator, error) {
	resp, err := c.Get(ctx, "/clouds/"+url.PathEscape(codeName)+"/users", nil)
	if err != nil {
		return nil, err
	}

	var collaborators []nimbus.Collaborator
	if err := json.Unmarshal(resp.Body, &collaborators); err != nil {
		return nil, fmt.Errorf("parsing collaborators response: %w", err)
	}

	return collaborators, nil
}

// InviteCollaborator grants a user access to a cloud by email.
func (c *Client) InviteCollaborator(ctx context.Context, codeName, email string) error {
	body := map[string]string{"email": email}

	_, err := c.Post(ctx, "/clouds/"+url.PathEscape(codeName)+"/users", body)

	return err
}
