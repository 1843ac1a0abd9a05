package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
)

// Organizations lists the organizations the user belongs to.
func (c *Client) Organizations(ctx context.Context) ([]nimbus.Organization, error) {
	resp, err := c.Get(ctx, "/organizations", nil)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	var orgs []nimbus.Organization
	if err := json.Unmarshal(resp.Body, &orgs); err != nil {
		return nil, fmt.Errorf("parsing organizations response: %w", err)
	}

	return orgs, nil
}

// CreateOrganization creates a new billing organization.
func (c *Client) CreateOrganization(ctx context.Context, req *nimbus.OrganizationCreateRequest) (*nimbus.Organization, error) {
	resp, err := c.Post(ctx, "/organizations", req)
	if err != nil {
		return nil, err
	}

	var org nimbus.Organization
	if err := json.Unmarshal(resp.Body, &org); err != nil {
		return nil, fmt.Errorf("parsing organization response: %w", err)
	}

	return &org, nil
}
