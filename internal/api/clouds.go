package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
)

// Clouds lists every cloud the authenticated user has access to.
func (c *Client) Clouds(ctx context.Context) ([]nimbus.Cloud, error) {
	resp, err := c.Get(ctx, "/clouds", nil)
	if err != nil {
		return nil, fmt.Errorf("listing clouds: %w", err)
	}

	var clouds []nimbus.Cloud
	if err := json.Unmarshal(resp.Body, &clouds); err != nil {
		return nil, fmt.Errorf("parsing clouds response: %w", err)
	}

	return clouds, nil
}

// Cloud fetches the attributes of one cloud.
func (c *Client) Cloud(ctx context.Context, codeName string) (*nimbus.Cloud, error) {
	resp, err := c.Get(ctx, "/clouds/"+url.PathEscape(codeName), nil)
	if err != nil {
		return nil, fmt.Errorf("getting cloud: %w", err)
	}

	var cloud nimbus.Cloud
	if err := json.Unmarshal(resp.Body, &cloud); err != nil {
		return nil, fmt.Errorf("parsing cloud response: %w", err)
	}

	return &cloud, nil
}

// CreateCloud registers a new cloud. The caller writes local artifacts
// (Cloudfile, git remote) only after this call succeeds.
func (c *Client) CreateCloud(ctx context.Context, req *nimbus.CloudCreateRequest) (*nimbus.Cloud, error) {
	resp, err := c.Post(ctx, "/clouds", req)
	if err != nil {
		return nil, err
	}

	var cloud nimbus.Cloud
	if err := json.Unmarshal(resp.Body, &cloud); err != nil {
		return nil, fmt.Errorf("parsing cloud response: %w", err)
	}

	return &cloud, nil
}

// DeleteCloud schedules removal of a cloud and all its data.
func (c *Client) DeleteCloud(ctx context.Context, codeName string) error {
	_, err := c.Delete(ctx, "/clouds/"+url.PathEscape(codeName))
	return err
}

// deploymentHandle is the wire shape returned by mutating lifecycle calls.
type deploymentHandle struct {
	Deployment struct {
		ID string `json:"id"`
	} `json:"deployment"`
}

func (c *Client) lifecycleCall(ctx context.Context, codeName, action string) (string, error) {
	resp, err := c.Post(ctx, "/clouds/"+url.PathEscape(codeName)+"/"+action, nil)
	if err != nil {
		return "", err
	}

	var handle deploymentHandle
	if err := json.Unmarshal(resp.Body, &handle); err != nil {
		return "", fmt.Errorf("parsing deployment handle: %w", err)
	}

	return handle.Deployment.ID, nil
}

// StartCloud asks the platform to start the cloud and returns the
// deployment handle to poll.
func (c *Client) StartCloud(ctx context.Context, codeName string) (string, error) {
	return c.lifecycleCall(ctx, codeName, "start")
}

// StopCloud asks the platform to shut the cloud down.
func (c *Client) StopCloud(ctx context.Context, codeName string) (string, error) {
	return c.lifecycleCall(ctx, codeName, "stop")
}

// RedeployCloud asks the platform to redeploy the current code.
func (c *Client) RedeployCloud(ctx context.Context, codeName string) (string, error) {
	return c.lifecycleCall(ctx, codeName, "redeploy")
}

// Deployment fetches the current status of one deployment.
func (c *Client) Deployment(ctx context.Context, codeName, deploymentID string) (*nimbus.Deployment, error) {
	path := "/clouds/" + url.PathEscape(codeName) + "/deployments/" + url.PathEscape(deploymentID)

	resp, err := c.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var deployment nimbus.Deployment
	if err := json.Unmarshal(resp.Body, &deployment); err != nil {
		return nil, fmt.Errorf("parsing deployment response: %w", err)
	}

	return &deployment, nil
}

// LastDeployment fetches the most recent deployment of a cloud.
func (c *Client) LastDeployment(ctx context.Context, codeName string) (*nimbus.Deployment, error) {
	return c.Deployment(ctx, codeName, "last")
}

// Statistics fetches per-server usage numbers for a running cloud.
func (c *Client) Statistics(ctx context.Context, codeName string) ([]nimbus.ServerStatistics, error) {
	resp, err := c.Get(ctx, "/clouds/"+url.PathEscape(codeName)+"/statistics", nil)
	if err != nil {
		return nil, err
	}

	var stats []nimbus.ServerStatistics
	if err := json.Unmarshal(resp.Body, &stats); err != nil {
		return nil, fmt.Errorf("parsing statistics response: %w", err)
	}

	return stats, nil
}

// Tunnel requests SSH connection details for a cloud's virtual server.
// service selects what the tunnel is for (ssh, dbconsole); server picks a
// specific virtual server, empty for the default.
func (c *Client) Tunnel(ctx context.Context, codeName, service, server string) (*nimbus.Tunnel, error) {
	query := url.Values{"service": []string{service}}
	if server != "" {
		query.Set("server", server)
	}

	resp, err := c.Get(ctx, "/clouds/"+url.PathEscape(codeName)+"/tunnel", query)
	if err != nil {
		return nil, err
	}

	var tunnel nimbus.Tunnel
	if err := json.Unmarshal(resp.Body, &tunnel); err != nil {
		return nil, fmt.Errorf("parsing tunnel response: %w", err)
	}

	return &tunnel, nil
}
