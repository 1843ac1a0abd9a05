package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
)

// Backups lists database backups for a cloud, newest first.
func (c *Client) Backups(ctx context.Context, codeName string) ([]nimbus.Backup, error) {
	resp, err := c.Get(ctx, "/clouds/"+url.PathEscape(codeName)+"/database_backups", nil)
	if err != nil {
		return nil, err
	}

	var backups []nimbus.Backup
	if err := json.Unmarshal(resp.Body, &backups); err != nil {
		return nil, fmt.Errorf("parsing backups response: %w", err)
	}

	return backups, nil
}

// BackupDownloadURL asks for a pre-signed URL for one backup archive.
func (c *Client) BackupDownloadURL(ctx context.Context, codeName, filename string) (string, error) {
	path := "/clouds/" + url.PathEscape(codeName) + "/database_backups/" + url.PathEscape(filename) + "/download_url"

	resp, err := c.Get(ctx, path, nil)
	if err != nil {
		return "", err
	}

	var parsed struct {
		URL string `json:"url"`
	}

	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", fmt.Errorf("parsing download url response: %w", err)
	}

	return parsed.URL, nil
}

// DownloadBackup streams a backup archive to dest, reporting received byte
// counts through progress (which may be nil).
func (c *Client) DownloadBackup(ctx context.Context, downloadURL, dest string, progress func(n int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading backup: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading backup: unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() { _ = out.Close() }()

	buf := make([]byte, 64*1024)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("writing %s: %w", dest, writeErr)
			}

			if progress != nil {
				progress(int64(n))
			}
		}

		if readErr == io.EOF {
			return nil
		}

		if readErr != nil {
			return fmt.Errorf("reading backup stream: %w", readErr)
		}
	}
}
