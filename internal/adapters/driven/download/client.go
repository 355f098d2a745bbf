// Package download fetches enhanced spreadsheets from the URLs returned by
// the enrichment service.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tagger-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Downloader = (*Client)(nil)

// Config holds configuration for the download client.
type Config struct {
	// Timeout bounds a single download. Zero means no limit.
	Timeout time.Duration

	// HTTPClient supplies the base transport. Optional.
	HTTPClient *http.Client
}

// Client downloads artifacts with a plain GET.
// Download URLs are typically presigned so no credentials are attached.
type Client struct {
	client *http.Client
}

// NewClient creates a new download client.
func NewClient(cfg Config) *Client {
	var transport http.RoundTripper
	if cfg.HTTPClient != nil {
		transport = cfg.HTTPClient.Transport
	}
	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// Fetch returns the body of url when it answers 200.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &domain.DownloadError{Message: fmt.Sprintf("create request: %v", err)}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.DownloadError{Message: err.Error()}
	}
	defer resp.Body.Close()

	logger.Debug("Download status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.DownloadError{HTTPStatus: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.DownloadError{Message: fmt.Sprintf("read body: %v", err)}
	}
	return data, nil
}
