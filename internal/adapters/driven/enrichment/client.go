// Package enrichment provides the HTTP adapter for the remote enrichment
// service that summarises and tags travel products.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tagger-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Processor = (*Client)(nil)

// Failure messages for outcomes without a response body.
const (
	MessageTimeout   = "processing exceeded time budget"
	MessageMalformed = "malformed response"
)

// Config holds configuration for the enrichment client.
type Config struct {
	// Endpoint is the processing URL (required).
	Endpoint string

	// Timeout bounds the whole call, including reading the body
	// (default: domain.DefaultTimeout).
	Timeout time.Duration

	// APIToken is sent as a bearer token when set.
	APIToken string

	// HTTPClient supplies the base transport. Optional.
	HTTPClient *http.Client
}

// Client submits spreadsheets to the enrichment endpoint.
type Client struct {
	client   *http.Client
	endpoint string
}

// processResponse is the success body. Every field is optional, and a
// field of the wrong shape decodes to its zero value.
type processResponse struct {
	ResultsSummary json.RawMessage `json:"results_summary"`
	DownloadURL    json.RawMessage `json:"download_url"`
}

type resultsSummary struct {
	TotalProducts       count `json:"total_products"`
	SuccessfulSummaries count `json:"successful_summaries"`
	SuccessfulTags      count `json:"successful_tags"`
}

// count accepts integers, integral floats such as 10.0 and numeric
// strings. Anything else is 0.
type count int

// maxExactCount is the largest integer a float64 holds exactly.
const maxExactCount = 1 << 53

func (c *count) UnmarshalJSON(data []byte) error {
	*c = 0

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if f != math.Trunc(f) || math.Abs(f) > maxExactCount {
		return nil
	}
	*c = count(f)
	return nil
}

// NewClient creates a new enrichment client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("enrichment: endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeout
	}

	var base http.RoundTripper
	if cfg.HTTPClient != nil {
		base = cfg.HTTPClient.Transport
	}

	client := &http.Client{
		Transport: base,
		Timeout:   cfg.Timeout,
	}
	if cfg.APIToken != "" {
		client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken}),
			Base:   base,
		}
	}

	return &Client{
		client:   client,
		endpoint: cfg.Endpoint,
	}, nil
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit sends one request and classifies the outcome. It never retries.
func (c *Client) Submit(
	ctx context.Context,
	payload domain.EncodedPayload,
	fileName, bucket string,
) domain.ProcessingResult {
	reqBody := domain.ProcessingRequest{
		FileContent:  payload.Content,
		FileName:     fileName,
		TargetBucket: bucket,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return domain.Failed(domain.FailureNetwork, fmt.Sprintf("marshal request: %v", err), 0, "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return domain.Failed(domain.FailureNetwork, fmt.Sprintf("create request: %v", err), 0, "")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(err)
	}

	logger.Debug("Response status: %d", resp.StatusCode)
	logger.Debug("Response headers: %v", resp.Header)

	if resp.StatusCode != http.StatusOK {
		text := string(body)
		return domain.Failed(domain.FailureRemote, text, resp.StatusCode, text)
	}

	var parsed processResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		logger.Debug("Decode response: %v", err)
		return domain.Failed(domain.FailureRemote, MessageMalformed, resp.StatusCode, string(body))
	}

	return domain.Succeeded(decodeSummary(parsed.ResultsSummary), decodeURL(parsed.DownloadURL))
}

func decodeSummary(raw json.RawMessage) domain.ResultsSummary {
	var s resultsSummary
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s); err != nil {
			logger.Debug("Ignoring results_summary: %v", err)
		}
	}
	return domain.ResultsSummary{
		TotalProducts:       nonNegative(int(s.TotalProducts)),
		SuccessfulSummaries: nonNegative(int(s.SuccessfulSummaries)),
		SuccessfulTags:      nonNegative(int(s.SuccessfulTags)),
	}
}

func decodeURL(raw json.RawMessage) string {
	var url string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &url); err != nil {
			logger.Debug("Ignoring download_url: %v", err)
		}
	}
	return url
}

// transportFailure classifies a failure that produced no usable response.
// Timeouts are checked first so they never surface as network errors.
func transportFailure(err error) domain.ProcessingResult {
	if isTimeout(err) {
		return domain.Failed(domain.FailureTimeout, MessageTimeout, 0, "")
	}
	return domain.Failed(domain.FailureNetwork, err.Error(), 0, "")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
