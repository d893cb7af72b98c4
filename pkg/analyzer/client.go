// Package analyzer is the client for the remote website-analysis
// service. The service owns the analysis pipeline; this package only
// speaks its JSON API and normalizes failures into failed responses so
// the console never crashes on a bad upstream.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/SiteLensProject/sitelens/pkg/retry"
)

const (
	analyzePath = "/api/v1/website-analyser/analyze"
	getPath     = "/api/v1/website-analyser/get"
	listPath    = "/api/v1/website-analyser/list"
	pingPath    = "/api/v1/ping"

	userAgent = "sitelens/1.0"
)

// Config configures the analyzer client.
type Config struct {
	// BaseURL of the analysis API, without a trailing slash.
	BaseURL string

	// APIKey is sent as "Authorization: Bearer <key>" when set.
	APIKey string

	// OAuth, when non-nil, replaces the static API key with OAuth2
	// client-credentials tokens.
	OAuth *clientcredentials.Config

	// Timeout for analysis requests. Analysis can run minutes. Default: 5m.
	Timeout time.Duration

	// Retry controls transient-failure retries for read-only calls.
	// Zero value means retry.NetworkConfig().
	Retry retry.Config
}

// Client calls the remote website-analysis service.
type Client struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	retryCfg  retry.Config
	logger    *slog.Logger
}

// New creates an analyzer client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.NetworkConfig()
	}
	if cfg.Retry.RetryableFunc == nil {
		cfg.Retry.RetryableFunc = retry.IsTemporary
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.OAuth != nil {
		// Token source handles fetching and refreshing access tokens.
		httpClient = cfg.OAuth.Client(context.Background())
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		client:   httpClient,
		retryCfg: cfg.Retry,
		logger:   logger,
	}
}

// Analyze submits a website for analysis and waits for the result.
// Transport failures come back as a failed AnalysisResponse, not an
// error: the caller renders them like any other failed analysis.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) *AnalysisResponse {
	body, err := json.Marshal(req)
	if err != nil {
		return failedResponse(fmt.Sprintf("invalid analysis request: %v", err))
	}

	var resp AnalysisResponse
	if err := c.do(ctx, http.MethodPost, analyzePath, nil, body, &resp); err != nil {
		c.logger.Error("analysis request failed",
			slog.String("url", req.URL),
			slog.String("error", err.Error()))
		return failedResponse(transportMessage(err, c.baseURL))
	}
	if resp.Status == "" {
		resp.Status = StatusFailed
	}
	return &resp
}

// Get fetches a past analysis by ID.
func (c *Client) Get(ctx context.Context, analysisID string) (*AnalysisResponse, error) {
	params := url.Values{"analysis_id": {analysisID}}

	return retry.DoWithValue(ctx, c.retryCfg, func(ctx context.Context) (*AnalysisResponse, error) {
		var resp AnalysisResponse
		if err := c.do(ctx, http.MethodGet, getPath, params, nil, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
}

// List fetches a page of past analyses. urlFilter may be empty.
func (c *Client) List(ctx context.Context, page, limit int, urlFilter string) (*ListResponse, error) {
	params := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	if urlFilter != "" {
		params.Set("url_filter", urlFilter)
	}

	return retry.DoWithValue(ctx, c.retryCfg, func(ctx context.Context) (*ListResponse, error) {
		var resp ListResponse
		if err := c.do(ctx, http.MethodGet, listPath, params, nil, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
}

// Available probes the service's ping endpoint with a short deadline.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pingPath, nil)
	if err != nil {
		return false
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// Info returns connection details for diagnostics.
func (c *Client) Info(ctx context.Context) ConnectionInfo {
	return ConnectionInfo{
		BaseURL:   c.baseURL,
		HasAPIKey: c.apiKey != "",
		Available: c.Available(ctx),
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &apiError{status: resp.StatusCode, detail: errorDetail(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// apiError is a non-200 response from the service.
type apiError struct {
	status int
	detail string
}

func (e *apiError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("API request failed with status %d: %s", e.status, e.detail)
	}
	return fmt.Sprintf("API request failed with status %d", e.status)
}

// Temporary reports whether the status is worth retrying.
func (e *apiError) Temporary() bool {
	return e.status >= 500 || e.status == http.StatusTooManyRequests
}

// errorDetail pulls the service's error message out of a failure body.
func errorDetail(data []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}

func failedResponse(msg string) *AnalysisResponse {
	return &AnalysisResponse{Status: StatusFailed, Error: msg}
}

// transportMessage renders a transport error the way the console shows
// it to users.
func transportMessage(err error, baseURL string) string {
	if retry.IsTimeout(err) {
		return "Request timed out. The analysis might still be processing."
	}
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return fmt.Sprintf("Failed to connect to API at %s. Please check the URL.", baseURL)
}
