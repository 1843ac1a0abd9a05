// Package api implements the HTTP gateway client for the Nimbus Cloud API.
// Every non-2xx response is normalized into a *nimbus.APIFailure; callers
// never see raw status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
)

const (
	defaultRetryMax     = 3
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 4 * time.Second
	defaultUserAgent    = "nimbus-cli"
)

// Client issues authenticated calls against one API endpoint.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*retryablehttp.Client, *Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(_ *retryablehttp.Client, c *Client) {
		c.userAgent = agent
	}
}

// WithRetryConfig overrides the transient-failure retry bounds.
func WithRetryConfig(max int, waitMin, waitMax time.Duration) Option {
	return func(rc *retryablehttp.Client, _ *Client) {
		rc.RetryMax = max
		rc.RetryWaitMin = waitMin
		rc.RetryWaitMax = waitMax
	}
}

// NewClient creates a client for the given endpoint. The token may be empty
// for unauthenticated calls (register, login).
func NewClient(baseURL, token string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = defaultRetryMax
	retryClient.RetryWaitMin = defaultRetryWaitMin
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.Logger = nil
	retryClient.CheckRetry = checkRetry

	client := &Client{
		baseURL:   baseURL,
		token:     token,
		userAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(retryClient, client)
	}

	client.httpClient = retryClient.StandardClient()

	return client
}

// SetToken replaces the authentication token, used after a fresh login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// checkRetry retries connection-level failures and upstream overload only.
// Gateway timeouts are surfaced to the user, not retried.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	if resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable {
		return true, nil
	}

	return false, nil
}

// Request is one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// Response is the raw body of a successful call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Do performs the request and returns the response, or a *nimbus.APIFailure
// for non-2xx statuses.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var body io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
	}

	return nil, parseFailure(resp.StatusCode, respBody)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// failureBody is the wire shape of an error response.
type failureBody struct {
	Message  string     `json:"message"`
	Error    string     `json:"error"`
	Errors   [][]string `json:"errors"`
	Resource string     `json:"resource"`
	State    string     `json:"state"`
	URL      string     `json:"url"`
}

// parseFailure normalizes a non-2xx response into an APIFailure. A body
// that is not valid JSON still produces a failure with the right class.
func parseFailure(statusCode int, body []byte) *nimbus.APIFailure {
	var parsed failureBody

	_ = json.Unmarshal(body, &parsed)

	message := parsed.Error
	if message == "" {
		message = parsed.Message
	}

	failure := &nimbus.APIFailure{
		StatusClass: statusClassFor(statusCode),
		Message:     message,
		Resource:    parsed.Resource,
		State:       parsed.State,
		URL:         parsed.URL,
	}

	for _, pair := range parsed.Errors {
		if len(pair) == 2 {
			failure.Errors = append(failure.Errors, nimbus.FieldError{Field: pair[0], Reason: pair[1]})
		}
	}

	return failure
}

func statusClassFor(statusCode int) nimbus.StatusClass {
	switch statusCode {
	case http.StatusUnauthorized:
		return nimbus.StatusUnauthorized
	case http.StatusForbidden:
		return nimbus.StatusForbidden
	case http.StatusNotFound:
		return nimbus.StatusNotFound
	case http.StatusConflict:
		return nimbus.StatusConflict
	case http.StatusLocked:
		return nimbus.StatusLocked
	case http.StatusUnprocessableEntity:
		return nimbus.StatusValidationFailed
	case http.StatusGatewayTimeout:
		return nimbus.StatusGatewayTimeout
	default:
		return nimbus.StatusUnknown
	}
}
