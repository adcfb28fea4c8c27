package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the Lunch Money v1 API.
const DefaultBaseURL = "https://dev.lunchmoney.app/v1"

// Getter fetches a JSON document by API path.
type Getter interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// TokenSource resolves the API token for a request. An empty token sends no credential.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

// Client talks to the Lunch Money API and classifies every failure into an *Error.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	logger  *log.Logger
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.token = ts
	}
}

func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  log.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RequestConfig describes a single API call.
type RequestConfig struct {
	Path   string
	Method string
	Query  url.Values
	Body   any
	Header http.Header
	// AuthToken overrides the client's TokenSource when set.
	AuthToken *string
}

// Get performs a GET request and returns the raw JSON body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.Request(ctx, RequestConfig{Path: path, Method: http.MethodGet})
}

// Request performs the call described by cfg. A 204 response yields a nil body.
func (c *Client) Request(ctx context.Context, cfg RequestConfig) ([]byte, error) {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := c.buildURL(cfg.Path, cfg.Query)
	if err != nil {
		return nil, c.fail(NewParseError("Invalid request URL", err.Error()), method, cfg.Path)
	}

	body, err := encodeBody(cfg.Body)
	if err != nil {
		return nil, c.fail(NewParseError("Failed to serialize request body", err.Error()), method, target)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, c.fail(NewNetworkError(err), method, target)
	}

	for k, values := range cfg.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.resolveToken(ctx, cfg.AuthToken)
	if err != nil {
		return nil, c.fail(&Error{Kind: KindAuthentication, Message: "Failed to resolve API token", Err: err}, method, target)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(NewNetworkError(err), method, target)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(NewNetworkError(err), method, target)
	}

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details := errorDetails(contentType, data)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, c.fail(NewAuthenticationError(resp.StatusCode, details), method, target)
		}
		return nil, c.fail(NewHTTPError(resp.StatusCode, details), method, target)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if !strings.Contains(contentType, "application/json") {
		return nil, c.fail(NewParseError("Unexpected response content type", map[string]any{
			"contentType": contentType,
			"url":         target,
			"status":      resp.StatusCode,
		}), method, target)
	}

	if !gjson.ValidBytes(data) {
		return nil, c.fail(NewParseError("Failed to parse response body", map[string]any{
			"url":         target,
			"status":      resp.StatusCode,
			"contentType": contentType,
		}), method, target)
	}

	return data, nil
}

func (c *Client) resolveToken(ctx context.Context, override *string) (string, error) {
	if override != nil {
		return *override, nil
	}

	if c.token == nil {
		return "", nil
	}

	return c.token(ctx)
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		raw = strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse url %q: %w", raw, err)
	}

	if len(query) > 0 {
		q := u.Query()
		for k, values := range query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}

func errorDetails(contentType string, data []byte) any {
	if len(data) == 0 {
		return nil
	}

	if strings.Contains(contentType, "application/json") && gjson.ValidBytes(data) {
		return json.RawMessage(data)
	}

	return string(data)
}

// fail logs the failure once with sensitive values redacted and returns it.
func (c *Client) fail(err *Error, method, target string) error {
	c.logger.Error("lunch money request failed",
		"action", failureAction(err.Kind),
		"kind", err.Kind,
		"message", err.Message,
		"status", err.Status,
		"method", method,
		"url", target,
		"details", Redact(err.Details),
	)

	return err
}

func failureAction(kind Kind) string {
	switch kind {
	case KindAuthentication:
		return "request.auth"
	case KindNetwork:
		return "request.network"
	case KindParse:
		return "response.parse"
	default:
		return "request.http"
	}
}
