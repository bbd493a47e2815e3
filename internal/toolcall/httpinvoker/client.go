// Package httpinvoker provides a tool invoker that posts tool calls to a
// remote tool server over HTTP.
package httpinvoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/provider/resilience"
	"github.com/farescout/farescout/internal/toolcall"
)

const (
	// DefaultTimeout is the default request timeout. Tool servers do
	// remote lookups of their own, so this is generous.
	DefaultTimeout = 30 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the tool invoker.
type ClientConfig struct {
	// Name identifies this tool provider (e.g. "trivago", "geotemp").
	Name string

	// Endpoint is the tool server URL (required).
	Endpoint string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 30s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for invoker operations.
	Logger zerolog.Logger
}

// Client invokes named tools on a remote tool server.
type Client struct {
	name       string
	endpoint   string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// invokeRequest is the wire request for a tool call.
type invokeRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// invokeResponse is the wire response for a tool call.
type invokeResponse struct {
	StructuredContent any   `json:"structuredContent"`
	Content           []any `json:"content"`
	IsError           bool  `json:"isError"`
}

// NewClient creates a new tool invoker client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(cfg.Name)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		name:       cfg.Name,
		endpoint:   cfg.Endpoint,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the tool provider name.
func (c *Client) Name() string {
	return c.name
}

// Invoke calls a named tool with the given arguments and returns its raw
// result. The result shape is opaque here; callers normalize it.
func (c *Client) Invoke(ctx context.Context, tool string, args map[string]any) (*toolcall.RawResult, error) {
	body, err := json.Marshal(invokeRequest{Name: tool, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("marshaling tool call: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("tool", tool).
		Str("provider", c.name).
		Msg("invoking remote tool")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &toolcall.Error{
			Provider: c.name,
			Tool:     tool,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach tool server",
			Err:      toolcall.ErrToolUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(tool, resp.StatusCode)
	}

	var wire invokeResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if wire.IsError {
		return nil, &toolcall.Error{
			Provider: c.name,
			Tool:     tool,
			Code:     "TOOL_ERROR",
			Message:  "tool reported an execution error",
			Err:      toolcall.ErrToolUnavailable,
		}
	}

	return &toolcall.RawResult{
		Structured: wire.StructuredContent,
		Content:    wire.Content,
	}, nil
}

func (c *Client) handleErrorResponse(tool string, statusCode int) error {
	switch statusCode {
	case http.StatusTooManyRequests:
		return &toolcall.Error{
			Provider: c.name,
			Tool:     tool,
			Code:     "RATE_LIMIT",
			Message:  "tool server rate limit exceeded",
			Err:      toolcall.ErrRateLimitExceeded,
		}
	case http.StatusNotFound:
		return &toolcall.Error{
			Provider: c.name,
			Tool:     tool,
			Code:     "TOOL_NOT_FOUND",
			Message:  fmt.Sprintf("tool %q is not exposed by this server", tool),
			Err:      toolcall.ErrToolNotFound,
		}
	default:
		return &toolcall.Error{
			Provider: c.name,
			Tool:     tool,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("tool server returned status %d", statusCode),
			Err:      toolcall.ErrToolUnavailable,
		}
	}
}
