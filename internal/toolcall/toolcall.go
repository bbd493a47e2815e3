// Package toolcall models remote tool invocations and the normalization of
// their heterogeneous results into JSON-shaped values.
package toolcall

import (
	"context"
	"errors"
)

// Sentinel errors for tool invocations.
var (
	// ErrToolUnavailable indicates the tool endpoint is down or the circuit breaker is open.
	ErrToolUnavailable = errors.New("tool provider unavailable")
	// ErrToolNotFound indicates the named tool is not exposed by the provider.
	ErrToolNotFound = errors.New("tool not found")
	// ErrRateLimitExceeded indicates the tool provider quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Invoker executes a named remote tool with the given arguments and returns
// the opaque result container. Implementations own transport, timeouts and
// retries; callers own interpretation of the RawResult.
type Invoker interface {
	Invoke(ctx context.Context, tool string, args map[string]any) (*RawResult, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// RawResult is the opaque response container from a tool invocation.
// Providers disagree about where the payload lives: some fill Structured
// with a decoded object or array (or a JSON string), some emit one or more
// content blocks, some do both. Normalize sorts it out.
type RawResult struct {
	// Structured is the provider's structured output: a decoded object or
	// array, a JSON-encoded string, or nil when absent.
	Structured any

	// Content is the ordered sequence of content blocks, if any.
	Content []any
}

// TextBlock is the common content block shape carrying plain text.
type TextBlock struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// Dumper is implemented by content blocks that only expose their fields
// through a dump-to-mapping method.
type Dumper interface {
	Dump() map[string]any
}

// BlockText extracts the text of a single content block. Blocks show up in
// three shapes: a TextBlock (or pointer to one), a plain mapping with a
// "text" key, or a value implementing Dumper. Returns false when the block
// carries no text.
func BlockText(block any) (string, bool) {
	switch b := block.(type) {
	case nil:
		return "", false
	case TextBlock:
		return b.Text, b.Text != ""
	case *TextBlock:
		if b == nil {
			return "", false
		}
		return b.Text, b.Text != ""
	case map[string]any:
		if text, ok := b["text"].(string); ok && text != "" {
			return text, true
		}
		return "", false
	}
	if d, ok := block.(Dumper); ok {
		if text, ok := d.Dump()["text"].(string); ok && text != "" {
			return text, true
		}
	}
	return "", false
}

// Error provides detailed error information from a tool provider.
type Error struct {
	Provider string // Provider that generated the error
	Tool     string // Tool that was invoked
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
