package httpinvoker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/toolcall"
)

func TestClient_Invoke_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
		}

		var req invokeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Name != "trivago-search-suggestions" {
			t.Errorf("expected tool name trivago-search-suggestions, got %q", req.Name)
		}
		if req.Arguments["query"] != "Alicante" {
			t.Errorf("expected query Alicante, got %v", req.Arguments["query"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"structuredContent": {"output": [{"ID": 3848, "NS": 200}]},
			"content": [{"type": "text", "text": "{\"output\":[{\"ID\":3848,\"NS\":200}]}"}]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Name:       "trivago",
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})

	res, err := client.Invoke(context.Background(), "trivago-search-suggestions", map[string]any{"query": "Alicante"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Structured == nil {
		t.Error("expected structured content to be set")
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(res.Content))
	}

	// The raw result must normalize downstream without loss.
	v := toolcall.Normalize(res)
	obj, ok := v.AsObject()
	if !ok {
		t.Fatalf("expected object, got %v", v.Kind())
	}
	if _, ok := obj["output"]; !ok {
		t.Error("expected output key in normalized value")
	}
}

func TestClient_Invoke_ToolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"isError": true, "content": [{"type": "text", "text": "boom"}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Name:       "trivago",
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})

	_, err := client.Invoke(context.Background(), "trivago-accommodation-search", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var toolErr *toolcall.Error
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected toolcall.Error, got %T", err)
	}
	if !errors.Is(toolErr.Err, toolcall.ErrToolUnavailable) {
		t.Errorf("expected ErrToolUnavailable, got %v", toolErr.Err)
	}
	if toolErr.Tool != "trivago-accommodation-search" {
		t.Errorf("expected tool name on error, got %q", toolErr.Tool)
	}
}

func TestClient_Invoke_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Name:       "geotemp",
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})

	_, err := client.Invoke(context.Background(), "get_tides", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var toolErr *toolcall.Error
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected toolcall.Error, got %T", err)
	}
	if !errors.Is(toolErr.Err, toolcall.ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", toolErr.Err)
	}
}

func TestClient_Invoke_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		Name:       "trivago",
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})

	_, err := client.Invoke(context.Background(), "trivago-search-suggestions", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var toolErr *toolcall.Error
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected toolcall.Error, got %T", err)
	}
	if !errors.Is(toolErr.Err, toolcall.ErrRateLimitExceeded) {
		t.Errorf("expected ErrRateLimitExceeded, got %v", toolErr.Err)
	}
}

func TestClient_Invoke_NetworkError(t *testing.T) {
	client := NewClient(ClientConfig{
		Name:       "trivago",
		Endpoint:   "http://127.0.0.1:1",
		HTTPClient: &failingDoer{},
		Logger:     zerolog.Nop(),
	})

	_, err := client.Invoke(context.Background(), "trivago-search-suggestions", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var toolErr *toolcall.Error
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected toolcall.Error, got %T", err)
	}
	if !errors.Is(toolErr.Err, toolcall.ErrToolUnavailable) {
		t.Errorf("expected ErrToolUnavailable, got %v", toolErr.Err)
	}
}

type failingDoer struct{}

func (f *failingDoer) Do(req *http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}
