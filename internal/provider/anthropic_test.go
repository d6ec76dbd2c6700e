package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alnah/go-ebookgen"
)

func newTestMessenger(t *testing.T, handler http.HandlerFunc) *AnthropicMessenger {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m, err := NewAnthropicMessenger(AnthropicConfig{
		APIKey:         "test-key",
		Model:          "claude-test",
		MaxTokens:      128,
		RequestTimeout: 5 * time.Second,
		BaseURL:        srv.URL + "/",
	})
	if err != nil {
		t.Fatalf("NewAnthropicMessenger() error = %v", err)
	}
	return m
}

func TestNewAnthropicMessenger_MissingKey(t *testing.T) {
	t.Parallel()

	_, err := NewAnthropicMessenger(AnthropicConfig{APIKey: "  "})
	if !errors.Is(err, ebookgen.ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestNewAnthropicMessenger_Defaults(t *testing.T) {
	t.Parallel()

	m, err := NewAnthropicMessenger(AnthropicConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if m.Model() != DefaultModel || m.maxTokens != DefaultMaxTokens {
		t.Errorf("defaults = %q/%d", m.Model(), m.maxTokens)
	}
}

func TestAnthropicMessenger_Send(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	m := newTestMessenger(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("api key header = %q", r.Header.Get("X-Api-Key"))
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "## Flour"}, {"type": "text", "text": "\nStrong."}],
			"stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 3, "output_tokens": 4}
		}`)
	})

	got, err := m.Send(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got != "## Flour\nStrong." {
		t.Errorf("reply = %q", got)
	}
	if gotBody["model"] != "claude-test" || gotBody["max_tokens"] != float64(128) {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestAnthropicMessenger_SendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized is fatal", status: http.StatusUnauthorized, wantErr: ebookgen.ErrProviderUnavailable},
		{name: "forbidden is fatal", status: http.StatusForbidden, wantErr: ebookgen.ErrProviderUnavailable},
		{name: "bad request is per call", status: http.StatusBadRequest, wantErr: ErrRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMessenger(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
			})

			_, err := m.Send(context.Background(), "s", "u")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Send() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnthropicMessenger_EmptyReply(t *testing.T) {
	t.Parallel()

	m := newTestMessenger(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":0}}`)
	})

	if _, err := m.Send(context.Background(), "s", "u"); !errors.Is(err, ErrEmptyReply) {
		t.Errorf("Send() error = %v, want ErrEmptyReply", err)
	}
}

func TestClassifyError_Context(t *testing.T) {
	t.Parallel()

	if err := classifyError(context.Canceled); !errors.Is(err, context.Canceled) || errors.Is(err, ErrRequest) {
		t.Errorf("classifyError(Canceled) = %v", err)
	}
}
