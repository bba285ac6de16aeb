package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func chatReply(text string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": text}},
		},
	}
}

func testProfile() Profile {
	return Profile{Model: "gpt-4-turbo", MaxTokens: 150, Temperature: 0.5, TopP: 1, Instructions: "Sois bienveillant."}
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "gpt-4-turbo" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "Sois bienveillant. bonjour" {
			t.Errorf("messages = %+v, instructions should prefix the prompt", req.Messages)
		}

		json.NewEncoder(w).Encode(chatReply("  salut!  "))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	text, err := client.Complete(context.Background(), testProfile(), "bonjour")
	if err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
	if text != "salut!" {
		t.Errorf("Complete() = %q, want trimmed %q", text, "salut!")
	}
}

func TestCompleteRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(chatReply("recovered"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	text, err := client.Complete(context.Background(), testProfile(), "bonjour")
	if err != nil {
		t.Fatalf("Complete() unexpected error after retry: %v", err)
	}
	if text != "recovered" {
		t.Errorf("Complete() = %q, want %q", text, "recovered")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestCompleteGivesUpAfterOneRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	_, err := client.Complete(context.Background(), testProfile(), "bonjour")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Complete() error = %v, want ErrUnavailable", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestCompleteClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-key", time.Second)
	_, err := client.Complete(context.Background(), testProfile(), "bonjour")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Complete() error = %v, want ErrUnavailable", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1 (4xx must not be retried)", got)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	_, err := client.Complete(context.Background(), testProfile(), "bonjour")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Complete() error = %v, want ErrUnavailable", err)
	}
}

func TestCompleteNoInstructions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Messages[0].Content != "bonjour" {
			t.Errorf("content = %q, want bare prompt", req.Messages[0].Content)
		}
		json.NewEncoder(w).Encode(chatReply("ok"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	profile := testProfile()
	profile.Instructions = ""
	if _, err := client.Complete(context.Background(), profile, "bonjour"); err != nil {
		t.Fatalf("Complete() unexpected error: %v", err)
	}
}
