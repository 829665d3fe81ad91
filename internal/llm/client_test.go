package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newChatMockServer returns a test server that replies to every chat
// completion with the given content string.
func newChatMockServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
}

func TestAnalyzeSpending(t *testing.T) {
	srv := newChatMockServer(t, "You spent most on food this month.")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	got, err := c.AnalyzeSpending(context.Background(), "food: $120")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "You spent most on food this month." {
		t.Errorf("unexpected content: %q", got)
	}
}

func TestAnalyzeSpendingServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	if _, err := c.AnalyzeSpending(context.Background(), "digest"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestExtractReceipt(t *testing.T) {
	srv := newChatMockServer(t, "```json\n{\"amount\": 1250, \"category\": \"food\", \"description\": \"Corner Deli\", \"date\": \"2025-03-14\"}\n```")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	draft, err := c.ExtractReceipt(context.Background(), "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Amount != 1250 {
		t.Errorf("expected amount 1250, got %d", draft.Amount)
	}
	if draft.Category != "food" {
		t.Errorf("expected category food, got %s", draft.Category)
	}
	if draft.Date != "2025-03-14" {
		t.Errorf("expected date 2025-03-14, got %s", draft.Date)
	}
}

func TestExtractReceiptMalformedReply(t *testing.T) {
	srv := newChatMockServer(t, "sorry, I cannot read this image")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	if _, err := c.ExtractReceipt(context.Background(), "data:image/png;base64,AAAA"); err == nil {
		t.Fatal("expected error for non-JSON reply")
	}
}
