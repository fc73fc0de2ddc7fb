package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateReturnsReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"message":{"role":"assistant","content":"CODE: df.head()"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "testmodel")
	reply, err := c.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reply != "CODE: df.head()" {
		t.Fatalf("reply: %q", reply)
	}
}

// A failing server gets exactly one call and maps to the empty "unavailable"
// signal, never an error and never a retry.
func TestGenerateFailureIsSingleCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "testmodel")
	reply, err := c.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reply != "" {
		t.Fatalf("expected empty reply, got %q", reply)
	}
	if calls != 1 {
		t.Fatalf("calls: got %d want 1", calls)
	}
}
