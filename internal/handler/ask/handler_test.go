package ask

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/okrause/elaborate/internal/config"
	"github.com/okrause/elaborate/internal/service/assistant"
)

type fakeGenerator struct {
	transcript   string
	systemPrompt string
	reply        string
	err          error
}

func (f *fakeGenerator) Elaborate(ctx context.Context, transcript, systemPrompt string) (string, error) {
	f.transcript = transcript
	f.systemPrompt = systemPrompt
	return f.reply, f.err
}

func newTestServer(gen *fakeGenerator) *httptest.Server {
	r := chi.NewRouter()
	h := New(gen, config.PromptConfig{Initial: "initial", Followup: "followup default"})
	h.RegisterRoutes(r)
	return httptest.NewServer(r)
}

func postAsk(t *testing.T, url, body string) (*http.Response, assistant.AskResponse) {
	t.Helper()
	resp, err := http.Post(url+"/ask", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var parsed assistant.AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return resp, parsed
}

func TestHandleAskSuccess(t *testing.T) {
	gen := &fakeGenerator{reply: "it means hello"}
	srv := newTestServer(gen)
	defer srv.Close()

	resp, parsed := postAsk(t, srv.URL, `{"transcript":"hola","systemPrompt":"translate"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if parsed.Response != "it means hello" || parsed.Error != "" {
		t.Fatalf("unexpected reply: %+v", parsed)
	}
	if gen.transcript != "hola" || gen.systemPrompt != "translate" {
		t.Fatalf("unexpected generator input: %+v", gen)
	}
}

func TestHandleAskDefaultsSystemPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	srv := newTestServer(gen)
	defer srv.Close()

	postAsk(t, srv.URL, `{"transcript":"You: hi"}`)

	if gen.systemPrompt != "followup default" {
		t.Fatalf("expected follow-up default, got %q", gen.systemPrompt)
	}
}

func TestHandleAskBadBody(t *testing.T) {
	gen := &fakeGenerator{}
	srv := newTestServer(gen)
	defer srv.Close()

	resp, parsed := postAsk(t, srv.URL, `{"transcript":`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if parsed.Error == "" {
		t.Fatal("expected error field")
	}
}

func TestHandleAskGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model exploded")}
	srv := newTestServer(gen)
	defer srv.Close()

	resp, parsed := postAsk(t, srv.URL, `{"transcript":"x"}`)

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if parsed.Error != "completion failed" {
		t.Fatalf("unexpected error body: %+v", parsed)
	}
}
