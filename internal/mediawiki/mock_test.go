package mediawiki

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/olgasafonova/mediawiki-mcp-server/internal/base"
)

// recordedRequest is one api.php call seen by the mock wiki.
type recordedRequest struct {
	Method string
	Params url.Values
}

// mockWiki is an httptest api.php that answers by handler and records every
// request it receives.
type mockWiki struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (m *mockWiki) record(r recordedRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, r)
}

func (m *mockWiki) calls() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

// callsFor returns the recorded requests with the given action.
func (m *mockWiki) callsFor(action string) []recordedRequest {
	var out []recordedRequest
	for _, r := range m.calls() {
		if r.Params.Get("action") == action {
			out = append(out, r)
		}
	}
	return out
}

// wikiHandler returns the HTTP status and body for a request.
type wikiHandler func(method string, params url.Values) (int, string)

// jsonBody answers every request with 200 and body.
func jsonBody(body string) wikiHandler {
	return func(string, url.Values) (int, string) {
		return http.StatusOK, body
	}
}

// writeFlow answers token requests with tokenBody and everything else with
// submitBody.
func writeFlow(tokenBody, submitBody string) wikiHandler {
	return func(method string, params url.Values) (int, string) {
		if params.Get("meta") == "tokens" {
			return http.StatusOK, tokenBody
		}
		return http.StatusOK, submitBody
	}
}

const validToken = `{"batchcomplete":"","query":{"tokens":{"csrftoken":"abc123+\\"}}}`

func newMockWiki(t *testing.T, handler wikiHandler) (*Client, *mockWiki) {
	t.Helper()

	mock := &mockWiki{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != base.APIPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		params := r.URL.Query()
		if r.Method == http.MethodPost {
			params = r.PostForm
		}
		mock.record(recordedRequest{Method: r.Method, Params: params})

		status, body := handler(r.Method, params)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	cfg := &base.Config{BaseURL: server.URL, UserAgent: "test-agent/1.0", Timeout: 5 * time.Second}
	client := NewClient(cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return client, mock
}
