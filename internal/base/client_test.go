package base

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	apierrors "github.com/olgasafonova/mediawiki-mcp-server/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &Config{BaseURL: server.URL, UserAgent: "test-agent/1.0", Timeout: 5 * time.Second}
	return NewClient(cfg)
}

func TestNewClient(t *testing.T) {
	cfg := &Config{BaseURL: "https://wiki.example.org/w", UserAgent: "ua", Timeout: 3 * time.Second}
	client := NewClient(cfg)

	if client.HTTPClient == nil {
		t.Fatal("HTTPClient is nil")
	}
	if client.Logger == nil {
		t.Error("Logger is nil")
	}
	if client.HTTPClient.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", client.HTTPClient.Timeout)
	}
	if client.Endpoint() != "https://wiki.example.org/w/api.php" {
		t.Errorf("Endpoint = %q", client.Endpoint())
	}
}

func TestNewClientWithOptions(t *testing.T) {
	customHTTP := &http.Client{Timeout: time.Second}
	customLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := NewClient(&Config{BaseURL: "http://localhost"},
		WithHTTPClient(customHTTP),
		WithLogger(customLogger),
	)

	if client.HTTPClient != customHTTP {
		t.Error("custom HTTP client not applied")
	}
	if client.Logger != customLogger {
		t.Error("custom logger not applied")
	}
}

func TestBuildURL(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://wiki.local"})
	params := url.Values{"action": {"query"}, "titles": {"Main Page"}}

	got := client.BuildURL(params)

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("BuildURL returned unparsable URL %q: %v", got, err)
	}
	if u.Path != "/api.php" {
		t.Errorf("path = %q, want /api.php", u.Path)
	}
	q := u.Query()
	if q.Get("format") != "json" {
		t.Errorf("format = %q, want json", q.Get("format"))
	}
	if q.Get("titles") != "Main Page" {
		t.Errorf("titles = %q, want 'Main Page'", q.Get("titles"))
	}
	if params.Get("format") != "" {
		t.Error("BuildURL must not modify the caller's params")
	}
}

func TestGet_SendsQueryAndHeaders(t *testing.T) {
	var gotMethod, gotUA, gotAccept, gotAction string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotAction = r.URL.Query().Get("action")
		_, _ = w.Write([]byte(`{"batchcomplete":""}`))
	})

	body, err := client.Get(context.Background(), url.Values{"action": {"query"}})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if string(body) != `{"batchcomplete":""}` {
		t.Errorf("body = %q", string(body))
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %q, want GET", gotMethod)
	}
	if gotUA != "test-agent/1.0" {
		t.Errorf("User-Agent = %q, want 'test-agent/1.0'", gotUA)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if gotAction != "query" {
		t.Errorf("action = %q, want query", gotAction)
	}
}

func TestPost_SendsForm(t *testing.T) {
	var gotMethod, gotContentType, gotTitle, gotFormat string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotTitle = r.PostForm.Get("title")
		gotFormat = r.PostForm.Get("format")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Post(context.Background(), url.Values{"action": {"edit"}, "title": {"Sandbox"}})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotTitle != "Sandbox" {
		t.Errorf("title = %q, want Sandbox", gotTitle)
	}
	if gotFormat != "json" {
		t.Errorf("format = %q, want json", gotFormat)
	}
}

func TestGet_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("  upstream unavailable \n"))
	})

	_, err := client.Get(context.Background(), url.Values{"action": {"query"}})
	if err == nil {
		t.Fatal("expected error for 502")
	}

	var httpErr *apierrors.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", httpErr.StatusCode)
	}
	if httpErr.Body != "upstream unavailable" {
		t.Errorf("Body = %q, want trimmed body", httpErr.Body)
	}
}

func TestGet_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, url.Values{"action": {"query"}})
	if err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestGet_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(&Config{BaseURL: endpoint, Timeout: time.Second})
	_, err := client.Get(context.Background(), url.Values{"action": {"query"}})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if apierrors.Code(err) != "transport" {
		t.Errorf("Code = %q, want transport", apierrors.Code(err))
	}
}

func TestPageParam(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		want   string
	}{
		{"title", url.Values{"title": {"A"}}, "A"},
		{"titles", url.Values{"titles": {"B"}}, "B"},
		{"title wins", url.Values{"title": {"A"}, "titles": {"B"}}, "A"},
		{"none", url.Values{"action": {"query"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pageParam(tt.params); got != tt.want {
				t.Errorf("pageParam() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"longer than max length", 10, "longer tha..."},
		{"", 5, ""},
		{"abc", 0, "..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

func TestReadAndClose(t *testing.T) {
	t.Run("normal response", func(t *testing.T) {
		resp := &http.Response{Body: io.NopCloser(strings.NewReader("test response body"))}

		data, err := readAndClose(resp)
		if err != nil {
			t.Fatalf("readAndClose failed: %v", err)
		}
		if string(data) != "test response body" {
			t.Errorf("got %q, want 'test response body'", string(data))
		}
	})

	t.Run("empty response", func(t *testing.T) {
		resp := &http.Response{Body: io.NopCloser(strings.NewReader(""))}

		data, err := readAndClose(resp)
		if err != nil {
			t.Fatalf("readAndClose failed: %v", err)
		}
		if len(data) != 0 {
			t.Errorf("expected empty data, got %d bytes", len(data))
		}
	})
}

func TestReadAndClose_ResponseTooLarge(t *testing.T) {
	largeData := make([]byte, MaxResponseSize+100)
	resp := &http.Response{Body: io.NopCloser(bytes.NewReader(largeData))}

	if _, err := readAndClose(resp); err == nil {
		t.Error("expected error for oversized response")
	}
}

func TestReadAndClose_ReadError(t *testing.T) {
	resp := &http.Response{Body: io.NopCloser(&errorReader{})}

	if _, err := readAndClose(resp); err == nil {
		t.Error("expected error when read fails")
	}
}

// errorReader is a reader that always returns an error
type errorReader struct{}

func (e *errorReader) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
