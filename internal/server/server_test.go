package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"filedeck/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Port = 8080
	cfg.UploadRoot = filepath.Join(t.TempDir(), "upload")
	cfg.PreferencesPath = filepath.Join(t.TempDir(), "config.json")
	cfg.StagingDir = t.TempDir()
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	server, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(func() { server.Stop() })
	return server
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	server := newTestServer(t, cfg)

	if server.config != cfg {
		t.Error("Server config not set correctly")
	}

	if server.fs == nil {
		t.Error("Filesystem not initialized")
	}

	if server.prefs == nil {
		t.Error("Preferences store not initialized")
	}

	if server.httpServer == nil {
		t.Error("HTTP server not initialized")
	}

	if server.limiter != nil {
		t.Error("Rate limiter should be disabled by default")
	}

	if _, err := os.Stat(cfg.UploadRoot); err != nil {
		t.Errorf("Upload root not created: %v", err)
	}

	expectedAddr := ":8080"
	if server.httpServer.Addr != expectedAddr {
		t.Errorf("Expected server address %s, got %s", expectedAddr, server.httpServer.Addr)
	}
}

func TestNew_UploadRootIsFile(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.UploadRoot = blocker

	server, err := New(cfg, zap.NewNop())
	if err == nil {
		server.Stop()
		t.Error("Expected error when the upload root is a regular file")
	}
}

func TestServer_HealthEndpoint(t *testing.T) {
	server := newTestServer(t, testConfig(t))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %s", response["status"])
	}

	if response["upload_root"] != server.fs.Resolver().Root() {
		t.Errorf("Expected upload_root %s, got %s", server.fs.Resolver().Root(), response["upload_root"])
	}
}

func TestServer_RequestID(t *testing.T) {
	server := newTestServer(t, testConfig(t))

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("Expected a generated request id")
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("Expected request id abc-123 to be kept, got %s", got)
	}
}

func TestServer_LoggingMiddleware(t *testing.T) {
	server := newTestServer(t, testConfig(t))

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	server.loggingMiddleware(inner).ServeHTTP(w, httptest.NewRequest("GET", "/anything", nil))

	if !called {
		t.Error("Expected handler to be called")
	}

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status code %d, got %d", http.StatusTeapot, w.Code)
	}
}

func TestResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, rw.statusCode)
	}

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected underlying writer status code %d, got %d", http.StatusNotFound, w.Code)
	}

	if rw.Unwrap() != w {
		t.Error("Expected Unwrap to return the underlying writer")
	}
}

func TestServer_Stop(t *testing.T) {
	server, err := New(testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- server.Stop()
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Stop returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("Stop took too long")
	}
}

func TestServer_RouteSetup(t *testing.T) {
	cfg := testConfig(t)
	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "app.css"), []byte("body{}"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.StaticDir = static
	server := newTestServer(t, cfg)

	tests := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		contains     string
	}{
		{"root redirects", "GET", "/", http.StatusFound, ""},
		{"health", "GET", "/health", http.StatusOK, "healthy"},
		{"metrics", "GET", "/metrics", http.StatusOK, "filedeck_http_requests_total"},
		{"listing", "GET", "/filemanager?name=/", http.StatusOK, "FileDeck"},
		{"static", "GET", "/static/app.css", http.StatusOK, "body{}"},
		{"unknown", "GET", "/nope", http.StatusNotFound, ""},
	}

	// one request first so the request counter has a sample to export
	server.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			server.Handler().ServeHTTP(w, req)

			if w.Code != tt.expectedCode {
				t.Errorf("Expected status code %d, got %d", tt.expectedCode, w.Code)
			}

			if tt.contains != "" && !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("Expected body to contain %q", tt.contains)
			}
		})
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = false
	server := newTestServer(t, cfg)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	server := newTestServer(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("Expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be limited, got %d", codes[2])
	}
}
