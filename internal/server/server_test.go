package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/promotoria-nhamunda/controle-prazos/internal/api"
	"github.com/promotoria-nhamunda/controle-prazos/internal/cache"
	"github.com/promotoria-nhamunda/controle-prazos/internal/config"
	"github.com/promotoria-nhamunda/controle-prazos/internal/storage"
	"github.com/promotoria-nhamunda/controle-prazos/internal/store"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	log := logger.NewNop()
	st := store.New(storage.NewRepository(storage.NewMemoryBackend(), log, false), log)
	h := api.NewHandlers(st, nil, nil, nil, cache.NewCache(10, time.Minute), log, cfg)
	return New(cfg, h, log).Handler()
}

func get(handler http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	handler := newTestServer(t, &config.Config{})

	w := get(handler, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if _, err := uuid.Parse(w.Header().Get(requestIDHeader)); err != nil {
		t.Errorf("Expected a generated request id, got %q", w.Header().Get(requestIDHeader))
	}

	w = get(handler, "/api/health", map[string]string{requestIDHeader: "abc-123"})
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("Expected the caller's request id, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(t, &config.Config{})

	get(handler, "/api/dashboard", nil)
	w := get(handler, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), "cp_http_requests_total") {
		t.Error("Expected request counter in metrics output")
	}
}

func TestRateLimit(t *testing.T) {
	handler := newTestServer(t, &config.Config{APIRateLimit: 2, APIRateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		if w := get(handler, "/api/health", nil); w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected status %d, got %d", i, http.StatusOK, w.Code)
		}
	}
	if w := get(handler, "/api/health", nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(t, &config.Config{})

	req, _ := http.NewRequest("OPTIONS", "/api/deadlines", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Error("Expected PATCH to be allowed")
	}
}
