package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestServerForMiddleware(clientKeys []string) *Server {
	gin.SetMode(gin.TestMode)
	keyMap := make(map[string]bool)
	for _, k := range clientKeys {
		keyMap[k] = true
	}
	return &Server{
		validClientKeys: keyMap,
	}
}

func TestAuthenticateClient_ValidBearerToken(t *testing.T) {
	s := newTestServerForMiddleware([]string{"test-key-1", "test-key-2"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	c.Request.Header.Set("Authorization", "Bearer test-key-1")
	s.authenticateClient(c)
	if w.Code != http.StatusOK {
		t.Errorf("valid bearer token should pass, got status %d", w.Code)
	}
	if c.IsAborted() {
		t.Error("valid bearer token should not abort")
	}
}

func TestAuthenticateClient_ValidXAPIKey(t *testing.T) {
	s := newTestServerForMiddleware([]string{"test-key-1"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	c.Request.Header.Set("x-api-key", "test-key-1")
	s.authenticateClient(c)
	if w.Code != http.StatusOK {
		t.Errorf("valid x-api-key should pass, got status %d", w.Code)
	}
	if c.IsAborted() {
		t.Error("valid x-api-key should not abort")
	}
}

func TestAuthenticateClient_InvalidKey(t *testing.T) {
	s := newTestServerForMiddleware([]string{"valid-key"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	c.Request.Header.Set("Authorization", "Bearer wrong-key")
	s.authenticateClient(c)
	if w.Code != http.StatusForbidden {
		t.Errorf("invalid key should return 403, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("invalid key should abort")
	}
}

func TestAuthenticateClient_MissingKey(t *testing.T) {
	s := newTestServerForMiddleware([]string{"valid-key"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	s.authenticateClient(c)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing key should return 401, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("missing key should abort")
	}
}

func TestAuthenticateClient_NoKeysConfiguredIsPassThrough(t *testing.T) {
	s := newTestServerForMiddleware(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	s.authenticateClient(c)
	if w.Code != http.StatusOK {
		t.Errorf("pass-through mode should not reject, got status %d", w.Code)
	}
	if c.IsAborted() {
		t.Error("pass-through mode should not abort")
	}
}

func TestAuthenticateClient_XAPIKeyTakesPrecedence(t *testing.T) {
	s := newTestServerForMiddleware([]string{"valid-key"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	c.Request.Header.Set("x-api-key", "invalid-key")
	c.Request.Header.Set("Authorization", "Bearer valid-key")
	s.authenticateClient(c)
	if w.Code != http.StatusForbidden {
		t.Errorf("invalid x-api-key should return 403 even with valid Bearer, got %d", w.Code)
	}
}

func TestCorsMiddleware_SetsHeaders(t *testing.T) {
	s := newTestServerForMiddleware(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler := s.corsMiddleware()
	handler(c)
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected Access-Control-Allow-Origin '*', got '%s'", origin)
	}
}

func TestCorsMiddleware_OptionsRequest(t *testing.T) {
	s := newTestServerForMiddleware(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodOptions, "/v1/chat/completions", nil)
	handler := s.corsMiddleware()
	handler(c)
	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS should return 204, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("OPTIONS should abort (skip handler)")
	}
}

func TestRateLimiter_StopTerminatesCleanup(t *testing.T) {
	rl := newRateLimiter(10)

	rl.stop()
	select {
	case <-rl.done:
	default:
		t.Fatal("stop() should close the done channel so the cleanup goroutine exits")
	}

	// Second stop must not panic.
	rl.stop()

	if !rl.allow("10.0.0.1") {
		t.Error("limiter should still admit requests after stop")
	}
}

func TestRateLimiter_AllowsWithinRate(t *testing.T) {
	rl := &rateLimiter{
		visitors: make(map[string]*visitorInfo),
		rate:     3,
		cleanup:  time.Hour,
	}
	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d within rate should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over rate should be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("different client should have its own counter")
	}
}
