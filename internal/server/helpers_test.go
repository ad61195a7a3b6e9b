package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"deepseek2api/internal/config"
	"deepseek2api/internal/core"
	"deepseek2api/internal/util"

	"github.com/gin-gonic/gin"
)

func testContextWithBearer(token string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	if token != "" {
		c.Request.Header.Set(core.HeaderAuthorization, core.AuthBearerPrefix+token)
	}
	return c, w
}

func TestUpstreamCredential(t *testing.T) {
	tests := []struct {
		name       string
		clientKeys []string
		serverKey  string
		bearer     string
		want       string
	}{
		{"client keys configured use server key", []string{"client-1"}, "sk-server", "client-1", "sk-server"},
		{"pass-through forwards caller bearer", nil, "sk-server", "sk-caller", "sk-caller"},
		{"pass-through without bearer never spends server key", nil, "sk-server", "", ""},
		{"nothing configured yields empty", nil, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyMap := make(map[string]bool)
			for _, k := range tt.clientKeys {
				keyMap[k] = true
			}
			s := &Server{
				validClientKeys: keyMap,
				config:          config.ServerConfig{DeepseekAPIKey: tt.serverKey},
			}

			c, _ := testContextWithBearer(tt.bearer)
			if got := s.upstreamCredential(c); got != tt.want {
				t.Errorf("upstreamCredential() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDashboardCredential(t *testing.T) {
	tests := []struct {
		name      string
		serverKey string
		bearer    string
		want      string
	}{
		{"bearer takes precedence", "sk-server", "sk-caller", "sk-caller"},
		{"falls back to server key", "sk-server", "", "sk-server"},
		{"nothing configured yields empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Server{
				validClientKeys: map[string]bool{},
				config:          config.ServerConfig{DeepseekAPIKey: tt.serverKey},
			}

			c, _ := testContextWithBearer(tt.bearer)
			if got := s.dashboardCredential(c); got != tt.want {
				t.Errorf("dashboardCredential() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRespondWithProxyError_KnownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondWithProxyError(c, core.NewProxyError(core.ErrUpstreamClient, http.StatusTooManyRequests, "slow down"))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	var resp core.ErrorResponse
	if err := util.UnmarshalJSON(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Message != "slow down" {
		t.Errorf("message = %q, want passthrough", resp.Error.Message)
	}
	if resp.Error.Type != core.ErrorTypeInvalidRequest {
		t.Errorf("type = %q, want %q", resp.Error.Type, core.ErrorTypeInvalidRequest)
	}
}

func TestRespondWithProxyError_UnknownErrorHidesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondWithProxyError(c, errors.New("dial tcp 10.0.0.5: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp core.ErrorResponse
	if err := util.UnmarshalJSON(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Message != "internal server error" {
		t.Errorf("message = %q, internal details must not leak", resp.Error.Message)
	}
}
