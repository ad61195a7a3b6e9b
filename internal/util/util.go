package util

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"deepseek2api/internal/core"

	"github.com/bytedance/sonic"
)

// MarshalJSON wraps Sonic for performance
func MarshalJSON(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// UnmarshalJSON wraps Sonic for performance
func UnmarshalJSON(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// NewBackendRequest creates a backend HTTP request with JSON content type
// and bearer auth. The credential is set on the request only; it is never
// logged or stored.
func NewBackendRequest(method, rawURL string, payload []byte, credential string) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	if credential != "" {
		req.Header.Set(core.HeaderAuthorization, core.AuthBearerPrefix+credential)
	}

	return req, nil
}

// ValidateRequestTarget rejects outbound requests whose target host differs
// from the configured backend host. Guards against request forgery through
// a mangled base URL.
func ValidateRequestTarget(req *http.Request, baseURL, context string) error {
	base, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base URL %q: %w", baseURL, err)
	}
	if req.URL == nil || req.URL.Host != base.Host {
		return fmt.Errorf("%s request target %q not allowed, expected host %q", context, req.URL, base.Host)
	}
	return nil
}

// MaskCredential returns a masked form of a credential safe for logs and
// the dashboard: at most the last four characters are shown.
func MaskCredential(credential string) string {
	if credential == "" {
		return ""
	}
	if len(credential) <= 4 {
		return "****"
	}
	return "****" + credential[len(credential)-4:]
}

// ParseEnvList parses a comma-separated env var into a trimmed slice
func ParseEnvList(envVar string) []string {
	if envVar == "" {
		return nil
	}
	parts := strings.Split(envVar, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetEnvWithDefault gets an env var with a default value
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// BearerToken extracts the bearer token from an Authorization header value.
// Returns "" when the header is absent or not bearer-shaped.
func BearerToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, core.AuthBearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, core.AuthBearerPrefix))
}
