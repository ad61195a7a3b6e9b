package server

import (
	"errors"
	"net/http"
	"time"

	"deepseek2api/internal/core"
	"deepseek2api/internal/metrics"
	"deepseek2api/internal/util"

	"github.com/gin-gonic/gin"
)

// setStreamingHeaders sets streaming response HTTP headers
func setStreamingHeaders(c *gin.Context) {
	c.Header(core.HeaderContentType, core.ContentTypeEventStream)
	c.Header(core.HeaderCacheControl, core.CacheControlNoCache)
	c.Header(core.HeaderConnection, core.ConnectionKeepAlive)
}

// respondWithOpenAIError returns an OpenAI format error response
func respondWithOpenAIError(c *gin.Context, code int, errorType, message string) {
	c.JSON(code, core.ErrorResponse{
		Error: core.ErrorDetail{
			Message: message,
			Type:    errorType,
		},
	})
}

// respondWithProxyError maps a translation layer error onto the OpenAI error
// shape. Unknown errors become a generic 500 so internal details never reach
// the client.
func respondWithProxyError(c *gin.Context, err error) {
	var proxyErr *core.ProxyError
	if errors.As(err, &proxyErr) {
		respondWithOpenAIError(c, proxyErr.HTTPStatus(), proxyErr.ErrorType(), proxyErr.Message)
		return
	}
	respondWithOpenAIError(c, http.StatusInternalServerError, core.ErrorTypeAPI, "internal server error")
}

// upstreamCredential resolves the DeepSeek credential for the /v1 surface.
// With client keys configured the bearer token authenticates the client, so
// the upstream call uses the configured server credential. In pass-through
// mode the caller's own bearer token is the only accepted credential: an
// absent header yields "" and the request fails with 401 before any backend
// I/O. The server credential must never be spent on anonymous callers.
func (s *Server) upstreamCredential(c *gin.Context) string {
	if len(s.validClientKeys) > 0 {
		return s.config.DeepseekAPIKey
	}
	return util.BearerToken(c.GetHeader(core.HeaderAuthorization))
}

// dashboardCredential resolves the credential for the management /api
// endpoints: the caller's bearer token when present, else the configured
// server credential. Unlike the /v1 surface these endpoints only read the
// catalog, so falling back to the server key is safe.
func (s *Server) dashboardCredential(c *gin.Context) string {
	if token := util.BearerToken(c.GetHeader(core.HeaderAuthorization)); token != "" {
		return token
	}
	return s.config.DeepseekAPIKey
}

// trackPerformanceWithMetrics records performance metrics
func trackPerformanceWithMetrics(m *metrics.MetricsService, startTime time.Time) func() {
	return func() {
		duration := time.Since(startTime)
		m.RecordHTTPRequest(duration)
	}
}

// recordRequestResult records an individual request outcome
func recordRequestResult(m *metrics.MetricsService, success bool, startTime time.Time, model string) {
	m.RecordRequest(success, time.Since(startTime).Milliseconds(), model)
}

// withPanicRecovery wraps a handler body with panic recovery
func withPanicRecovery(c *gin.Context, m *metrics.MetricsService, startTime time.Time, model string, logger core.Logger) func() {
	return func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handler: %v", r)
			recordRequestResult(m, false, startTime, model)
			respondWithOpenAIError(c, http.StatusInternalServerError, core.ErrorTypeAPI, "internal server error")
		}
	}
}
