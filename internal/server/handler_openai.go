package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"deepseek2api/internal/core"

	"github.com/gin-gonic/gin"
)

// listModels serves the OpenAI-compatible model list. Reads never trigger a
// live catalog fetch; the caller sees the cached snapshot or the built-in
// default set.
func (s *Server) listModels(c *gin.Context) {
	snapshot := s.catalogService.GetModels(c.Request.Context(), s.upstreamCredential(c), false)

	c.JSON(http.StatusOK, core.ModelList{
		Object: core.ModelListObjectType,
		Data:   snapshot.Models,
	})
}

func (s *Server) chatCompletions(c *gin.Context) {
	startTime := time.Now()

	defer withPanicRecovery(c, s.metricsService, startTime, "", s.config.Logger)()
	defer trackPerformanceWithMetrics(s.metricsService, startTime)()

	var request core.ChatCompletionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		recordRequestResult(s.metricsService, false, startTime, "")
		respondWithOpenAIError(c, http.StatusBadRequest, core.ErrorTypeInvalidRequest, "invalid request body")
		return
	}

	credential := s.upstreamCredential(c)
	if strings.TrimSpace(credential) == "" {
		recordRequestResult(s.metricsService, false, startTime, request.Model)
		respondWithOpenAIError(c, http.StatusUnauthorized, core.ErrorTypeAuthentication, "missing or invalid Authorization header")
		return
	}

	if request.Stream {
		s.streamChatCompletion(c, &request, credential, startTime)
		return
	}

	response, err := s.requestProcessor.CompleteChat(c.Request.Context(), &request, credential)
	if err != nil {
		recordRequestResult(s.metricsService, false, startTime, request.Model)
		respondWithProxyError(c, err)
		return
	}

	recordRequestResult(s.metricsService, true, startTime, request.Model)
	c.JSON(http.StatusOK, response)
}

// streamChatCompletion relays the backend SSE stream to the client without
// reshaping chunks. The model rewrite happens only in the outbound payload;
// response bytes flow through untouched.
func (s *Server) streamChatCompletion(c *gin.Context, request *core.ChatCompletionRequest, credential string, startTime time.Time) {
	payloadBytes, err := s.requestProcessor.BuildBackendPayload(request)
	if err != nil {
		recordRequestResult(s.metricsService, false, startTime, request.Model)
		s.config.Logger.Error("Failed to build payload: %v", err)
		respondWithOpenAIError(c, http.StatusInternalServerError, core.ErrorTypeAPI, "internal server error")
		return
	}

	resp, err := s.requestProcessor.SendUpstreamRequest(c.Request.Context(), payloadBytes, credential)
	if err != nil {
		s.metricsService.RecordHTTPError()
		recordRequestResult(s.metricsService, false, startTime, request.Model)
		respondWithOpenAIError(c, http.StatusBadGateway, core.ErrorTypeUpstream, "upstream unreachable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordRequestResult(s.metricsService, false, startTime, request.Model)
		respondWithProxyError(c, s.requestProcessor.UpstreamError(resp))
		return
	}

	setStreamingHeaders(c)
	c.Status(http.StatusOK)

	if err := relayStream(c.Writer, resp.Body); err != nil {
		// Headers are already out; all we can do is log and count it.
		s.config.Logger.Warn("Stream relay interrupted: %v", err)
		recordRequestResult(s.metricsService, false, startTime, request.Model)
		return
	}

	recordRequestResult(s.metricsService, true, startTime, request.Model)
}

// relayStream copies upstream bytes to the client, flushing after every
// chunk so SSE events are delivered as they arrive.
func relayStream(w gin.ResponseWriter, body io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			w.Flush()
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
