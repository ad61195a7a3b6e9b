package process

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"deepseek2api/internal/convert"
	"deepseek2api/internal/core"
	"deepseek2api/internal/util"

	"github.com/bytedance/sonic"
)

// RequestProcessor composes the schema translator with the outbound
// backend call into the end-to-end chat completion flow. It never retries:
// completions may have side-effecting cost, so retry policy belongs to the
// caller.
type RequestProcessor struct {
	httpClient *http.Client
	baseURL    string
	metrics    core.MetricsCollector
	logger     core.Logger
}

// NewRequestProcessor creates a new request processor against the given
// backend base URL.
func NewRequestProcessor(httpClient *http.Client, baseURL string, metrics core.MetricsCollector, logger core.Logger) *RequestProcessor {
	return &RequestProcessor{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		metrics:    metrics,
		logger:     logger,
	}
}

// BuildBackendPayload translates a public request into the backend schema
// and marshals it.
func (p *RequestProcessor) BuildBackendPayload(request *core.ChatCompletionRequest) ([]byte, error) {
	backendReq := convert.ToDeepseekRequest(request)

	payloadBytes, err := util.MarshalJSON(backendReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backend request: %w", err)
	}

	p.logger.Debug("Backend payload: model=%s->%s, messages=%d, stream=%v, size=%d",
		request.Model, backendReq.Model, len(backendReq.Messages), backendReq.Stream, len(payloadBytes))

	return payloadBytes, nil
}

// SendUpstreamRequest issues the outbound chat completion call with the
// credential as bearer auth. The shared HTTP client bounds the call with
// its request timeout. Also used directly by the streaming pass-through.
func (p *RequestProcessor) SendUpstreamRequest(ctx context.Context, payloadBytes []byte, credential string) (*http.Response, error) {
	req, err := util.NewBackendRequest(http.MethodPost, p.baseURL+core.DeepseekChatCompletionsPath, payloadBytes, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set(core.HeaderAccept, core.ContentTypeJSON+", "+core.ContentTypeEventStream)

	if err := util.ValidateRequestTarget(req, p.baseURL, "upstream"); err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req) //nolint:gosec // Request target restricted by util.ValidateRequestTarget.
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	p.logger.Debug("DeepSeek API response status: %d", resp.StatusCode)
	return resp, nil
}

// CompleteChat runs the full non-streaming flow: credential check,
// request translation, one bounded backend call, response translation.
// Failures surface as *core.ProxyError with the backend's status class
// mirrored, never swallowed into a generic 500.
func (p *RequestProcessor) CompleteChat(ctx context.Context, request *core.ChatCompletionRequest, credential string) (*core.ChatCompletionResponse, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, core.NewProxyError(core.ErrMissingCredential, http.StatusUnauthorized, "missing or invalid Authorization header")
	}

	payloadBytes, err := p.BuildBackendPayload(request)
	if err != nil {
		return nil, err
	}

	resp, err := p.SendUpstreamRequest(ctx, payloadBytes, credential)
	if err != nil {
		p.metrics.RecordHTTPError()
		return nil, core.NewProxyError(core.ErrUpstreamUnreachable, http.StatusBadGateway, "upstream unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, p.UpstreamError(resp)
	}

	var backendResp core.DeepseekChatResponse
	if err := sonic.ConfigDefault.NewDecoder(io.LimitReader(resp.Body, core.MaxResponseBodySize)).Decode(&backendResp); err != nil {
		p.logger.Error("Malformed backend response: %v", err)
		return nil, core.NewProxyError(core.ErrMalformedBackendResponse, http.StatusBadGateway, "malformed upstream response")
	}

	publicResp := convert.FromDeepseekResponse(&backendResp, request.Model)
	return &publicResp, nil
}

// UpstreamError maps a non-2xx backend response to a ProxyError. 4xx
// responses carry the backend's message through transparently; 5xx
// responses get a generic message so internal details do not leak.
// Shared by the blocking flow and the streaming pass-through.
func (p *RequestProcessor) UpstreamError(resp *http.Response) *core.ProxyError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
	p.logger.Error("DeepSeek API error: status=%d, body=%s", resp.StatusCode, string(body))

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		msg := extractBackendMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("upstream client error (status %d)", resp.StatusCode)
		}
		return core.NewProxyError(core.ErrUpstreamClient, resp.StatusCode, "%s", msg)
	}
	return core.NewProxyError(core.ErrUpstreamServer, resp.StatusCode, "upstream service error")
}

// extractBackendMessage pulls the message out of an OpenAI-shaped error
// body, falling back to the raw body text.
func extractBackendMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed core.ErrorResponse
	if err := util.UnmarshalJSON(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}
