package account

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"deepseek2api/internal/core"
	"deepseek2api/internal/util"
)

// Validator checks upstream credentials with a single lightweight probe
// against the backend's model list endpoint. It holds no credential state;
// the candidate key lives only for the duration of the call.
type Validator struct {
	httpClient *http.Client
	baseURL    string
	logger     core.Logger
}

// NewValidator creates a credential validator against the given backend base URL.
func NewValidator(httpClient *http.Client, baseURL string, logger core.Logger) *Validator {
	return &Validator{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// Validate probes the backend with the candidate credential as bearer auth.
// Empty or whitespace-only credentials fail fast without any network call.
// "invalid credential" (backend 401/403) and "upstream unreachable"
// (transport error or timeout) are distinct failure classes.
func (v *Validator) Validate(ctx context.Context, credential string) core.ValidationResult {
	if strings.TrimSpace(credential) == "" {
		return core.ValidationResult{Valid: false, Reason: core.ReasonMissingCredential}
	}

	ctx, cancel := context.WithTimeout(ctx, core.KeyProbeTimeout)
	defer cancel()

	req, err := util.NewBackendRequest(http.MethodGet, v.baseURL+core.DeepseekModelsPath, nil, credential)
	if err != nil {
		return core.ValidationResult{Valid: false, Reason: core.ReasonUpstreamUnreachable}
	}
	req = req.WithContext(ctx)

	if err := util.ValidateRequestTarget(req, v.baseURL, "credential probe"); err != nil {
		v.logger.Error("Credential probe rejected: %v", err)
		return core.ValidationResult{Valid: false, Reason: core.ReasonUpstreamUnreachable}
	}

	resp, err := v.httpClient.Do(req) //nolint:gosec // Request target restricted by util.ValidateRequestTarget.
	if err != nil {
		v.logger.Warn("Credential probe failed: upstream unreachable")
		return core.ValidationResult{Valid: false, Reason: core.ReasonUpstreamUnreachable}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, core.MaxResponseBodySize))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return core.ValidationResult{Valid: true}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return core.ValidationResult{Valid: false, Reason: core.ReasonInvalidCredential}
	default:
		v.logger.Warn("Credential probe returned unexpected status %d", resp.StatusCode)
		return core.ValidationResult{Valid: false, Reason: fmt.Sprintf("unexpected upstream status %d", resp.StatusCode)}
	}
}
