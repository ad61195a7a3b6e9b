package convert

import (
	"strings"
	"time"

	"deepseek2api/internal/core"

	"github.com/google/uuid"
)

// This package owns the field mapping between the public (OpenAI-shaped)
// schema and the DeepSeek backend schema. All functions are pure: no I/O,
// no shared state.
//
// Field mapping, request direction:
//
//	model             -> model (namespace prefix stripped, default applied)
//	messages          -> messages (verbatim, roles are an open set)
//	stream            -> stream
//	temperature       -> temperature
//	max_tokens        -> max_tokens
//	top_p             -> top_p
//	stop              -> stop
//	frequency_penalty -> frequency_penalty
//	presence_penalty  -> presence_penalty
//	user              -> dropped (no backend equivalent)
//	service_tier      -> dropped (no backend equivalent)
//
// Unknown fields in the inbound JSON never reach this package; the decoder
// ignores them, which keeps the public surface forward compatible.

// BackendModelID maps a public model id to the backend's namespace.
// "deepseek/deepseek-chat" becomes "deepseek-chat"; ids without the prefix
// pass through unchanged; an empty id gets the documented default.
func BackendModelID(publicID string) string {
	if publicID == "" {
		return core.DefaultBackendModel
	}
	return strings.TrimPrefix(publicID, core.ModelNamespacePrefix)
}

// PublicModelID maps a backend model id into the public namespace.
func PublicModelID(backendID string) string {
	if strings.HasPrefix(backendID, core.ModelNamespacePrefix) {
		return backendID
	}
	return core.ModelNamespacePrefix + backendID
}

// ToDeepseekRequest converts a public chat completion request into the
// backend schema.
func ToDeepseekRequest(req *core.ChatCompletionRequest) core.DeepseekChatRequest {
	return core.DeepseekChatRequest{
		Model:            BackendModelID(req.Model),
		Messages:         req.Messages,
		Stream:           req.Stream,
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		Stop:             req.Stop,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
	}
}

// FromDeepseekResponse converts a backend chat completion response back
// into the public schema. The model field is restored to the originally
// requested public id so clients round-trip transparently; when the request
// omitted the model, the effective default's public id is reported instead.
// Missing backend fields get documented defaults: id -> generated
// "chatcmpl-" id, object -> "chat.completion", created -> now.
func FromDeepseekResponse(resp *core.DeepseekChatResponse, originalPublicModel string) core.ChatCompletionResponse {
	id := resp.ID
	if id == "" {
		id = core.ResponseIDPrefix + uuid.New().String()
	}

	object := resp.Object
	if object == "" {
		object = core.ChatCompletionObjectType
	}

	created := resp.Created
	if created == 0 {
		created = time.Now().Unix()
	}

	choices := resp.Choices
	if choices == nil {
		choices = []core.ChatCompletionChoice{}
	}

	model := originalPublicModel
	if model == "" {
		model = PublicModelID(core.DefaultBackendModel)
	}

	return core.ChatCompletionResponse{
		ID:      id,
		Object:  object,
		Created: created,
		Model:   model,
		Choices: choices,
		Usage:   resp.Usage,
	}
}

// PublicCatalogModels maps backend model entries into the public namespace,
// preserving order. Metadata the backend omits gets the documented defaults.
func PublicCatalogModels(backendModels []core.ModelInfo) []core.ModelInfo {
	models := make([]core.ModelInfo, 0, len(backendModels))
	for _, m := range backendModels {
		entry := m
		entry.ID = PublicModelID(m.ID)
		if entry.Object == "" {
			entry.Object = core.ModelObjectType
		}
		if entry.OwnedBy == "" {
			entry.OwnedBy = core.ModelOwner
		}
		models = append(models, entry)
	}
	return models
}
