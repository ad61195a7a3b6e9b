package core

// OpenAI object type constants
const (
	ModelObjectType          = "model"
	ChatCompletionObjectType = "chat.completion"
	ModelListObjectType      = "list"
)

// ID prefix constants
const (
	ResponseIDPrefix = "chatcmpl-"
)

// OpenAI error type constants
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypeAPI            = "api_error"
	ErrorTypeUpstream       = "upstream_error"
)
