package core

import "time"

// DeepSeek API endpoint constants
const (
	DeepseekAPIBaseURL          = "https://api.deepseek.com"
	DeepseekModelsPath          = "/v1/models"
	DeepseekChatCompletionsPath = "/v1/chat/completions"
)

// Model namespace constants. Public model ids carry the provider prefix
// (for example "deepseek/deepseek-chat"); the backend only understands the
// bare suffix.
const (
	ModelNamespacePrefix = "deepseek/"
	DefaultBackendModel  = "deepseek-chat"
)

// Catalog cache constants
const (
	CatalogFreshnessWindow = 5 * time.Minute
	DefaultModelCreated    = 1640995200
	ModelOwner             = "deepseek"
)

// Validation probe constants
const (
	KeyProbeTimeout = 5 * time.Second
)
