package core

// DeepseekChatRequest is the backend chat completion request payload.
// The wire shape matches OpenAI's except that the model field carries the
// bare backend id (no "deepseek/" namespace prefix).
type DeepseekChatRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Stream           bool          `json:"stream,omitempty"`
	Temperature      *float64      `json:"temperature,omitempty"`
	MaxTokens        *int          `json:"max_tokens,omitempty"`
	TopP             *float64      `json:"top_p,omitempty"`
	Stop             any           `json:"stop,omitempty"`
	FrequencyPenalty *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64      `json:"presence_penalty,omitempty"`
}

// DeepseekChatResponse is the backend non-streaming chat completion response.
type DeepseekChatResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   OpenAIUsage            `json:"usage"`
}

// DeepseekModelList is the backend model list response.
type DeepseekModelList struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}
