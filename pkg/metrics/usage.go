package metrics

// TokenUsage captures embedding token counts reported by the provider.
// The field tags follow the OpenAI wire format.
type TokenUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.TotalTokens == 0
}
