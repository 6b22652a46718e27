package llm

import "context"

// Request is one generation call: a system instruction plus a user prompt.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Result is the provider's reply plus accounting metadata.
type Result struct {
	Content  string
	Model    string
	Provider string
	Usage    Usage
	CostUSD  float64
}

// Completer is the generation contract pipelines depend on. Implemented by
// the hosted Client here and by localgen.Client.
type Completer interface {
	Complete(ctx context.Context, req Request) (Result, error)
}
