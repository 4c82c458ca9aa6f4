package generator

import (
	"context"
)

// HistoryMessage is one prior turn handed to the generator, oldest first.
type HistoryMessage struct {
	Role    string // "user", "assistant"
	Content string
}

// Input is the full request for one generation call.
type Input struct {
	Query   string
	Context map[string]interface{} // enriched client context
	History []HistoryMessage       // most recent turns, oldest first
}

// Result is the generated reply.
type Result struct {
	Text             string
	Confidence       float64 // 0..1
	Intent           string
	SuggestedPrompts []string
	DataSources      []string
}

// ResponseGenerator is the external natural-language capability. Calls may
// take arbitrarily long; callers bound them with the context deadline.
type ResponseGenerator interface {
	Generate(ctx context.Context, input Input) (*Result, error)
}
