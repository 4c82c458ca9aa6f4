package generator

import (
	"context"
	"fmt"

	"insight-copilot-be/pkg/copilot/intent"
)

// MockGenerator is a deterministic generator for tests and local
// development without a model backend.
type MockGenerator struct {
	// FixedText, when set, is returned verbatim instead of the derived reply.
	FixedText string
	// Err, when set, is returned for every call.
	Err error
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

var _ ResponseGenerator = (*MockGenerator)(nil)

func (g *MockGenerator) Generate(ctx context.Context, input Input) (*Result, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := g.FixedText
	label := intent.Classify(input.Query)
	if text == "" {
		text = fmt.Sprintf("Here is what I can tell you about %q.", input.Query)
	}

	return &Result{
		Text:             text,
		Confidence:       0.8,
		Intent:           label,
		SuggestedPrompts: []string{"Tell me more", "Show related metrics"},
		DataSources:      []string{"mock"},
	}, nil
}
