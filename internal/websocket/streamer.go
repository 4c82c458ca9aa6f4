package websocket

import (
	"context"
	"strings"
	"time"

	"insight-copilot-be/internal/dto"
)

// EnvelopeSink is the write side of a streaming connection.
type EnvelopeSink interface {
	WriteEnvelope(v interface{}) error
}

// Tokenize splits text on whitespace. Every token keeps a trailing space
// so the client can concatenate fragments without joining logic.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, f+" ")
	}
	return tokens
}

// StreamResponse emits the generated reply token by token with a fixed
// delay between consecutive tokens, then a single complete envelope.
// Delivery is at most once: a cancelled context or a failed write abandons
// the remainder and no complete envelope follows.
func StreamResponse(ctx context.Context, sink EnvelopeSink, res *dto.ChatResponse, delay time.Duration) error {
	for i, tok := range Tokenize(res.Response.Text) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		err := sink.WriteEnvelope(TokenEnvelope{
			Type:      EnvelopeToken,
			SessionId: res.SessionId,
			Content:   tok,
		})
		if err != nil {
			return err
		}
	}

	return sink.WriteEnvelope(CompleteEnvelope{
		Type:             EnvelopeComplete,
		SessionId:        res.SessionId,
		MessageId:        res.MessageId,
		SuggestedPrompts: res.Response.SuggestedPrompts,
		Metadata:         res.Metadata,
	})
}
