package websocket

import (
	"context"
	"testing"
	"time"

	"insight-copilot-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	envelopes []interface{}
	failAfter int
}

func (s *captureSink) WriteEnvelope(v interface{}) error {
	if s.failAfter > 0 && len(s.envelopes) >= s.failAfter {
		return errSendBufferFull
	}
	s.envelopes = append(s.envelopes, v)
	return nil
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"two words", "hello world", []string{"hello ", "world "}},
		{"collapses whitespace", "a  b\tc\n", []string{"a ", "b ", "c "}},
		{"empty", "", []string{}},
		{"single word", "done", []string{"done "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func testResponse(text string) *dto.ChatResponse {
	return &dto.ChatResponse{
		SessionId: uuid.New(),
		MessageId: uuid.New(),
		Response: dto.ResponseBody{
			Text:             text,
			SuggestedPrompts: []string{"Tell me more"},
		},
		Metadata: dto.ChatMetadata{TokensUsed: 2, LatencyMs: 5},
	}
}

func TestStreamResponseOrder(t *testing.T) {
	sink := &captureSink{}
	res := testResponse("hello world")

	err := StreamResponse(context.Background(), sink, res, time.Millisecond)
	require.NoError(t, err)
	require.Len(t, sink.envelopes, 3)

	first, ok := sink.envelopes[0].(TokenEnvelope)
	require.True(t, ok)
	assert.Equal(t, EnvelopeToken, first.Type)
	assert.Equal(t, "hello ", first.Content)
	assert.Equal(t, res.SessionId, first.SessionId)

	second, ok := sink.envelopes[1].(TokenEnvelope)
	require.True(t, ok)
	assert.Equal(t, "world ", second.Content)

	last, ok := sink.envelopes[2].(CompleteEnvelope)
	require.True(t, ok)
	assert.Equal(t, EnvelopeComplete, last.Type)
	assert.Equal(t, res.MessageId, last.MessageId)
	assert.Equal(t, res.Response.SuggestedPrompts, last.SuggestedPrompts)
	assert.Equal(t, res.Metadata, last.Metadata)
}

func TestStreamResponseEmptyText(t *testing.T) {
	sink := &captureSink{}

	err := StreamResponse(context.Background(), sink, testResponse(""), time.Millisecond)
	require.NoError(t, err)

	// No tokens, just the completion marker.
	require.Len(t, sink.envelopes, 1)
	_, ok := sink.envelopes[0].(CompleteEnvelope)
	assert.True(t, ok)
}

func TestStreamResponseCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &captureSink{}

	err := StreamResponse(ctx, sink, testResponse("one two three"), 50*time.Millisecond)
	require.Error(t, err)

	// The first token goes out before the first delay; nothing after the
	// cancelled wait, and in particular no complete envelope.
	require.Len(t, sink.envelopes, 1)
	_, ok := sink.envelopes[0].(TokenEnvelope)
	assert.True(t, ok)
}

func TestStreamResponseWriteFailureStopsStream(t *testing.T) {
	sink := &captureSink{failAfter: 1}

	err := StreamResponse(context.Background(), sink, testResponse("one two three"), time.Millisecond)
	require.Error(t, err)
	assert.Len(t, sink.envelopes, 1)
}
