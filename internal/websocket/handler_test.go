package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"insight-copilot-be/internal/dto"
	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	principals map[string]*entity.Principal
}

func (v stubVerifier) Verify(token string) (*entity.Principal, error) {
	if p, ok := v.principals[token]; ok {
		return p, nil
	}
	return nil, serverutils.NewUnauthorizedError("Invalid token")
}

type stubChatService struct {
	res *dto.ChatResponse
	err error
}

func (s stubChatService) Chat(ctx context.Context, principal *entity.Principal, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	return s.res, s.err
}

func (s stubChatService) GetSession(ctx context.Context, principal *entity.Principal, sessionId uuid.UUID) (*dto.SessionDetailResponse, error) {
	return nil, nil
}

func (s stubChatService) ListSessions(ctx context.Context, principal *entity.Principal) ([]*dto.SessionSummaryResponse, error) {
	return nil, nil
}

func newHandlerFixture(verifier serverutils.TokenVerifier, svc stubChatService) (*StreamHandler, *Client) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()
	h := NewStreamHandler(svc, verifier, hub, nopLogger{}, 0)
	c := newClient(hub, nil)
	c.setState(StateOpen)
	return h, c
}

func drainEnvelopes(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case data := <-c.Send:
			out = append(out, data)
		default:
			return out
		}
	}
}

func TestHandleQueryInvalidToken(t *testing.T) {
	h, c := newHandlerFixture(stubVerifier{}, stubChatService{})

	h.handleQuery(c, &ChatQueryEnvelope{Type: EnvelopeChatQuery, Query: "hello", Token: "garbage"})

	frames := drainEnvelopes(c)
	require.Len(t, frames, 1)
	var errEnv ErrorEnvelope
	require.NoError(t, json.Unmarshal(frames[0], &errEnv))
	assert.Equal(t, EnvelopeError, errEnv.Type)
	assert.Equal(t, serverutils.CodeUnauthorized, errEnv.Code)
	assert.False(t, c.isRegistered(), "a failed query must not bind the connection")
}

func TestHandleQueryForeignUserOnBoundConnection(t *testing.T) {
	owner := &entity.Principal{Subject: uuid.New(), OrgId: uuid.New(), Role: "analyst"}
	intruder := &entity.Principal{Subject: uuid.New(), OrgId: owner.OrgId, Role: "analyst"}
	verifier := stubVerifier{principals: map[string]*entity.Principal{
		"owner-token":    owner,
		"intruder-token": intruder,
	}}
	h, c := newHandlerFixture(verifier, stubChatService{res: &dto.ChatResponse{
		SessionId: uuid.New(),
		MessageId: uuid.New(),
	}})

	h.handleQuery(c, &ChatQueryEnvelope{Type: EnvelopeChatQuery, Query: "first", Token: "owner-token"})
	drainEnvelopes(c)
	require.True(t, c.isRegistered())

	h.handleQuery(c, &ChatQueryEnvelope{Type: EnvelopeChatQuery, Query: "second", Token: "intruder-token"})

	frames := drainEnvelopes(c)
	require.Len(t, frames, 1)
	var errEnv ErrorEnvelope
	require.NoError(t, json.Unmarshal(frames[0], &errEnv))
	assert.Equal(t, serverutils.CodeForbidden, errEnv.Code)
	assert.Equal(t, owner.Subject, c.UserID, "the binding must not change")
}

func TestHandleQueryStreamsReply(t *testing.T) {
	principal := &entity.Principal{Subject: uuid.New(), OrgId: uuid.New(), Role: "analyst"}
	verifier := stubVerifier{principals: map[string]*entity.Principal{"tok": principal}}
	res := &dto.ChatResponse{
		SessionId: uuid.New(),
		MessageId: uuid.New(),
		Response:  dto.ResponseBody{Text: "two words", SuggestedPrompts: []string{}},
		Metadata:  dto.ChatMetadata{TokensUsed: 2},
		Timestamp: time.Now(),
	}
	h, c := newHandlerFixture(verifier, stubChatService{res: res})

	h.handleQuery(c, &ChatQueryEnvelope{Type: EnvelopeChatQuery, Query: "hi", Token: "tok"})

	frames := drainEnvelopes(c)
	require.Len(t, frames, 4, "typing, two tokens, complete")

	var typing TypingEnvelope
	require.NoError(t, json.Unmarshal(frames[0], &typing))
	assert.Equal(t, EnvelopeTyping, typing.Type)

	var tok TokenEnvelope
	require.NoError(t, json.Unmarshal(frames[1], &tok))
	assert.Equal(t, "two ", tok.Content)

	var complete CompleteEnvelope
	require.NoError(t, json.Unmarshal(frames[3], &complete))
	assert.Equal(t, EnvelopeComplete, complete.Type)
	assert.Equal(t, res.MessageId, complete.MessageId)
}
