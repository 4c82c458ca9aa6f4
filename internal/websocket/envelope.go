package websocket

import (
	"insight-copilot-be/internal/dto"

	"github.com/google/uuid"
)

// Envelope kinds exchanged over the persistent connection.
const (
	EnvelopeChatQuery      = "chat_query"
	EnvelopeTyping         = "typing"
	EnvelopeToken          = "token"
	EnvelopeComplete       = "complete"
	EnvelopeError          = "error"
	EnvelopeSessionUpdated = "session_updated"
)

// Envelope is the discriminator read first off every inbound frame.
type Envelope struct {
	Type string `json:"type"`
}

// ChatQueryEnvelope triggers the pipeline. The auth token travels inside
// the envelope, not at connection establishment.
type ChatQueryEnvelope struct {
	Type      string           `json:"type"`
	SessionId *uuid.UUID       `json:"sessionId,omitempty"`
	Query     string           `json:"query"`
	Context   *dto.ChatContext `json:"context,omitempty"`
	Token     string           `json:"token"`
}

// TypingEnvelope is emitted immediately on accepting a chat_query, before
// generation begins. The session id is absent when the query opens a new
// session, since the id is not known until the pipeline resolves it.
type TypingEnvelope struct {
	Type      string     `json:"type"`
	SessionId *uuid.UUID `json:"sessionId,omitempty"`
}

// TokenEnvelope carries one whitespace-delimited fragment of the reply.
type TokenEnvelope struct {
	Type      string    `json:"type"`
	SessionId uuid.UUID `json:"sessionId"`
	Content   string    `json:"content"`
}

// CompleteEnvelope closes a streamed reply with the persisted message id.
type CompleteEnvelope struct {
	Type             string           `json:"type"`
	SessionId        uuid.UUID        `json:"sessionId"`
	MessageId        uuid.UUID        `json:"messageId"`
	SuggestedPrompts []string         `json:"suggestedPrompts"`
	Metadata         dto.ChatMetadata `json:"metadata"`
}

// ErrorEnvelope terminates the in-flight query but not the connection.
type ErrorEnvelope struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SessionUpdatedEnvelope notifies a user's other connections that a
// session gained an exchange.
type SessionUpdatedEnvelope struct {
	Type      string    `json:"type"`
	SessionId uuid.UUID `json:"sessionId"`
}
