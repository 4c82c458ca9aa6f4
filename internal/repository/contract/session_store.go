package contract

import (
	"context"
	"errors"

	"insight-copilot-be/internal/entity"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by AppendMessage when the target session
// does not exist. Read operations report absence as (nil, nil) instead.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore exclusively owns Session and Message storage. It is the only
// component permitted to mutate them.
//
// AppendMessage must serialize concurrent calls for the same session id:
// the message count is incremented exactly once per call and timestamps
// within a session strictly increase in append order. LastActivity advances
// to the timestamp of the appended message.
type SessionStore interface {
	CreateSession(ctx context.Context, userId, orgId uuid.UUID, initialContext map[string]interface{}) (*entity.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	ListSessionsByOwner(ctx context.Context, userId uuid.UUID) ([]*entity.Session, error)
	AppendMessage(ctx context.Context, sessionId uuid.UUID, message *entity.Message) (*entity.Message, error)
	ListMessages(ctx context.Context, sessionId uuid.UUID) ([]*entity.Message, error)
}
