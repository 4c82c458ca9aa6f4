package entity

import (
	"time"

	"github.com/google/uuid"
)

// MessageMetadata carries generation bookkeeping for assistant messages.
type MessageMetadata struct {
	TokensUsed int   `json:"tokens_used"`
	LatencyMs  int64 `json:"latency_ms"`
	Cached     bool  `json:"cached"`
}

// Message is one turn within a session. It references its session by id
// only; the session is owned and mutated by the SessionStore.
type Message struct {
	Id               uuid.UUID
	SessionId        uuid.UUID
	Role             string
	Content          string
	Intent           string
	Confidence       *int // 0-100
	DataSources      []string
	SuggestedPrompts []string
	Actions          []string
	Metadata         *MessageMetadata
	CreatedAt        time.Time
}
