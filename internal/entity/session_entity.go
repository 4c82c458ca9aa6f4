package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	OrgId        uuid.UUID
	Context      map[string]interface{}
	MessageCount int
	CreatedAt    time.Time
	LastActivity time.Time
}
