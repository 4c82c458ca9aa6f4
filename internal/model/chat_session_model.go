package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatSession struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	OrgId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	Context      datatypes.JSON `gorm:"type:jsonb"`
	MessageCount int            `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	LastActivity time.Time      `gorm:"not null;index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
