package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role             string         `gorm:"type:varchar(50);not null"`
	Content          string         `gorm:"type:text;not null"`
	Intent           string         `gorm:"type:varchar(50)"`
	Confidence       *int           // 0-100
	DataSources      datatypes.JSON `gorm:"type:jsonb"`
	SuggestedPrompts datatypes.JSON `gorm:"type:jsonb"`
	Actions          datatypes.JSON `gorm:"type:jsonb"`
	Metadata         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"not null;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
