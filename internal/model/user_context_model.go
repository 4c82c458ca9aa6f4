package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserContext struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Role        string         `gorm:"type:varchar(50);not null"`
	OrgId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	OrgName     string         `gorm:"type:text"`
	Permissions datatypes.JSON `gorm:"type:jsonb"`
	Scope       datatypes.JSON `gorm:"type:jsonb"`
	Preferences datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   *time.Time
}

func (UserContext) TableName() string {
	return "user_contexts"
}
