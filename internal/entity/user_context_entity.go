package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserContext is the per-user profile record, provisioned on first
// authenticated request and updated in place afterwards.
type UserContext struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Role        string
	OrgId       uuid.UUID
	OrgName     string
	Permissions []string
	Scope       DataScope
	Preferences map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
