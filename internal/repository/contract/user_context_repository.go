package contract

import (
	"context"

	"insight-copilot-be/internal/entity"

	"github.com/google/uuid"
)

// UserContextRepository persists the one-per-user profile record.
// FindByUserId reports absence as (nil, nil).
type UserContextRepository interface {
	Create(ctx context.Context, userContext *entity.UserContext) error
	Update(ctx context.Context, userContext *entity.UserContext) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserContext, error)
}
