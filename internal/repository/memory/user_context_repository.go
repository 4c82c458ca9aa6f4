package memory

import (
	"context"
	"sync"

	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/repository/contract"

	"github.com/google/uuid"
)

type UserContextRepository struct {
	mu       sync.RWMutex
	byUserId map[uuid.UUID]*entity.UserContext
}

func NewUserContextRepository() *UserContextRepository {
	return &UserContextRepository{
		byUserId: make(map[uuid.UUID]*entity.UserContext),
	}
}

var _ contract.UserContextRepository = (*UserContextRepository)(nil)

func (r *UserContextRepository) Create(ctx context.Context, userContext *entity.UserContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *userContext
	r.byUserId[userContext.UserId] = &stored
	return nil
}

func (r *UserContextRepository) Update(ctx context.Context, userContext *entity.UserContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *userContext
	r.byUserId[userContext.UserId] = &stored
	return nil
}

func (r *UserContextRepository) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserContext, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uc, found := r.byUserId[userId]
	if !found {
		return nil, nil
	}
	out := *uc
	return &out, nil
}
