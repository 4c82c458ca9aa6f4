package implementation

import (
	"context"
	"errors"

	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/mapper"
	"insight-copilot-be/internal/model"
	"insight-copilot-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserContextRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserContextMapper
}

func NewUserContextRepository(db *gorm.DB) contract.UserContextRepository {
	return &UserContextRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserContextMapper(),
	}
}

func (r *UserContextRepositoryImpl) Create(ctx context.Context, userContext *entity.UserContext) error {
	m := r.mapper.ToModel(userContext)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*userContext = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserContextRepositoryImpl) Update(ctx context.Context, userContext *entity.UserContext) error {
	m := r.mapper.ToModel(userContext)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*userContext = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserContextRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserContext, error) {
	var m model.UserContext
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
