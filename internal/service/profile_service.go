package service

import (
	"context"
	"time"

	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/repository/contract"

	"github.com/google/uuid"
)

// IProfileService provisions and maintains the one-per-user UserContext
// profile record.
type IProfileService interface {
	EnsureProfile(ctx context.Context, principal *entity.Principal) (*entity.UserContext, error)
	RecordUsage(ctx context.Context, userId uuid.UUID, intentLabel string) error
}

type profileService struct {
	repo contract.UserContextRepository
}

func NewProfileService(repo contract.UserContextRepository) IProfileService {
	return &profileService{repo: repo}
}

// EnsureProfile creates the profile on first sight of a user and refreshes
// role/org/scope in place when the principal's attributes changed. Profiles
// are never deleted.
func (ps *profileService) EnsureProfile(ctx context.Context, principal *entity.Principal) (*entity.UserContext, error) {
	existing, err := ps.repo.FindByUserId(ctx, principal.Subject)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		userContext := &entity.UserContext{
			Id:          uuid.New(),
			UserId:      principal.Subject,
			Role:        principal.Role,
			OrgId:       principal.OrgId,
			Permissions: principal.Permissions,
			Scope:       principal.Scope,
			Preferences: map[string]interface{}{},
			CreatedAt:   time.Now(),
		}
		if err := ps.repo.Create(ctx, userContext); err != nil {
			return nil, err
		}
		return userContext, nil
	}

	if existing.Role != principal.Role || existing.OrgId != principal.OrgId {
		existing.Role = principal.Role
		existing.OrgId = principal.OrgId
		existing.Permissions = principal.Permissions
		existing.Scope = principal.Scope
		now := time.Now()
		existing.UpdatedAt = &now
		if err := ps.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
	}

	return existing, nil
}

// RecordUsage bumps the usage counters kept in the profile preferences.
// The read-modify-write is not serialized across consumers, so the
// counters are best-effort: concurrent exchanges for one user may lose
// a bump.
func (ps *profileService) RecordUsage(ctx context.Context, userId uuid.UUID, intentLabel string) error {
	profile, err := ps.repo.FindByUserId(ctx, userId)
	if err != nil || profile == nil {
		return err
	}

	if profile.Preferences == nil {
		profile.Preferences = map[string]interface{}{}
	}
	count, _ := profile.Preferences["messageCount"].(float64)
	profile.Preferences["messageCount"] = count + 1
	profile.Preferences["lastIntent"] = intentLabel

	now := time.Now()
	profile.UpdatedAt = &now
	return ps.repo.Update(ctx, profile)
}
