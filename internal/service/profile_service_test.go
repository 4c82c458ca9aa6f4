package service

import (
	"context"
	"testing"

	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProfileCreatesOnFirstSight(t *testing.T) {
	repo := memory.NewUserContextRepository()
	svc := NewProfileService(repo)
	ctx := context.Background()

	principal := &entity.Principal{
		Subject:     uuid.New(),
		OrgId:       uuid.New(),
		Role:        "analyst",
		Permissions: []string{"metrics:read"},
	}

	profile, err := svc.EnsureProfile(ctx, principal)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, principal.Subject, profile.UserId)
	assert.Equal(t, "analyst", profile.Role)

	stored, err := repo.FindByUserId(ctx, principal.Subject)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, profile.Id, stored.Id)
}

func TestEnsureProfileIsIdempotent(t *testing.T) {
	repo := memory.NewUserContextRepository()
	svc := NewProfileService(repo)
	ctx := context.Background()

	principal := &entity.Principal{Subject: uuid.New(), OrgId: uuid.New(), Role: "analyst"}

	first, err := svc.EnsureProfile(ctx, principal)
	require.NoError(t, err)
	second, err := svc.EnsureProfile(ctx, principal)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Nil(t, second.UpdatedAt)
}

func TestEnsureProfileRefreshesChangedRole(t *testing.T) {
	repo := memory.NewUserContextRepository()
	svc := NewProfileService(repo)
	ctx := context.Background()

	principal := &entity.Principal{Subject: uuid.New(), OrgId: uuid.New(), Role: "viewer"}
	_, err := svc.EnsureProfile(ctx, principal)
	require.NoError(t, err)

	principal.Role = "admin"
	updated, err := svc.EnsureProfile(ctx, principal)
	require.NoError(t, err)

	assert.Equal(t, "admin", updated.Role)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestRecordUsage(t *testing.T) {
	repo := memory.NewUserContextRepository()
	svc := NewProfileService(repo)
	ctx := context.Background()

	principal := &entity.Principal{Subject: uuid.New(), OrgId: uuid.New(), Role: "analyst"}
	_, err := svc.EnsureProfile(ctx, principal)
	require.NoError(t, err)

	require.NoError(t, svc.RecordUsage(ctx, principal.Subject, "explain"))
	require.NoError(t, svc.RecordUsage(ctx, principal.Subject, "summarize"))

	profile, err := repo.FindByUserId(ctx, principal.Subject)
	require.NoError(t, err)
	assert.Equal(t, float64(2), profile.Preferences["messageCount"])
	assert.Equal(t, "summarize", profile.Preferences["lastIntent"])
}

func TestRecordUsageUnknownUserIsNoop(t *testing.T) {
	svc := NewProfileService(memory.NewUserContextRepository())

	err := svc.RecordUsage(context.Background(), uuid.New(), "explain")
	assert.NoError(t, err)
}
