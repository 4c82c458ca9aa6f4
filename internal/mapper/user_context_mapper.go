package mapper

import (
	"encoding/json"

	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/model"
)

type UserContextMapper struct{}

func NewUserContextMapper() *UserContextMapper {
	return &UserContextMapper{}
}

func (m *UserContextMapper) ToEntity(uc *model.UserContext) *entity.UserContext {
	if uc == nil {
		return nil
	}

	var scope entity.DataScope
	if len(uc.Scope) > 0 {
		_ = json.Unmarshal(uc.Scope, &scope)
	}

	var preferences map[string]interface{}
	if len(uc.Preferences) > 0 {
		_ = json.Unmarshal(uc.Preferences, &preferences)
	}

	return &entity.UserContext{
		Id:          uc.Id,
		UserId:      uc.UserId,
		Role:        uc.Role,
		OrgId:       uc.OrgId,
		OrgName:     uc.OrgName,
		Permissions: fromJSONStrings(uc.Permissions),
		Scope:       scope,
		Preferences: preferences,
		CreatedAt:   uc.CreatedAt,
		UpdatedAt:   uc.UpdatedAt,
	}
}

func (m *UserContextMapper) ToModel(uc *entity.UserContext) *model.UserContext {
	if uc == nil {
		return nil
	}

	return &model.UserContext{
		Id:          uc.Id,
		UserId:      uc.UserId,
		Role:        uc.Role,
		OrgId:       uc.OrgId,
		OrgName:     uc.OrgName,
		Permissions: toJSON(uc.Permissions),
		Scope:       toJSON(uc.Scope),
		Preferences: toJSON(uc.Preferences),
		CreatedAt:   uc.CreatedAt,
		UpdatedAt:   uc.UpdatedAt,
	}
}
