package mapper

import (
	"encoding/json"

	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.Session {
	if s == nil {
		return nil
	}

	var sessionContext map[string]interface{}
	if len(s.Context) > 0 {
		_ = json.Unmarshal(s.Context, &sessionContext)
	}

	return &entity.Session{
		Id:           s.Id,
		UserId:       s.UserId,
		OrgId:        s.OrgId,
		Context:      sessionContext,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.Session) *model.ChatSession {
	if s == nil {
		return nil
	}

	return &model.ChatSession{
		Id:           s.Id,
		UserId:       s.UserId,
		OrgId:        s.OrgId,
		Context:      toJSON(s.Context),
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.Message {
	if msg == nil {
		return nil
	}

	var metadata *entity.MessageMetadata
	if len(msg.Metadata) > 0 {
		metadata = &entity.MessageMetadata{}
		_ = json.Unmarshal(msg.Metadata, metadata)
	}

	return &entity.Message{
		Id:               msg.Id,
		SessionId:        msg.ChatSessionId,
		Role:             msg.Role,
		Content:          msg.Content,
		Intent:           msg.Intent,
		Confidence:       msg.Confidence,
		DataSources:      fromJSONStrings(msg.DataSources),
		SuggestedPrompts: fromJSONStrings(msg.SuggestedPrompts),
		Actions:          fromJSONStrings(msg.Actions),
		Metadata:         metadata,
		CreatedAt:        msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.Message) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var metadata datatypes.JSON
	if msg.Metadata != nil {
		metadata = toJSON(msg.Metadata)
	}

	return &model.ChatMessage{
		Id:               msg.Id,
		ChatSessionId:    msg.SessionId,
		Role:             msg.Role,
		Content:          msg.Content,
		Intent:           msg.Intent,
		Confidence:       msg.Confidence,
		DataSources:      toJSON(msg.DataSources),
		SuggestedPrompts: toJSON(msg.SuggestedPrompts),
		Actions:          toJSON(msg.Actions),
		Metadata:         metadata,
		CreatedAt:        msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(msgs []*model.ChatMessage) []*entity.Message {
	entities := make([]*entity.Message, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}

func toJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func fromJSONStrings(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(data, &out)
	return out
}
