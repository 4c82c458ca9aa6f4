package implementation

import (
	"context"
	"errors"
	"time"

	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/mapper"
	"insight-copilot-be/internal/model"
	"insight-copilot-be/internal/repository/contract"
	"insight-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionStoreImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewSessionStore(db *gorm.DB) contract.SessionStore {
	return &SessionStoreImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *SessionStoreImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionStoreImpl) CreateSession(ctx context.Context, userId, orgId uuid.UUID, initialContext map[string]interface{}) (*entity.Session, error) {
	now := time.Now()
	session := &entity.Session{
		Id:           uuid.New(),
		UserId:       userId,
		OrgId:        orgId,
		Context:      initialContext,
		MessageCount: 0,
		CreatedAt:    now,
		LastActivity: now,
	}

	m := r.mapper.ChatSessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatSessionToEntity(m), nil
}

func (r *SessionStoreImpl) GetSession(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	var m model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatSessionToEntity(&m), nil
}

func (r *SessionStoreImpl) ListSessionsByOwner(ctx context.Context, userId uuid.UUID) ([]*entity.Session, error) {
	var models []*model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*entity.Session, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.ChatSessionToEntity(m)
	}
	return sessions, nil
}

// AppendMessage serializes concurrent appends for the same session through a
// row-level lock on the session, then assigns a timestamp strictly greater
// than the session's current LastActivity before persisting the message and
// advancing the counter in the same transaction.
func (r *SessionStoreImpl) AppendMessage(ctx context.Context, sessionId uuid.UUID, message *entity.Message) (*entity.Message, error) {
	var appended *entity.Message

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sess model.ChatSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", sessionId).
			First(&sess).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contract.ErrSessionNotFound
			}
			return err
		}

		ts := time.Now()
		if !ts.After(sess.LastActivity) {
			ts = sess.LastActivity.Add(time.Microsecond)
		}

		stored := *message
		stored.Id = uuid.New()
		stored.SessionId = sessionId
		stored.CreatedAt = ts

		m := r.mapper.ChatMessageToModel(&stored)
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"message_count": sess.MessageCount + 1,
			"last_activity": ts,
		}
		if err := tx.Model(&model.ChatSession{}).Where("id = ?", sessionId).Updates(updates).Error; err != nil {
			return err
		}

		appended = r.mapper.ChatMessageToEntity(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appended, nil
}

func (r *SessionStoreImpl) ListMessages(ctx context.Context, sessionId uuid.UUID) ([]*entity.Message, error) {
	var models []*model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatMessagesToEntities(models), nil
}
