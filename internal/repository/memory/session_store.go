package memory

import (
	"context"
	"sync"
	"time"

	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// sessionRecord groups a session with its messages and the mutex that
// serializes appends for that session id.
type sessionRecord struct {
	mu       sync.Mutex
	session  entity.Session
	messages []*entity.Message
}

// SessionStore is the in-memory SessionStore used by tests and as the
// fallback backend when no database is configured. Sessions live forever
// within the process (no archival in this scope), so the cache is created
// without expiration.
type SessionStore struct {
	mu      sync.RWMutex
	cache   *cache.Cache
	byOwner map[uuid.UUID][]uuid.UUID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		cache:   cache.New(cache.NoExpiration, 0),
		byOwner: make(map[uuid.UUID][]uuid.UUID),
	}
}

var _ contract.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) record(id uuid.UUID) (*sessionRecord, bool) {
	if x, found := s.cache.Get(id.String()); found {
		return x.(*sessionRecord), true
	}
	return nil, false
}

func (s *SessionStore) CreateSession(ctx context.Context, userId, orgId uuid.UUID, initialContext map[string]interface{}) (*entity.Session, error) {
	now := time.Now()
	rec := &sessionRecord{
		session: entity.Session{
			Id:           uuid.New(),
			UserId:       userId,
			OrgId:        orgId,
			Context:      initialContext,
			MessageCount: 0,
			CreatedAt:    now,
			LastActivity: now,
		},
	}

	s.mu.Lock()
	s.cache.Set(rec.session.Id.String(), rec, cache.NoExpiration)
	s.byOwner[userId] = append(s.byOwner[userId], rec.session.Id)
	s.mu.Unlock()

	sess := rec.session
	return &sess, nil
}

func (s *SessionStore) GetSession(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	rec, found := s.record(id)
	if !found {
		return nil, nil
	}

	rec.mu.Lock()
	sess := rec.session
	rec.mu.Unlock()
	return &sess, nil
}

func (s *SessionStore) ListSessionsByOwner(ctx context.Context, userId uuid.UUID) ([]*entity.Session, error) {
	s.mu.RLock()
	ids := append([]uuid.UUID(nil), s.byOwner[userId]...)
	s.mu.RUnlock()

	sessions := make([]*entity.Session, 0, len(ids))
	for _, id := range ids {
		if sess, _ := s.GetSession(ctx, id); sess != nil {
			sessions = append(sessions, sess)
		}
	}
	return sessions, nil
}

// AppendMessage holds the per-session mutex for the whole append, so two
// concurrent appends can neither lose an increment nor produce colliding
// timestamps. The timestamp is forced strictly past LastActivity.
func (s *SessionStore) AppendMessage(ctx context.Context, sessionId uuid.UUID, message *entity.Message) (*entity.Message, error) {
	rec, found := s.record(sessionId)
	if !found {
		return nil, contract.ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	ts := time.Now()
	if !ts.After(rec.session.LastActivity) {
		ts = rec.session.LastActivity.Add(time.Microsecond)
	}

	stored := *message
	stored.Id = uuid.New()
	stored.SessionId = sessionId
	stored.CreatedAt = ts

	rec.messages = append(rec.messages, &stored)
	rec.session.MessageCount++
	rec.session.LastActivity = ts

	appended := stored
	return &appended, nil
}

func (s *SessionStore) ListMessages(ctx context.Context, sessionId uuid.UUID) ([]*entity.Message, error) {
	rec, found := s.record(sessionId)
	if !found {
		return []*entity.Message{}, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	out := make([]*entity.Message, len(rec.messages))
	for i, msg := range rec.messages {
		m := *msg
		out[i] = &m
	}
	return out, nil
}
