package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"insight-copilot-be/internal/constant"
	"insight-copilot-be/internal/entity"
	"insight-copilot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	userId := uuid.New()
	orgId := uuid.New()

	sess, err := store.CreateSession(ctx, userId, orgId, map[string]interface{}{"page": "/home"})
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, userId, sess.UserId)
	assert.Equal(t, orgId, sess.OrgId)
	assert.Equal(t, 0, sess.MessageCount)
	assert.Equal(t, sess.CreatedAt, sess.LastActivity)

	loaded, err := store.GetSession(ctx, sess.Id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sess.Id, loaded.Id)
}

func TestGetSessionAbsent(t *testing.T) {
	store := NewSessionStore()

	sess, err := store.GetSession(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestAppendMessageUnknownSession(t *testing.T) {
	store := NewSessionStore()

	_, err := store.AppendMessage(context.Background(), uuid.New(), &entity.Message{
		Role:    constant.MessageRoleUser,
		Content: "hello",
	})
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}

func TestAppendMessageUpdatesSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	first, err := store.AppendMessage(ctx, sess.Id, &entity.Message{Role: constant.MessageRoleUser, Content: "q"})
	require.NoError(t, err)
	second, err := store.AppendMessage(ctx, sess.Id, &entity.Message{Role: constant.MessageRoleAssistant, Content: "a"})
	require.NoError(t, err)

	assert.True(t, second.CreatedAt.After(first.CreatedAt), "timestamps must be strictly increasing")
	assert.True(t, first.CreatedAt.After(sess.LastActivity), "first message must land after session creation")

	loaded, err := store.GetSession(ctx, sess.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.MessageCount)
	assert.Equal(t, second.CreatedAt, loaded.LastActivity)
}

func TestConcurrentAppends(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := store.AppendMessage(ctx, sess.Id, &entity.Message{
				Role:    constant.MessageRoleUser,
				Content: fmt.Sprintf("message %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	loaded, err := store.GetSession(ctx, sess.Id)
	require.NoError(t, err)
	assert.Equal(t, n, loaded.MessageCount, "no increment may be lost")

	messages, err := store.ListMessages(ctx, sess.Id)
	require.NoError(t, err)
	require.Len(t, messages, n)

	for i := 1; i < len(messages); i++ {
		assert.True(t, messages[i].CreatedAt.After(messages[i-1].CreatedAt),
			"message %d timestamp must be strictly after message %d", i, i-1)
	}
	assert.Equal(t, messages[n-1].CreatedAt, loaded.LastActivity)
}

func TestListMessagesReturnsCopies(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, sess.Id, &entity.Message{Role: constant.MessageRoleUser, Content: "original"})
	require.NoError(t, err)

	messages, err := store.ListMessages(ctx, sess.Id)
	require.NoError(t, err)
	messages[0].Content = "mutated"

	again, err := store.ListMessages(ctx, sess.Id)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestListMessagesUnknownSession(t *testing.T) {
	store := NewSessionStore()

	messages, err := store.ListMessages(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Empty(t, messages)
}

func TestListSessionsByOwner(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	a, err := store.CreateSession(ctx, owner, uuid.New(), nil)
	require.NoError(t, err)
	b, err := store.CreateSession(ctx, owner, uuid.New(), nil)
	require.NoError(t, err)
	_, err = store.CreateSession(ctx, other, uuid.New(), nil)
	require.NoError(t, err)

	sessions, err := store.ListSessionsByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	ids := []uuid.UUID{sessions[0].Id, sessions[1].Id}
	assert.Contains(t, ids, a.Id)
	assert.Contains(t, ids, b.Id)
}
