package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestWriteEnvelopeAfterUnregister(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	client := newClient(hub, nil)
	client.markRegistered(uuid.New())
	hub.register <- client
	hub.unregister <- client

	// The hub goroutine closes the send channel shortly after draining
	// the unregister request. From then on writes must fail cleanly.
	require.Eventually(t, func() bool {
		return client.WriteEnvelope(TypingEnvelope{Type: EnvelopeTyping}) == errConnClosed
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, errConnClosed, client.enqueue([]byte(`{}`)))
}

func TestCloseSendIsIdempotent(t *testing.T) {
	client := newClient(nil, nil)
	client.closeSend()
	client.closeSend()

	assert.Equal(t, errConnClosed, client.WriteEnvelope(TypingEnvelope{Type: EnvelopeTyping}))
}

func TestConcurrentWritesSurviveTeardown(t *testing.T) {
	client := newClient(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				client.WriteEnvelope(TokenEnvelope{
					Type:      EnvelopeToken,
					SessionId: uuid.Nil,
					Content:   "chunk ",
				})
			}
		}()
	}

	client.closeSend()
	wg.Wait()
}

func TestWriteEnvelopeFullBuffer(t *testing.T) {
	client := newClient(nil, nil)
	for i := 0; i < cap(client.Send); i++ {
		require.NoError(t, client.enqueue([]byte(`{}`)))
	}

	assert.Equal(t, errSendBufferFull, client.WriteEnvelope(TypingEnvelope{Type: EnvelopeTyping}))
}

func TestSessionUpdatedSkipsTornDownClient(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	userID := uuid.New()

	client := newClient(hub, nil)
	client.markRegistered(userID)
	hub.clients[userID] = []*Client{client}
	client.closeSend()

	// Fan-out racing teardown must drop the frame, not panic.
	hub.SessionUpdated(userID, uuid.New())
}
