package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"insight-copilot-be/internal/pkg/serverutils"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	queryBacklog   = 8
)

// Connection states as seen from the server side. A connection is Open
// once the upgrade completes, Streaming while a reply is being emitted,
// and Closed once either pump exits.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateOpen
	StateStreaming
	StateClosed
)

var (
	errSendBufferFull = errors.New("send buffer full")
	errConnClosed     = errors.New("connection closed")
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// UserID bound on the first successfully authenticated query.
	UserID uuid.UUID

	// Buffered channel of outbound frames.
	Send chan []byte

	// Inbound chat queries, consumed serially by the handler loop.
	queries chan *ChatQueryEnvelope

	// Scopes every in-flight query to the life of the connection.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      ConnState
	registered bool
	closed     bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		queries: make(chan *ChatQueryEnvelope, queryBacklog),
		ctx:     ctx,
		cancel:  cancel,
		state:   StateConnecting,
	}
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// WriteEnvelope serializes v and queues it for the write pump. A full
// buffer is treated as a dead peer rather than a reason to block the
// streaming loop.
func (c *Client) WriteEnvelope(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

// enqueue queues a raw frame for the write pump. The send happens under
// the client mutex so it cannot race closeSend: concurrent producers
// (the query loop mid-stream, the hub fan-out) get errConnClosed after
// teardown instead of sending on a closed channel.
func (c *Client) enqueue(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errConnClosed
	}
	select {
	case c.Send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// closeSend marks the client closed and closes the send channel so the
// write pump drains and exits. Idempotent.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// readPump pumps frames from the websocket connection into the query
// channel. It runs on the handler goroutine and owns connection teardown.
func (c *Client) readPump() {
	defer func() {
		c.setState(StateClosed)
		c.cancel()
		if c.isRegistered() {
			c.Hub.unregister <- c
		} else {
			c.closeSend()
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Websocket", "Unexpected close", map[string]interface{}{"error": err.Error()})
			}
			break
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			c.WriteEnvelope(ErrorEnvelope{Type: EnvelopeError, Code: serverutils.CodeTransport, Message: "Malformed envelope"})
			continue
		}
		if envelope.Type != EnvelopeChatQuery {
			// Unknown inbound kinds are ignored so protocol additions
			// stay backward compatible.
			continue
		}

		var query ChatQueryEnvelope
		if err := json.Unmarshal(data, &query); err != nil {
			c.WriteEnvelope(ErrorEnvelope{Type: EnvelopeError, Code: serverutils.CodeTransport, Message: "Malformed chat_query envelope"})
			continue
		}

		select {
		case c.queries <- &query:
		default:
			c.WriteEnvelope(ErrorEnvelope{Type: EnvelopeError, Code: serverutils.CodeTransport, Message: "Too many queued queries"})
		}
	}
}

// writePump pumps frames from the send channel to the websocket
// connection. One frame per envelope keeps each JSON document whole.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Teardown closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) isRegistered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registered
}

func (c *Client) markRegistered(userID uuid.UUID) {
	c.mu.Lock()
	c.UserID = userID
	c.registered = true
	c.mu.Unlock()
}
