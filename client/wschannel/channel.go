// Package wschannel implements the sync channel over a websocket connection
// to the room server. Messages from one sender arrive in send order; no
// cross-sender ordering is guaranteed.
package wschannel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Yasamato/Studi-Watch/client"
	"github.com/Yasamato/Studi-Watch/domain"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type Config struct {
	// ServerURL is the websocket base of the room server, e.g. ws://host:port.
	ServerURL string
	Name      string
	Icon      string
}

// Channel is one participant's connection to a room. Create one per join.
type Channel struct {
	cfg    Config
	seed   domain.StateDelta
	logger *slog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	handler func(domain.StateDelta)
	closed  bool
}

// New creates an unconnected channel. seed is the participant's local
// defaults, published right after join so a fresh room starts with sane
// state instead of nulls; the server ignores it for rooms already seeded.
func New(cfg Config, seed domain.StateDelta, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}

	return &Channel{
		cfg:    cfg,
		seed:   seed,
		logger: logger,
	}
}

// OnAuthoritative registers the handler invoked for every status broadcast,
// echoes of this channel's own publishes included. Register before Join.
// A nil handler deregisters.
func (c *Channel) OnAuthoritative(handler func(domain.StateDelta)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler = handler
}

// Join opens the channel scoped to roomId and seeds the room.
func (c *Channel) Join(ctx context.Context, roomId string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return client.ErrChannelUnavailable
	}
	if c.conn != nil {
		c.mu.Unlock()
		return fmt.Errorf("already joined")
	}
	c.mu.Unlock()

	u := fmt.Sprintf("%s/api/v1/ws/room/%s?name=%s&icon=%s",
		c.cfg.ServerURL,
		url.PathEscape(roomId),
		url.QueryEscape(c.cfg.Name),
		url.QueryEscape(c.cfg.Icon),
	)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("failed to dial room server: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)

	if err := c.send("seed", c.seed); err != nil {
		// a half-joined channel is useless, tear the connection down
		c.Leave()
		return fmt.Errorf("failed to seed room: %w", err)
	}

	return nil
}

// Publish sends a field-level delta. Fire-and-forget: no acknowledgement is
// awaited, the transport's own ordering guarantee suffices.
func (c *Channel) Publish(delta domain.StateDelta) error {
	return c.send("update", delta)
}

func (c *Channel) send(msgType string, delta domain.StateDelta) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.conn == nil {
		return client.ErrChannelUnavailable
	}

	payload, err := json.Marshal(delta)
	if err != nil {
		return fmt.Errorf("failed to marshal delta: %w", err)
	}

	if err := c.conn.WriteJSON(message{Type: msgType, Payload: payload}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				c.logger.Debug("channel read failed", "error", err)
			}
			return
		}

		if msg.Type != "status" {
			c.logger.Debug("unexpected message type", "type", msg.Type)
			continue
		}

		var delta domain.StateDelta
		if err := json.Unmarshal(msg.Payload, &delta); err != nil {
			c.logger.Warn("failed to unmarshal status payload", "error", err)
			continue
		}

		c.mu.Lock()
		handler := c.handler
		c.mu.Unlock()
		if handler != nil {
			handler(delta)
		}
	}
}

// Leave closes the channel. Idempotent: closing an already-closed channel is
// not an error. The handler is dropped before the connection closes so no
// callback fires into disposed state.
func (c *Channel) Leave() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.handler = nil
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}

	return nil
}
