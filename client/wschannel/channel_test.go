package wschannel

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasamato/Studi-Watch/client"
	"github.com/Yasamato/Studi-Watch/domain"
)

func TestPublishBeforeJoin(t *testing.T) {
	c := New(Config{ServerURL: "ws://localhost:0"}, domain.StateDelta{}, nil)

	err := c.Publish(domain.StateDelta{Playing: domain.Bool(false)})

	assert.ErrorIs(t, err, client.ErrChannelUnavailable)
}

func TestLeaveIsIdempotent(t *testing.T) {
	c := New(Config{ServerURL: "ws://localhost:0"}, domain.StateDelta{}, nil)

	assert.NoError(t, c.Leave())
	assert.NoError(t, c.Leave())
}

func TestPublishAfterLeave(t *testing.T) {
	c := New(Config{ServerURL: "ws://localhost:0"}, domain.StateDelta{}, nil)
	c.Leave()

	err := c.Publish(domain.StateDelta{Muted: domain.Bool(true)})

	assert.ErrorIs(t, err, client.ErrChannelUnavailable)
}

func TestJoinTearsDownOnSeedFailure(t *testing.T) {
	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	defer srv.Close()

	// a seed that cannot be serialized fails the join after the dial succeeded
	seed := domain.StateDelta{Played: domain.Float(math.NaN())}
	c := New(Config{ServerURL: "ws" + strings.TrimPrefix(srv.URL, "http"), Name: "alice"}, seed, nil)

	err := c.Join(context.Background(), "r1")
	require.Error(t, err)

	// the dialed connection must not outlive the failed join
	serverConn := <-serverConns
	serverConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, readErr := serverConn.ReadMessage()
	assert.Error(t, readErr, "connection must be closed after a failed join")

	assert.ErrorIs(t, c.Publish(domain.StateDelta{Playing: domain.Bool(true)}), client.ErrChannelUnavailable)
}
