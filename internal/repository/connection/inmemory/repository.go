package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Yasamato/Studi-Watch/internal/repository/connection"
)

// repo is a bimap between live websocket connections and member ids. Each
// connection carries its own write lock: a websocket allows a single
// concurrent writer, while broadcasts fan out from every participant's read
// loop at once.
type repo struct {
	logger     *slog.Logger
	mu         sync.RWMutex
	connList   map[*websocket.Conn]string
	idList     map[string]*websocket.Conn
	writeLocks map[*websocket.Conn]*sync.Mutex
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		logger:     logger,
		connList:   make(map[*websocket.Conn]string),
		idList:     make(map[string]*websocket.Conn),
		writeLocks: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (r *repo) Add(conn *websocket.Conn, memberId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" || r.idList[memberId] != nil {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = memberId
	r.idList[memberId] = conn
	r.writeLocks[conn] = &sync.Mutex{}

	r.logger.Debug("connection added", "memberId", memberId)
	return nil
}

func (r *repo) RemoveByMemberId(memberId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.idList[memberId]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, memberId)
	delete(r.writeLocks, conn)

	r.logger.Debug("connection removed", "memberId", memberId)
	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	memberId, ok := r.connList[conn]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, memberId)
	delete(r.writeLocks, conn)

	r.logger.Debug("connection removed", "memberId", memberId)
	return nil
}

// Write sends v to conn under the connection's write lock. A connection that
// has already been removed is not written to.
func (r *repo) Write(conn *websocket.Conn, v any) error {
	r.mu.RLock()
	lock, ok := r.writeLocks[conn]
	r.mu.RUnlock()
	if !ok {
		return connection.ErrNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	return conn.WriteJSON(v)
}

func (r *repo) GetConn(memberId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[memberId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) GetMemberId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memberId, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return memberId, nil
}
