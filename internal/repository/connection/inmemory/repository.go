package inmemory

import (
	"log/slog"
	"sync"

	"github.com/sharetube/watchparty/internal/repository/connection"
)

type repo struct {
	byId   map[string]connection.Connection
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	if logger == nil {
		logger = slog.Default()
	}

	return &repo{
		byId:   make(map[string]connection.Connection),
		logger: logger,
	}
}

func (r *repo) Add(conn connection.Connection) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "conn_id", conn.Id, "room_id", conn.RoomId)
	if _, ok := r.byId[conn.Id]; ok {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.byId[conn.Id] = conn

	r.logger.Debug(funcName, "result", "OK")
	return nil
}

func (r *repo) Remove(connId string) (connection.Connection, error) {
	funcName := "connection.inmemory.Remove"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "conn_id", connId)
	conn, ok := r.byId[connId]
	if !ok {
		r.logger.Debug(funcName, "error", connection.ErrNotFound)
		return connection.Connection{}, connection.ErrNotFound
	}

	delete(r.byId, connId)

	r.logger.Debug(funcName, "result", conn.RoomId)
	return conn, nil
}

func (r *repo) Get(connId string) (connection.Connection, error) {
	funcName := "connection.inmemory.Get"
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.logger.Debug(funcName, "conn_id", connId)
	conn, ok := r.byId[connId]
	if !ok {
		r.logger.Debug(funcName, "error", connection.ErrNotFound)
		return connection.Connection{}, connection.ErrNotFound
	}

	r.logger.Debug(funcName, "result", conn.RoomId)
	return conn, nil
}

func (r *repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byId)
}
