package mirror

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sharetube/watchparty/internal/repository/room"
)

type iRoomRepo interface {
	SetRoom(context.Context, *room.SetRoomParams) error
	RemoveRoom(context.Context, string) error
}

type iMetrics interface {
	Inc()
}

// Mirror writes room snapshots to the repository in the background. Save and Remove never block:
// pending writes are coalesced per room and only the latest one is stored.
type Mirror struct {
	repo    iRoomRepo
	timeout time.Duration
	errors  iMetrics
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]*room.Room
	wake    chan struct{}
}

func New(repo iRoomRepo, timeout time.Duration, errorCounter iMetrics, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}

	return &Mirror{
		repo:    repo,
		timeout: timeout,
		errors:  errorCounter,
		logger:  logger,
		pending: make(map[string]*room.Room),
		wake:    make(chan struct{}, 1),
	}
}

func (m *Mirror) Save(snapshot room.Room) {
	m.enqueue(snapshot.Id, &snapshot)
}

func (m *Mirror) Remove(roomId string) {
	m.enqueue(roomId, nil)
}

func (m *Mirror) enqueue(roomId string, snapshot *room.Room) {
	m.mu.Lock()
	m.pending[roomId] = snapshot
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Run drains pending writes until ctx is done, then flushes what is left.
func (m *Mirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.flush(context.Background())
			return
		case <-m.wake:
			m.flush(ctx)
		}
	}
}

func (m *Mirror) flush(ctx context.Context) {
	m.mu.Lock()
	batch := m.pending
	m.pending = make(map[string]*room.Room)
	m.mu.Unlock()

	for roomId, snapshot := range batch {
		if err := m.write(ctx, roomId, snapshot); err != nil {
			m.logger.Warn("failed to mirror room", "room_id", roomId, "error", err)
			if m.errors != nil {
				m.errors.Inc()
			}
		}
	}
}

func (m *Mirror) write(ctx context.Context, roomId string, snapshot *room.Room) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if snapshot == nil {
		if err := m.repo.RemoveRoom(ctx, roomId); err != nil && !errors.Is(err, room.ErrRoomNotFound) {
			return err
		}

		return nil
	}

	return m.repo.SetRoom(ctx, &room.SetRoomParams{Room: *snapshot})
}
