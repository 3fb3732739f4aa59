package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sharetube/watchparty/internal/broadcast"
	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/internal/metrics"
	"github.com/sharetube/watchparty/internal/repository/connection"
	repoRoom "github.com/sharetube/watchparty/internal/repository/room"
)

var (
	ErrInvalidReference     = errors.New("invalid video reference")
	ErrUnknownRoom          = errors.New("unknown room")
	ErrNotMember            = errors.New("not a member of the room")
	ErrConnNotFound         = errors.New("connection has not joined a room")
	ErrAlreadyJoined        = errors.New("connection already joined a room")
	ErrPlaylistLimitReached = errors.New("playlist limit reached")
)

type iConnRepo interface {
	Add(connection.Connection) error
	Remove(string) (connection.Connection, error)
	Get(string) (connection.Connection, error)
}

type iTitleFetcher interface {
	Title(ctx context.Context, videoId string) (string, error)
}

type iMirror interface {
	Save(repoRoom.Room)
	Remove(string)
}

type Config struct {
	RetainEmptyRooms bool
	// PlaylistLimit caps pending videos per room; zero means unlimited.
	PlaylistLimit int
	ChatMaxLength int
}

type Deps struct {
	ConnRepo iConnRepo
	// TitleFetcher and Mirror are optional.
	TitleFetcher iTitleFetcher
	Mirror       iMirror
	Metrics      *metrics.Metrics
	Clock        clock.Clock
	Logger       *slog.Logger
}

// roomEntry is one row of the rooms table. mu serializes every transition of the room together
// with the publish of its events.
type roomEntry struct {
	mu      sync.Mutex
	room    *domain.Room
	group   *broadcast.Group
	members map[string]string
	closed  bool
}

type Service struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry

	connRepo     iConnRepo
	titleFetcher iTitleFetcher
	mirror       iMirror
	metrics      *metrics.Metrics
	clock        clock.Clock
	sanitizer    *bluemonday.Policy
	cfg          Config
	logger       *slog.Logger
}

func NewService(deps Deps, cfg Config) *Service {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Service{
		rooms:        make(map[string]*roomEntry),
		connRepo:     deps.ConnRepo,
		titleFetcher: deps.TitleFetcher,
		mirror:       deps.Mirror,
		metrics:      deps.Metrics,
		clock:        deps.Clock,
		sanitizer:    bluemonday.StrictPolicy(),
		cfg:          cfg,
		logger:       deps.Logger,
	}
}

func (s *Service) lookup(roomId string) (*roomEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.rooms[roomId]
	return entry, ok
}

func (s *Service) getOrCreate(roomId string) (*roomEntry, bool) {
	if entry, ok := s.lookup(roomId); ok {
		return entry, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.rooms[roomId]; ok {
		return entry, false
	}

	entry := &roomEntry{
		room:    domain.NewRoom(roomId, s.clock),
		group:   broadcast.NewGroup(s.logger),
		members: make(map[string]string),
	}
	s.rooms[roomId] = entry
	s.metrics.Rooms.Inc()

	return entry, true
}

// forget drops the entry from the table if it is still the one registered under roomId.
func (s *Service) forget(roomId string, entry *roomEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.rooms[roomId]; ok && current == entry {
		delete(s.rooms, roomId)
		s.metrics.Rooms.Dec()
	}
}

// acquire resolves the sender and the room it names, and returns the entry locked.
// An empty roomId means the room the connection joined.
func (s *Service) acquire(connId, roomId string) (connection.Connection, *roomEntry, error) {
	conn, entry, err := s.authorize(connId, roomId)
	if err != nil {
		return connection.Connection{}, nil, err
	}

	entry.mu.Lock()
	if entry.closed {
		entry.mu.Unlock()
		return connection.Connection{}, nil, ErrUnknownRoom
	}

	if _, ok := entry.members[connId]; !ok {
		entry.mu.Unlock()
		return connection.Connection{}, nil, ErrNotMember
	}

	return conn, entry, nil
}

func (s *Service) authorize(connId, roomId string) (connection.Connection, *roomEntry, error) {
	conn, connErr := s.connRepo.Get(connId)
	if roomId == "" {
		if connErr != nil {
			return connection.Connection{}, nil, ErrConnNotFound
		}

		roomId = conn.RoomId
	}

	entry, ok := s.lookup(roomId)
	if !ok {
		return connection.Connection{}, nil, ErrUnknownRoom
	}

	if connErr != nil || conn.RoomId != roomId {
		return connection.Connection{}, nil, ErrNotMember
	}

	return conn, entry, nil
}

func (s *Service) publishLocked(ctx context.Context, entry *roomEntry, event *broadcast.Event) {
	dropped := entry.group.Publish(event)
	s.metrics.Events.WithLabelValues(event.Type).Inc()

	if len(dropped) > 0 {
		s.metrics.SlowConsumers.Add(float64(len(dropped)))
		s.logger.WarnContext(ctx, "dropped slow consumers", "room_id", entry.room.Id, "conn_ids", dropped)
	}
}

func (s *Service) mirrorLocked(entry *roomEntry) {
	if s.mirror == nil {
		return
	}

	s.mirror.Save(s.serializeLocked(entry))
}

func (s *Service) GetRoom(_ context.Context, roomId string) (repoRoom.Room, error) {
	entry, ok := s.lookup(roomId)
	if !ok {
		return repoRoom.Room{}, ErrUnknownRoom
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.closed {
		return repoRoom.Room{}, ErrUnknownRoom
	}

	return s.serializeLocked(entry), nil
}

func (s *Service) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}
