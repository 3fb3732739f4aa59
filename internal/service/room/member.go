package room

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/watchparty/internal/broadcast"
	"github.com/sharetube/watchparty/internal/repository/connection"
)

type JoinParams struct {
	ConnId   string
	Sub      broadcast.Subscriber
	Username string
	RoomId   string
}

type JoinResponse struct {
	RoomId   string
	Username string
	// Created is set when the join brought the room into existence.
	Created bool
}

// Join binds the connection to the room, creating the room when it is unknown. The joining
// connection receives a sync_state snapshot before any later room event.
func (s *Service) Join(ctx context.Context, params *JoinParams) (JoinResponse, error) {
	params.Username = s.sanitize(params.Username, 0)
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.Username, UsernameRule...),
		validation.Field(&params.RoomId, RoomIdRule...),
	); err != nil {
		return JoinResponse{}, err
	}

	if _, err := s.connRepo.Get(params.ConnId); err == nil {
		return JoinResponse{}, ErrAlreadyJoined
	}

	for {
		entry, created := s.getOrCreate(params.RoomId)

		entry.mu.Lock()
		if entry.closed {
			entry.mu.Unlock()
			s.forget(params.RoomId, entry)
			continue
		}

		resp, err := s.joinLocked(ctx, entry, params)
		entry.mu.Unlock()
		if err != nil {
			if created {
				s.evictIfEmpty(params.RoomId, entry)
			}

			return JoinResponse{}, err
		}

		resp.Created = created
		return resp, nil
	}
}

func (s *Service) joinLocked(ctx context.Context, entry *roomEntry, params *JoinParams) (JoinResponse, error) {
	if err := s.connRepo.Add(connection.Connection{
		Id:       params.ConnId,
		RoomId:   params.RoomId,
		Username: params.Username,
		Sub:      params.Sub,
	}); err != nil {
		if errors.Is(err, connection.ErrAlreadyExists) {
			return JoinResponse{}, ErrAlreadyJoined
		}

		return JoinResponse{}, fmt.Errorf("failed to add connection: %w", err)
	}

	entry.members[params.ConnId] = params.Username
	entry.group.Add(params.Sub)
	s.metrics.Connections.Inc()

	if err := params.Sub.Send(broadcast.NewEvent(EventSyncState, s.syncStateLocked(entry))); err != nil {
		s.logger.WarnContext(ctx, "failed to send sync state", "conn_id", params.ConnId, "error", err)
	}
	s.metrics.Events.WithLabelValues(EventSyncState).Inc()

	s.publishLocked(ctx, entry, systemMessageEvent(fmt.Sprintf("%s has joined the room.", params.Username)))
	s.mirrorLocked(entry)

	s.logger.InfoContext(ctx, "connection joined room", "room_id", params.RoomId, "conn_id", params.ConnId, "members", len(entry.members))

	return JoinResponse{
		RoomId:   params.RoomId,
		Username: params.Username,
	}, nil
}

func (s *Service) evictIfEmpty(roomId string, entry *roomEntry) {
	entry.mu.Lock()
	evict := len(entry.members) == 0 && !entry.closed
	if evict {
		entry.closed = true
	}
	entry.mu.Unlock()

	if evict {
		s.forget(roomId, entry)
	}
}

type LeaveParams struct {
	ConnId string
}

type LeaveResponse struct {
	RoomId   string
	Username string
	Evicted  bool
}

// Leave unbinds the connection. The room's queue and playback are left untouched; an empty room
// is evicted unless empty rooms are retained.
func (s *Service) Leave(ctx context.Context, params *LeaveParams) (LeaveResponse, error) {
	conn, err := s.connRepo.Remove(params.ConnId)
	if err != nil {
		if errors.Is(err, connection.ErrNotFound) {
			return LeaveResponse{}, ErrConnNotFound
		}

		return LeaveResponse{}, fmt.Errorf("failed to remove connection: %w", err)
	}
	s.metrics.Connections.Dec()

	entry, ok := s.lookup(conn.RoomId)
	if !ok {
		return LeaveResponse{RoomId: conn.RoomId, Username: conn.Username}, nil
	}

	entry.mu.Lock()
	delete(entry.members, conn.Id)
	entry.group.Remove(conn.Id)

	evicted := false
	if len(entry.members) == 0 && !s.cfg.RetainEmptyRooms && !entry.closed {
		entry.closed = true
		evicted = true
		// ordered before the Save of any room re-created under the same id
		if s.mirror != nil {
			s.mirror.Remove(conn.RoomId)
		}
	} else if !entry.closed {
		s.publishLocked(ctx, entry, systemMessageEvent(fmt.Sprintf("%s has left the room.", conn.Username)))
		s.mirrorLocked(entry)
	}
	entry.mu.Unlock()

	if evicted {
		s.forget(conn.RoomId, entry)

		s.logger.InfoContext(ctx, "room evicted", "room_id", conn.RoomId)
	}

	s.logger.InfoContext(ctx, "connection left room", "room_id", conn.RoomId, "conn_id", conn.Id)

	return LeaveResponse{
		RoomId:   conn.RoomId,
		Username: conn.Username,
		Evicted:  evicted,
	}, nil
}
