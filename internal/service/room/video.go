package room

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/watchparty/internal/broadcast"
	"github.com/sharetube/watchparty/internal/domain"
	"github.com/sharetube/watchparty/pkg/ytvideoid"
)

type AddVideoParams struct {
	ConnId string
	RoomId string
	// VideoRef is a bare video id or a watch/short-link URL.
	VideoRef string
	Title    string
}

type AddVideoResponse struct {
	Video   domain.Video
	Started bool
	// Position is the 1-based queue position when the video was queued.
	Position int
	Seq      uint64
}

func (s *Service) AddVideo(ctx context.Context, params *AddVideoParams) (AddVideoResponse, error) {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, OptionalRoomIdRule...),
		validation.Field(&params.VideoRef, VideoRefRule...),
	); err != nil {
		return AddVideoResponse{}, err
	}

	videoId, err := ytvideoid.Resolve(params.VideoRef)
	if err != nil {
		return AddVideoResponse{}, fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}

	if _, _, err := s.authorize(params.ConnId, params.RoomId); err != nil {
		return AddVideoResponse{}, err
	}

	video := domain.Video{
		Id:    videoId,
		Title: s.resolveTitle(ctx, videoId, params.Title),
	}

	_, entry, err := s.acquire(params.ConnId, params.RoomId)
	if err != nil {
		return AddVideoResponse{}, err
	}
	defer entry.mu.Unlock()

	if s.cfg.PlaylistLimit > 0 && entry.room.IsPlaying() && entry.room.QueueLen() >= s.cfg.PlaylistLimit {
		return AddVideoResponse{}, ErrPlaylistLimitReached
	}

	result := entry.room.Enqueue(video)
	if result.Started {
		s.publishLocked(ctx, entry, playVideoEvent(result.Playback, 0))
	} else {
		s.publishLocked(ctx, entry, updateQueueEvent(entry.room.Queue()))
	}
	s.mirrorLocked(entry)

	s.logger.InfoContext(ctx, "video added", "room_id", entry.room.Id, "video_id", videoId, "started", result.Started)

	return AddVideoResponse{
		Video:    video,
		Started:  result.Started,
		Position: result.Position,
		Seq:      result.Playback.Seq,
	}, nil
}

// resolveTitle runs outside any room lock since it may call out to the network.
func (s *Service) resolveTitle(ctx context.Context, videoId, title string) string {
	if title = s.sanitizeTitle(title); title != "" {
		return title
	}

	if s.titleFetcher != nil {
		fetched, err := s.titleFetcher.Title(ctx, videoId)
		if err == nil {
			if fetched = s.sanitizeTitle(fetched); fetched != "" {
				return fetched
			}
		} else {
			s.logger.InfoContext(ctx, "failed to fetch video title", "video_id", videoId, "error", err)
		}
	}

	return domain.DefaultTitle(videoId)
}

type EndVideoParams struct {
	ConnId  string
	RoomId  string
	// VideoId and Seq are optional; an empty id ends whatever plays.
	VideoId string
	Seq     uint64
}

type EndVideoResponse struct {
	// Stale is set when the signal did not match the current playback and was ignored.
	Stale bool
	Next  *domain.Video
}

func (s *Service) EndVideo(ctx context.Context, params *EndVideoParams) (EndVideoResponse, error) {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, OptionalRoomIdRule...),
		validation.Field(&params.VideoId, VideoIdRule...),
	); err != nil {
		return EndVideoResponse{}, err
	}

	_, entry, err := s.acquire(params.ConnId, params.RoomId)
	if err != nil {
		return EndVideoResponse{}, err
	}
	defer entry.mu.Unlock()

	next, err := entry.room.EndVideo(domain.EndSignal{
		VideoId: params.VideoId,
		Seq:     params.Seq,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStaleSignal) {
			s.metrics.StaleSignals.Inc()
			s.logger.DebugContext(ctx, "ignored stale end signal", "room_id", entry.room.Id, "video_id", params.VideoId, "seq", params.Seq)
			return EndVideoResponse{Stale: true}, nil
		}

		return EndVideoResponse{}, fmt.Errorf("failed to end video: %w", err)
	}

	var events []*broadcast.Event
	if next != nil {
		events = append(events, playVideoEvent(*next, 0), updateQueueEvent(entry.room.Queue()))
	} else {
		events = append(events, broadcast.NewEvent(EventStopVideo, StopVideoOutput{}))
	}

	for _, event := range events {
		s.publishLocked(ctx, entry, event)
	}
	s.mirrorLocked(entry)

	resp := EndVideoResponse{}
	if next != nil {
		video := next.Video
		resp.Next = &video
	}

	return resp, nil
}
