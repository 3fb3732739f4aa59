package room

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/watchparty/internal/broadcast"
)

type RequestSyncParams struct {
	ConnId string
	RoomId string
}

type RequestSyncResponse struct {
	// Playing is false when the room is idle; nothing is sent then.
	Playing bool
	Sync    SyncTimeOutput
}

// RequestSync answers the sender only, with the elapsed time of the current video.
func (s *Service) RequestSync(ctx context.Context, params *RequestSyncParams) (RequestSyncResponse, error) {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, OptionalRoomIdRule...),
	); err != nil {
		return RequestSyncResponse{}, err
	}

	conn, entry, err := s.acquire(params.ConnId, params.RoomId)
	if err != nil {
		return RequestSyncResponse{}, err
	}
	defer entry.mu.Unlock()

	state, ok := entry.room.Sync()
	if !ok {
		return RequestSyncResponse{}, nil
	}

	output := SyncTimeOutput{
		Elapsed: state.Elapsed.Seconds(),
		VideoId: state.Video.Id,
		Seq:     state.Seq,
	}
	if err := conn.Sub.Send(broadcast.NewEvent(EventSyncTime, output)); err != nil {
		s.logger.WarnContext(ctx, "failed to send sync time", "conn_id", conn.Id, "error", err)
	}

	return RequestSyncResponse{
		Playing: true,
		Sync:    output,
	}, nil
}
