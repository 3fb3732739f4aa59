package room

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/watchparty/internal/broadcast"
)

type SendMessageParams struct {
	ConnId string
	RoomId string
	Text   string
}

type SendMessageResponse struct {
	Message MessageOutput
}

// SendMessage relays a chat line to every member of the room, the sender included. The author is
// always the display name the connection joined with.
func (s *Service) SendMessage(ctx context.Context, params *SendMessageParams) (SendMessageResponse, error) {
	params.Text = s.sanitize(params.Text, s.cfg.ChatMaxLength)
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.RoomId, OptionalRoomIdRule...),
		validation.Field(&params.Text, MessageTextRule...),
	); err != nil {
		return SendMessageResponse{}, err
	}

	conn, entry, err := s.acquire(params.ConnId, params.RoomId)
	if err != nil {
		return SendMessageResponse{}, err
	}
	defer entry.mu.Unlock()

	message := MessageOutput{
		User: conn.Username,
		Text: params.Text,
	}
	s.publishLocked(ctx, entry, broadcast.NewEvent(EventMessage, message))

	return SendMessageResponse{Message: message}, nil
}
