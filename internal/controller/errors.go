package controller

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/watchparty/internal/broadcast"
	roomService "github.com/sharetube/watchparty/internal/service/room"
	"github.com/sharetube/watchparty/pkg/wsrouter"
)

var ErrValidationError = errors.New("validation error")

const eventError = "error"

const (
	CodeInvalidReference = "INVALID_REFERENCE"
	CodeUnknownRoom      = "UNKNOWN_ROOM"
	CodeNotMember        = "NOT_MEMBER"
	CodeNotJoined        = "NOT_JOINED"
	CodeAlreadyJoined    = "ALREADY_JOINED"
	CodeValidation       = "VALIDATION"
	CodePlaylistLimit    = "PLAYLIST_LIMIT"
	CodeUnknownType      = "UNKNOWN_TYPE"
	CodeBadRequest       = "BAD_REQUEST"
	CodeInternal         = "INTERNAL"
)

type ErrorOutput struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorCode(err error) string {
	var validationErrors validation.Errors

	switch {
	case errors.Is(err, roomService.ErrInvalidReference):
		return CodeInvalidReference
	case errors.Is(err, roomService.ErrUnknownRoom):
		return CodeUnknownRoom
	case errors.Is(err, roomService.ErrNotMember):
		return CodeNotMember
	case errors.Is(err, roomService.ErrConnNotFound):
		return CodeNotJoined
	case errors.Is(err, roomService.ErrAlreadyJoined):
		return CodeAlreadyJoined
	case errors.Is(err, roomService.ErrPlaylistLimitReached):
		return CodePlaylistLimit
	case errors.Is(err, ErrValidationError), errors.As(err, &validationErrors):
		return CodeValidation
	case errors.Is(err, wsrouter.ErrUnknownMessageType):
		return CodeUnknownType
	case errors.Is(err, wsrouter.ErrBadMessage):
		return CodeBadRequest
	default:
		return CodeInternal
	}
}

// writeError answers the sender only. Internal failures are logged but never described to the client.
func (c controller) writeError(ctx context.Context, ws *wsConn, err error) {
	output := ErrorOutput{
		Code:    errorCode(err),
		Message: err.Error(),
	}

	if output.Code == CodeInternal {
		c.logger.WarnContext(ctx, "failed to handle message", "error", err)
		output.Message = "internal error"
	} else {
		c.logger.InfoContext(ctx, "rejected message", "code", output.Code, "error", err)
	}

	if err := ws.box.Send(broadcast.NewEvent(eventError, output)); err != nil {
		c.logger.InfoContext(ctx, "failed to send error", "error", err)
	}
}
