package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	roomService "github.com/sharetube/watchparty/internal/service/room"
	"github.com/sharetube/watchparty/pkg/rest"
)

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	room, err := c.roomService.GetRoom(r.Context(), roomId)
	if err != nil {
		if errors.Is(err, roomService.ErrUnknownRoom) {
			c.logger.InfoContext(r.Context(), "room not found", "room_id", roomId)
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to get room", "room_id", roomId, "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": room})
}
