package connection

import (
	"errors"

	"github.com/sharetube/watchparty/internal/broadcast"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Connection binds a websocket handle to the room it joined and the name it joined with.
type Connection struct {
	Id       string
	RoomId   string
	Username string
	Sub      broadcast.Subscriber
}
