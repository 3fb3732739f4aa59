package room

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	usernameMaxLength = 32
	titleMaxLength    = 200
)

var UsernameRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, usernameMaxLength),
}

var RoomIdRule = []validation.Rule{
	validation.Required,
	validation.Match(regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)),
}

// OptionalRoomIdRule is used once the connection is bound and the room may be omitted.
var OptionalRoomIdRule = []validation.Rule{
	validation.Match(regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)),
}

var VideoRefRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, 2048),
}

// VideoIdRule allows an empty id; end signals may omit it.
var VideoIdRule = []validation.Rule{
	validation.Match(regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)),
}

var MessageTextRule = []validation.Rule{
	validation.Required,
}

