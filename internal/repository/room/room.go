package room

import "time"

type Video struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

type Playback struct {
	Video     Video     `json:"video"`
	StartedAt time.Time `json:"started_at"`
	Seq       uint64    `json:"seq"`
}

// Room is the serialized form of a live room: {id, queue, playback, members}.
// Playback is null while the room is idle; members are display names.
type Room struct {
	Id       string    `json:"id"`
	Queue    []Video   `json:"queue"`
	Playback *Playback `json:"playback"`
	Members  []string  `json:"members"`
}

type SetRoomParams struct {
	Room Room
}
