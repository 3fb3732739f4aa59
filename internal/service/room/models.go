package room

import "github.com/sharetube/watchparty/internal/domain"

const (
	EventPlayVideo   = "play_video"
	EventStopVideo   = "stop_video"
	EventUpdateQueue = "update_queue"
	EventSyncTime    = "sync_time"
	EventSyncState   = "sync_state"
	EventMessage     = "message"
)

const systemUser = "System"

type PlayVideoOutput struct {
	Id      string  `json:"id"`
	Title   string  `json:"title"`
	Seq     uint64  `json:"seq"`
	Elapsed float64 `json:"elapsed"`
}

type SyncTimeOutput struct {
	Elapsed float64 `json:"elapsed"`
	VideoId string  `json:"video_id"`
	Seq     uint64  `json:"seq"`
}

type SyncStateOutput struct {
	Room         string         `json:"room"`
	CurrentVideo *domain.Video  `json:"current_video"`
	Elapsed      float64        `json:"elapsed"`
	Seq          uint64         `json:"seq"`
	Queue        []domain.Video `json:"queue"`
	Users        []string       `json:"users"`
}

type StopVideoOutput struct{}

type MessageOutput struct {
	User string `json:"user"`
	Text string `json:"text"`
}
