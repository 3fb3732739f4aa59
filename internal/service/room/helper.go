package room

import (
	"html"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sharetube/watchparty/internal/broadcast"
	"github.com/sharetube/watchparty/internal/domain"
	repoRoom "github.com/sharetube/watchparty/internal/repository/room"
	"golang.org/x/exp/maps"
)

// sanitize strips markup and surrounding whitespace, then truncates to maxRunes (0 = no limit).
func (s *Service) sanitize(text string, maxRunes int) string {
	sanitized := s.sanitizer.Sanitize(html.UnescapeString(text))
	sanitized = strings.TrimSpace(sanitized)

	return truncate(sanitized, maxRunes)
}

// sanitizeTitle strips markup like sanitize but leaves plain characters unescaped.
func (s *Service) sanitizeTitle(title string) string {
	plain := html.UnescapeString(s.sanitizer.Sanitize(html.UnescapeString(title)))

	return truncate(strings.TrimSpace(plain), titleMaxLength)
}

func truncate(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes]))
}

// usernamesLocked lists the distinct display names in the room, sorted.
func (s *Service) usernamesLocked(entry *roomEntry) []string {
	names := maps.Values(entry.members)
	slices.Sort(names)

	return slices.Compact(names)
}

func (s *Service) serializeLocked(entry *roomEntry) repoRoom.Room {
	queue := entry.room.Queue()
	res := repoRoom.Room{
		Id:      entry.room.Id,
		Queue:   make([]repoRoom.Video, 0, len(queue)),
		Members: s.usernamesLocked(entry),
	}

	for _, video := range queue {
		res.Queue = append(res.Queue, repoRoom.Video{Id: video.Id, Title: video.Title})
	}

	if playback, ok := entry.room.Current(); ok {
		res.Playback = &repoRoom.Playback{
			Video:     repoRoom.Video{Id: playback.Video.Id, Title: playback.Video.Title},
			StartedAt: playback.StartedAt,
			Seq:       playback.Seq,
		}
	}

	return res
}

func (s *Service) syncStateLocked(entry *roomEntry) SyncStateOutput {
	snapshot := entry.room.Snapshot()
	output := SyncStateOutput{
		Room:  entry.room.Id,
		Queue: snapshot.Queue,
		Users: s.usernamesLocked(entry),
	}

	if snapshot.Current != nil {
		video := snapshot.Current.Video
		output.CurrentVideo = &video
		output.Elapsed = snapshot.Current.Elapsed.Seconds()
		output.Seq = snapshot.Current.Seq
	}

	return output
}

func playVideoEvent(playback domain.Playback, elapsed float64) *broadcast.Event {
	return broadcast.NewEvent(EventPlayVideo, PlayVideoOutput{
		Id:      playback.Video.Id,
		Title:   playback.Video.Title,
		Seq:     playback.Seq,
		Elapsed: elapsed,
	})
}

func updateQueueEvent(queue []domain.Video) *broadcast.Event {
	return broadcast.NewEvent(EventUpdateQueue, queue)
}

func systemMessageEvent(text string) *broadcast.Event {
	return broadcast.NewEvent(EventMessage, MessageOutput{
		User: systemUser,
		Text: text,
	})
}
