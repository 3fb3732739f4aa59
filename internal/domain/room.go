package domain

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
)

var ErrStaleSignal = errors.New("stale signal")

// EndSignal identifies the playback a client believes just ended. Both fields are optional:
// an empty VideoId matches whatever plays, a zero Seq matches any play of the video.
type EndSignal struct {
	VideoId string
	Seq     uint64
}

type EnqueueResult struct {
	// Started is set when the video went straight to playback.
	Started  bool
	Playback Playback
	// Position is the 1-based queue position when the video was only queued.
	Position int
}

type SyncState struct {
	Video   Video
	Elapsed time.Duration
	Seq     uint64
}

type Snapshot struct {
	Current *SyncState
	Queue   []Video
}

// Room is the per-room playback state machine. It owns the queue and the playback clock.
// Room is not safe for concurrent use.
type Room struct {
	Id       string
	queue    *Queue
	playback *Playback
	seq      uint64
	clock    clock.Clock
}

func NewRoom(id string, clk clock.Clock) *Room {
	if clk == nil {
		clk = clock.New()
	}

	return &Room{
		Id:    id,
		queue: NewQueue(),
		clock: clk,
	}
}

// Enqueue starts the video immediately when nothing plays and nothing waits,
// otherwise appends it.
func (r *Room) Enqueue(video Video) EnqueueResult {
	position := r.queue.Enqueue(video)

	if r.playback == nil && position == 1 {
		playback := r.playNext()
		return EnqueueResult{
			Started:  true,
			Playback: *playback,
		}
	}

	return EnqueueResult{Position: position}
}

// EndVideo advances to the next queued video, or goes idle when the queue is empty.
// It returns the new playback, nil meaning idle. Signals for anything but the current
// playback return ErrStaleSignal and change nothing.
func (r *Room) EndVideo(signal EndSignal) (*Playback, error) {
	if !r.matches(signal) {
		return nil, ErrStaleSignal
	}

	playback := r.playNext()
	if playback == nil {
		return nil, nil
	}

	next := *playback
	return &next, nil
}

func (r *Room) matches(signal EndSignal) bool {
	if r.playback == nil {
		return false
	}

	if signal.VideoId != "" && signal.VideoId != r.playback.Video.Id {
		return false
	}

	return signal.Seq == 0 || signal.Seq == r.playback.Seq
}

func (r *Room) playNext() *Playback {
	video, ok := r.queue.DequeueFront()
	if !ok {
		r.playback = nil
		return nil
	}

	r.seq++
	r.playback = &Playback{
		Video:     video,
		StartedAt: r.clock.Now(),
		Seq:       r.seq,
	}

	return r.playback
}

func (r *Room) IsPlaying() bool {
	return r.playback != nil
}

// Current returns a copy of the playback, false when idle.
func (r *Room) Current() (Playback, bool) {
	if r.playback == nil {
		return Playback{}, false
	}

	return *r.playback, true
}

// Sync reports the current video with a freshly computed elapsed time.
func (r *Room) Sync() (SyncState, bool) {
	if r.playback == nil {
		return SyncState{}, false
	}

	return SyncState{
		Video:   r.playback.Video,
		Elapsed: r.playback.Elapsed(r.clock),
		Seq:     r.playback.Seq,
	}, true
}

func (r *Room) Queue() []Video {
	return r.queue.List()
}

func (r *Room) QueueLen() int {
	return r.queue.Len()
}

func (r *Room) Snapshot() Snapshot {
	snapshot := Snapshot{Queue: r.queue.List()}
	if state, ok := r.Sync(); ok {
		snapshot.Current = &state
	}

	return snapshot
}
