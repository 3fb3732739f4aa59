package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sharetube/watchparty/internal/repository/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	rooms   map[string]room.Room
	writes  int
	failSet bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rooms: make(map[string]room.Room)}
}

func (f *fakeRepo) SetRoom(_ context.Context, params *room.SetRoomParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.failSet {
		return errors.New("unavailable")
	}

	f.rooms[params.Room.Id] = params.Room
	return nil
}

func (f *fakeRepo) RemoveRoom(_ context.Context, roomId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rooms[roomId]; !ok {
		return room.ErrRoomNotFound
	}

	delete(f.rooms, roomId)
	return nil
}

func (f *fakeRepo) get(roomId string) (room.Room, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rooms[roomId]
	return r, ok
}

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) Inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestMirrorCoalescesWrites(t *testing.T) {
	repo := newFakeRepo()
	m := New(repo, time.Second, nil, nil)

	for i := 0; i < 10; i++ {
		m.Save(room.Room{Id: "party", Members: []string{"alice"}, Queue: make([]room.Video, i)})
	}

	m.flush(context.Background())

	got, ok := repo.get("party")
	require.True(t, ok)
	assert.Len(t, got.Queue, 9)
	assert.Equal(t, 1, repo.writes)
}

func TestMirrorRemove(t *testing.T) {
	repo := newFakeRepo()
	m := New(repo, time.Second, nil, nil)

	m.Save(room.Room{Id: "party"})
	m.flush(context.Background())
	_, ok := repo.get("party")
	require.True(t, ok)

	m.Remove("party")
	m.flush(context.Background())
	_, ok = repo.get("party")
	assert.False(t, ok)

	// removing an unknown room is not a failure
	errs := &counter{}
	m = New(repo, time.Second, errs, nil)
	m.Remove("ghost")
	m.flush(context.Background())
	assert.Zero(t, errs.value())
}

func TestMirrorCountsFailures(t *testing.T) {
	repo := newFakeRepo()
	repo.failSet = true
	errs := &counter{}
	m := New(repo, time.Second, errs, nil)

	m.Save(room.Room{Id: "party"})
	m.flush(context.Background())

	assert.Equal(t, 1, errs.value())
}

func TestMirrorRunFlushesOnShutdown(t *testing.T) {
	repo := newFakeRepo()
	m := New(repo, time.Second, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	m.Save(room.Room{Id: "party"})
	assert.Eventually(t, func() bool {
		_, ok := repo.get("party")
		return ok
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mirror did not stop")
	}
}
