package inmemory

import (
	"testing"

	"github.com/sharetube/watchparty/internal/broadcast"
	"github.com/sharetube/watchparty/internal/repository/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepo(t *testing.T) {
	r := NewRepo(nil)
	conn := connection.Connection{
		Id:       "c1",
		RoomId:   "party",
		Username: "alice",
		Sub:      broadcast.NewMailbox("c1", 1),
	}

	require.NoError(t, r.Add(conn))
	assert.ErrorIs(t, r.Add(conn), connection.ErrAlreadyExists)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, "party", got.RoomId)
	assert.Equal(t, "alice", got.Username)

	_, err = r.Get("c2")
	assert.ErrorIs(t, err, connection.ErrNotFound)

	removed, err := r.Remove("c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", removed.Id)

	_, err = r.Remove("c1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	assert.Zero(t, r.Len())
}
