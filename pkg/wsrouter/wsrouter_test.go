package wsrouter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conn struct {
	name string
}

type addInput struct {
	VideoId string `json:"video_id"`
}

func TestDispatch(t *testing.T) {
	r := New[*conn]()

	var got addInput
	var gotConn *conn
	var gotType string
	Handle(r, "add_to_queue", func(ctx context.Context, c *conn, input addInput) error {
		got = input
		gotConn = c
		gotType = GetMessageTypeFromCtx(ctx)
		return nil
	})

	c := &conn{name: "c1"}
	err := r.Dispatch(context.Background(), c, []byte(`{"type":"add_to_queue","payload":{"video_id":"abcdefghijk"}}`))
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijk", got.VideoId)
	assert.Same(t, c, gotConn)
	assert.Equal(t, "add_to_queue", gotType)
}

func TestDispatchEmptyPayload(t *testing.T) {
	r := New[*conn]()

	called := 0
	Handle(r, "request_sync", func(_ context.Context, _ *conn, input struct {
		Room string `json:"room"`
	}) error {
		called++
		assert.Empty(t, input.Room)
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), nil, []byte(`{"type":"request_sync"}`)))
	require.NoError(t, r.Dispatch(context.Background(), nil, []byte(`{"type":"request_sync","payload":null}`)))
	assert.Equal(t, 2, called)
}

func TestDispatchErrors(t *testing.T) {
	r := New[*conn]()
	Handle(r, "join", func(context.Context, *conn, addInput) error { return nil })

	err := r.Dispatch(context.Background(), nil, []byte(`not json`))
	assert.ErrorIs(t, err, ErrBadMessage)

	err = r.Dispatch(context.Background(), nil, []byte(`{"type":"skip"}`))
	assert.ErrorIs(t, err, ErrUnknownMessageType)

	err = r.Dispatch(context.Background(), nil, []byte(`{"type":"join","payload":{"video_id":5}}`))
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestMiddlewareOrder(t *testing.T) {
	r := New[*conn]()

	var trace []string
	mw := func(name string) Middleware[*conn] {
		return func(next HandlerFunc[*conn]) HandlerFunc[*conn] {
			return func(ctx context.Context, c *conn, payload json.RawMessage) error {
				trace = append(trace, name)
				return next(ctx, c, payload)
			}
		}
	}
	r.Use(mw("outer"), mw("inner"))
	r.HandleRaw("ping", func(context.Context, *conn, json.RawMessage) error {
		trace = append(trace, "handler")
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), nil, []byte(`{"type":"ping"}`)))
	assert.Equal(t, []string{"outer", "inner", "handler"}, trace)
}
