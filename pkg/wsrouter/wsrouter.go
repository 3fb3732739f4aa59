package wsrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrBadMessage         = errors.New("bad message")
	ErrUnknownMessageType = errors.New("unknown message type")
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[C any] func(ctx context.Context, conn C, payload json.RawMessage) error

type Middleware[C any] func(next HandlerFunc[C]) HandlerFunc[C]

// WSRouter dispatches decoded websocket frames to handlers keyed by message type.
// C is the connection type handed to every handler.
type WSRouter[C any] struct {
	routes      map[string]HandlerFunc[C]
	middlewares []Middleware[C]
}

func New[C any]() *WSRouter[C] {
	return &WSRouter[C]{routes: make(map[string]HandlerFunc[C])}
}

// Use appends middlewares; the first one added is the outermost.
func (r *WSRouter[C]) Use(mws ...Middleware[C]) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *WSRouter[C]) HandleRaw(messageType string, handler HandlerFunc[C]) {
	r.routes[messageType] = handler
}

// Handle registers a handler whose payload is decoded into T before the call.
// A missing or null payload decodes to the zero value of T.
func Handle[C, T any](r *WSRouter[C], messageType string, handler func(ctx context.Context, conn C, input T) error) {
	r.HandleRaw(messageType, func(ctx context.Context, conn C, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 && !bytes.Equal(payload, []byte("null")) {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("%w: %s", ErrBadMessage, err.Error())
			}
		}

		return handler(ctx, conn, input)
	})
}

// Dispatch decodes one frame and runs the matching handler through the middleware chain.
func (r *WSRouter[C]) Dispatch(ctx context.Context, conn C, data []byte) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %s", ErrBadMessage, err.Error())
	}

	handler, ok := r.routes[msg.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	ctx = context.WithValue(ctx, messageTypeKey, msg.Type)
	return handler(ctx, conn, msg.Payload)
}
