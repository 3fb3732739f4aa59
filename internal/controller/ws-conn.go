package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sharetube/watchparty/internal/broadcast"
	roomService "github.com/sharetube/watchparty/internal/service/room"
	"github.com/sharetube/watchparty/pkg/ctxlogger"
	"github.com/sourcegraph/conc"
)

// wsConn is one websocket client. Everything written to the socket goes through box, so that
// unicasts and room broadcasts share one ordered queue.
type wsConn struct {
	id   string
	conn *websocket.Conn
	box  *broadcast.Mailbox
}

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	connId := uuid.NewString()
	ws := &wsConn{
		id:   connId,
		conn: conn,
		box:  broadcast.NewMailbox(connId, c.connConfig.SendBuffer),
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	ctx = ctxlogger.AppendCtx(ctx, slog.String("conn_id", ws.id))

	c.logger.InfoContext(ctx, "websocket connected", "remote_addr", r.RemoteAddr)

	var wg conc.WaitGroup
	wg.Go(func() {
		defer cancel()
		c.writePump(ctx, ws)
	})
	wg.Go(func() {
		defer ws.box.Close()
		c.readPump(ctx, ws)
	})
	if recovered := wg.WaitAndRecover(); recovered != nil {
		c.logger.ErrorContext(ctx, "websocket handler panicked", "panic", recovered.Value, "stack", string(recovered.Stack))
	}

	if _, err := c.roomService.Leave(context.WithoutCancel(ctx), &roomService.LeaveParams{
		ConnId: ws.id,
	}); err != nil && !errors.Is(err, roomService.ErrConnNotFound) {
		c.logger.WarnContext(ctx, "failed to leave room", "error", err)
	}

	c.logger.InfoContext(ctx, "websocket disconnected")
}

func (c controller) readPump(ctx context.Context, ws *wsConn) {
	if c.connConfig.ReadLimit > 0 {
		ws.conn.SetReadLimit(c.connConfig.ReadLimit)
	}

	if c.connConfig.PongWait > 0 {
		ws.conn.SetReadDeadline(time.Now().Add(c.connConfig.PongWait))
		ws.conn.SetPongHandler(func(string) error {
			return ws.conn.SetReadDeadline(time.Now().Add(c.connConfig.PongWait))
		})
	}

	for {
		_, data, err := ws.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.InfoContext(ctx, "websocket read failed", "error", err)
			}

			return
		}

		if err := c.wsmux.Dispatch(ctx, ws, data); err != nil {
			c.writeError(ctx, ws, err)
		}
	}
}

func (c controller) writePump(ctx context.Context, ws *wsConn) {
	var ping <-chan time.Time
	if c.connConfig.PingPeriod > 0 {
		ticker := time.NewTicker(c.connConfig.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}

	defer ws.conn.Close()

	for {
		select {
		case event := <-ws.box.Events():
			ws.conn.SetWriteDeadline(c.writeDeadline())
			if err := ws.conn.WriteJSON(event); err != nil {
				c.logger.InfoContext(ctx, "failed to write event", "event_type", event.Type, "error", err)
				return
			}
		case <-ping:
			if err := ws.conn.WriteControl(websocket.PingMessage, nil, c.writeDeadline()); err != nil {
				c.logger.InfoContext(ctx, "failed to write ping", "error", err)
				return
			}
		case <-ws.box.Done():
			ws.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), c.writeDeadline())
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c controller) writeDeadline() time.Time {
	if c.connConfig.WriteWait <= 0 {
		return time.Time{}
	}

	return time.Now().Add(c.connConfig.WriteWait)
}
