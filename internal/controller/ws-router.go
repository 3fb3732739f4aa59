package controller

import (
	"github.com/sharetube/watchparty/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter[*wsConn] {
	mux := wsrouter.New[*wsConn]()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())

	// room
	wsrouter.Handle(mux, "join", c.handleJoin)
	wsrouter.Handle(mux, "ping", c.handlePing)

	// queue
	wsrouter.Handle(mux, "add_to_queue", c.handleAddToQueue)
	wsrouter.Handle(mux, "video_ended", c.handleVideoEnded)

	// player
	wsrouter.Handle(mux, "request_sync", c.handleRequestSync)

	// chat
	wsrouter.Handle(mux, "send_message", c.handleSendMessage)

	return mux
}
