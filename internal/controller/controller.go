package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchparty/internal/metrics"
	"github.com/sharetube/watchparty/internal/repository/room"
	roomService "github.com/sharetube/watchparty/internal/service/room"
	"github.com/sharetube/watchparty/pkg/validator"
	"github.com/sharetube/watchparty/pkg/wsrouter"
)

type iRoomService interface {
	Join(context.Context, *roomService.JoinParams) (roomService.JoinResponse, error)
	Leave(context.Context, *roomService.LeaveParams) (roomService.LeaveResponse, error)
	AddVideo(context.Context, *roomService.AddVideoParams) (roomService.AddVideoResponse, error)
	EndVideo(context.Context, *roomService.EndVideoParams) (roomService.EndVideoResponse, error)
	RequestSync(context.Context, *roomService.RequestSyncParams) (roomService.RequestSyncResponse, error)
	SendMessage(context.Context, *roomService.SendMessageParams) (roomService.SendMessageResponse, error)
	GetRoom(context.Context, string) (room.Room, error)
}

type ConnConfig struct {
	SendBuffer int
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
}

type controller struct {
	roomService    iRoomService
	upgrader       websocket.Upgrader
	validate       *validator.Validator
	wsmux          *wsrouter.WSRouter[*wsConn]
	metrics        *metrics.Metrics
	metricsHandler http.Handler
	connConfig     ConnConfig
	logger         *slog.Logger
}

func NewController(roomService iRoomService, m *metrics.Metrics, metricsHandler http.Handler, connConfig ConnConfig, logger *slog.Logger) *controller {
	if m == nil {
		m = metrics.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService:    roomService,
		validate:       validator.NewValidator(),
		metrics:        m,
		metricsHandler: metricsHandler,
		connConfig:     connConfig,
		logger:         logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
