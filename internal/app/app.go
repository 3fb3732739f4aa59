package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/watchparty/internal/controller"
	"github.com/sharetube/watchparty/internal/metrics"
	"github.com/sharetube/watchparty/internal/mirror"
	"github.com/sharetube/watchparty/internal/repository/connection/inmemory"
	roomRedis "github.com/sharetube/watchparty/internal/repository/room/redis"
	"github.com/sharetube/watchparty/internal/service/room"
	"github.com/sharetube/watchparty/pkg/ctxlogger"
	"github.com/sharetube/watchparty/pkg/redisclient"
	"github.com/sharetube/watchparty/pkg/ytvideodata"
	"github.com/sourcegraph/conc"
)

type AppConfig struct {
	Host             string        `json:"host"`
	Port             int           `json:"port"`
	LogLevel         string        `json:"log_level"`
	RetainEmptyRooms bool          `json:"retain_empty_rooms"`
	PlaylistLimit    int           `json:"playlist_limit"`
	ChatMaxLength    int           `json:"chat_max_length"`
	SendBuffer       int           `json:"send_buffer"`
	ReadLimit        int64         `json:"read_limit"`
	PingPeriod       time.Duration `json:"ping_period"`
	PongWait         time.Duration `json:"pong_wait"`
	WriteWait        time.Duration `json:"write_wait"`
	FetchVideoTitles bool          `json:"fetch_video_titles"`
	RedisHost        string        `json:"redis_host"`
	RedisPort        int           `json:"redis_port"`
	RedisPassword    string        `json:"-"`
	SnapshotTTL      time.Duration `json:"snapshot_ttl"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.PlaylistLimit < 0 {
		return fmt.Errorf("playlist limit must not be negative")
	}
	if cfg.ChatMaxLength < 1 {
		return fmt.Errorf("chat max length must be greater than 0")
	}
	if cfg.SendBuffer < 1 {
		return fmt.Errorf("send buffer must be greater than 0")
	}
	if cfg.ReadLimit < 1 {
		return fmt.Errorf("read limit must be greater than 0")
	}
	if cfg.PingPeriod <= 0 || cfg.PongWait <= 0 || cfg.WriteWait <= 0 {
		return fmt.Errorf("ping period, pong wait and write wait must be positive")
	}
	if cfg.PingPeriod >= cfg.PongWait {
		return fmt.Errorf("ping period must be shorter than pong wait")
	}
	if cfg.RedisHost != "" && cfg.SnapshotTTL <= 0 {
		return fmt.Errorf("snapshot ttl must be positive when redis is enabled")
	}

	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return logLevel, nil
}

// app holds everything Run wires together, so tests can build the same graph without signals.
type app struct {
	handler http.Handler
	mirror  *mirror.Mirror
	rc      *redis.Client
}

func newApp(cfg *AppConfig, logger *slog.Logger) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	deps := room.Deps{
		ConnRepo: inmemory.NewRepo(logger),
		Metrics:  m,
		Logger:   logger,
	}

	if cfg.FetchVideoTitles {
		deps.TitleFetcher = ytvideodata.New(&ytvideodata.Config{Timeout: 5 * time.Second})
	}

	a := &app{}
	if cfg.RedisHost != "" {
		rc, err := redisclient.NewRedisClient(&redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}

		a.rc = rc
		a.mirror = mirror.New(roomRedis.NewRepo(rc, cfg.SnapshotTTL), 5*time.Second, m.MirrorErrors, logger)
		deps.Mirror = a.mirror
	}

	roomService := room.NewService(deps, room.Config{
		RetainEmptyRooms: cfg.RetainEmptyRooms,
		PlaylistLimit:    cfg.PlaylistLimit,
		ChatMaxLength:    cfg.ChatMaxLength,
	})

	controller := controller.NewController(roomService, m, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), controller.ConnConfig{
		SendBuffer: cfg.SendBuffer,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		PongWait:   cfg.PongWait,
		WriteWait:  cfg.WriteWait,
	}, logger)
	a.handler = controller.GetMux()

	return a, nil
}

func (a *app) close() {
	if a.rc != nil {
		a.rc.Close()
	}
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel, _ := parseLogLevel(cfg.LogLevel)
	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}
	logger := slog.New(&h)
	slog.SetDefault(logger)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)
	defer serverStopCtx()

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: a.handler,
		BaseContext: func(net.Listener) context.Context {
			return serverCtx
		},
	}

	var wg conc.WaitGroup
	if a.mirror != nil {
		wg.Go(func() {
			a.mirror.Run(serverCtx)
		})
	}
	defer wg.Wait()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sig)

	go func() {
		select {
		case <-sig:
		case <-serverCtx.Done():
		}

		shutdownCtx, c := context.WithTimeout(context.WithoutCancel(serverCtx), 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down server", "error", err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr, "redis_mirror", a.mirror != nil)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		serverStopCtx()
		return err
	}

	<-serverCtx.Done()

	return nil
}
