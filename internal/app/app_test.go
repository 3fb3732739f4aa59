package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() AppConfig {
	return AppConfig{
		Host:          "127.0.0.1",
		Port:          8080,
		LogLevel:      "info",
		ChatMaxLength: 500,
		SendBuffer:    64,
		ReadLimit:     4096,
		PingPeriod:    30 * time.Second,
		PongWait:      60 * time.Second,
		WriteWait:     10 * time.Second,
		RedisPort:     6379,
		SnapshotTTL:   24 * time.Hour,
	}
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults", func(*AppConfig) {}, false},
		{"debug level", func(c *AppConfig) { c.LogLevel = "DEBUG" }, false},
		{"unknown level", func(c *AppConfig) { c.LogLevel = "LOUD" }, true},
		{"zero port", func(c *AppConfig) { c.Port = 0 }, true},
		{"negative playlist limit", func(c *AppConfig) { c.PlaylistLimit = -1 }, true},
		{"zero send buffer", func(c *AppConfig) { c.SendBuffer = 0 }, true},
		{"ping slower than pong wait", func(c *AppConfig) { c.PingPeriod = time.Minute }, true},
		{"redis without ttl", func(c *AppConfig) { c.RedisHost = "localhost"; c.SnapshotTTL = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppMirrorsRoomsToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := validConfig()
	cfg.RedisHost = mr.Host()
	cfg.RedisPort = port

	a, err := newApp(&cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(a.close)
	require.NotNil(t, a.mirror)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go a.mirror.Run(ctx)

	server := httptest.NewServer(a.handler)
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/api/v1/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "join",
		"payload": map[string]any{"username": "alice", "room": "party"},
	}))
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "add_to_queue",
		"payload": map[string]any{"video_id": "aaaaaaaaaaa", "title": "A"},
	}))

	assert.Eventually(t, func() bool {
		data, err := mr.Get("room:party")
		if err != nil {
			return false
		}

		var snapshot struct {
			Playback *struct {
				Video struct {
					Id string `json:"id"`
				} `json:"video"`
			} `json:"playback"`
		}
		if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
			return false
		}

		return snapshot.Playback != nil && snapshot.Playback.Video.Id == "aaaaaaaaaaa"
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return !mr.Exists("room:party")
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNewAppWithoutRedis(t *testing.T) {
	cfg := validConfig()

	a, err := newApp(&cfg, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, a.mirror)
	assert.NotNil(t, a.handler)
}
