package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/watchparty/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8080,
		usage:        "Server port",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	retainEmptyRooms = configVar[bool]{
		envKey:       "SERVER_RETAIN_EMPTY_ROOMS",
		flagKey:      "retain-empty-rooms",
		defaultValue: false,
		usage:        "Keep rooms after their last member leaves",
	}
	playlistLimit = configVar[int]{
		envKey:       "SERVER_PLAYLIST_LIMIT",
		flagKey:      "playlist-limit",
		defaultValue: 0,
		usage:        "Maximum number of queued videos per room, 0 for unlimited",
	}
	chatMaxLength = configVar[int]{
		envKey:       "SERVER_CHAT_MAX_LENGTH",
		flagKey:      "chat-max-length",
		defaultValue: 500,
		usage:        "Maximum chat message length in characters",
	}
	sendBuffer = configVar[int]{
		envKey:       "SERVER_SEND_BUFFER",
		flagKey:      "send-buffer",
		defaultValue: 64,
		usage:        "Outbound events buffered per connection before it is dropped",
	}
	readLimit = configVar[int64]{
		envKey:       "SERVER_READ_LIMIT",
		flagKey:      "read-limit",
		defaultValue: 4096,
		usage:        "Maximum inbound websocket message size in bytes",
	}
	pingPeriod = configVar[time.Duration]{
		envKey:       "SERVER_PING_PERIOD",
		flagKey:      "ping-period",
		defaultValue: 30 * time.Second,
		usage:        "Websocket ping interval",
	}
	pongWait = configVar[time.Duration]{
		envKey:       "SERVER_PONG_WAIT",
		flagKey:      "pong-wait",
		defaultValue: 60 * time.Second,
		usage:        "Time allowed to read the next pong",
	}
	writeWait = configVar[time.Duration]{
		envKey:       "SERVER_WRITE_WAIT",
		flagKey:      "write-wait",
		defaultValue: 10 * time.Second,
		usage:        "Time allowed to write one message",
	}
	fetchVideoTitles = configVar[bool]{
		envKey:       "SERVER_FETCH_VIDEO_TITLES",
		flagKey:      "fetch-video-titles",
		defaultValue: false,
		usage:        "Look up missing video titles on YouTube",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "",
		usage:        "Redis host for room snapshots, empty to disable",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
	snapshotTTL = configVar[time.Duration]{
		envKey:       "SERVER_SNAPSHOT_TTL",
		flagKey:      "snapshot-ttl",
		defaultValue: 24 * time.Hour,
		usage:        "Expiration of room snapshots in redis",
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, host.usage)
	pflag.Int(port.flagKey, port.defaultValue, port.usage)
	pflag.String(logLevel.flagKey, logLevel.defaultValue, logLevel.usage)
	pflag.Bool(retainEmptyRooms.flagKey, retainEmptyRooms.defaultValue, retainEmptyRooms.usage)
	pflag.Int(playlistLimit.flagKey, playlistLimit.defaultValue, playlistLimit.usage)
	pflag.Int(chatMaxLength.flagKey, chatMaxLength.defaultValue, chatMaxLength.usage)
	pflag.Int(sendBuffer.flagKey, sendBuffer.defaultValue, sendBuffer.usage)
	pflag.Int64(readLimit.flagKey, readLimit.defaultValue, readLimit.usage)
	pflag.Duration(pingPeriod.flagKey, pingPeriod.defaultValue, pingPeriod.usage)
	pflag.Duration(pongWait.flagKey, pongWait.defaultValue, pongWait.usage)
	pflag.Duration(writeWait.flagKey, writeWait.defaultValue, writeWait.usage)
	pflag.Bool(fetchVideoTitles.flagKey, fetchVideoTitles.defaultValue, fetchVideoTitles.usage)
	pflag.String(redisHost.flagKey, redisHost.defaultValue, redisHost.usage)
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, redisPort.usage)
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, redisPassword.usage)
	pflag.Duration(snapshotTTL.flagKey, snapshotTTL.defaultValue, snapshotTTL.usage)
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(host)
	bind(port)
	bind(logLevel)
	bind(retainEmptyRooms)
	bind(playlistLimit)
	bind(chatMaxLength)
	bind(sendBuffer)
	bind(readLimit)
	bind(pingPeriod)
	bind(pongWait)
	bind(writeWait)
	bind(fetchVideoTitles)
	bind(redisHost)
	bind(redisPort)
	bind(redisPassword)
	bind(snapshotTTL)

	return &app.AppConfig{
		Host:             viper.GetString(host.flagKey),
		Port:             viper.GetInt(port.flagKey),
		LogLevel:         viper.GetString(logLevel.flagKey),
		RetainEmptyRooms: viper.GetBool(retainEmptyRooms.flagKey),
		PlaylistLimit:    viper.GetInt(playlistLimit.flagKey),
		ChatMaxLength:    viper.GetInt(chatMaxLength.flagKey),
		SendBuffer:       viper.GetInt(sendBuffer.flagKey),
		ReadLimit:        viper.GetInt64(readLimit.flagKey),
		PingPeriod:       viper.GetDuration(pingPeriod.flagKey),
		PongWait:         viper.GetDuration(pongWait.flagKey),
		WriteWait:        viper.GetDuration(writeWait.flagKey),
		FetchVideoTitles: viper.GetBool(fetchVideoTitles.flagKey),
		RedisHost:        viper.GetString(redisHost.flagKey),
		RedisPort:        viper.GetInt(redisPort.flagKey),
		RedisPassword:    viper.GetString(redisPassword.flagKey),
		SnapshotTTL:      viper.GetDuration(snapshotTTL.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	if err := app.Run(ctx, appConfig); err != nil {
		log.Fatal(err)
	}
}
