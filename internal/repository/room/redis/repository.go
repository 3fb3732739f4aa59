package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

const roomListKey = "rooms"

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}
