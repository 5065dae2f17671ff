package config

// Redis backs the response cache and the login rate limiter. Both features
// are optional: when no server can be reached at startup this constructor
// returns nil and callers install pass-through middleware instead.

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_ADDR (host:port, default
// localhost:6379), REDIS_PASSWORD and REDIS_DB. The connection is verified
// with a short ping; nil is returned on failure so the service degrades to
// uncached, unlimited operation rather than refusing to start.
func NewRedisClient() *redis.Client {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	db := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			db = n
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
