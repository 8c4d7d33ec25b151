package rdx

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is nil when no REDIS_ADDR is configured; callers must treat the
// revocation store as absent in that case.
var Conn *redis.Client

func Init(addr string) {
	if addr == "" {
		return
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
	if err := Conn.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable at %s, token revocation disabled: %v", addr, err)
		Conn = nil
	}
}

// RevokeToken blacklists a token until its natural expiry.
func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if Conn == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return Conn.Set(ctx, "revoked:"+token, "1", ttl).Err()
}

func IsTokenRevoked(ctx context.Context, token string) bool {
	if Conn == nil {
		return false
	}
	n, err := Conn.Exists(ctx, "revoked:"+token).Result()
	if err != nil {
		// Fail open: a flaky redis must not lock every user out.
		log.Printf("revocation check failed: %v", err)
		return false
	}
	return n > 0
}
