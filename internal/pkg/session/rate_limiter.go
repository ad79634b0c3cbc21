// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts = 5
	loginWindow      = 15 * time.Minute
)

// RateLimiter throttles failed login attempts per (ip, username) using a
// Redis counter. All checks fail open: if Redis is unreachable the login
// proceeds rather than locking everyone out.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckLoginAttempt records a login attempt and reports whether it is
// allowed, plus the remaining attempts in the current window.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, username string) (bool, int64, error) {
	if r == nil || r.client == nil {
		return true, maxLoginAttempts, nil
	}

	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, username)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, loginWindow)
	}

	remaining := int64(maxLoginAttempts) - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= maxLoginAttempts, remaining, nil
}

// ResetLoginAttempts clears the attempt counter after a successful login.
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, username string) error {
	if r == nil || r.client == nil {
		return nil
	}
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, username)
	return r.client.Del(ctx, key).Err()
}
