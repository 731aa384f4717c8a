package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrSessionExpired = errors.New("session expired")

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// Session returns the login session stored for the given token.
// An expired session comes back as ErrSessionExpired.
func (c *LoginChecker) Session(ctx context.Context, token string) (LoginSession, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := c.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		return LoginSession{}, err
	}

	var session LoginSession
	if err := json.Unmarshal([]byte(cmd.Val()), &session); err != nil {
		return LoginSession{}, fmt.Errorf("unmarshal session: %w", err)
	}

	if time.Since(session.CreatedAt) > c.ttl {
		return LoginSession{}, ErrSessionExpired
	}

	return session, nil
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	if _, err := c.Session(ctx, token); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
