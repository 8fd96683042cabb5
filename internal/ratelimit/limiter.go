package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aibuildx/platform/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyLogin = "auth:login:%s"
	keyOrder = "checkout:order:%s"
)

// Limiter throttles credential guessing on login and order spam on
// checkout. A nil limiter (rate limiting disabled) allows everything.
type Limiter struct {
	enabled bool

	bucket *TokenBucket

	loginRate  float64
	loginBurst int
	orderRate  float64
	orderBurst int
}

func NewLimiter(cfg config.Config) (*Limiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.LoginRate <= 0 || limitCfg.LoginBurst <= 0 {
		return nil, errors.New("login rate limit must be positive")
	}
	if limitCfg.OrderRate <= 0 || limitCfg.OrderBurst <= 0 {
		return nil, errors.New("order rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &Limiter{
		enabled:    true,
		bucket:     NewTokenBucket(client),
		loginRate:  limitCfg.LoginRate,
		loginBurst: limitCfg.LoginBurst,
		orderRate:  limitCfg.OrderRate,
		orderBurst: limitCfg.OrderBurst,
	}, nil
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowLogin throttles per email+IP so one tenant's brute force cannot
// lock out another's logins.
func (l *Limiter) AllowLogin(ctx context.Context, email, ip string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	key := fmt.Sprintf(keyLogin, strings.ToLower(strings.TrimSpace(email))+":"+strings.TrimSpace(ip))
	res, err := l.bucket.Allow(ctx, key, l.loginRate, l.loginBurst)
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}

func (l *Limiter) AllowOrder(ctx context.Context, companyID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyOrder, strings.TrimSpace(companyID)), l.orderRate, l.orderBurst)
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}
