package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketplace_back_end/internal/errs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute

	// maxLoginBody bounds how much of a login body is buffered.
	maxLoginBody = 4 << 10
)

// RateLimiter throttles the credential endpoints. A nil client disables it.
type RateLimiter struct {
	rdb *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// Login counts failed logins per email and blocks the email for
// LoginCooldown once LoginMaxAttempts is reached. A successful login resets
// the counter.
func (l *RateLimiter) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rdb == nil {
			c.Next()
			return
		}

		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		key := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		if !l.allow(c, key, cooldownKey, LoginMaxAttempts, LoginCooldown) {
			return
		}

		c.Next()

		ctx := c.Request.Context()
		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			pipe := l.rdb.TxPipeline()
			pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, LoginCooldown)
			if _, err := pipe.Exec(ctx); err != nil {
				log.Ctx(ctx).Error().Err(err).Str("component", "RateLimiter").Msg("failed to record login attempt")
			}
		case http.StatusOK:
			if err := l.rdb.Del(ctx, key, cooldownKey).Err(); err != nil {
				log.Ctx(ctx).Error().Err(err).Str("component", "RateLimiter").Msg("failed to reset login attempts")
			}
		}
	}
}

// Register counts successful registrations per client IP.
func (l *RateLimiter) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rdb == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		key := "register_attempts:" + ip
		cooldownKey := "register_cooldown:" + ip

		if !l.allow(c, key, cooldownKey, RegisterMaxAttempts, RegisterCooldown) {
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			ctx := c.Request.Context()
			pipe := l.rdb.TxPipeline()
			pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, RegisterCooldown)
			if _, err := pipe.Exec(ctx); err != nil {
				log.Ctx(ctx).Error().Err(err).Str("component", "RateLimiter").Msg("failed to record registration")
			}
		}
	}
}

// allow aborts with 429 while the cooldown key exists, and starts the
// cooldown once the counter reaches limit. Redis failures let the request through.
func (l *RateLimiter) allow(c *gin.Context, key, cooldownKey string, limit int, cooldown time.Duration) bool {
	ctx := c.Request.Context()

	ttl, err := l.rdb.TTL(ctx, cooldownKey).Result()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "RateLimiter").Msg("redis unavailable, skipping rate limit")
		return true
	}
	if ttl > 0 {
		tooManyRequests(c, ttl)
		return false
	}

	attempts, err := l.rdb.Get(ctx, key).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Ctx(ctx).Error().Err(err).Str("component", "RateLimiter").Msg("redis unavailable, skipping rate limit")
		return true
	}

	if attempts >= limit {
		pipe := l.rdb.TxPipeline()
		pipe.Set(ctx, cooldownKey, "1", cooldown)
		pipe.Del(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "RateLimiter").Msg("failed to start cooldown")
		}
		tooManyRequests(c, cooldown)
		return false
	}

	if remaining := limit - attempts; remaining > 0 {
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	}
	return true
}

func tooManyRequests(c *gin.Context, retryAfter time.Duration) {
	log.Ctx(c.Request.Context()).Warn().Str("component", "RateLimiter").Str("path", c.FullPath()).Msg("rate limit hit")
	c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       errs.PublicMessage(errs.ErrTooManyRequests),
		"retry_after": int(retryAfter.Seconds()),
	})
}

// peekEmail reads the email from a JSON body and restores the body for the
// handler.
func peekEmail(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxLoginBody))
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var input struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(input.Email))
}
