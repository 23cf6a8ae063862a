package middleware

import (
	"context"
	"credit-approval/internal/config"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RateLimiterMiddleware struct {
	limiter limiter
	cfg     config.RateLimitConfig
	logger  *slog.Logger
}

// NewRateLimiterMiddleware uses a fixed window counter in Redis when the
// redis backend is selected and a client is available. Otherwise each
// instance keeps its own token buckets.
func NewRateLimiterMiddleware(cfg config.RateLimitConfig, redisClient *redis.Client, logger *slog.Logger) *RateLimiterMiddleware {
	logger = logger.With("component", "RateLimiter")
	rl := &RateLimiterMiddleware{cfg: cfg, logger: logger}

	if !cfg.Enabled {
		logger.Info("Rate limiting is disabled via configuration.")
		return rl
	}

	if cfg.Backend == RateLimitBackendRedis {
		if redisClient != nil {
			window := cfg.Window
			if window <= 0 {
				window = time.Second
			}
			rl.limiter = &redisLimiter{client: redisClient, limit: int64(cfg.RPS), window: window}
			logger.Info("Rate limiter configured", "backend", RateLimitBackendRedis, "rps", cfg.RPS, "window", window)
			return rl
		}
		logger.Warn("Redis rate limiting requested but no Redis client provided; falling back to in-memory limiter.")
	}

	mem := &memoryLimiter{rps: rate.Limit(cfg.RPS), burst: cfg.Burst}
	go mem.cleanup(10 * time.Minute)
	rl.limiter = mem
	logger.Info("Rate limiter configured", "backend", RateLimitBackendMemory, "rps", cfg.RPS, "burst", cfg.Burst)
	return rl
}

func (rl *RateLimiterMiddleware) IsEnabled() bool {
	return rl.cfg.Enabled && rl.limiter != nil
}

func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" && net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.IsEnabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)

		allowed, err := rl.limiter.Allow(r.Context(), ip)
		if err != nil {
			rl.logger.Error("Rate limiter check failed; allowing request", "error", err, "ip", ip)
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			rl.logger.Warn("Rate limit exceeded", "ip", ip)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"code":    "RATE_LIMITED",
					"message": "Rate limit exceeded",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

type memoryLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

func (m *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l, _ := m.limiters.LoadOrStore(key, rate.NewLimiter(m.rps, m.burst))
	return l.(*rate.Limiter).Allow(), nil
}

func (m *memoryLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		m.limiters.Range(func(key, value any) bool {
			if value.(*rate.Limiter).Tokens() >= float64(m.burst) {
				m.limiters.Delete(key)
			}
			return true
		})
	}
}

type redisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := l.client.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	ttlCmd := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit pipeline failed: %w", err)
	}

	// A key without expiry was just created or lost its TTL.
	if ttlCmd.Val() < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return incrCmd.Val() <= l.limit, nil
}
