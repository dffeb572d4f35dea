package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	h "eventhub/internal/delivery/http/helpers"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 15 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket refilled
// perMinute times a minute and a burst of perMinute.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perMinute int
	lastSweep time.Time
	now       func() time.Time
	logger    *slog.Logger
}

// NewRateLimiter returns a RateLimiter. A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*limiterEntry),
		perMinute: perMinute,
		now:       time.Now,
		logger:    logger,
	}
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterSweepInterval {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[key]
	if !ok {
		interval := time.Minute / time.Duration(l.perMinute)
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(interval), l.perMinute)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Limit wraps next with the per-IP limit and answers 429 when exhausted.
func (l *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	if l.perMinute <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.allow(ip) {
			l.logger.WarnContext(r.Context(), "rate limit exceeded", "path", r.URL.Path, "ip", ip)
			w.Header().Set("Retry-After", "60")
			h.WriteJSONError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
