package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// limiterIdleTTL is how long an IP's limiter survives without traffic.
	limiterIdleTTL = 10 * time.Minute

	// limiterSweepInterval is the minimum time between idle sweeps.
	limiterSweepInterval = time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters hands out one token bucket per client IP.
type ipLimiters struct {
	mu        sync.Mutex
	entries   map[string]*ipLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiters(perMinute, burst int) *ipLimiters {
	return &ipLimiters{
		entries: make(map[string]*ipLimiter),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		now:     time.Now,
	}
}

// allow reports whether ip may make a request now. Idle entries are swept
// at most once per limiterSweepInterval.
func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterSweepInterval {
		l.sweep(now)
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops limiters idle longer than limiterIdleTTL. Caller holds l.mu.
func (l *ipLimiters) sweep(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.entries, k)
		}
	}
	l.lastSweep = now
}

// RateLimit returns middleware that limits each client IP to perMinute
// requests per minute, allowing bursts of the same size. Exceeding it
// returns 429 Too Many Requests.
func RateLimit(perMinute int) echo.MiddlewareFunc {
	if perMinute < 1 {
		perMinute = 1
	}
	limiters := newIPLimiters(perMinute, perMinute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiters.allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "60")
				return echo.NewHTTPError(http.StatusTooManyRequests, "Muitas tentativas. Tente novamente em instantes.")
			}
			return next(c)
		}
	}
}
