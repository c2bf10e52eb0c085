package ratelimit

import (
	"context"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Jitter waits a random duration drawn uniformly from [Min, Max).
type Jitter struct {
	Min time.Duration
	Max time.Duration

	// sleep is swapped in tests to observe the chosen delay.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewJitter(min, max time.Duration) *Jitter {
	return &Jitter{Min: min, Max: max, sleep: sleepContext}
}

// Delay picks the next delay without sleeping.
func (j *Jitter) Delay() time.Duration {
	if j.Max <= j.Min {
		return j.Min
	}
	delta := j.Max - j.Min
	return j.Min + time.Duration(rand.Int64N(int64(delta)))
}

// Wait sleeps for a fresh Delay and returns it. The sleep ends early if ctx is done.
func (j *Jitter) Wait(ctx context.Context) (time.Duration, error) {
	d := j.Delay()
	sleep := j.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return d, sleep(ctx, d)
}

// WithSleeper replaces the sleep function, used by tests that must not block.
func (j *Jitter) WithSleeper(fn func(ctx context.Context, d time.Duration) error) *Jitter {
	j.sleep = fn
	return j
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IPLimiter is a per-client token bucket used in front of the parse endpoint.
type IPLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter allows perMinute requests per client IP with the given burst.
func NewIPLimiter(perMinute, burst int) *IPLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *IPLimiter) evict(now time.Time) {
	for ip, v := range l.limiters {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.limiters, ip)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (l *IPLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP expects chi's RealIP middleware to have rewritten RemoteAddr already.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
