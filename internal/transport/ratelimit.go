package transport

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"bomb-arena/internal/metrics"
)

// RateLimitConfig configures the per-IP HTTP/upgrade rate limiter, same
// shape as the teacher's internal/api/ratelimit.go RateLimitConfig.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration
}

// DefaultRateLimitConfig is production-safe: 5 connection attempts/s per IP,
// burst of 10, stale entries reaped every 5 minutes.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 5,
	Burst:             10,
	CleanupInterval:   5 * time.Minute,
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter throttles WebSocket upgrade attempts per source IP.
type IPRateLimiter struct {
	limiters sync.Map // map[string]*limiterEntry
	cfg      RateLimitConfig
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewIPRateLimiter constructs a limiter and starts its background cleanup.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	rl := &IPRateLimiter{cfg: cfg, stopChan: make(chan struct{})}
	go rl.cleanupLoop()
	return rl
}

func (rl *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.cfg.CleanupInterval * 2)
			rl.limiters.Range(func(key, value any) bool {
				if value.(*limiterEntry).lastSeen.Before(cutoff) {
					rl.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

// Stop ends the cleanup goroutine.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

// Allow reports whether ip may attempt another upgrade right now.
func (rl *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()
	entry, ok := rl.limiters.Load(ip)
	if !ok {
		e := &limiterEntry{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst), lastSeen: now}
		actual, _ := rl.limiters.LoadOrStore(ip, e)
		entry = actual
	}
	e := entry.(*limiterEntry)
	e.lastSeen = now
	return e.limiter.Allow()
}

// ClientIP extracts the originating address from r, preferring the
// X-Forwarded-For / X-Real-IP headers over RemoteAddr for proxied deployments.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// connCounter bounds concurrent upgraded connections, globally and per IP.
type connCounter struct {
	total    int64
	perIP    sync.Map // map[string]*int64
	max      int64
	maxPerIP int64
}

func newConnCounter(max, maxPerIP int) *connCounter {
	return &connCounter{max: int64(max), maxPerIP: int64(maxPerIP)}
}

func (c *connCounter) tryAcquire(ip string) bool {
	if atomic.LoadInt64(&c.total) >= c.max {
		metrics.RecordConnectionRejected("max_connections")
		return false
	}
	actual, _ := c.perIP.LoadOrStore(ip, new(int64))
	counter := actual.(*int64)
	for {
		cur := atomic.LoadInt64(counter)
		if cur >= c.maxPerIP {
			metrics.RecordConnectionRejected("max_connections")
			return false
		}
		if atomic.CompareAndSwapInt64(counter, cur, cur+1) {
			atomic.AddInt64(&c.total, 1)
			return true
		}
	}
}

func (c *connCounter) release(ip string) {
	atomic.AddInt64(&c.total, -1)
	if actual, ok := c.perIP.Load(ip); ok {
		atomic.AddInt64(actual.(*int64), -1)
	}
}

func (c *connCounter) count() int {
	return int(atomic.LoadInt64(&c.total))
}
