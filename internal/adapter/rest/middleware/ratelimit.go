package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	visitorIdleTTL  = 5 * time.Minute
	cleanupInterval = time.Minute
)

// ClientRateLimiter keeps one token bucket per client address.
type ClientRateLimiter struct {
	visitors sync.Map
	rps      rate.Limit
	burst    int
	now      func() time.Time
	logger   *logger.Logger
}

type visitor struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter allows perMinute requests per client with the given
// burst. Idle clients are forgotten until ctx is cancelled.
func NewClientRateLimiter(ctx context.Context, perMinute, burst int, log *logger.Logger) *ClientRateLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &ClientRateLimiter{
		rps:    rate.Limit(float64(perMinute) / 60.0),
		burst:  burst,
		now:    time.Now,
		logger: log.Named("RateLimiter"),
	}
	go l.cleanupVisitors(ctx)
	return l
}

func (l *ClientRateLimiter) allow(key string) bool {
	now := l.now()
	v, _ := l.visitors.LoadOrStore(key, &visitor{limiter: rate.NewLimiter(l.rps, l.burst)})
	vi := v.(*visitor)
	vi.mu.Lock()
	vi.lastSeen = now
	vi.mu.Unlock()
	return vi.limiter.AllowN(now, 1)
}

func (l *ClientRateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evictIdle(l.now().Add(-visitorIdleTTL))
		}
	}
}

func (l *ClientRateLimiter) evictIdle(cutoff time.Time) {
	l.visitors.Range(func(k, v interface{}) bool {
		vi := v.(*visitor)
		vi.mu.Lock()
		idle := vi.lastSeen.Before(cutoff)
		vi.mu.Unlock()
		if idle {
			l.visitors.Delete(k)
		}
		return true
	})
}

// Handler answers 429 once a client exhausts its bucket.
func (l *ClientRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.allow(ip) {
			l.logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Too many attempts, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}
