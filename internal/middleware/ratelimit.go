package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-IP counter. It guards the auth routes
// against credential stuffing; generation routes are deliberately not behind
// it.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*ipWindow
	limit    int
	window   time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type ipWindow struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*ipWindow),
		limit:   limit,
		window:  window,
		stop:    make(chan struct{}),
	}

	// Expired windows are swept in the background so the map does not grow
	// with one entry per IP ever seen.
	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for {
			select {
			case <-rl.stop:
				return
			case <-ticker.C:
				now := time.Now()
				rl.mu.Lock()
				for ip, w := range rl.windows {
					if now.After(w.resetAt) {
						delete(rl.windows, ip)
					}
				}
				rl.mu.Unlock()
			}
		}
	}()

	return rl
}

// Stop ends the background sweeper. Safe to call more than once; the
// limiter itself keeps working without the sweep.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		now := time.Now()
		rl.mu.Lock()
		win, ok := rl.windows[ip]
		if !ok || now.After(win.resetAt) {
			rl.windows[ip] = &ipWindow{count: 1, resetAt: now.Add(rl.window)}
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		win.count++
		count := win.count
		resetAt := win.resetAt
		rl.mu.Unlock()

		if count > rl.limit {
			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP keys the limiter by address only. RealIP runs earlier in the
// chain, so RemoteAddr may already be a bare proxy-supplied IP; direct
// connections still carry a port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
