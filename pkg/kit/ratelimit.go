package kit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// IPRateLimiter caps requests per client IP using fixed windows: the
// counter for an IP resets once its window expires. Coarser than a sliding
// window but cheap, and sufficient for guarding a login route.
type IPRateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	wins   map[string]*ipWindow
}

type ipWindow struct {
	start time.Time
	count int
}

func NewIPRateLimiter(limit int, windowSeconds int) *IPRateLimiter {
	return &IPRateLimiter{
		limit:  limit,
		window: time.Duration(windowSeconds) * time.Second,
		wins:   make(map[string]*ipWindow),
	}
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r), time.Now()) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.wins[ip]
	if !ok || now.Sub(win.start) >= l.window {
		l.wins[ip] = &ipWindow{start: now, count: 1}
		return true
	}

	if win.count >= l.limit {
		return false
	}
	win.count++
	return true
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
