package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig holds rate limiter configuration. A zero
// RequestsPerSecond disables limiting. Forwarding headers are ignored unless
// TrustProxyHeaders is set, since any client can send them.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	TrustProxyHeaders bool
}

const (
	defaultBurst = 10
	idleTTL      = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Idle buckets are swept
// during lookups, so no background goroutine is needed.
type RateLimiter struct {
	config    RateLimiterConfig
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter with the given configuration.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Burst <= 0 {
		config.Burst = defaultBurst
	}
	return &RateLimiter{
		config:    config,
		clients:   make(map[string]*clientLimiter),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for key, c := range rl.clients {
			if now.Sub(c.lastSeen) > idleTTL {
				delete(rl.clients, key)
			}
		}
		rl.lastSweep = now
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.limiter(ip).AllowN(rl.now(), 1)
}

// Clients returns the number of tracked client IPs.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Middleware returns an HTTP middleware that applies rate limiting.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lim := rl.limiter(getClientIP(r, rl.config.TrustProxyHeaders))
		now := rl.now()

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Burst))

		res := lim.ReserveN(now, 1)
		if delay := res.DelayFrom(now); delay > 0 {
			res.CancelAt(now)
			retryAfter := int(math.Ceil(delay.Seconds()))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Rate limit exceeded. Try again in "+strconv.Itoa(retryAfter)+" seconds.")
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(lim.TokensAt(now))))

		next.ServeHTTP(w, r)
	})
}

// getClientIP returns the connection's remote address. With trustProxy it
// prefers the leftmost valid X-Forwarded-For address, then X-Real-IP.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) != nil {
		return ip
	}
	return "unknown"
}
