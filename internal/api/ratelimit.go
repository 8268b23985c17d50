package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the per-IP limiter map. At the cap, entries idle
// longer than clientIdleTTL are pruned inline rather than by a background
// goroutine; if every entry is still active, the least recently seen is
// evicted instead.
const (
	maxTrackedClients = 10000
	clientIdleTTL     = 3 * time.Minute
)

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter enforces a per-IP token bucket: perMinute requests sustained,
// with the full minute quota available as an initial burst.
type rateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*rateClient
	limit      rate.Limit
	burst      int
	trustProxy bool
}

func newRateLimiter(perMinute int, trustProxy bool) *rateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &rateLimiter{
		clients:    make(map[string]*rateClient),
		limit:      rate.Every(time.Minute / time.Duration(perMinute)),
		burst:      perMinute,
		trustProxy: trustProxy,
	}
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if len(rl.clients) >= maxTrackedClients {
		for key, c := range rl.clients {
			if now.Sub(c.lastSeen) > clientIdleTTL {
				delete(rl.clients, key)
			}
		}
		// Every entry still active: evict the least recently seen so the map
		// stays bounded even under traffic from more distinct IPs than the cap.
		for len(rl.clients) >= maxTrackedClients {
			var oldestKey string
			var oldest time.Time
			for key, c := range rl.clients {
				if oldestKey == "" || c.lastSeen.Before(oldest) {
					oldestKey = key
					oldest = c.lastSeen
				}
			}
			delete(rl.clients, oldestKey)
		}
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &rateClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// clientIP extracts the caller address. X-Forwarded-For is spoofable, so it
// is only honored when the deployment declares a trusted proxy in front.
func (rl *rateLimiter) clientIP(r *http.Request) string {
	if rl.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if first, _, found := strings.Cut(fwd, ","); found || first != "" {
				return strings.TrimSpace(first)
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
