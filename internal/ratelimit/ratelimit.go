package ratelimit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Registry hands out one token bucket per client address. Buckets idle for
// longer than ttl are dropped by a background sweep.
type Registry struct {
	clients map[string]*client
	mutex   sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	maxSize int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a registry allowing rps requests per second with the given
// burst for each client.
func New(rps float64, burst int, ttl time.Duration, maxSize int) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		ctx:     ctx,
		cancel:  cancel,
		maxSize: maxSize,
	}

	go r.cleanup()

	return r
}

// Close stops the sweep goroutine
func (r *Registry) Close() {
	r.cancel()
}

// Allow reports whether key may make another request now.
func (r *Registry) Allow(key string) bool {
	r.mutex.Lock()
	c, exists := r.clients[key]
	if !exists {
		if len(r.clients) >= r.maxSize {
			r.evictOldest()
		}
		c = &client{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[key] = c
	}
	c.lastSeen = time.Now()
	r.mutex.Unlock()

	return c.limiter.Allow()
}

// Middleware rejects requests over the limit with 429.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !r.Allow(clientKey(req)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// Size returns the number of tracked clients
func (r *Registry) Size() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.clients)
}

// evictOldest drops the least recently seen client. Callers hold the mutex.
func (r *Registry) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, c := range r.clients {
		if oldestKey == "" || c.lastSeen.Before(oldestTime) {
			oldestKey = key
			oldestTime = c.lastSeen
		}
	}

	if oldestKey != "" {
		delete(r.clients, oldestKey)
	}
}

func (r *Registry) cleanup() {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.removeIdle()
		}
	}
}

func (r *Registry) removeIdle() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	for key, c := range r.clients {
		if now.Sub(c.lastSeen) > r.ttl {
			delete(r.clients, key)
		}
	}
}

func clientKey(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
