package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/juju/ratelimit"

	"healthconsultant/internal/delivery/http/helpers"
	"healthconsultant/internal/metrics"
)

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	rate     float64
	capacity int64

	mu      sync.RWMutex
	clients map[string]*ratelimit.Bucket
}

// NewRateLimiter creates a limiter refilling rate tokens per second up to capacity.
func NewRateLimiter(rate float64, capacity int64) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		capacity: capacity,
		clients:  make(map[string]*ratelimit.Bucket),
	}
}

func (rl *RateLimiter) getBucket(client string) *ratelimit.Bucket {
	rl.mu.RLock()
	bucket, exists := rl.clients[client]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		if bucket, exists = rl.clients[client]; !exists {
			bucket = ratelimit.NewBucketWithRate(rl.rate, rl.capacity)
			rl.clients[client] = bucket
			metrics.RateLimiterBucketsTotal.Set(float64(len(rl.clients)))
		}
		rl.mu.Unlock()
	}
	return bucket
}

// Sweep drops buckets that have refilled completely; their clients have been idle.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, bucket := range rl.clients {
		if bucket.Available() == bucket.Capacity() {
			delete(rl.clients, client)
		}
	}
	metrics.RateLimiterBucketsTotal.Set(float64(len(rl.clients)))
}

// RunSweeper calls Sweep every interval until ctx is done.
func (rl *RateLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Sweep()
			}
		}
	}()
}

// Middleware takes one token per request and answers 429 when the client's
// bucket is empty.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bucket := rl.getBucket(clientKey(r))

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rl.capacity, 10))
		if bucket.TakeAvailable(1) < 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rl.rate)))
			helpers.WriteJSONError(w, http.StatusTooManyRequests, helpers.ErrCodeRateLimited, "too many summary requests, try again shortly")
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))
		next.ServeHTTP(w, r)
	})
}

// clientKey strips the port so one client maps to one bucket.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func retryAfterSeconds(rate float64) int {
	if rate <= 0 {
		return 60
	}
	return max(1, int(1/rate+0.5))
}
