package http

import (
	"sync"
	"time"
)

const (
	staleBucketThreshold = 30 * time.Minute
	cleanupInterval      = 10 * time.Minute
)

type ipBucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is a per-IP token bucket: capacity requests per refill window.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    int
	refillDur   time.Duration
	buckets     map[string]*ipBucket
	stopCleanup chan struct{}
}

func NewRateLimiter(capacity int, refillDur time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity:    capacity,
		refillDur:   refillDur,
		buckets:     make(map[string]*ipBucket),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.dropStale()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) dropStale() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for ip, bucket := range r.buckets {
		if now.Sub(bucket.lastRefill) > staleBucketThreshold {
			delete(r.buckets, ip)
		}
	}
}

func (r *RateLimiter) Stop() {
	close(r.stopCleanup)
}

// Allow reports whether the given client may make another request now.
func (r *RateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	bucket, exists := r.buckets[ip]

	if !exists {
		r.buckets[ip] = &ipBucket{
			tokens:     r.capacity - 1,
			lastRefill: now,
		}
		return true
	}

	if now.Sub(bucket.lastRefill) >= r.refillDur {
		bucket.tokens = r.capacity
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false
	}

	bucket.tokens--
	return true
}
