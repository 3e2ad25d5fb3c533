package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

// RateLimiter is a fixed-window in-memory limiter keyed by user id and by
// client IP.
type RateLimiter struct {
	userLimits map[uint]*window
	ipLimits   map[string]*window
	mu         sync.Mutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration
	now             func() time.Time
	stop            chan struct{}
	stopOnce        sync.Once
}

type window struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter starts a limiter and its cleanup goroutine. Call Stop to
// release it.
func NewRateLimiter(userMaxRequests, ipMaxRequests int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[uint]*window),
		ipLimits:        make(map[string]*window),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          period,
		now:             time.Now,
		stop:            make(chan struct{}),
	}

	go rl.cleanup(5 * time.Minute)

	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// CheckUserLimit records a request of userID and reports whether it is allowed.
func (rl *RateLimiter) CheckUserLimit(userID uint) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.hit(rl.userLimits[userID], func(w *window) { rl.userLimits[userID] = w }, rl.userMaxRequests)
}

// CheckIPLimit records a request from ip and reports whether it is allowed.
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.hit(rl.ipLimits[ip], func(w *window) { rl.ipLimits[ip] = w }, rl.ipMaxRequests)
}

// hit must be called with mu held.
func (rl *RateLimiter) hit(w *window, store func(*window), max int) bool {
	now := rl.now()
	if w == nil || now.After(w.resetTime) {
		store(&window{requests: 1, resetTime: now.Add(rl.window)})
		return true
	}
	if w.requests >= max {
		return false
	}
	w.requests++
	return true
}

// GetUserRemaining returns remaining requests for user
func (rl *RateLimiter) GetUserRemaining(userID uint) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.remaining(rl.userLimits[userID], rl.userMaxRequests)
}

// GetIPRemaining returns remaining requests for IP
func (rl *RateLimiter) GetIPRemaining(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.remaining(rl.ipLimits[ip], rl.ipMaxRequests)
}

func (rl *RateLimiter) remaining(w *window, max int) int {
	if w == nil || rl.now().After(w.resetTime) {
		return max
	}
	if left := max - w.requests; left > 0 {
		return left
	}
	return 0
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops expired windows.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for userID, w := range rl.userLimits {
		if now.After(w.resetTime) {
			delete(rl.userLimits, userID)
		}
	}
	for ip, w := range rl.ipLimits {
		if now.After(w.resetTime) {
			delete(rl.ipLimits, ip)
		}
	}
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[uint]*window)
	rl.ipLimits = make(map[string]*window)
}

// ByIP limits every request by client address.
func (rl *RateLimiter) ByIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.CheckIPLimit(c.ClientIP()) {
			abortWithError(c, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests, slow down"))
			return
		}
		c.Next()
	}
}

// ByUser limits authenticated requests per user. It must run after Auth.
func (rl *RateLimiter) ByUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if ok && !rl.CheckUserLimit(actor.UserID) {
			abortWithError(c, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests, slow down"))
			return
		}
		c.Next()
	}
}
