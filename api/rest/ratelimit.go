package rest

import (
	"sync"

	"golang.org/x/time/rate"
)

const (
	requestsPerSecond = 10
	burstLimit        = 20
)

// userLimiters keeps one token bucket per signed-in user so one busy editor
// cannot starve the rest.
type userLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newUserLimiters() *userLimiters {
	return &userLimiters{limiters: make(map[string]*rate.Limiter)}
}

func (ul *userLimiters) allow(email string) bool {
	ul.mu.Lock()
	limiter, ok := ul.limiters[email]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burstLimit)
		ul.limiters[email] = limiter
	}
	ul.mu.Unlock()

	return limiter.Allow()
}
