package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ppiankov/curator/internal/util"
)

// hostPolicy is the rate a provider host is allowed
type hostPolicy struct {
	limit rate.Limit
	burst int
}

// Limiter throttles calls to labeling providers. Each host gets its own
// token bucket; hosts without an explicit policy share the default one.
type Limiter struct {
	mu           sync.Mutex
	buckets      map[string]*rate.Limiter
	policies     map[string]hostPolicy
	defaultLimit rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		buckets:      make(map[string]*rate.Limiter),
		policies:     make(map[string]hostPolicy),
		defaultLimit: toLimit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the host of endpoint has a free token or ctx ends
func (l *Limiter) Wait(ctx context.Context, endpoint string) error {
	return l.bucket(util.Host(endpoint)).Wait(ctx)
}

// Allow takes a token for endpoint's host if one is free
func (l *Limiter) Allow(endpoint string) bool {
	return l.bucket(util.Host(endpoint)).Allow()
}

// SetHostRate gives one provider host its own rate, replacing any bucket
// already handed out for it
func (l *Limiter) SetHostRate(host string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	host = util.Host(host)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.policies[host] = hostPolicy{limit: toLimit(requestsPerSecond), burst: burst}
	delete(l.buckets, host)
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[host]; ok {
		return b
	}
	policy, ok := l.policies[host]
	if !ok {
		policy = hostPolicy{limit: l.defaultLimit, burst: l.defaultBurst}
	}
	b := rate.NewLimiter(policy.limit, policy.burst)
	l.buckets[host] = b
	return b
}

func toLimit(requestsPerSecond float64) rate.Limit {
	if requestsPerSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(requestsPerSecond)
}
