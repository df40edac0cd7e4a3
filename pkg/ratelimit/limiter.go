package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ProviderStore hands out one token-bucket limiter per external provider,
// each parameterized by the provider's documented calls-per-minute quota.
// Limits are data here, not literal sleeps scattered through the pipeline.
type ProviderStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

func NewProviderStore() *ProviderStore {
	return &ProviderStore{
		limiters: make(map[string]*rate.Limiter),
	}
}

// Register installs a limiter for the named provider at the given quota.
// Re-registering a provider replaces its limiter.
func (s *ProviderStore) Register(provider string, requestsPerMinute int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	limiter := rate.NewLimiter(limit, 1)
	s.limiters[provider] = limiter
	return limiter
}

// Get returns the limiter registered for the provider, or a pass-through
// limiter when none was registered.
func (s *ProviderStore) Get(provider string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, exists := s.limiters[provider]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	s.limiters[provider] = limiter
	return limiter
}
