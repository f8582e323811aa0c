package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"storefront/internal/cache"
)

const verifyAttemptKeyPrefix = "verify_attempts:"

// AttemptStoreInterface tracks failed verification attempts per email.
type AttemptStoreInterface interface {
	RecordFailure(ctx context.Context, email string) (int64, error)
	Locked(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

// AttemptStore counts failed verification attempts in Redis. After max
// failures the email is locked until the window expires. When Redis is
// unavailable nothing is counted and nothing is locked.
type AttemptStore struct {
	cache  *cache.Client
	max    int64
	window time.Duration
}

// Ensure AttemptStore implements AttemptStoreInterface
var _ AttemptStoreInterface = (*AttemptStore)(nil)

// NewAttemptStore creates a new attempt store. max <= 0 disables locking.
func NewAttemptStore(cache *cache.Client, max int, window time.Duration) *AttemptStore {
	return &AttemptStore{cache: cache, max: int64(max), window: window}
}

// RecordFailure increments the failure counter and returns the new count.
func (s *AttemptStore) RecordFailure(ctx context.Context, email string) (int64, error) {
	return s.cache.Incr(ctx, attemptKey(email), s.window)
}

// Locked reports whether email has reached the failure limit.
func (s *AttemptStore) Locked(ctx context.Context, email string) (bool, error) {
	if s.max <= 0 {
		return false, nil
	}
	data, err := s.cache.Get(ctx, attemptKey(email))
	if err != nil || data == nil {
		return false, nil
	}
	count, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return false, nil
	}
	return count >= s.max, nil
}

// Reset clears the failure counter.
func (s *AttemptStore) Reset(ctx context.Context, email string) error {
	return s.cache.Delete(ctx, attemptKey(email))
}

func attemptKey(email string) string {
	return verifyAttemptKeyPrefix + strings.ToLower(email)
}
