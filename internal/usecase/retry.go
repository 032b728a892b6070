package usecase

import (
	"time"

	"agency-pulse/internal/entity"
)

const (
	networkRetryBase = 30 * time.Second
	networkRetryCap  = 15 * time.Minute

	rateLimitRetryBase = 5 * time.Minute
	rateLimitRetryCap  = 2 * time.Hour
)

// RetryBackoff returns the wait before attempt n (1-based) may be re-driven
// for the given error class, or ok=false when the class is not retried on a
// schedule: auth and connection failures wait for a reconnect, rejected
// content and exhausted quota are left for the user.
func RetryBackoff(class entity.ErrorClass, attempt int) (time.Duration, bool) {
	if !class.AutoRetryable() {
		return 0, false
	}
	if attempt < 1 {
		attempt = 1
	}

	var base, cap time.Duration
	switch class {
	case entity.ErrClassRateLimited:
		base, cap = rateLimitRetryBase, rateLimitRetryCap
	default:
		base, cap = networkRetryBase, networkRetryCap
	}

	backoff := base
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff >= cap {
			return cap, true
		}
	}
	return backoff, true
}

func nextRetryAt(class entity.ErrorClass, attempt int, now time.Time) *time.Time {
	backoff, ok := RetryBackoff(class, attempt)
	if !ok {
		return nil
	}
	at := now.Add(backoff)
	return &at
}
