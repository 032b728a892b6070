package platform

import (
	"context"
	"errors"
	"fmt"
	"net"

	"agency-pulse/internal/entity"
)

// apiError is a non-2xx platform response, kept around long enough to be
// classified into the error taxonomy.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("unexpected status code: %d body=%q", e.Status, e.Body)
}

// connectionError is a precondition failure detectable before any network
// call: missing page, unlinked business account, absent channel. Hard
// failures that only a reconnect fixes.
type connectionError struct {
	Reason string
}

func (e *connectionError) Error() string {
	return e.Reason
}

// Classify folds any strategy error into the normalized taxonomy. Raw
// platform errors never cross the adapter boundary unclassified.
func Classify(err error) entity.ErrorClass {
	var connErr *connectionError
	if errors.As(err, &connErr) {
		return entity.ErrClassConnectionMissing
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 401 || apiErr.Status == 403:
			return entity.ErrClassAuthExpired
		case apiErr.Status == 429:
			return entity.ErrClassRateLimited
		case apiErr.Status >= 500:
			return entity.ErrClassNetworkTransient
		case apiErr.Status >= 400:
			return entity.ErrClassPlatformRejected
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return entity.ErrClassNetworkTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return entity.ErrClassNetworkTransient
	}

	// Unrecognized errors are treated as transient: retrying is bounded
	// anyway and misclassifying a transient fault as permanent loses work.
	return entity.ErrClassNetworkTransient
}
