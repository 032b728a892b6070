package platform

import (
	"context"
	"errors"
	"testing"

	"agency-pulse/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want entity.ErrorClass
	}{
		{"unauthorized", &apiError{Status: 401}, entity.ErrClassAuthExpired},
		{"forbidden", &apiError{Status: 403}, entity.ErrClassAuthExpired},
		{"rate limited", &apiError{Status: 429}, entity.ErrClassRateLimited},
		{"server error", &apiError{Status: 500}, entity.ErrClassNetworkTransient},
		{"bad gateway", &apiError{Status: 502}, entity.ErrClassNetworkTransient},
		{"bad request", &apiError{Status: 400}, entity.ErrClassPlatformRejected},
		{"unprocessable", &apiError{Status: 422}, entity.ErrClassPlatformRejected},
		{"missing credential", &connectionError{Reason: "no page"}, entity.ErrClassConnectionMissing},
		{"deadline exceeded", context.DeadlineExceeded, entity.ErrClassNetworkTransient},
		{"canceled", context.Canceled, entity.ErrClassNetworkTransient},
		{"unknown error", errors.New("something odd"), entity.ErrClassNetworkTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_WrappedError(t *testing.T) {
	wrapped := errors.New("facebook page_post: " + (&apiError{Status: 401}).Error())
	// Plain string wrapping loses the type; %w wrapping keeps it.
	assert.Equal(t, entity.ErrClassNetworkTransient, Classify(wrapped))

	properlyWrapped := wrapErr(&apiError{Status: 401})
	assert.Equal(t, entity.ErrClassAuthExpired, Classify(properlyWrapped))
}

func wrapErr(err error) error {
	return &wrappedErr{inner: err}
}

type wrappedErr struct{ inner error }

func (w *wrappedErr) Error() string { return "wrapped: " + w.inner.Error() }
func (w *wrappedErr) Unwrap() error { return w.inner }
