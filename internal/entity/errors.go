package entity

import "errors"

// ErrorClass is the normalized failure taxonomy every platform error is
// folded into before it reaches the dispatcher. The class decides whether
// quota is restored, how the enforcer backs off, and what the caller is told.
type ErrorClass string

const (
	ErrClassQuotaExhausted    ErrorClass = "quota_exhausted"
	ErrClassConnectionMissing ErrorClass = "connection_missing"
	ErrClassAuthExpired       ErrorClass = "auth_expired"
	ErrClassRateLimited       ErrorClass = "rate_limited"
	ErrClassNetworkTransient  ErrorClass = "network_transient"
	ErrClassPlatformRejected  ErrorClass = "platform_rejected"
)

// AutoRetryable reports whether the enforcer may re-drive a failure of this
// class on a backoff schedule alone. Auth and connection failures need a
// refreshed connection first; rejected content and exhausted quota retry
// identically and are left for the user.
func (c ErrorClass) AutoRetryable() bool {
	return c == ErrClassRateLimited || c == ErrClassNetworkTransient
}

// NeedsConnectionRefresh reports whether a retry only makes sense once the
// subscriber has reconnected the platform.
func (c ErrorClass) NeedsConnectionRefresh() bool {
	return c == ErrClassAuthExpired || c == ErrClassConnectionMissing
}

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrSubscriberInactive = errors.New("subscriber has no active subscription")
	ErrInvalidTransition  = errors.New("invalid post status transition")
	ErrLedgerFrozen       = errors.New("quota ledger frozen pending reconciliation")
	ErrSnapshotNotFound   = errors.New("quota snapshot not found")
	ErrConnectionNotFound = errors.New("platform connection not found")
)
