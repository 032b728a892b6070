package entity

import "time"

// PublishAttempt is the durable audit row for one adapter invocation. The
// enforcer uses it after a crash to tell which approved posts never reached
// a terminal outcome.
type PublishAttempt struct {
	ID           string     `json:"id"`
	PostID       string     `json:"post_id"`
	Platform     Platform   `json:"platform"`
	Strategy     string     `json:"strategy"`
	Success      bool       `json:"success"`
	FallbackUsed bool       `json:"fallback_used"`
	ErrorClass   ErrorClass `json:"error_class,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
