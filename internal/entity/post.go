package entity

import "time"

type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformX         Platform = "x"
	PlatformYouTube   Platform = "youtube"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformX, PlatformYouTube:
		return true
	}
	return false
}

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusApproved  PostStatus = "approved"
	StatusPublished PostStatus = "published"
	StatusPartial   PostStatus = "partial"
	StatusFailed    PostStatus = "failed"
)

// Post is one unit of content destined for one platform. It doubles as the
// durable work-queue row for the enforcer: retry count, next-retry time and
// error class live on the post itself so a restart loses no in-flight work.
type Post struct {
	ID             string     `json:"id"`
	SubscriberID   string     `json:"subscriber_id"`
	Platform       Platform   `json:"platform"`
	Content        string     `json:"content"`
	MediaURL       string     `json:"media_url,omitempty"`
	Status         PostStatus `json:"status"`
	ScheduledFor   time.Time  `json:"scheduled_for"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	PlatformPostID string     `json:"platform_post_id,omitempty"`
	StrategyUsed   string     `json:"strategy_used,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
	ErrorClass     ErrorClass `json:"error_class,omitempty"`
	RetryCount     int        `json:"retry_count"`
	NextRetryAt    *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PublishResult is the dispatcher's normalized outcome for a single post.
type PublishResult struct {
	Success        bool       `json:"success"`
	Post           *Post      `json:"post"`
	PlatformPostID string     `json:"platform_post_id,omitempty"`
	FallbackUsed   bool       `json:"fallback_used"`
	ErrorClass     ErrorClass `json:"error_class,omitempty"`
	Error          string     `json:"error,omitempty"`
	QuotaRemaining int        `json:"quota_remaining"`
}

// GroupStatus aggregates a multi-target publish: published when every post
// delivered, failed when none did, partial otherwise.
type GroupStatus = PostStatus

type GroupResult struct {
	Status  GroupStatus      `json:"status"`
	Results []*PublishResult `json:"results"`
}
