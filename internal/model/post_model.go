package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostModel struct {
	ID             string         `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID   string         `gorm:"type:uuid;not null;index" json:"subscriber_id"`
	Platform       string         `gorm:"type:varchar(20);not null;index" json:"platform"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	MediaURL       string         `gorm:"type:varchar(500)" json:"media_url"`
	Status         string         `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	ScheduledFor   time.Time      `gorm:"index" json:"scheduled_for"`
	PublishedAt    *time.Time     `json:"published_at"`
	PlatformPostID string         `gorm:"type:varchar(255)" json:"platform_post_id"`
	StrategyUsed   string         `gorm:"type:varchar(50)" json:"strategy_used"`
	LastError      string         `gorm:"type:text" json:"last_error"`
	ErrorClass     string         `gorm:"type:varchar(30);index" json:"error_class"`
	RetryCount     int            `gorm:"default:0" json:"retry_count"`
	NextRetryAt    *time.Time     `gorm:"index" json:"next_retry_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
