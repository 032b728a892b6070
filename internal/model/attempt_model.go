package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublishAttemptModel struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	PostID       string    `gorm:"type:uuid;not null;index" json:"post_id"`
	Platform     string    `gorm:"type:varchar(20);not null" json:"platform"`
	Strategy     string    `gorm:"type:varchar(50)" json:"strategy"`
	Success      bool      `gorm:"not null" json:"success"`
	FallbackUsed bool      `gorm:"not null;default:false" json:"fallback_used"`
	ErrorClass   string    `gorm:"type:varchar(30)" json:"error_class"`
	ErrorMessage string    `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (PublishAttemptModel) TableName() string {
	return "publish_attempts"
}

func (a *PublishAttemptModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
