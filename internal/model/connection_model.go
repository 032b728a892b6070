package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlatformConnectionModel struct {
	ID                string         `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID      string         `gorm:"type:uuid;not null;index:idx_conn_subscriber_platform" json:"subscriber_id"`
	Platform          string         `gorm:"type:varchar(20);not null;index:idx_conn_subscriber_platform" json:"platform"`
	AccessToken       string         `gorm:"type:text;not null" json:"-"`
	RefreshToken      string         `gorm:"type:text" json:"-"`
	PageID            string         `gorm:"type:varchar(100)" json:"page_id"`
	BusinessAccountID string         `gorm:"type:varchar(100)" json:"business_account_id"`
	ProfileURN        string         `gorm:"type:varchar(255)" json:"profile_urn"`
	ChannelID         string         `gorm:"type:varchar(100)" json:"channel_id"`
	Active            bool           `gorm:"not null;default:true" json:"active"`
	ExpiresAt         *time.Time     `json:"expires_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PlatformConnectionModel) TableName() string {
	return "platform_connections"
}

func (c *PlatformConnectionModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
