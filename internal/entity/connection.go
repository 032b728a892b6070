package entity

import "time"

// PlatformConnection is owned by the OAuth subsystem; this core only reads it.
// Credential fields vary per platform: Facebook uses PageID, Instagram the
// BusinessAccountID linked through the Facebook connection, LinkedIn the
// ProfileURN, YouTube the ChannelID.
type PlatformConnection struct {
	ID                string     `json:"id"`
	SubscriberID      string     `json:"subscriber_id"`
	Platform          Platform   `json:"platform"`
	AccessToken       string     `json:"-"`
	RefreshToken      string     `json:"-"`
	PageID            string     `json:"page_id,omitempty"`
	BusinessAccountID string     `json:"business_account_id,omitempty"`
	ProfileURN        string     `json:"profile_urn,omitempty"`
	ChannelID         string     `json:"channel_id,omitempty"`
	Active            bool       `json:"active"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (c *PlatformConnection) Usable(now time.Time) bool {
	if c == nil || !c.Active {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}
