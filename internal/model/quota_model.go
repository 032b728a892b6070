package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotaLedgerEntryModel struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID string     `gorm:"type:uuid;not null;index:idx_ledger_subscriber_active" json:"subscriber_id"`
	CycleStart   time.Time  `gorm:"not null" json:"cycle_start"`
	CycleEnd     time.Time  `gorm:"not null" json:"cycle_end"`
	Quota        int        `gorm:"not null" json:"quota"`
	Used         int        `gorm:"not null;default:0" json:"used"`
	LastPostedAt *time.Time `json:"last_posted_at"`
	Sealed       bool       `gorm:"not null;default:false;index:idx_ledger_subscriber_active" json:"sealed"`
	Frozen       bool       `gorm:"not null;default:false" json:"frozen"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (QuotaLedgerEntryModel) TableName() string {
	return "quota_ledger_entries"
}

func (e *QuotaLedgerEntryModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

type QuotaSnapshotModel struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID string    `gorm:"type:uuid;not null;index" json:"subscriber_id"`
	EntryID      string    `gorm:"type:uuid;not null" json:"entry_id"`
	Quota        int       `gorm:"not null" json:"quota"`
	Used         int       `gorm:"not null" json:"used"`
	CreatedAt    time.Time `json:"created_at"`
}

func (QuotaSnapshotModel) TableName() string {
	return "quota_snapshots"
}

func (s *QuotaSnapshotModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
