package persistent

import (
	"errors"
	"time"

	"agency-pulse/internal/entity"
	"agency-pulse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotaRepository interface {
	GetActiveEntry(subscriberID string) (*entity.QuotaLedgerEntry, error)
	CreateEntry(entry *entity.QuotaLedgerEntry) error
	SealEntry(entryID string) error
	ReserveUnit(entryID string) (bool, error)
	ReleaseUnits(entryID string, n int) error
	FreezeEntry(entryID string) error
	CreateSnapshot(snapshot *entity.QuotaSnapshot) error
	GetSnapshot(snapshotID string) (*entity.QuotaSnapshot, error)
}

type quotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (r *quotaRepository) GetActiveEntry(subscriberID string) (*entity.QuotaLedgerEntry, error) {
	var entryModel model.QuotaLedgerEntryModel
	err := r.db.Where("subscriber_id = ? AND sealed = false", subscriberID).
		Order("cycle_start DESC").
		First(&entryModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return ToLedgerEntryEntity(&entryModel), nil
}

func (r *quotaRepository) CreateEntry(entry *entity.QuotaLedgerEntry) error {
	entryModel := ToLedgerEntryModel(entry)
	if entryModel.ID == "" {
		entryModel.ID = uuid.New().String()
	}
	if err := r.db.Create(entryModel).Error; err != nil {
		return err
	}
	*entry = *ToLedgerEntryEntity(entryModel)
	return nil
}

func (r *quotaRepository) SealEntry(entryID string) error {
	return r.db.Model(&model.QuotaLedgerEntryModel{}).
		Where("id = ?", entryID).
		Update("sealed", true).Error
}

// ReserveUnit is the single deduction point. The WHERE guard makes the
// check-and-increment atomic: concurrent reservations against a subscriber
// with one unit left race on the row and exactly one sees RowsAffected == 1.
func (r *quotaRepository) ReserveUnit(entryID string) (bool, error) {
	now := time.Now()
	result := r.db.Model(&model.QuotaLedgerEntryModel{}).
		Where("id = ? AND used < quota AND sealed = false AND frozen = false", entryID).
		Updates(map[string]interface{}{
			"used":           gorm.Expr("used + 1"),
			"last_posted_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseUnits floors used at zero so a rollback can never drive the
// ledger negative.
func (r *quotaRepository) ReleaseUnits(entryID string, n int) error {
	if n <= 0 {
		return nil
	}
	return r.db.Model(&model.QuotaLedgerEntryModel{}).
		Where("id = ?", entryID).
		Update("used", gorm.Expr("GREATEST(used - ?, 0)", n)).Error
}

func (r *quotaRepository) FreezeEntry(entryID string) error {
	return r.db.Model(&model.QuotaLedgerEntryModel{}).
		Where("id = ?", entryID).
		Update("frozen", true).Error
}

func (r *quotaRepository) CreateSnapshot(snapshot *entity.QuotaSnapshot) error {
	snapshotModel := ToSnapshotModel(snapshot)
	if snapshotModel.ID == "" {
		snapshotModel.ID = uuid.New().String()
	}
	if err := r.db.Create(snapshotModel).Error; err != nil {
		return err
	}
	*snapshot = *ToSnapshotEntity(snapshotModel)
	return nil
}

func (r *quotaRepository) GetSnapshot(snapshotID string) (*entity.QuotaSnapshot, error) {
	var snapshotModel model.QuotaSnapshotModel
	if err := r.db.Where("id = ?", snapshotID).First(&snapshotModel).Error; err != nil {
		return nil, err
	}
	return ToSnapshotEntity(&snapshotModel), nil
}
