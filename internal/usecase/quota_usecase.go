package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agency-pulse/internal/entity"
	"agency-pulse/internal/repo/persistent"
	"agency-pulse/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	quotaStatusCacheTTL = 2 * time.Minute
	rolloverRetries     = 3
)

// PlanQuotas maps subscription plans to posts-per-cycle allowances.
type PlanQuotas struct {
	Starter      int
	Growth       int
	Professional int
	CycleDays    int
}

func (p PlanQuotas) For(plan entity.Plan) int {
	switch plan {
	case entity.PlanGrowth:
		return p.Growth
	case entity.PlanProfessional:
		return p.Professional
	default:
		return p.Starter
	}
}

// QuotaUseCase is the authoritative quota ledger. CheckAndReserve is the
// single deduction point; nothing else may decrement a subscriber's
// allowance.
type QuotaUseCase interface {
	CheckAndReserve(ctx context.Context, subscriberID string) (granted bool, remaining int, err error)
	Restore(ctx context.Context, subscriberID string, n int) error
	GetStatus(ctx context.Context, subscriberID string) (*entity.QuotaStatus, error)
	Snapshot(ctx context.Context, subscriberID string) (*entity.QuotaSnapshot, error)
	RestoreSnapshot(ctx context.Context, subscriberID, snapshotID string) (*entity.QuotaStatus, error)
}

type quotaUseCase struct {
	quotaRepo      persistent.QuotaRepository
	subscriberRepo persistent.SubscriberRepository
	redisClient    *redis.Client
	plans          PlanQuotas
	logger         *logger.Logger
	now            func() time.Time
}

func NewQuotaUseCase(
	quotaRepo persistent.QuotaRepository,
	subscriberRepo persistent.SubscriberRepository,
	redisClient *redis.Client,
	plans PlanQuotas,
	log *logger.Logger,
) QuotaUseCase {
	return &quotaUseCase{
		quotaRepo:      quotaRepo,
		subscriberRepo: subscriberRepo,
		redisClient:    redisClient,
		plans:          plans,
		logger:         log,
		now:            time.Now,
	}
}

func (uc *quotaUseCase) CheckAndReserve(ctx context.Context, subscriberID string) (bool, int, error) {
	entry, err := uc.activeEntry(subscriberID)
	if err != nil {
		return false, 0, err
	}

	granted, err := uc.quotaRepo.ReserveUnit(entry.ID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to reserve quota unit: %w", err)
	}

	uc.invalidateStatusCache(ctx, subscriberID)

	// The remaining count is advisory. Start from the pre-reserve read and
	// refine with a re-read when one succeeds; a failed re-read must never
	// turn a grant into an error, or the caller would drop a reserved unit.
	remaining := entry.Remaining()
	if granted && remaining > 0 {
		remaining--
	}
	if fresh, err := uc.quotaRepo.GetActiveEntry(subscriberID); err == nil {
		remaining = fresh.Remaining()
	} else {
		uc.logger.Warn("Failed to re-read ledger entry for %s after reserve: %v", subscriberID, err)
	}
	return granted, remaining, nil
}

func (uc *quotaUseCase) Restore(ctx context.Context, subscriberID string, n int) error {
	entry, err := uc.activeEntry(subscriberID)
	if err != nil {
		return err
	}

	if err := uc.quotaRepo.ReleaseUnits(entry.ID, n); err != nil {
		return fmt.Errorf("failed to release quota units: %w", err)
	}

	uc.invalidateStatusCache(ctx, subscriberID)
	return nil
}

func (uc *quotaUseCase) GetStatus(ctx context.Context, subscriberID string) (*entity.QuotaStatus, error) {
	if uc.redisClient != nil {
		cached, err := uc.redisClient.Get(ctx, quotaStatusKey(subscriberID)).Result()
		if err == nil {
			var status entity.QuotaStatus
			if err := json.Unmarshal([]byte(cached), &status); err == nil {
				return &status, nil
			}
		}
	}

	entry, err := uc.activeEntry(subscriberID)
	if err != nil {
		return nil, err
	}

	status := &entity.QuotaStatus{
		SubscriberID: subscriberID,
		Remaining:    entry.Remaining(),
		Total:        entry.Quota,
		CycleStart:   entry.CycleStart,
		CycleEnd:     entry.CycleEnd,
	}

	if uc.redisClient != nil {
		if b, err := json.Marshal(status); err == nil {
			if err := uc.redisClient.Set(ctx, quotaStatusKey(subscriberID), b, quotaStatusCacheTTL).Err(); err != nil {
				uc.logger.Warn("Failed to cache quota status for %s: %v", subscriberID, err)
			}
		}
	}

	return status, nil
}

func (uc *quotaUseCase) Snapshot(ctx context.Context, subscriberID string) (*entity.QuotaSnapshot, error) {
	entry, err := uc.activeEntry(subscriberID)
	if err != nil {
		return nil, err
	}

	snapshot := &entity.QuotaSnapshot{
		SubscriberID: subscriberID,
		EntryID:      entry.ID,
		Quota:        entry.Quota,
		Used:         entry.Used,
	}
	if err := uc.quotaRepo.CreateSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("failed to create quota snapshot: %w", err)
	}
	return snapshot, nil
}

// RestoreSnapshot releases exactly the units consumed since the snapshot was
// taken. Restoring against a different cycle's entry is refused: the new
// cycle starts clean and owes nothing.
func (uc *quotaUseCase) RestoreSnapshot(ctx context.Context, subscriberID, snapshotID string) (*entity.QuotaStatus, error) {
	snapshot, err := uc.quotaRepo.GetSnapshot(snapshotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snapshot.SubscriberID != subscriberID {
		return nil, entity.ErrSnapshotNotFound
	}

	entry, err := uc.activeEntry(subscriberID)
	if err != nil {
		return nil, err
	}

	if entry.ID == snapshot.EntryID && entry.Used > snapshot.Used {
		delta := entry.Used - snapshot.Used
		if err := uc.quotaRepo.ReleaseUnits(entry.ID, delta); err != nil {
			return nil, fmt.Errorf("failed to restore snapshot delta: %w", err)
		}
		uc.invalidateStatusCache(ctx, subscriberID)
	}

	return uc.GetStatus(ctx, subscriberID)
}

// activeEntry returns the subscriber's current-cycle entry, lazily rolling
// an expired cycle over and creating the first entry on demand. Rollover
// races between workers resolve through the create retry loop.
func (uc *quotaUseCase) activeEntry(subscriberID string) (*entity.QuotaLedgerEntry, error) {
	for attempt := 0; attempt < rolloverRetries; attempt++ {
		entry, err := uc.quotaRepo.GetActiveEntry(subscriberID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to load ledger entry: %w", err)
			}
			entry, err = uc.openCycle(subscriberID)
			if err != nil {
				if errors.Is(err, entity.ErrSubscriberNotFound) {
					return nil, err
				}
				// Likely a rollover race on the partial unique
				// index; re-read on the next pass.
				continue
			}
		}

		now := uc.now()
		if entry.Expired(now) {
			if err := uc.quotaRepo.SealEntry(entry.ID); err != nil {
				return nil, fmt.Errorf("failed to seal expired ledger entry: %w", err)
			}
			uc.logger.Info("Quota cycle rolled over for subscriber %s: used %d/%d", subscriberID, entry.Used, entry.Quota)
			continue
		}

		if entry.Frozen {
			return nil, entity.ErrLedgerFrozen
		}
		if entry.Used > entry.Quota {
			// Should be impossible given the reserve guard; halt
			// deduction for this subscriber until an operator
			// reconciles the entry.
			if err := uc.quotaRepo.FreezeEntry(entry.ID); err != nil {
				uc.logger.Error("Failed to freeze corrupt ledger entry %s: %v", entry.ID, err)
			}
			uc.logger.Error("Ledger corruption for subscriber %s: used=%d quota=%d", subscriberID, entry.Used, entry.Quota)
			return nil, entity.ErrLedgerFrozen
		}

		return entry, nil
	}
	return nil, fmt.Errorf("failed to obtain active ledger entry for subscriber %s", subscriberID)
}

func (uc *quotaUseCase) openCycle(subscriberID string) (*entity.QuotaLedgerEntry, error) {
	subscriber, err := uc.subscriberRepo.GetByID(subscriberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to load subscriber: %w", err)
	}

	now := uc.now()
	entry := &entity.QuotaLedgerEntry{
		SubscriberID: subscriberID,
		CycleStart:   now,
		CycleEnd:     now.AddDate(0, 0, uc.plans.CycleDays),
		Quota:        uc.plans.For(subscriber.Plan),
		Used:         0,
	}
	if err := uc.quotaRepo.CreateEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return entry, nil
}

func (uc *quotaUseCase) invalidateStatusCache(ctx context.Context, subscriberID string) {
	if uc.redisClient == nil {
		return
	}
	if err := uc.redisClient.Del(ctx, quotaStatusKey(subscriberID)).Err(); err != nil {
		uc.logger.Warn("Failed to invalidate quota status cache for %s: %v", subscriberID, err)
	}
}

func quotaStatusKey(subscriberID string) string {
	return "quota_status:" + subscriberID
}
