package entity

import "time"

type Plan string

const (
	PlanStarter      Plan = "starter"
	PlanGrowth       Plan = "growth"
	PlanProfessional Plan = "professional"
)

// QuotaLedgerEntry is the authoritative usage record for one subscriber and
// one cycle. Invariant: 0 <= Used <= Quota, enforced by conditional updates
// in the repository. A new cycle seals the old entry rather than mutating it.
type QuotaLedgerEntry struct {
	ID           string     `json:"id"`
	SubscriberID string     `json:"subscriber_id"`
	CycleStart   time.Time  `json:"cycle_start"`
	CycleEnd     time.Time  `json:"cycle_end"`
	Quota        int        `json:"quota"`
	Used         int        `json:"used"`
	LastPostedAt *time.Time `json:"last_posted_at,omitempty"`
	Sealed       bool       `json:"sealed"`
	Frozen       bool       `json:"frozen"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (e *QuotaLedgerEntry) Remaining() int {
	if r := e.Quota - e.Used; r > 0 {
		return r
	}
	return 0
}

func (e *QuotaLedgerEntry) Expired(now time.Time) bool {
	return now.After(e.CycleEnd)
}

// QuotaStatus is the advisory read-model served to the UI; the authoritative
// check still happens inside CheckAndReserve.
type QuotaStatus struct {
	SubscriberID string    `json:"subscriber_id"`
	Remaining    int       `json:"remaining"`
	Total        int       `json:"total"`
	CycleStart   time.Time `json:"cycle_start"`
	CycleEnd     time.Time `json:"cycle_end"`
}

// QuotaSnapshot captures Used at a point in time for the administrative
// rollback path: restoring a snapshot releases exactly the delta consumed
// since it was taken.
type QuotaSnapshot struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber_id"`
	EntryID      string    `json:"entry_id"`
	Quota        int       `json:"quota"`
	Used         int       `json:"used"`
	CreatedAt    time.Time `json:"created_at"`
}
