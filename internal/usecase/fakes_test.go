package usecase

import (
	"sync"
	"time"

	"agency-pulse/internal/entity"
	"agency-pulse/pkg/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. Mutations hold a mutex so concurrency tests
// exercise the same atomicity the SQL conditional updates provide.

type fakeQuotaRepo struct {
	mu        sync.Mutex
	entries   map[string]*entity.QuotaLedgerEntry
	snapshots map[string]*entity.QuotaSnapshot
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{
		entries:   make(map[string]*entity.QuotaLedgerEntry),
		snapshots: make(map[string]*entity.QuotaSnapshot),
	}
}

func (f *fakeQuotaRepo) GetActiveEntry(subscriberID string) (*entity.QuotaLedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *entity.QuotaLedgerEntry
	for _, e := range f.entries {
		if e.SubscriberID != subscriberID || e.Sealed {
			continue
		}
		if latest == nil || e.CycleStart.After(latest.CycleStart) {
			latest = e
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeQuotaRepo) CreateEntry(entry *entity.QuotaLedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeQuotaRepo) SealEntry(entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[entryID]; ok {
		e.Sealed = true
	}
	return nil
}

func (f *fakeQuotaRepo) ReserveUnit(entryID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[entryID]
	if !ok || e.Sealed || e.Frozen || e.Used >= e.Quota {
		return false, nil
	}
	e.Used++
	now := time.Now()
	e.LastPostedAt = &now
	return true, nil
}

func (f *fakeQuotaRepo) ReleaseUnits(entryID string, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n <= 0 {
		return nil
	}
	if e, ok := f.entries[entryID]; ok {
		e.Used -= n
		if e.Used < 0 {
			e.Used = 0
		}
	}
	return nil
}

func (f *fakeQuotaRepo) FreezeEntry(entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[entryID]; ok {
		e.Frozen = true
	}
	return nil
}

func (f *fakeQuotaRepo) CreateSnapshot(snapshot *entity.QuotaSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	cp := *snapshot
	f.snapshots[snapshot.ID] = &cp
	return nil
}

func (f *fakeQuotaRepo) GetSnapshot(snapshotID string) (*entity.QuotaSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.snapshots[snapshotID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

// setUsed force-sets the counter, bypassing the reserve guard, to simulate
// external corruption.
func (f *fakeQuotaRepo) setUsed(entryID string, used int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[entryID]; ok {
		e.Used = used
	}
}

type fakeSubscriberRepo struct {
	mu          sync.Mutex
	subscribers map[string]*entity.Subscriber
}

func newFakeSubscriberRepo(subs ...*entity.Subscriber) *fakeSubscriberRepo {
	f := &fakeSubscriberRepo{subscribers: make(map[string]*entity.Subscriber)}
	for _, s := range subs {
		f.subscribers[s.ID] = s
	}
	return f
}

func (f *fakeSubscriberRepo) GetByID(id string) (*entity.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subscribers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriberRepo) GetByEmail(email string) (*entity.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subscribers {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*entity.Post
}

func newFakePostRepo(posts ...*entity.Post) *fakePostRepo {
	f := &fakePostRepo{posts: make(map[string]*entity.Post)}
	for _, p := range posts {
		cp := *p
		f.posts[p.ID] = &cp
	}
	return f
}

func (f *fakePostRepo) Create(post *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Status == "" {
		post.Status = entity.StatusDraft
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) GetByID(id string) (*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) GetBySubscriberID(subscriberID string, limit, offset int) ([]*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Post
	for _, p := range f.posts {
		if p.SubscriberID == subscriberID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePostRepo) UpdateStatus(id string, from, to entity.PostStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakePostRepo) MarkPublished(id, platformPostID, strategyUsed string, publishedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = entity.StatusPublished
	p.PublishedAt = &publishedAt
	p.PlatformPostID = platformPostID
	p.StrategyUsed = strategyUsed
	p.LastError = ""
	p.ErrorClass = ""
	p.NextRetryAt = nil
	p.UpdatedAt = time.Now()
	return nil
}

func (f *fakePostRepo) MarkFailed(id, lastError string, errorClass entity.ErrorClass, retryCount int, nextRetryAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = entity.StatusFailed
	p.LastError = lastError
	p.ErrorClass = errorClass
	p.RetryCount = retryCount
	p.NextRetryAt = nextRetryAt
	p.UpdatedAt = time.Now()
	return nil
}

func (f *fakePostRepo) GetDueDrafts(now time.Time, limit int) ([]*entity.Post, error) {
	return f.byStatusDue(entity.StatusDraft, now, limit), nil
}

func (f *fakePostRepo) GetPublishable(now time.Time, limit int) ([]*entity.Post, error) {
	return f.byStatusDue(entity.StatusApproved, now, limit), nil
}

func (f *fakePostRepo) byStatusDue(status entity.PostStatus, now time.Time, limit int) []*entity.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Post
	for _, p := range f.posts {
		if p.Status == status && !p.ScheduledFor.After(now) {
			cp := *p
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (f *fakePostRepo) GetRetryableFailed(now time.Time, maxAttempts, limit int) ([]*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Post
	for _, p := range f.posts {
		if p.Status != entity.StatusFailed || p.RetryCount >= maxAttempts {
			continue
		}
		due := p.ErrorClass.AutoRetryable() && p.NextRetryAt != nil && !p.NextRetryAt.After(now)
		if due || p.ErrorClass.NeedsConnectionRefresh() {
			cp := *p
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeConnRepo struct {
	mu    sync.Mutex
	conns map[string][]*entity.PlatformConnection
}

func newFakeConnRepo(conns ...*entity.PlatformConnection) *fakeConnRepo {
	f := &fakeConnRepo{conns: make(map[string][]*entity.PlatformConnection)}
	for _, c := range conns {
		f.conns[c.SubscriberID] = append(f.conns[c.SubscriberID], c)
	}
	return f
}

func (f *fakeConnRepo) GetActiveConnection(subscriberID string, platform entity.Platform) (*entity.PlatformConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conns[subscriberID] {
		if c.Platform == platform && c.Active {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConnRepo) ListBySubscriber(subscriberID string) ([]*entity.PlatformConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PlatformConnection
	for _, c := range f.conns[subscriberID] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts []*entity.PublishAttempt
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{}
}

func (f *fakeAttemptRepo) Create(attempt *entity.PublishAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	cp := *attempt
	f.attempts = append(f.attempts, &cp)
	return nil
}

func (f *fakeAttemptRepo) ListByPost(postID string, limit int) ([]*entity.PublishAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PublishAttempt
	for _, a := range f.attempts {
		if a.PostID == postID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) HasTerminalAttempt(postID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.PostID == postID && a.Success {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttemptRepo) countForPost(postID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.attempts {
		if a.PostID == postID {
			n++
		}
	}
	return n
}

type fakeEvents struct {
	mu     sync.Mutex
	events []queue.PostPublishedEvent
}

func (f *fakeEvents) PublishPostEvent(event queue.PostPublishedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}
