package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"agency-pulse/internal/entity"
	"agency-pulse/internal/platform"
	"agency-pulse/internal/repo/persistent"
	"agency-pulse/pkg/logger"
	"agency-pulse/pkg/queue"

	"gorm.io/gorm"
)

// EventPublisher fans successful publishes out to downstream consumers.
type EventPublisher interface {
	PublishPostEvent(event queue.PostPublishedEvent) error
}

// PublishUseCase walks a post through its lifecycle and keeps post status and
// ledger state consistent: quota is charged only when a platform call
// actually delivered.
type PublishUseCase interface {
	Approve(ctx context.Context, postID string) (*entity.Post, error)
	Publish(ctx context.Context, postID string) (*entity.PublishResult, error)
	PublishGroup(ctx context.Context, postIDs []string) (*entity.GroupResult, error)
	Requeue(ctx context.Context, postID string) (bool, error)
}

type publishUseCase struct {
	postRepo       persistent.PostRepository
	connRepo       persistent.ConnectionRepository
	subscriberRepo persistent.SubscriberRepository
	attemptRepo    persistent.AttemptRepository
	quota          QuotaUseCase
	adapters       *platform.Registry
	events         EventPublisher
	logger         *logger.Logger
	locks          *keyedLocks
	now            func() time.Time
}

func NewPublishUseCase(
	postRepo persistent.PostRepository,
	connRepo persistent.ConnectionRepository,
	subscriberRepo persistent.SubscriberRepository,
	attemptRepo persistent.AttemptRepository,
	quota QuotaUseCase,
	adapters *platform.Registry,
	events EventPublisher,
	log *logger.Logger,
) PublishUseCase {
	return &publishUseCase{
		postRepo:       postRepo,
		connRepo:       connRepo,
		subscriberRepo: subscriberRepo,
		attemptRepo:    attemptRepo,
		quota:          quota,
		adapters:       adapters,
		events:         events,
		logger:         log,
		locks:          newKeyedLocks(),
		now:            time.Now,
	}
}

// Approve moves a draft to approved. Quota is untouched: the charge happens
// only on a successful platform call, never for undelivered content.
func (uc *publishUseCase) Approve(ctx context.Context, postID string) (*entity.Post, error) {
	post, err := uc.loadPost(postID)
	if err != nil {
		return nil, err
	}

	if post.Status == entity.StatusApproved {
		return post, nil
	}
	if post.Status != entity.StatusDraft {
		return nil, fmt.Errorf("%w: cannot approve post in status %q", entity.ErrInvalidTransition, post.Status)
	}

	subscriber, err := uc.subscriberRepo.GetByID(post.SubscriberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to load subscriber: %w", err)
	}
	if !subscriber.Active {
		return nil, entity.ErrSubscriberInactive
	}

	// Losing the conditional update just means another caller approved
	// first; both see the same outcome.
	if _, err := uc.postRepo.UpdateStatus(postID, entity.StatusDraft, entity.StatusApproved); err != nil {
		return nil, fmt.Errorf("failed to approve post: %w", err)
	}

	return uc.loadPost(postID)
}

// Publish drives one post through quota reservation, adapter delivery and
// the final status/ledger commit. Calls for the same post are serialized on
// a per-post lock, so no concurrent pair can both pass the approved check.
func (uc *publishUseCase) Publish(ctx context.Context, postID string) (*entity.PublishResult, error) {
	unlock := uc.locks.Lock(postID)
	defer unlock()

	post, err := uc.loadPost(postID)
	if err != nil {
		return nil, err
	}

	// Idempotent no-op on anything already past approved.
	if post.Status != entity.StatusApproved {
		return &entity.PublishResult{
			Success:        post.Status == entity.StatusPublished,
			Post:           post,
			PlatformPostID: post.PlatformPostID,
			ErrorClass:     post.ErrorClass,
			Error:          post.LastError,
		}, nil
	}

	// Past this point the publish runs to a terminal outcome. A caller
	// disconnect must not cancel mid-flight between the quota reserve and
	// the status commit, or the ledger and the platform diverge.
	ctx = context.WithoutCancel(ctx)

	granted, remaining, err := uc.quota.CheckAndReserve(ctx, post.SubscriberID)
	if err != nil {
		return nil, fmt.Errorf("quota check failed: %w", err)
	}
	if !granted {
		return uc.failWithoutRetry(post, entity.ErrClassQuotaExhausted, "quota exhausted for current cycle", remaining)
	}

	conn, err := uc.connRepo.GetActiveConnection(post.SubscriberID, post.Platform)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		uc.restoreQuota(ctx, post.SubscriberID)
		return nil, fmt.Errorf("failed to load platform connection: %w", err)
	}
	if conn == nil || !conn.Usable(uc.now()) {
		uc.restoreQuota(ctx, post.SubscriberID)
		return uc.failWithoutRetry(post, entity.ErrClassConnectionMissing, fmt.Sprintf("no active %s connection", post.Platform), remaining+1)
	}

	adapter, err := uc.adapters.For(post.Platform)
	if err != nil {
		uc.restoreQuota(ctx, post.SubscriberID)
		return nil, err
	}

	res := adapter.Attempt(ctx, conn, post.Content)
	uc.recordAttempt(post, res)

	if res.Success {
		publishedAt := uc.now()
		if err := uc.postRepo.MarkPublished(post.ID, res.PlatformPostID, res.StrategyUsed, publishedAt); err != nil {
			// The platform call went through; the quota charge
			// stands. Surface the persistence failure loudly.
			return nil, fmt.Errorf("post %s delivered to %s but status commit failed: %w", post.ID, post.Platform, err)
		}
		uc.emitPublished(post, res.PlatformPostID, publishedAt)

		updated, err := uc.loadPost(post.ID)
		if err != nil {
			return nil, err
		}
		return &entity.PublishResult{
			Success:        true,
			Post:           updated,
			PlatformPostID: res.PlatformPostID,
			FallbackUsed:   res.FallbackUsed,
			QuotaRemaining: remaining,
		}, nil
	}

	// Nothing was delivered: give the unit back before recording failure.
	uc.restoreQuota(ctx, post.SubscriberID)

	retryCount := post.RetryCount + 1
	next := nextRetryAt(res.ErrorClass, retryCount, uc.now())
	if err := uc.postRepo.MarkFailed(post.ID, res.Err.Error(), res.ErrorClass, retryCount, next); err != nil {
		return nil, fmt.Errorf("failed to record publish failure: %w", err)
	}

	updated, err := uc.loadPost(post.ID)
	if err != nil {
		return nil, err
	}
	return &entity.PublishResult{
		Success:        false,
		Post:           updated,
		FallbackUsed:   res.FallbackUsed,
		ErrorClass:     res.ErrorClass,
		Error:          res.Err.Error(),
		QuotaRemaining: remaining + 1,
	}, nil
}

// PublishGroup delivers a multi-target request: each post is its own
// platform and its own quota unit. The aggregate is published when every
// post delivered, failed when none did, partial otherwise.
func (uc *publishUseCase) PublishGroup(ctx context.Context, postIDs []string) (*entity.GroupResult, error) {
	results := make([]*entity.PublishResult, len(postIDs))

	var wg sync.WaitGroup
	for i, postID := range postIDs {
		wg.Add(1)
		go func(i int, postID string) {
			defer wg.Done()
			res, err := uc.Publish(ctx, postID)
			if err != nil {
				uc.logger.Error("Group publish failed for post %s: %v", postID, err)
				res = &entity.PublishResult{Success: false, Error: err.Error()}
			}
			results[i] = res
		}(i, postID)
	}
	wg.Wait()

	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}

	status := entity.StatusFailed
	switch {
	case succeeded == len(results) && len(results) > 0:
		status = entity.StatusPublished
	case succeeded > 0:
		status = entity.StatusPartial
	}

	return &entity.GroupResult{Status: status, Results: results}, nil
}

// Requeue moves a failed post back to approved for another enforcer-driven
// attempt. Returns false when the post is no longer in failed state.
func (uc *publishUseCase) Requeue(ctx context.Context, postID string) (bool, error) {
	return uc.postRepo.UpdateStatus(postID, entity.StatusFailed, entity.StatusApproved)
}

func (uc *publishUseCase) failWithoutRetry(post *entity.Post, class entity.ErrorClass, message string, remaining int) (*entity.PublishResult, error) {
	retryCount := post.RetryCount
	if class != entity.ErrClassQuotaExhausted {
		retryCount++
	}
	if err := uc.postRepo.MarkFailed(post.ID, message, class, retryCount, nil); err != nil {
		return nil, fmt.Errorf("failed to record publish failure: %w", err)
	}

	updated, err := uc.loadPost(post.ID)
	if err != nil {
		return nil, err
	}
	return &entity.PublishResult{
		Success:        false,
		Post:           updated,
		ErrorClass:     class,
		Error:          message,
		QuotaRemaining: remaining,
	}, nil
}

func (uc *publishUseCase) restoreQuota(ctx context.Context, subscriberID string) {
	if err := uc.quota.Restore(ctx, subscriberID, 1); err != nil {
		uc.logger.Error("Failed to restore quota unit for subscriber %s: %v", subscriberID, err)
	}
}

func (uc *publishUseCase) recordAttempt(post *entity.Post, res platform.Result) {
	attempt := &entity.PublishAttempt{
		PostID:       post.ID,
		Platform:     post.Platform,
		Strategy:     res.StrategyUsed,
		Success:      res.Success,
		FallbackUsed: res.FallbackUsed,
		ErrorClass:   res.ErrorClass,
		CreatedAt:    uc.now(),
	}
	if res.Err != nil {
		attempt.ErrorMessage = res.Err.Error()
	}
	if err := uc.attemptRepo.Create(attempt); err != nil {
		uc.logger.Error("Failed to record publish attempt for post %s: %v", post.ID, err)
	}
}

func (uc *publishUseCase) emitPublished(post *entity.Post, platformPostID string, publishedAt time.Time) {
	if uc.events == nil {
		return
	}
	err := uc.events.PublishPostEvent(queue.PostPublishedEvent{
		PostID:         post.ID,
		SubscriberID:   post.SubscriberID,
		Platform:       string(post.Platform),
		PlatformPostID: platformPostID,
		PublishedAt:    publishedAt,
	})
	if err != nil {
		uc.logger.Warn("Failed to emit post_published event for post %s: %v", post.ID, err)
	}
}

func (uc *publishUseCase) loadPost(postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return post, nil
}
