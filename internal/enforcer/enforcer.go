package enforcer

import (
	"context"
	"errors"
	"time"

	"agency-pulse/internal/entity"
	"agency-pulse/internal/repo/persistent"
	"agency-pulse/internal/usecase"
	"agency-pulse/pkg/logger"

	"gorm.io/gorm"
)

// Config bounds one sweep: how many rows each query pulls and how many
// publishes run concurrently.
type Config struct {
	BatchSize   int
	Workers     int
	MaxAttempts int
}

// Enforcer is the background half of the dispatcher. Each tick it promotes
// due drafts, drives approved posts through Publish and re-queues failed
// posts whose retry conditions are met. All work comes from post rows, so a
// restart resumes exactly where the previous process stopped.
type Enforcer struct {
	postRepo    persistent.PostRepository
	connRepo    persistent.ConnectionRepository
	attemptRepo persistent.AttemptRepository
	publish     usecase.PublishUseCase
	cfg         Config
	logger      *logger.Logger
	now         func() time.Time
}

func New(
	postRepo persistent.PostRepository,
	connRepo persistent.ConnectionRepository,
	attemptRepo persistent.AttemptRepository,
	publish usecase.PublishUseCase,
	cfg Config,
	log *logger.Logger,
) *Enforcer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Enforcer{
		postRepo:    postRepo,
		connRepo:    connRepo,
		attemptRepo: attemptRepo,
		publish:     publish,
		cfg:         cfg,
		logger:      log,
		now:         time.Now,
	}
}

// Tick runs one full sweep. Errors are contained per post: a failure on one
// row never stops the rest of the batch.
func (e *Enforcer) Tick(ctx context.Context) {
	e.promoteDueDrafts(ctx)
	e.publishApproved(ctx)
	e.retryFailed(ctx)
}

func (e *Enforcer) promoteDueDrafts(ctx context.Context) {
	drafts, err := e.postRepo.GetDueDrafts(e.now(), e.cfg.BatchSize)
	if err != nil {
		e.logger.Error("Failed to load due drafts: %v", err)
		return
	}

	for _, post := range drafts {
		if ctx.Err() != nil {
			return
		}
		if _, err := e.publish.Approve(ctx, post.ID); err != nil {
			if errors.Is(err, entity.ErrSubscriberInactive) || errors.Is(err, entity.ErrInvalidTransition) {
				continue
			}
			e.logger.Error("Failed to promote draft %s: %v", post.ID, err)
		}
	}
}

// publishApproved drives approved posts through Publish. A post that already
// has a successful attempt was delivered by a process that died before
// committing the status; reconciling it to published avoids delivering the
// same content twice and charging a second quota unit.
func (e *Enforcer) publishApproved(ctx context.Context) {
	posts, err := e.postRepo.GetPublishable(e.now(), e.cfg.BatchSize)
	if err != nil {
		e.logger.Error("Failed to load publishable posts: %v", err)
		return
	}

	drive := make([]*entity.Post, 0, len(posts))
	for _, post := range posts {
		if ctx.Err() != nil {
			return
		}
		delivered, err := e.attemptRepo.HasTerminalAttempt(post.ID)
		if err != nil {
			e.logger.Error("Failed to check attempt history for post %s: %v", post.ID, err)
			continue
		}
		if delivered {
			if err := e.postRepo.MarkPublished(post.ID, "", "", e.now()); err != nil {
				e.logger.Error("Failed to reconcile delivered post %s: %v", post.ID, err)
				continue
			}
			e.logger.Warn("Reconciled post %s: delivery was recorded but the status commit never landed", post.ID)
			continue
		}
		drive = append(drive, post)
	}
	e.publishBatch(ctx, drive)
}

// retryFailed re-queues failed posts whose retry conditions hold. Transient
// and rate-limit failures come back once their backoff elapses; auth and
// connection failures come back only after the subscriber reconnected the
// platform, which shows up as a connection record newer than the failure.
func (e *Enforcer) retryFailed(ctx context.Context) {
	posts, err := e.postRepo.GetRetryableFailed(e.now(), e.cfg.MaxAttempts, e.cfg.BatchSize)
	if err != nil {
		e.logger.Error("Failed to load retryable posts: %v", err)
		return
	}

	requeued := make([]*entity.Post, 0, len(posts))
	for _, post := range posts {
		if ctx.Err() != nil {
			return
		}
		if post.ErrorClass.NeedsConnectionRefresh() && !e.connectionRefreshed(post) {
			continue
		}
		ok, err := e.publish.Requeue(ctx, post.ID)
		if err != nil {
			e.logger.Error("Failed to requeue post %s: %v", post.ID, err)
			continue
		}
		if ok {
			requeued = append(requeued, post)
		}
	}
	e.publishBatch(ctx, requeued)
}

func (e *Enforcer) connectionRefreshed(post *entity.Post) bool {
	conn, err := e.connRepo.GetActiveConnection(post.SubscriberID, post.Platform)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Error("Failed to check connection for post %s: %v", post.ID, err)
		}
		return false
	}
	return conn.Usable(e.now()) && conn.UpdatedAt.After(post.UpdatedAt)
}

func (e *Enforcer) publishBatch(ctx context.Context, posts []*entity.Post) {
	if len(posts) == 0 {
		return
	}

	sem := make(chan struct{}, e.cfg.Workers)
	done := make(chan struct{})
	pending := len(posts)

	for _, post := range posts {
		if ctx.Err() != nil {
			pending--
			continue
		}
		sem <- struct{}{}
		go func(postID string) {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("Publish panic recovered for post %s: %v", postID, r)
				}
				<-sem
				done <- struct{}{}
			}()

			res, err := e.publish.Publish(ctx, postID)
			if err != nil {
				e.logger.Error("Failed to publish post %s: %v", postID, err)
				return
			}
			if !res.Success {
				e.logger.Warn("Publish of post %s failed: class=%s error=%s", postID, res.ErrorClass, res.Error)
			}
		}(post.ID)
	}

	for i := 0; i < pending; i++ {
		<-done
	}
}
