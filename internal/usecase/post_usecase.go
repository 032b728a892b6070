package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"agency-pulse/internal/entity"
	"agency-pulse/internal/repo/persistent"
	"agency-pulse/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaUploader stores draft media and returns a public URL.
type MediaUploader interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

// CreateDraftInput carries everything a new draft needs. Media is optional;
// when present it is uploaded before the row is written so a stored draft
// always has a resolvable URL.
type CreateDraftInput struct {
	SubscriberID string
	Platform     entity.Platform
	Content      string
	ScheduledFor time.Time
	MediaName    string
	MediaType    string
	Media        io.Reader
}

type PostUseCase interface {
	CreateDraft(ctx context.Context, input CreateDraftInput) (*entity.Post, error)
	GetPost(ctx context.Context, subscriberID, postID string) (*entity.Post, error)
	ListPosts(ctx context.Context, subscriberID string, limit, offset int) ([]*entity.Post, error)
	ListAttempts(ctx context.Context, subscriberID, postID string, limit int) ([]*entity.PublishAttempt, error)
	ListConnections(ctx context.Context, subscriberID string) ([]*entity.PlatformConnection, error)
}

type postUseCase struct {
	postRepo       persistent.PostRepository
	connRepo       persistent.ConnectionRepository
	subscriberRepo persistent.SubscriberRepository
	attemptRepo    persistent.AttemptRepository
	uploader       MediaUploader
	logger         *logger.Logger
	now            func() time.Time
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	connRepo persistent.ConnectionRepository,
	subscriberRepo persistent.SubscriberRepository,
	attemptRepo persistent.AttemptRepository,
	uploader MediaUploader,
	log *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:       postRepo,
		connRepo:       connRepo,
		subscriberRepo: subscriberRepo,
		attemptRepo:    attemptRepo,
		uploader:       uploader,
		logger:         log,
		now:            time.Now,
	}
}

func (uc *postUseCase) CreateDraft(ctx context.Context, input CreateDraftInput) (*entity.Post, error) {
	if !input.Platform.Valid() {
		return nil, fmt.Errorf("unknown platform %q", input.Platform)
	}
	if input.Content == "" {
		return nil, errors.New("content is required")
	}

	subscriber, err := uc.subscriberRepo.GetByID(input.SubscriberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to load subscriber: %w", err)
	}
	if !subscriber.Active {
		return nil, entity.ErrSubscriberInactive
	}

	scheduledFor := input.ScheduledFor
	if scheduledFor.IsZero() {
		scheduledFor = uc.now()
	}

	mediaURL := ""
	if input.Media != nil {
		if uc.uploader == nil {
			return nil, errors.New("media storage is not configured")
		}
		key := fmt.Sprintf("media/%s/%s%s", input.SubscriberID, uuid.New().String(), filepath.Ext(input.MediaName))
		mediaURL, err = uc.uploader.UploadFile(key, input.Media, input.MediaType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload media: %w", err)
		}
	}

	post := &entity.Post{
		SubscriberID: input.SubscriberID,
		Platform:     input.Platform,
		Content:      input.Content,
		MediaURL:     mediaURL,
		Status:       entity.StatusDraft,
		ScheduledFor: scheduledFor,
	}
	if err := uc.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.logger.Info("Draft %s created for subscriber %s on %s", post.ID, post.SubscriberID, post.Platform)
	return post, nil
}

func (uc *postUseCase) GetPost(ctx context.Context, subscriberID, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	// Ownership check doubles as the not-found answer so post IDs are not
	// probeable across accounts.
	if post.SubscriberID != subscriberID {
		return nil, entity.ErrPostNotFound
	}
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context, subscriberID string, limit, offset int) ([]*entity.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.postRepo.GetBySubscriberID(subscriberID, limit, offset)
}

func (uc *postUseCase) ListAttempts(ctx context.Context, subscriberID, postID string, limit int) ([]*entity.PublishAttempt, error) {
	if _, err := uc.GetPost(ctx, subscriberID, postID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.attemptRepo.ListByPost(postID, limit)
}

func (uc *postUseCase) ListConnections(ctx context.Context, subscriberID string) ([]*entity.PlatformConnection, error) {
	return uc.connRepo.ListBySubscriber(subscriberID)
}
