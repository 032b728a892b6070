package persistent

import (
	"time"

	"agency-pulse/internal/entity"
	"agency-pulse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id string) (*entity.Post, error)
	GetBySubscriberID(subscriberID string, limit, offset int) ([]*entity.Post, error)
	UpdateStatus(id string, from, to entity.PostStatus) (bool, error)
	MarkPublished(id, platformPostID, strategyUsed string, publishedAt time.Time) error
	MarkFailed(id, lastError string, errorClass entity.ErrorClass, retryCount int, nextRetryAt *time.Time) error
	GetDueDrafts(now time.Time, limit int) ([]*entity.Post, error)
	GetPublishable(now time.Time, limit int) ([]*entity.Post, error)
	GetRetryableFailed(now time.Time, maxAttempts, limit int) ([]*entity.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *entity.Post) error {
	postModel := ToPostModel(post)
	if postModel.ID == "" {
		postModel.ID = uuid.New().String()
	}
	if postModel.Status == "" {
		postModel.Status = string(entity.StatusDraft)
	}
	if err := r.db.Create(postModel).Error; err != nil {
		return err
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) GetBySubscriberID(subscriberID string, limit, offset int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	query := r.db.Where("subscriber_id = ?", subscriberID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

// UpdateStatus performs a conditional transition keyed on the current status.
// RowsAffected == 0 means another worker won the transition; callers treat
// that as "already handled" rather than an error.
func (r *postRepository) UpdateStatus(id string, from, to entity.PostStatus) (bool, error) {
	result := r.db.Model(&model.PostModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *postRepository) MarkPublished(id, platformPostID, strategyUsed string, publishedAt time.Time) error {
	return r.db.Model(&model.PostModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           string(entity.StatusPublished),
			"published_at":     publishedAt,
			"platform_post_id": platformPostID,
			"strategy_used":    strategyUsed,
			"last_error":       "",
			"error_class":      "",
			"next_retry_at":    nil,
		}).Error
}

func (r *postRepository) MarkFailed(id, lastError string, errorClass entity.ErrorClass, retryCount int, nextRetryAt *time.Time) error {
	return r.db.Model(&model.PostModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        string(entity.StatusFailed),
			"last_error":    lastError,
			"error_class":   string(errorClass),
			"retry_count":   retryCount,
			"next_retry_at": nextRetryAt,
		}).Error
}

func (r *postRepository) GetDueDrafts(now time.Time, limit int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	err := r.db.Where("status = ? AND scheduled_for <= ?", string(entity.StatusDraft), now).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&postModels).Error
	if err != nil {
		return nil, err
	}
	return toPostEntities(postModels), nil
}

func (r *postRepository) GetPublishable(now time.Time, limit int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	err := r.db.Where("status = ? AND scheduled_for <= ?", string(entity.StatusApproved), now).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&postModels).Error
	if err != nil {
		return nil, err
	}
	return toPostEntities(postModels), nil
}

// GetRetryableFailed returns failed posts under the attempt ceiling whose
// backoff window has elapsed, plus auth/connection failures (those are gated
// on a refreshed connection by the enforcer, not on next_retry_at).
func (r *postRepository) GetRetryableFailed(now time.Time, maxAttempts, limit int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	err := r.db.Where(
		"status = ? AND retry_count < ? AND ((error_class IN ? AND next_retry_at <= ?) OR error_class IN ?)",
		string(entity.StatusFailed),
		maxAttempts,
		[]string{string(entity.ErrClassRateLimited), string(entity.ErrClassNetworkTransient)},
		now,
		[]string{string(entity.ErrClassAuthExpired), string(entity.ErrClassConnectionMissing)},
	).
		Order("updated_at ASC").
		Limit(limit).
		Find(&postModels).Error
	if err != nil {
		return nil, err
	}
	return toPostEntities(postModels), nil
}

func toPostEntities(postModels []model.PostModel) []*entity.Post {
	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts
}
