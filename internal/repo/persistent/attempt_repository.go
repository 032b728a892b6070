package persistent

import (
	"agency-pulse/internal/entity"
	"agency-pulse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *entity.PublishAttempt) error
	ListByPost(postID string, limit int) ([]*entity.PublishAttempt, error)
	HasTerminalAttempt(postID string) (bool, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *entity.PublishAttempt) error {
	attemptModel := ToAttemptModel(attempt)
	if attemptModel.ID == "" {
		attemptModel.ID = uuid.New().String()
	}
	if err := r.db.Create(attemptModel).Error; err != nil {
		return err
	}
	*attempt = *ToAttemptEntity(attemptModel)
	return nil
}

func (r *attemptRepository) ListByPost(postID string, limit int) ([]*entity.PublishAttempt, error) {
	var attemptModels []model.PublishAttemptModel
	query := r.db.Where("post_id = ?", postID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&attemptModels).Error; err != nil {
		return nil, err
	}

	attempts := make([]*entity.PublishAttempt, len(attemptModels))
	for i := range attemptModels {
		attempts[i] = ToAttemptEntity(&attemptModels[i])
	}
	return attempts, nil
}

// HasTerminalAttempt reports whether the post already has a successful
// attempt on record. Only success is terminal for an approved post: failed
// attempts move the row to failed status, so an approved post with a
// successful attempt means the crash landed between delivery and the status
// commit.
func (r *attemptRepository) HasTerminalAttempt(postID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.PublishAttemptModel{}).
		Where("post_id = ? AND success = ?", postID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
