package persistent

import (
	"agency-pulse/internal/entity"
	"agency-pulse/internal/model"

	"gorm.io/gorm"
)

// ConnectionRepository reads the OAuth-owned connection store. This core
// never writes credential records.
type ConnectionRepository interface {
	GetActiveConnection(subscriberID string, platform entity.Platform) (*entity.PlatformConnection, error)
	ListBySubscriber(subscriberID string) ([]*entity.PlatformConnection, error)
}

type connectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) GetActiveConnection(subscriberID string, platform entity.Platform) (*entity.PlatformConnection, error) {
	var connModel model.PlatformConnectionModel
	err := r.db.Where("subscriber_id = ? AND platform = ? AND active = true", subscriberID, string(platform)).
		Order("updated_at DESC").
		First(&connModel).Error
	if err != nil {
		return nil, err
	}
	return ToConnectionEntity(&connModel), nil
}

func (r *connectionRepository) ListBySubscriber(subscriberID string) ([]*entity.PlatformConnection, error) {
	var connModels []model.PlatformConnectionModel
	if err := r.db.Where("subscriber_id = ?", subscriberID).Find(&connModels).Error; err != nil {
		return nil, err
	}

	conns := make([]*entity.PlatformConnection, len(connModels))
	for i := range connModels {
		conns[i] = ToConnectionEntity(&connModels[i])
	}
	return conns, nil
}
