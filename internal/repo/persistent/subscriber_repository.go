package persistent

import (
	"agency-pulse/internal/entity"
	"agency-pulse/internal/model"

	"gorm.io/gorm"
)

type SubscriberRepository interface {
	GetByID(id string) (*entity.Subscriber, error)
	GetByEmail(email string) (*entity.Subscriber, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) GetByID(id string) (*entity.Subscriber, error) {
	var subscriberModel model.SubscriberModel
	if err := r.db.Where("id = ?", id).First(&subscriberModel).Error; err != nil {
		return nil, err
	}
	return ToSubscriberEntity(&subscriberModel), nil
}

func (r *subscriberRepository) GetByEmail(email string) (*entity.Subscriber, error) {
	var subscriberModel model.SubscriberModel
	if err := r.db.Where("email = ?", email).First(&subscriberModel).Error; err != nil {
		return nil, err
	}
	return ToSubscriberEntity(&subscriberModel), nil
}
