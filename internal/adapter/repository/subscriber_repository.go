package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// SubscriberRepository handles subscriber data operations
type SubscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *gorm.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// GetByEmail retrieves a subscriber by email address
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*entities.Subscriber, error) {
	var subscriber entities.Subscriber
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&subscriber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscriber, nil
}

// Create inserts a new subscriber
func (r *SubscriberRepository) Create(ctx context.Context, subscriber *entities.Subscriber) error {
	if subscriber == nil {
		return errors.New("subscriber cannot be nil")
	}
	return r.db.WithContext(ctx).Create(subscriber).Error
}

// UpdateStatus flips a subscriber between active and unsubscribed
func (r *SubscriberRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.SubscriberStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// ListActive retrieves every subscriber eligible for notifications
func (r *SubscriberRepository) ListActive(ctx context.Context) ([]entities.Subscriber, error) {
	var subscribers []entities.Subscriber
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.SubscriberStatusActive).
		Order("created_at ASC").
		Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}

// CountActive counts subscribers eligible for notifications
func (r *SubscriberRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Where("status = ?", entities.SubscriberStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TouchLastEmailed stamps the last successful notification send
func (r *SubscriberRepository) TouchLastEmailed(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_emailed_at": now,
			"updated_at":      now,
		}).Error
}
