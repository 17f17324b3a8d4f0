package entities

import (
	"time"

	"github.com/google/uuid"
)

// SubscriberStatus tracks opt-in state for the notification list
type SubscriberStatus string

const (
	SubscriberStatusActive       SubscriberStatus = "active"
	SubscriberStatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// Subscriber is an email address opted in to summary notifications
type Subscriber struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email         string           `json:"email" gorm:"type:varchar(320);not null;uniqueIndex"`
	Status        SubscriberStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	LastEmailedAt *time.Time       `json:"last_emailed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Subscriber) TableName() string {
	return "subscribers"
}

// NewSubscriber creates an active subscriber
func NewSubscriber(email string) *Subscriber {
	return &Subscriber{
		ID:        uuid.New(),
		Email:     email,
		Status:    SubscriberStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// IsActive reports whether the subscriber should receive notifications
func (s *Subscriber) IsActive() bool {
	return s.Status == SubscriberStatusActive
}

// Reactivate flips an unsubscribed address back to active
func (s *Subscriber) Reactivate() {
	s.Status = SubscriberStatusActive
	s.UpdatedAt = time.Now()
}

// Unsubscribe opts the address out of notifications
func (s *Subscriber) Unsubscribe() {
	s.Status = SubscriberStatusUnsubscribed
	s.UpdatedAt = time.Now()
}

// MarkEmailed stamps the last successful notification
func (s *Subscriber) MarkEmailed() {
	now := time.Now()
	s.LastEmailedAt = &now
	s.UpdatedAt = now
}
