package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// SubscriberRepository defines persistence operations for the notification list
type SubscriberRepository interface {
	GetByEmail(ctx context.Context, email string) (*entities.Subscriber, error)
	Create(ctx context.Context, subscriber *entities.Subscriber) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.SubscriberStatus) error
	ListActive(ctx context.Context) ([]entities.Subscriber, error)
	CountActive(ctx context.Context) (int64, error)
	TouchLastEmailed(ctx context.Context, id uuid.UUID) error
}

// CouncilMemberRepository defines read operations for council reference data
type CouncilMemberRepository interface {
	ListActive(ctx context.Context) ([]entities.CouncilMember, error)
	GetByName(ctx context.Context, name string) (*entities.CouncilMember, error)
}
