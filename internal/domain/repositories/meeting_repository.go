package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// MeetingFilters narrows meeting listings
type MeetingFilters struct {
	Status *entities.MeetingStatus
	Limit  int
}

// MeetingRepository defines persistence operations for meetings
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	GetByMunicodeID(ctx context.Context, municodeID string) (*entities.Meeting, error)
	ExistsByMunicodeID(ctx context.Context, municodeID string) (bool, error)

	// List returns meetings sorted by date descending
	List(ctx context.Context, filters MeetingFilters) ([]entities.Meeting, error)
	// ListWithoutVideoURL returns pending meetings that still need video resolution
	ListWithoutVideoURL(ctx context.Context, limit int) ([]entities.Meeting, error)
	// ListReadyForTranscription returns pending meetings that have a video URL
	ListReadyForTranscription(ctx context.Context) ([]entities.Meeting, error)

	UpdateVideoURL(ctx context.Context, id uuid.UUID, videoURL string) error

	// Status writes go through the entity transition helpers; an illegal
	// move is rejected with ErrInvalidTransition.
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	MarkComplete(ctx context.Context, id uuid.UUID) error
	ResetToPending(ctx context.Context, id uuid.UUID) error

	// Claim atomically takes the pipeline lease on a meeting until the given
	// deadline. Returns false when another run holds an unexpired lease.
	Claim(ctx context.Context, id uuid.UUID, until time.Time) (bool, error)
	ReleaseClaim(ctx context.Context, id uuid.UUID) error
}
