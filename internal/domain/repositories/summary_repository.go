package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// SummaryRepository defines persistence operations for meeting summaries
type SummaryRepository interface {
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error)

	// AttachTranscript sets the transcript object key on the meeting's summary
	// row, creating the placeholder row when none exists yet.
	AttachTranscript(ctx context.Context, meetingID uuid.UUID, objectKey string) error

	// UpdateContent fills the structured fields produced by the summarizer
	UpdateContent(ctx context.Context, summary *entities.Summary) error

	// ListMeetingsReadyForSummarization returns processing meetings whose
	// summary row has a transcript but no TLDR yet.
	ListMeetingsReadyForSummarization(ctx context.Context) ([]entities.Meeting, error)
}
