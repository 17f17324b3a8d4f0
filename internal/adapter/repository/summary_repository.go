package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// SummaryRepository handles summary data operations
type SummaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// GetByMeetingID retrieves the summary row for a meeting
func (r *SummaryRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	var summary entities.Summary
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// AttachTranscript sets the transcript object key on the meeting's summary
// row, creating the placeholder row when none exists yet
func (r *SummaryRepository) AttachTranscript(ctx context.Context, meetingID uuid.UUID, objectKey string) error {
	existing, err := r.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return err
	}
	if existing == nil {
		placeholder := entities.NewSummaryPlaceholder(meetingID, objectKey)
		return r.db.WithContext(ctx).Create(placeholder).Error
	}
	return r.db.WithContext(ctx).
		Model(&entities.Summary{}).
		Where("meeting_id = ?", meetingID).
		Updates(map[string]interface{}{
			"transcript_object_key": objectKey,
			"updated_at":            time.Now(),
		}).Error
}

// UpdateContent fills the structured fields produced by the summarizer
func (r *SummaryRepository) UpdateContent(ctx context.Context, summary *entities.Summary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}
	summary.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Summary{}).
		Where("meeting_id = ?", summary.MeetingID).
		Select("tldr", "key_topics", "decisions", "action_steps",
			"speaker_opinions", "key_moments", "model_metadata", "updated_at").
		Updates(summary).Error
}

// ListMeetingsReadyForSummarization retrieves processing meetings whose
// summary row carries a transcript but no TLDR yet
func (r *SummaryRepository) ListMeetingsReadyForSummarization(ctx context.Context) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Joins("JOIN summaries ON summaries.meeting_id = meetings.id").
		Where("meetings.status = ?", entities.MeetingStatusProcessing).
		Where("summaries.transcript_object_key IS NOT NULL AND summaries.transcript_object_key <> ''").
		Where("summaries.tldr = ''").
		Order("meetings.date ASC").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}
