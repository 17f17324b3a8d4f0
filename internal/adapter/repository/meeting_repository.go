package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/cicero-foco/cicero/errors"
	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
)

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create inserts a newly scraped meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// GetByID retrieves a meeting by ID
func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// GetByMunicodeID retrieves a meeting by its Municode identifier
func (r *MeetingRepository) GetByMunicodeID(ctx context.Context, municodeID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("municode_id = ?", municodeID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// ExistsByMunicodeID reports whether a meeting with this Municode ID was
// already scraped
func (r *MeetingRepository) ExistsByMunicodeID(ctx context.Context, municodeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("municode_id = ?", municodeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves meetings sorted by date descending
func (r *MeetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	query := r.db.WithContext(ctx).Order("date DESC")
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if err := query.Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// ListWithoutVideoURL retrieves pending meetings that still need video resolution
func (r *MeetingRepository) ListWithoutVideoURL(ctx context.Context, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	query := r.db.WithContext(ctx).
		Where("status = ?", entities.MeetingStatusPending).
		Where("video_url IS NULL OR video_url = ''").
		Order("date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// ListReadyForTranscription retrieves pending meetings that have a video URL
func (r *MeetingRepository) ListReadyForTranscription(ctx context.Context) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.MeetingStatusPending).
		Where("video_url IS NOT NULL AND video_url <> ''").
		Order("date ASC").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// UpdateVideoURL sets the resolved download URL on a meeting
func (r *MeetingRepository) UpdateVideoURL(ctx context.Context, id uuid.UUID, videoURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"video_url":  videoURL,
			"updated_at": time.Now(),
		}).Error
}

// MarkProcessing moves a meeting into the processing state. The pipeline
// lease fences concurrent runs, so load-check-persist is safe here.
func (r *MeetingRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	meeting, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if meeting == nil {
		return nil
	}
	if err := meeting.MarkProcessing(); err != nil {
		return apperrors.ErrInvalidTransition(string(meeting.Status), string(entities.MeetingStatusProcessing))
	}
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     meeting.Status,
			"updated_at": time.Now(),
		}).Error
}

// MarkFailed records a terminal failure with its reason
func (r *MeetingRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	meeting, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if meeting == nil {
		return nil
	}
	if err := meeting.MarkFailed(reason); err != nil {
		return apperrors.ErrInvalidTransition(string(meeting.Status), string(entities.MeetingStatusFailed))
	}
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        meeting.Status,
			"error_message": reason,
			"updated_at":    time.Now(),
		}).Error
}

// MarkComplete finalizes a meeting with its completion timestamp
func (r *MeetingRepository) MarkComplete(ctx context.Context, id uuid.UUID) error {
	meeting, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if meeting == nil {
		return nil
	}
	if err := meeting.MarkComplete(); err != nil {
		return apperrors.ErrInvalidTransition(string(meeting.Status), string(entities.MeetingStatusComplete))
	}
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        meeting.Status,
			"error_message": nil,
			"processed_at":  meeting.ProcessedAt,
			"updated_at":    time.Now(),
		}).Error
}

// ResetToPending clears status, error, and lease so the pipeline can retry
func (r *MeetingRepository) ResetToPending(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        entities.MeetingStatusPending,
			"error_message": nil,
			"claimed_until": nil,
			"updated_at":    time.Now(),
		}).Error
}

// Claim atomically takes the pipeline lease on a meeting. The conditional
// update only succeeds when no unexpired lease exists, so concurrent runs
// cannot both claim the same meeting.
func (r *MeetingRepository) Claim(ctx context.Context, id uuid.UUID, until time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND (claimed_until IS NULL OR claimed_until < ?)", id, time.Now()).
		Updates(map[string]interface{}{
			"claimed_until": until,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseClaim drops the pipeline lease
func (r *MeetingRepository) ReleaseClaim(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"claimed_until": nil,
			"updated_at":    time.Now(),
		}).Error
}
