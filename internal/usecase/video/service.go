package video

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/internal/domain/repositories"
	"github.com/cicero-foco/cicero/internal/infrastructure/external/cablecast"
)

// ShowCatalog provides the broadcast VOD catalog
type ShowCatalog interface {
	SearchShows(ctx context.Context) ([]cablecast.Show, error)
}

// ExtractResult is the outcome for one meeting. A miss is a result, not an
// error: Success false with Reason set.
type ExtractResult struct {
	Success  bool   `json:"success"`
	VideoURL string `json:"videoUrl,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// MeetingResult pairs an extract outcome with its meeting
type MeetingResult struct {
	MeetingID uuid.UUID `json:"meetingId"`
	Title     string    `json:"title"`
	Success   bool      `json:"success"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// BatchResult reports one batch extraction run
type BatchResult struct {
	Processed  int             `json:"processed"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Results    []MeetingResult `json:"results"`
}

// Service resolves meeting video URLs from the broadcast catalog
type Service interface {
	ExtractForMeeting(ctx context.Context, meetingID uuid.UUID) (*ExtractResult, error)
	ExtractForPending(ctx context.Context) (*BatchResult, error)
}

type videoService struct {
	meetingRepo repositories.MeetingRepository
	catalog     ShowCatalog
	logger      *zap.Logger
}

// NewService constructs a video extraction service
func NewService(meetingRepo repositories.MeetingRepository, catalog ShowCatalog, logger *zap.Logger) Service {
	return &videoService{
		meetingRepo: meetingRepo,
		catalog:     catalog,
		logger:      logger,
	}
}

// ExtractForMeeting finds the catalog show matching the meeting's date and
// type and stores its download URL. A meeting that already has a video URL
// succeeds without touching the catalog.
func (s *videoService) ExtractForMeeting(ctx context.Context, meetingID uuid.UUID) (*ExtractResult, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return &ExtractResult{Success: false, Reason: "Meeting not found"}, nil
	}

	if meeting.HasVideoURL() {
		return &ExtractResult{Success: true, VideoURL: *meeting.VideoURL}, nil
	}

	shows, err := s.catalog.SearchShows(ctx)
	if err != nil {
		return &ExtractResult{Success: false, Reason: fmt.Sprintf("Cablecast API error: %v", err)}, nil
	}

	show := cablecast.FindMatchingShow(shows, meeting.Title, meeting.Date)
	if show == nil {
		return &ExtractResult{
			Success: false,
			Reason:  fmt.Sprintf("No matching Cablecast show found for %s on %s", meeting.Title, cablecast.NormalizeDate(meeting.Date)),
		}, nil
	}

	videoURL := show.DownloadURL()
	if videoURL == nil {
		return &ExtractResult{
			Success: false,
			Reason:  fmt.Sprintf("Cablecast show found but no video URL available yet (show ID: %d)", show.ID),
		}, nil
	}

	if err := s.meetingRepo.UpdateVideoURL(ctx, meetingID, *videoURL); err != nil {
		return nil, fmt.Errorf("failed to store video URL: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🎥 Video URL resolved",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("show_id", show.ID),
		)
	}

	return &ExtractResult{Success: true, VideoURL: *videoURL}, nil
}

// ExtractForPending runs extraction over every meeting without a video URL,
// sequentially. One meeting's miss never stops the rest.
func (s *videoService) ExtractForPending(ctx context.Context) (*BatchResult, error) {
	meetings, err := s.meetingRepo.ListWithoutVideoURL(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings without video: %w", err)
	}

	batch := &BatchResult{Results: make([]MeetingResult, 0, len(meetings))}

	for _, meeting := range meetings {
		result, err := s.ExtractForMeeting(ctx, meeting.ID)
		if err != nil {
			result = &ExtractResult{Success: false, Reason: err.Error()}
		}

		mr := MeetingResult{
			MeetingID: meeting.ID,
			Title:     meeting.Title,
			Success:   result.Success,
			VideoURL:  result.VideoURL,
			Reason:    result.Reason,
		}
		batch.Results = append(batch.Results, mr)

		if result.Success {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}

	batch.Processed = len(batch.Results)

	if s.logger != nil {
		s.logger.Info("✅ Video extraction batch finished",
			zap.Int("processed", batch.Processed),
			zap.Int("successful", batch.Successful),
			zap.Int("failed", batch.Failed),
		)
	}

	return batch, nil
}
