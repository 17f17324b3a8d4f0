package transcriber

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/internal/domain/repositories"
)

// SpeechToText converts a publicly reachable media URL into transcript text
type SpeechToText interface {
	Transcribe(ctx context.Context, mediaURL string) (string, error)
}

// TranscriptStore persists transcript text as a blob keyed by meeting
type TranscriptStore interface {
	SaveTranscript(ctx context.Context, meetingID uuid.UUID, text string) (string, error)
}

const previewChars = 500

// TranscribeResult is the outcome for one meeting. Preconditions that are
// not met report Success false without mutating the meeting.
type TranscribeResult struct {
	Success bool   `json:"success"`
	Preview string `json:"preview,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// MeetingResult pairs a transcription outcome with its meeting
type MeetingResult struct {
	MeetingID uuid.UUID `json:"meetingId"`
	Title     string    `json:"title"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
}

// BatchResult reports one batch transcription run
type BatchResult struct {
	Processed  int             `json:"processed"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Results    []MeetingResult `json:"results"`
}

// Service turns meeting videos into stored transcripts
type Service interface {
	TranscribeMeeting(ctx context.Context, meetingID uuid.UUID) (*TranscribeResult, error)
	TranscribePending(ctx context.Context) (*BatchResult, error)
}

type transcriberService struct {
	meetingRepo repositories.MeetingRepository
	summaryRepo repositories.SummaryRepository
	stt         SpeechToText
	store       TranscriptStore
	logger      *zap.Logger
}

// NewService constructs a transcriber service
func NewService(
	meetingRepo repositories.MeetingRepository,
	summaryRepo repositories.SummaryRepository,
	stt SpeechToText,
	store TranscriptStore,
	logger *zap.Logger,
) Service {
	return &transcriberService{
		meetingRepo: meetingRepo,
		summaryRepo: summaryRepo,
		stt:         stt,
		store:       store,
		logger:      logger,
	}
}

// TranscribeMeeting sends the meeting video to the transcription provider,
// stores the resulting text as a blob, and attaches the blob key to the
// meeting's summary row. The meeting is marked processing before the
// provider call; provider failure marks it failed.
func (s *transcriberService) TranscribeMeeting(ctx context.Context, meetingID uuid.UUID) (*TranscribeResult, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return &TranscribeResult{Success: false, Reason: "Meeting not found"}, nil
	}

	if !meeting.HasVideoURL() {
		return &TranscribeResult{Success: false, Reason: "No video URL available for this meeting"}, nil
	}

	if err := s.meetingRepo.MarkProcessing(ctx, meetingID); err != nil {
		return nil, fmt.Errorf("failed to mark meeting processing: %w", err)
	}

	text, err := s.stt.Transcribe(ctx, *meeting.VideoURL)
	if err != nil {
		reason := err.Error()
		if markErr := s.meetingRepo.MarkFailed(ctx, meetingID, reason); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record transcription failure",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(markErr),
			)
		}
		return &TranscribeResult{Success: false, Reason: reason}, nil
	}

	key, err := s.store.SaveTranscript(ctx, meetingID, text)
	if err != nil {
		reason := fmt.Sprintf("failed to store transcript: %v", err)
		if markErr := s.meetingRepo.MarkFailed(ctx, meetingID, reason); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record storage failure",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(markErr),
			)
		}
		return &TranscribeResult{Success: false, Reason: reason}, nil
	}

	if err := s.summaryRepo.AttachTranscript(ctx, meetingID, key); err != nil {
		return nil, fmt.Errorf("failed to attach transcript to summary: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🎙️ Transcript stored",
			zap.String("meeting_id", meetingID.String()),
			zap.String("object_key", key),
			zap.Int("text_length", len(text)),
		)
	}

	preview := text
	if len(preview) > previewChars {
		preview = preview[:previewChars] + "..."
	}

	return &TranscribeResult{Success: true, Preview: preview}, nil
}

// TranscribePending transcribes every meeting that has a video URL but no
// stored transcript, sequentially.
func (s *transcriberService) TranscribePending(ctx context.Context) (*BatchResult, error) {
	meetings, err := s.meetingRepo.ListReadyForTranscription(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings for transcription: %w", err)
	}

	batch := &BatchResult{Results: make([]MeetingResult, 0, len(meetings))}

	for _, meeting := range meetings {
		result, err := s.TranscribeMeeting(ctx, meeting.ID)
		if err != nil {
			result = &TranscribeResult{Success: false, Reason: err.Error()}
		}

		batch.Results = append(batch.Results, MeetingResult{
			MeetingID: meeting.ID,
			Title:     meeting.Title,
			Success:   result.Success,
			Reason:    result.Reason,
		})

		if result.Success {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}

	batch.Processed = len(batch.Results)

	if s.logger != nil {
		s.logger.Info("✅ Transcription batch finished",
			zap.Int("processed", batch.Processed),
			zap.Int("successful", batch.Successful),
			zap.Int("failed", batch.Failed),
		)
	}

	return batch, nil
}
