package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
	"github.com/cicero-foco/cicero/internal/usecase/notifier"
)

// ChatModel produces a JSON completion for a system/user prompt pair
type ChatModel interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// TranscriptReader reads stored transcript blobs back by object key
type TranscriptReader interface {
	GetTranscript(ctx context.Context, key string) (string, error)
}

// Notifier fans a finished summary out to subscribers
type Notifier interface {
	NotifyAllSubscribers(ctx context.Context, meeting *entities.Meeting, tldr string) (*notifier.Result, error)
}

// SummarizeResult is the outcome for one meeting. Precondition failures
// report Success false without mutating the meeting.
type SummarizeResult struct {
	Success bool   `json:"success"`
	TLDR    string `json:"tldr,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// MeetingResult pairs a summarize outcome with its meeting
type MeetingResult struct {
	MeetingID uuid.UUID `json:"meetingId"`
	Title     string    `json:"title"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
}

// BatchResult reports one batch summarization run
type BatchResult struct {
	Processed  int             `json:"processed"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Results    []MeetingResult `json:"results"`
}

// Service turns stored transcripts into structured summaries
type Service interface {
	SummarizeMeeting(ctx context.Context, meetingID uuid.UUID) (*SummarizeResult, error)
	SummarizePending(ctx context.Context) (*BatchResult, error)
}

type summarizerService struct {
	meetingRepo        repositories.MeetingRepository
	summaryRepo        repositories.SummaryRepository
	councilRepo        repositories.CouncilMemberRepository
	model              ChatModel
	transcripts        TranscriptReader
	notifier           Notifier
	parser             *Parser
	minTranscriptChars int
	maxTranscriptChars int
	logger             *zap.Logger
}

// NewService constructs a summarizer service
func NewService(
	meetingRepo repositories.MeetingRepository,
	summaryRepo repositories.SummaryRepository,
	councilRepo repositories.CouncilMemberRepository,
	model ChatModel,
	transcripts TranscriptReader,
	notifier Notifier,
	minTranscriptChars int,
	maxTranscriptChars int,
	logger *zap.Logger,
) Service {
	return &summarizerService{
		meetingRepo:        meetingRepo,
		summaryRepo:        summaryRepo,
		councilRepo:        councilRepo,
		model:              model,
		transcripts:        transcripts,
		notifier:           notifier,
		parser:             NewParser(),
		minTranscriptChars: minTranscriptChars,
		maxTranscriptChars: maxTranscriptChars,
		logger:             logger,
	}
}

// SummarizeMeeting generates the structured summary for one meeting. All
// preconditions are checked before any status write; only a failure of the
// generation itself marks the meeting failed.
func (s *summarizerService) SummarizeMeeting(ctx context.Context, meetingID uuid.UUID) (*SummarizeResult, error) {
	summary, err := s.summaryRepo.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary row: %w", err)
	}
	if summary == nil {
		return &SummarizeResult{Success: false, Reason: "No summary record found for this meeting"}, nil
	}

	if !summary.HasTranscript() {
		return &SummarizeResult{Success: false, Reason: "No transcript available for this meeting"}, nil
	}

	transcript, err := s.transcripts.GetTranscript(ctx, *summary.TranscriptObjectKey)
	if err != nil {
		return &SummarizeResult{Success: false, Reason: "Could not retrieve transcript from storage"}, nil
	}

	if len(transcript) < s.minTranscriptChars {
		return &SummarizeResult{Success: false, Reason: "Transcript too short to summarize"}, nil
	}

	output, meta, genErr := s.generate(ctx, transcript)
	if genErr != nil {
		reason := genErr.Error()
		if markErr := s.meetingRepo.MarkFailed(ctx, meetingID, reason); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record summarization failure",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(markErr),
			)
		}
		return &SummarizeResult{Success: false, Reason: reason}, nil
	}

	summary.TLDR = output.TLDR
	summary.KeyTopics = output.KeyTopics
	summary.Decisions = output.Decisions
	summary.ActionSteps = output.ActionSteps
	summary.SpeakerOpinions = output.SpeakerOpinions
	summary.KeyMoments = output.KeyMoments
	summary.ModelMetadata = meta

	if err := s.summaryRepo.UpdateContent(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to store summary: %w", err)
	}

	if err := s.meetingRepo.MarkComplete(ctx, meetingID); err != nil {
		return nil, fmt.Errorf("failed to mark meeting complete: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📝 Summary generated",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("key_topics", len(output.KeyTopics)),
			zap.Int("decisions", len(output.Decisions)),
		)
	}

	// Fan out after completion. Delivery failures are logged, never bubbled:
	// the summary is already final.
	if s.notifier != nil {
		meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
		if err == nil && meeting != nil {
			if _, err := s.notifier.NotifyAllSubscribers(ctx, meeting, output.TLDR); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Subscriber notification failed",
					zap.String("meeting_id", meetingID.String()),
					zap.Error(err),
				)
			}
		}
	}

	return &SummarizeResult{Success: true, TLDR: output.TLDR}, nil
}

// generate runs the model call and parses the response, recording model
// metadata on success.
func (s *summarizerService) generate(ctx context.Context, transcript string) (*SummaryOutput, datatypes.JSON, error) {
	var members []entities.CouncilMember
	if s.councilRepo != nil {
		var err error
		members, err = s.councilRepo.ListActive(ctx)
		if err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Could not load council roster", zap.Error(err))
		}
	}

	systemPrompt := BuildSystemPrompt(members)
	userPrompt := BuildUserPrompt(transcript, s.maxTranscriptChars)

	started := time.Now()
	content, err := s.model.CompleteJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("model call failed: %w", err)
	}

	output, err := s.parser.ParseSummaryResponse(content)
	if err != nil {
		return nil, nil, err
	}

	// Link attributed speakers back to roster rows by name
	for i := range output.SpeakerOpinions {
		for j := range members {
			if members[j].MatchesSpeaker(output.SpeakerOpinions[i].SpeakerName) {
				output.SpeakerOpinions[i].SpeakerID = &members[j].ID
				break
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("🤖 Model response parsed",
			zap.Duration("duration", time.Since(started)),
			zap.Int("response_length", len(content)),
		)
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"provider":        "openrouter",
		"durationMs":      time.Since(started).Milliseconds(),
		"transcriptChars": len(transcript),
	})

	return output, datatypes.JSON(meta), nil
}

// SummarizePending summarizes every meeting that has a stored transcript but
// no finished summary, sequentially.
func (s *summarizerService) SummarizePending(ctx context.Context) (*BatchResult, error) {
	meetings, err := s.summaryRepo.ListMeetingsReadyForSummarization(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings for summarization: %w", err)
	}

	batch := &BatchResult{Results: make([]MeetingResult, 0, len(meetings))}

	for _, meeting := range meetings {
		result, err := s.SummarizeMeeting(ctx, meeting.ID)
		if err != nil {
			result = &SummarizeResult{Success: false, Reason: err.Error()}
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
		s.logger.Info("✅ Summarization batch finished",
			zap.Int("processed", batch.Processed),
			zap.Int("successful", batch.Successful),
			zap.Int("failed", batch.Failed),
		)
	}

	return batch, nil
}
