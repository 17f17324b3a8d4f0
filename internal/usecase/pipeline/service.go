package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/internal/domain/repositories"
	"github.com/cicero-foco/cicero/internal/usecase/summarizer"
	"github.com/cicero-foco/cicero/internal/usecase/transcriber"
	"github.com/cicero-foco/cicero/internal/usecase/video"
	"github.com/cicero-foco/cicero/pkg/jobcontext"
)

// Stage names as they appear in run reports
const (
	StageVideoExtraction = "videoExtraction"
	StageTranscription   = "transcription"
	StageSummarization   = "summarization"
)

// StepResult is the outcome of one pipeline stage
type StepResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// RunResult reports one full pipeline run over a single meeting. A stage
// failure short-circuits the stages after it.
type RunResult struct {
	MeetingID uuid.UUID `json:"meetingId"`
	Steps     struct {
		VideoExtraction StepResult `json:"videoExtraction"`
		Transcription   StepResult `json:"transcription"`
		Summarization   StepResult `json:"summarization"`
	} `json:"steps"`
	TLDR           string `json:"tldr,omitempty"`
	OverallSuccess bool   `json:"overallSuccess"`
}

// MeetingResult pairs a run outcome with its meeting
type MeetingResult struct {
	MeetingID  uuid.UUID `json:"meetingId"`
	Title      string    `json:"title"`
	Success    bool      `json:"success"`
	FailedStep string    `json:"failedStep,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// BatchResult reports one batch pipeline run
type BatchResult struct {
	Processed  int             `json:"processed"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Results    []MeetingResult `json:"results"`
}

// Service orchestrates the full pipeline: video extraction, transcription,
// then summarization
type Service interface {
	ProcessOne(ctx context.Context, meetingID uuid.UUID) (*RunResult, error)
	ProcessPending(ctx context.Context, limit int) (*BatchResult, error)
}

type pipelineService struct {
	meetingRepo repositories.MeetingRepository
	video       video.Service
	transcriber transcriber.Service
	summarizer  summarizer.Service
	claimLease  time.Duration
	logger      *zap.Logger
}

// NewService constructs a pipeline service
func NewService(
	meetingRepo repositories.MeetingRepository,
	videoSvc video.Service,
	transcriberSvc transcriber.Service,
	summarizerSvc summarizer.Service,
	claimLease time.Duration,
	logger *zap.Logger,
) Service {
	return &pipelineService{
		meetingRepo: meetingRepo,
		video:       videoSvc,
		transcriber: transcriberSvc,
		summarizer:  summarizerSvc,
		claimLease:  claimLease,
		logger:      logger,
	}
}

// ProcessOne runs the three stages for one meeting. The meeting is claimed
// for the lease duration first; a meeting already claimed by another run is
// reported as a video-extraction failure without touching it.
func (s *pipelineService) ProcessOne(ctx context.Context, meetingID uuid.UUID) (*RunResult, error) {
	result := &RunResult{MeetingID: meetingID}

	claimed, err := s.meetingRepo.Claim(ctx, meetingID, time.Now().Add(s.claimLease))
	if err != nil {
		return nil, fmt.Errorf("failed to claim meeting: %w", err)
	}
	if !claimed {
		result.Steps.VideoExtraction = StepResult{Success: false, Reason: "Meeting is already being processed"}
		return result, nil
	}

	runCtx, cancel := jobcontext.RunBegin(ctx, meetingID, s.claimLease)
	defer cancel()
	defer func() {
		if err := s.meetingRepo.ReleaseClaim(context.WithoutCancel(runCtx), meetingID); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to release claim",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
	}()

	videoResult, err := s.video.ExtractForMeeting(jobcontext.WithStage(runCtx, StageVideoExtraction), meetingID)
	if err != nil {
		return nil, err
	}
	if !videoResult.Success {
		result.Steps.VideoExtraction = StepResult{Success: false, Reason: videoResult.Reason}
		return result, nil
	}
	result.Steps.VideoExtraction = StepResult{Success: true}

	transcribeResult, err := s.transcriber.TranscribeMeeting(jobcontext.WithStage(runCtx, StageTranscription), meetingID)
	if err != nil {
		return nil, err
	}
	if !transcribeResult.Success {
		result.Steps.Transcription = StepResult{Success: false, Reason: transcribeResult.Reason}
		return result, nil
	}
	result.Steps.Transcription = StepResult{Success: true}

	summarizeResult, err := s.summarizer.SummarizeMeeting(jobcontext.WithStage(runCtx, StageSummarization), meetingID)
	if err != nil {
		return nil, err
	}
	if !summarizeResult.Success {
		result.Steps.Summarization = StepResult{Success: false, Reason: summarizeResult.Reason}
		return result, nil
	}
	result.Steps.Summarization = StepResult{Success: true}
	result.TLDR = summarizeResult.TLDR
	result.OverallSuccess = true

	if s.logger != nil {
		s.logger.Info("✅ Pipeline run complete",
			zap.String("meeting_id", meetingID.String()),
			zap.Duration("elapsed", jobcontext.Elapsed(runCtx)),
		)
	}

	return result, nil
}

// ProcessPending runs the pipeline over every meeting that has no video URL
// yet, sequentially. One meeting's failure never stops the rest. A positive
// limit caps how many meetings are attempted.
func (s *pipelineService) ProcessPending(ctx context.Context, limit int) (*BatchResult, error) {
	meetings, err := s.meetingRepo.ListWithoutVideoURL(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending meetings: %w", err)
	}

	batch := &BatchResult{Results: make([]MeetingResult, 0, len(meetings))}

	for _, meeting := range meetings {
		runResult, err := s.ProcessOne(ctx, meeting.ID)

		mr := MeetingResult{MeetingID: meeting.ID, Title: meeting.Title}
		switch {
		case err != nil:
			mr.FailedStep = "unknown"
			mr.Reason = err.Error()
		case runResult.OverallSuccess:
			mr.Success = true
		case !runResult.Steps.VideoExtraction.Success:
			mr.FailedStep = StageVideoExtraction
			mr.Reason = runResult.Steps.VideoExtraction.Reason
		case !runResult.Steps.Transcription.Success:
			mr.FailedStep = StageTranscription
			mr.Reason = runResult.Steps.Transcription.Reason
		default:
			mr.FailedStep = StageSummarization
			mr.Reason = runResult.Steps.Summarization.Reason
		}

		batch.Results = append(batch.Results, mr)
		if mr.Success {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}

	batch.Processed = len(batch.Results)

	if s.logger != nil {
		s.logger.Info("✅ Pipeline batch finished",
			zap.Int("processed", batch.Processed),
			zap.Int("successful", batch.Successful),
			zap.Int("failed", batch.Failed),
		)
	}

	return batch, nil
}
