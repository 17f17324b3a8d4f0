package handler

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/errors"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
	"github.com/cicero-foco/cicero/internal/usecase/pipeline"
	"github.com/cicero-foco/cicero/internal/usecase/scraper"
	"github.com/cicero-foco/cicero/internal/usecase/summarizer"
	"github.com/cicero-foco/cicero/internal/usecase/transcriber"
	"github.com/cicero-foco/cicero/internal/usecase/video"
)

// Pipeline exposes the admin triggers for each processing stage
type Pipeline struct {
	scraper     scraper.Service
	video       video.Service
	transcriber transcriber.Service
	summarizer  summarizer.Service
	pipeline    pipeline.Service
	meetingRepo repositories.MeetingRepository
	logger      *zap.Logger
}

// NewPipeline creates a new pipeline handler
func NewPipeline(
	scraperSvc scraper.Service,
	videoSvc video.Service,
	transcriberSvc transcriber.Service,
	summarizerSvc summarizer.Service,
	pipelineSvc pipeline.Service,
	meetingRepo repositories.MeetingRepository,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		scraper:     scraperSvc,
		video:       videoSvc,
		transcriber: transcriberSvc,
		summarizer:  summarizerSvc,
		pipeline:    pipelineSvc,
		meetingRepo: meetingRepo,
		logger:      logger,
	}
}

// Scrape runs the calendar scraper once
func (h *Pipeline) Scrape(c echo.Context) error {
	result, err := h.scraper.Run(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrScrapeFailed(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// ExtractVideos resolves video URLs for every pending meeting
func (h *Pipeline) ExtractVideos(c echo.Context) error {
	result, err := h.video.ExtractForPending(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// Transcribe runs transcription for every meeting that has a video URL
func (h *Pipeline) Transcribe(c echo.Context) error {
	result, err := h.transcriber.TranscribePending(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// Summarize runs summarization for every meeting with a stored transcript
func (h *Pipeline) Summarize(c echo.Context) error {
	result, err := h.summarizer.SummarizePending(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// ExtractMeetingVideo resolves the video URL for one meeting
func (h *Pipeline) ExtractMeetingVideo(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting ID"))
	}

	result, err := h.video.ExtractForMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// TranscribeMeeting runs transcription for one meeting
func (h *Pipeline) TranscribeMeeting(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting ID"))
	}

	result, err := h.transcriber.TranscribeMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// SummarizeMeeting runs summarization for one meeting
func (h *Pipeline) SummarizeMeeting(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting ID"))
	}

	result, err := h.summarizer.SummarizeMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// ProcessMeeting runs the full pipeline for one meeting
func (h *Pipeline) ProcessMeeting(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting ID"))
	}

	result, err := h.pipeline.ProcessOne(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// ProcessPending runs the full pipeline over pending meetings, optionally
// capped by a ?limit= query parameter
func (h *Pipeline) ProcessPending(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("limit must be a non-negative integer"))
		}
		limit = parsed
	}

	result, err := h.pipeline.ProcessPending(c.Request().Context(), limit)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, result)
}

// ResetMeeting is the operator retry: clears a failed meeting back to pending
func (h *Pipeline) ResetMeeting(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting ID"))
	}

	meeting, err := h.meetingRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get meeting", err))
	}
	if meeting == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("meeting"))
	}

	// a reset while a pipeline run holds the lease would race its status writes
	if meeting.IsClaimed(time.Now()) {
		return HandleError(h.logger, c, errors.ErrMeetingClaimed(id.String()))
	}

	if err := h.meetingRepo.ResetToPending(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("reset meeting", err))
	}

	if h.logger != nil {
		h.logger.Info("🔄 Meeting reset to pending", zap.String("meeting_id", id.String()))
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "pending"})
}
