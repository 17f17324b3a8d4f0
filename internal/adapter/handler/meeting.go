package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/errors"
	"github.com/cicero-foco/cicero/internal/adapter/presenter"
	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
)

const defaultListLimit = 50

// Meeting handles public read endpoints for meetings and their summaries
type Meeting struct {
	meetingRepo repositories.MeetingRepository
	summaryRepo repositories.SummaryRepository
	councilRepo repositories.CouncilMemberRepository
	logger      *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(
	meetingRepo repositories.MeetingRepository,
	summaryRepo repositories.SummaryRepository,
	councilRepo repositories.CouncilMemberRepository,
	logger *zap.Logger,
) *Meeting {
	return &Meeting{
		meetingRepo: meetingRepo,
		summaryRepo: summaryRepo,
		councilRepo: councilRepo,
		logger:      logger,
	}
}

// List returns meetings sorted by date descending, optionally filtered by status
func (h *Meeting) List(c echo.Context) error {
	filters := repositories.MeetingFilters{Limit: defaultListLimit}

	if status := c.QueryParam("status"); status != "" {
		s := entities.MeetingStatus(status)
		switch s {
		case entities.MeetingStatusPending, entities.MeetingStatusProcessing,
			entities.MeetingStatusComplete, entities.MeetingStatusFailed:
			filters.Status = &s
		default:
			return HandleError(h.logger, c, errors.ErrInvalidArgument("unknown meeting status"))
		}
	}

	meetings, err := h.meetingRepo.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list meetings", err))
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(meetings))
}

// Get returns one meeting by ID
func (h *Meeting) Get(c echo.Context) error {
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

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(meeting))
}

// GetSummary returns the published summary for a meeting. Placeholder rows
// that the summarizer has not filled yet read as not found.
func (h *Meeting) GetSummary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting ID"))
	}

	summary, err := h.summaryRepo.GetByMeetingID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get summary", err))
	}
	if summary == nil || summary.IsPlaceholder() {
		return HandleError(h.logger, c, errors.ErrNotFound("summary"))
	}

	return HandleSuccess(h.logger, c, presenter.ToSummaryResponse(summary))
}

// ListCouncilMembers returns the active council roster
func (h *Meeting) ListCouncilMembers(c echo.Context) error {
	members, err := h.councilRepo.ListActive(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list council members", err))
	}

	return HandleSuccess(h.logger, c, presenter.ToCouncilMemberListResponse(members))
}
