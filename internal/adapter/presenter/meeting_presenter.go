package presenter

import (
	"github.com/cicero-foco/cicero/internal/adapter/dto/meeting"
	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// ToMeetingResponse converts a Meeting entity to its API representation
func ToMeetingResponse(m *entities.Meeting) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}

	return &meeting.MeetingResponse{
		ID:              m.ID.String(),
		MunicodeID:      m.MunicodeID,
		Date:            m.Date,
		DateUnparsed:    m.DateUnparsed,
		Title:           m.Title,
		Type:            string(m.Type),
		Status:          string(m.Status),
		AgendaURL:       m.AgendaURL,
		AgendaPacketURL: m.AgendaPacketURL,
		VideoPageURL:    m.VideoPageURL,
		VideoURL:        m.VideoURL,
		ErrorMessage:    m.ErrorMessage,
		ProcessedAt:     m.ProcessedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToMeetingListResponse converts a slice of Meeting entities
func ToMeetingListResponse(meetings []entities.Meeting) *meeting.MeetingListResponse {
	responses := make([]*meeting.MeetingResponse, len(meetings))
	for i := range meetings {
		responses[i] = ToMeetingResponse(&meetings[i])
	}
	return &meeting.MeetingListResponse{
		Meetings: responses,
		Total:    len(responses),
	}
}

// ToSummaryResponse converts a Summary entity to its API representation.
// Transcript storage keys and model metadata stay internal.
func ToSummaryResponse(s *entities.Summary) *meeting.SummaryResponse {
	if s == nil {
		return nil
	}

	return &meeting.SummaryResponse{
		MeetingID:       s.MeetingID.String(),
		TLDR:            s.TLDR,
		KeyTopics:       s.KeyTopics,
		Decisions:       s.Decisions,
		ActionSteps:     s.ActionSteps,
		SpeakerOpinions: s.SpeakerOpinions,
		KeyMoments:      s.KeyMoments,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
