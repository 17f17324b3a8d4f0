package meeting

import (
	"time"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID              string     `json:"id"`
	MunicodeID      string     `json:"municode_id"`
	Date            time.Time  `json:"date"`
	DateUnparsed    bool       `json:"date_unparsed,omitempty"`
	Title           string     `json:"title"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	AgendaURL       *string    `json:"agenda_url,omitempty"`
	AgendaPacketURL *string    `json:"agenda_packet_url,omitempty"`
	VideoPageURL    *string    `json:"video_page_url,omitempty"`
	VideoURL        *string    `json:"video_url,omitempty"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MeetingListResponse wraps a page of meetings
type MeetingListResponse struct {
	Meetings []*MeetingResponse `json:"meetings"`
	Total    int                `json:"total"`
}

// SummaryResponse represents the published summary of a meeting
type SummaryResponse struct {
	MeetingID       string                      `json:"meeting_id"`
	TLDR            string                      `json:"tldr"`
	KeyTopics       []entities.KeyTopic         `json:"key_topics"`
	Decisions       []entities.Decision         `json:"decisions"`
	ActionSteps     []entities.ActionStep       `json:"action_steps"`
	SpeakerOpinions []entities.SpeakerOpinion   `json:"speaker_opinions,omitempty"`
	KeyMoments      []entities.KeyMoment        `json:"key_moments,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}
