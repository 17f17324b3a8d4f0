package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the processing state of a meeting
type MeetingStatus string

const (
	MeetingStatusPending    MeetingStatus = "pending"    // Discovered, waiting for video/transcript
	MeetingStatusProcessing MeetingStatus = "processing" // Transcription or summarization in flight
	MeetingStatusComplete   MeetingStatus = "complete"   // Summary published
	MeetingStatusFailed     MeetingStatus = "failed"     // Terminal failure, needs operator reset
)

// MeetingType classifies a council meeting by its title
type MeetingType string

const (
	MeetingTypeRegular     MeetingType = "regular"
	MeetingTypeWorkSession MeetingType = "work_session"
	MeetingTypeSpecial     MeetingType = "special"
)

// Meeting represents one city council calendar event discovered on Municode
type Meeting struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MunicodeID string      `json:"municode_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	Date       time.Time   `json:"date" gorm:"not null;index"`
	// DateUnparsed marks rows whose source date string did not match the
	// Municode format; Date holds the scrape time in that case.
	DateUnparsed    bool        `json:"date_unparsed" gorm:"default:false"`
	Title           string      `json:"title" gorm:"type:text;not null"`
	Type            MeetingType `json:"type" gorm:"type:varchar(20);not null;default:'regular'"`
	AgendaURL       *string     `json:"agenda_url,omitempty" gorm:"type:text"`
	AgendaPacketURL *string     `json:"agenda_packet_url,omitempty" gorm:"type:text"`
	VideoPageURL    *string     `json:"video_page_url,omitempty" gorm:"type:text"`
	VideoURL        *string     `json:"video_url,omitempty" gorm:"type:text"`

	Status       MeetingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ErrorMessage *string       `json:"error_message,omitempty" gorm:"type:text"`
	ProcessedAt  *time.Time    `json:"processed_at,omitempty"`

	// ClaimedUntil is the pipeline lease: a run claims the meeting before
	// touching any stage so overlapping triggers cannot race on status.
	ClaimedUntil *time.Time `json:"claimed_until,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a pending meeting discovered by the scraper
func NewMeeting(municodeID string, date time.Time, title string, meetingType MeetingType) *Meeting {
	return &Meeting{
		ID:         uuid.New(),
		MunicodeID: municodeID,
		Date:       date,
		Title:      title,
		Type:       meetingType,
		Status:     MeetingStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// ParseMeetingType classifies a meeting title. "Work Session" wins over
// "Special" when a title carries both markers.
func ParseMeetingType(title string) MeetingType {
	lower := strings.ToLower(title)
	if strings.Contains(lower, "work session") {
		return MeetingTypeWorkSession
	}
	if strings.Contains(lower, "special") {
		return MeetingTypeSpecial
	}
	return MeetingTypeRegular
}

// legal status transitions; pending is re-enterable only through ResetToPending
var meetingTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingStatusPending:    {MeetingStatusProcessing, MeetingStatusFailed},
	MeetingStatusProcessing: {MeetingStatusComplete, MeetingStatusFailed},
	MeetingStatusComplete:   {},
	MeetingStatusFailed:     {},
}

// CanTransitionTo reports whether status can legally move to next
func (m *Meeting) CanTransitionTo(next MeetingStatus) bool {
	for _, allowed := range meetingTransitions[m.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MarkProcessing moves the meeting into the processing state
func (m *Meeting) MarkProcessing() error {
	if !m.CanTransitionTo(MeetingStatusProcessing) {
		return fmt.Errorf("illegal status transition %s -> %s", m.Status, MeetingStatusProcessing)
	}
	m.Status = MeetingStatusProcessing
	m.UpdatedAt = time.Now()
	return nil
}

// MarkComplete finalizes the meeting with a completion timestamp
func (m *Meeting) MarkComplete() error {
	if !m.CanTransitionTo(MeetingStatusComplete) {
		return fmt.Errorf("illegal status transition %s -> %s", m.Status, MeetingStatusComplete)
	}
	now := time.Now()
	m.Status = MeetingStatusComplete
	m.ProcessedAt = &now
	m.ErrorMessage = nil
	m.UpdatedAt = now
	return nil
}

// MarkFailed records a terminal failure with its reason
func (m *Meeting) MarkFailed(reason string) error {
	if !m.CanTransitionTo(MeetingStatusFailed) {
		return fmt.Errorf("illegal status transition %s -> %s", m.Status, MeetingStatusFailed)
	}
	m.Status = MeetingStatusFailed
	m.ErrorMessage = &reason
	m.UpdatedAt = time.Now()
	return nil
}

// ResetToPending is the operator retry: clears status and error so the
// pipeline re-enters from whichever stage's precondition is first unmet.
func (m *Meeting) ResetToPending() {
	m.Status = MeetingStatusPending
	m.ErrorMessage = nil
	m.ClaimedUntil = nil
	m.UpdatedAt = time.Now()
}

// HasVideoURL reports whether video resolution already ran
func (m *Meeting) HasVideoURL() bool {
	return m.VideoURL != nil && *m.VideoURL != ""
}

// IsClaimed reports whether an active pipeline lease exists
func (m *Meeting) IsClaimed(now time.Time) bool {
	return m.ClaimedUntil != nil && m.ClaimedUntil.After(now)
}
