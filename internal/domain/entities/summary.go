package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TopicSentiment tags how a key topic landed in the meeting
type TopicSentiment string

const (
	TopicSentimentPositive      TopicSentiment = "positive"
	TopicSentimentNegative      TopicSentiment = "negative"
	TopicSentimentNeutral       TopicSentiment = "neutral"
	TopicSentimentControversial TopicSentiment = "controversial"
)

// ActionUrgency tags how soon residents need to act
type ActionUrgency string

const (
	ActionUrgencyImmediate ActionUrgency = "immediate"
	ActionUrgencyUpcoming  ActionUrgency = "upcoming"
	ActionUrgencyOngoing   ActionUrgency = "ongoing"
)

// SpeakerStance is a council member's position on a topic
type SpeakerStance string

const (
	SpeakerStanceSupport   SpeakerStance = "support"
	SpeakerStanceOppose    SpeakerStance = "oppose"
	SpeakerStanceUndecided SpeakerStance = "undecided"
	SpeakerStanceMixed     SpeakerStance = "mixed"
)

// MomentType classifies a timestamped key moment
type MomentType string

const (
	MomentTypeVote          MomentType = "vote"
	MomentTypeDebate        MomentType = "debate"
	MomentTypePublicComment MomentType = "public_comment"
	MomentTypePresentation  MomentType = "presentation"
	MomentTypeDecision      MomentType = "decision"
	MomentTypeKeyDiscussion MomentType = "key_discussion"
)

// KeyTopic is one significant topic discussed in a meeting
type KeyTopic struct {
	Title     string          `json:"title"`
	Summary   string          `json:"summary"`
	Sentiment *TopicSentiment `json:"sentiment,omitempty"`
}

// Decision is a formal vote or decision made during a meeting
type Decision struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Vote        *string `json:"vote,omitempty"`
}

// ActionStep is a concrete way residents can engage with a topic
type ActionStep struct {
	Action            string         `json:"action"`
	Details           string         `json:"details"`
	ContactInfo       *string        `json:"contactInfo,omitempty"`
	Deadline          *string        `json:"deadline,omitempty"`
	ContactEmail      *string        `json:"contactEmail,omitempty"`
	ContactPhone      *string        `json:"contactPhone,omitempty"`
	SubmissionURL     *string        `json:"submissionUrl,omitempty"`
	RelatedAgendaItem *string        `json:"relatedAgendaItem,omitempty"`
	RelatedOrdinance  *string        `json:"relatedOrdinance,omitempty"`
	Urgency           *ActionUrgency `json:"urgency,omitempty"`
}

// SpeakerOpinion captures a named speaker's position on a key topic
type SpeakerOpinion struct {
	SpeakerName  string        `json:"speakerName"`
	SpeakerID    *uuid.UUID    `json:"speakerId,omitempty"`
	TopicTitle   string        `json:"topicTitle"`
	Stance       SpeakerStance `json:"stance"`
	Summary      string        `json:"summary"`
	KeyArguments []string      `json:"keyArguments"`
	Quote        *string       `json:"quote,omitempty"`
}

// KeyMoment is a timestamped moment worth watching in the recording
type KeyMoment struct {
	Timestamp        string     `json:"timestamp"`
	TimestampSeconds float64    `json:"timestampSeconds"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	SpeakerName      *string    `json:"speakerName,omitempty"`
	MomentType       MomentType `json:"momentType"`
}

// Summary is the structured AI-generated digest of one meeting.
// A row with a transcript key but an empty TLDR is the placeholder the
// transcriber hands to the summarizer.
type Summary struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`

	TLDR            string           `json:"tldr" gorm:"type:text;not null;default:''"`
	KeyTopics       []KeyTopic       `json:"key_topics" gorm:"type:jsonb;serializer:json"`
	Decisions       []Decision       `json:"decisions" gorm:"type:jsonb;serializer:json"`
	ActionSteps     []ActionStep     `json:"action_steps" gorm:"type:jsonb;serializer:json"`
	SpeakerOpinions []SpeakerOpinion `json:"speaker_opinions,omitempty" gorm:"type:jsonb;serializer:json"`
	KeyMoments      []KeyMoment      `json:"key_moments,omitempty" gorm:"type:jsonb;serializer:json"`

	// TranscriptObjectKey points at the transcript blob in object storage
	TranscriptObjectKey *string `json:"transcript_object_key,omitempty" gorm:"type:text"`

	// ModelMetadata records which model produced the summary and how long it took
	ModelMetadata datatypes.JSON `json:"model_metadata,omitempty" gorm:"type:jsonb;default:'{}'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Summary) TableName() string {
	return "summaries"
}

// NewSummaryPlaceholder creates the empty summary row that carries the
// transcript reference between the transcriber and the summarizer.
func NewSummaryPlaceholder(meetingID uuid.UUID, transcriptKey string) *Summary {
	return &Summary{
		ID:                  uuid.New(),
		MeetingID:           meetingID,
		TLDR:                "",
		KeyTopics:           []KeyTopic{},
		Decisions:           []Decision{},
		ActionSteps:         []ActionStep{},
		TranscriptObjectKey: &transcriptKey,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

// HasTranscript reports whether a transcript blob reference is attached
func (s *Summary) HasTranscript() bool {
	return s.TranscriptObjectKey != nil && *s.TranscriptObjectKey != ""
}

// IsPlaceholder reports whether the summarizer has not filled the row yet
func (s *Summary) IsPlaceholder() bool {
	return s.TLDR == ""
}
