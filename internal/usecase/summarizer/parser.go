package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

// SummaryOutput is the JSON shape the model is asked to return
type SummaryOutput struct {
	TLDR            string                    `json:"tldr"`
	KeyTopics       []entities.KeyTopic       `json:"keyTopics"`
	Decisions       []entities.Decision       `json:"decisions"`
	ActionSteps     []entities.ActionStep     `json:"actionSteps"`
	SpeakerOpinions []entities.SpeakerOpinion `json:"speakerOpinions,omitempty"`
	KeyMoments      []entities.KeyMoment      `json:"keyMoments,omitempty"`
}

// Parser handles parsing and validation of model responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseSummaryResponse parses the model's response into a SummaryOutput.
// The content may be wrapped in markdown fences or prose; only the outermost
// JSON object is considered.
func (p *Parser) ParseSummaryResponse(content string) (*SummaryOutput, error) {
	jsonString, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var output SummaryOutput
	if err := json.Unmarshal([]byte(jsonString), &output); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if output.TLDR == "" {
		return nil, fmt.Errorf("missing tldr in response")
	}

	p.sanitize(&output)

	return &output, nil
}

// sanitize normalizes model output in place: nil slices become empty, and
// enum values outside the schema are dropped rather than stored.
func (p *Parser) sanitize(output *SummaryOutput) {
	if output.KeyTopics == nil {
		output.KeyTopics = make([]entities.KeyTopic, 0)
	}
	if output.Decisions == nil {
		output.Decisions = make([]entities.Decision, 0)
	}
	if output.ActionSteps == nil {
		output.ActionSteps = make([]entities.ActionStep, 0)
	}

	for i := range output.KeyTopics {
		if s := output.KeyTopics[i].Sentiment; s != nil && !validSentiment(*s) {
			output.KeyTopics[i].Sentiment = nil
		}
	}

	for i := range output.ActionSteps {
		if u := output.ActionSteps[i].Urgency; u != nil && !validUrgency(*u) {
			output.ActionSteps[i].Urgency = nil
		}
	}

	// Opinions and moments with out-of-schema enum values are dropped whole:
	// stance and momentType are required fields.
	opinions := output.SpeakerOpinions[:0]
	for _, op := range output.SpeakerOpinions {
		if !validStance(op.Stance) {
			continue
		}
		if op.KeyArguments == nil {
			op.KeyArguments = []string{}
		}
		opinions = append(opinions, op)
	}
	output.SpeakerOpinions = opinions

	moments := output.KeyMoments[:0]
	for _, m := range output.KeyMoments {
		if !validMomentType(m.MomentType) {
			continue
		}
		moments = append(moments, m)
	}
	output.KeyMoments = moments
}

// extractJSON strips markdown fences and returns the outermost JSON object
func extractJSON(content string) (string, error) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("could not find JSON object in response")
	}

	return content[start : end+1], nil
}

func validSentiment(s entities.TopicSentiment) bool {
	switch s {
	case entities.TopicSentimentPositive, entities.TopicSentimentNegative,
		entities.TopicSentimentNeutral, entities.TopicSentimentControversial:
		return true
	}
	return false
}

func validUrgency(u entities.ActionUrgency) bool {
	switch u {
	case entities.ActionUrgencyImmediate, entities.ActionUrgencyUpcoming, entities.ActionUrgencyOngoing:
		return true
	}
	return false
}

func validStance(s entities.SpeakerStance) bool {
	switch s {
	case entities.SpeakerStanceSupport, entities.SpeakerStanceOppose,
		entities.SpeakerStanceUndecided, entities.SpeakerStanceMixed:
		return true
	}
	return false
}

func validMomentType(m entities.MomentType) bool {
	switch m {
	case entities.MomentTypeVote, entities.MomentTypeDebate, entities.MomentTypePublicComment,
		entities.MomentTypePresentation, entities.MomentTypeDecision, entities.MomentTypeKeyDiscussion:
		return true
	}
	return false
}
