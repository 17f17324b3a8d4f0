package summarizer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

func TestParseSummaryResponse_Plain(t *testing.T) {
	p := NewParser()

	out, err := p.ParseSummaryResponse(`{"tldr":"Council approved the budget.","keyTopics":[{"title":"Budget","summary":"2026 budget adopted.","sentiment":"positive"}],"decisions":[],"actionSteps":[]}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if out.TLDR != "Council approved the budget." {
		t.Fatalf("tldr = %q", out.TLDR)
	}
	if len(out.KeyTopics) != 1 || *out.KeyTopics[0].Sentiment != entities.TopicSentimentPositive {
		t.Fatalf("key topics = %+v", out.KeyTopics)
	}
}

func TestParseSummaryResponse_MarkdownFence(t *testing.T) {
	p := NewParser()

	content := "```json\n{\"tldr\":\"Short recap.\",\"keyTopics\":[],\"decisions\":[],\"actionSteps\":[]}\n```"
	out, err := p.ParseSummaryResponse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if out.TLDR != "Short recap." {
		t.Fatalf("tldr = %q", out.TLDR)
	}
}

func TestParseSummaryResponse_ProseWrapped(t *testing.T) {
	p := NewParser()

	content := `Here is the summary you asked for:

{"tldr":"Recap.","keyTopics":[],"decisions":[],"actionSteps":[]}

Let me know if you need anything else.`
	out, err := p.ParseSummaryResponse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if out.TLDR != "Recap." {
		t.Fatalf("tldr = %q", out.TLDR)
	}
}

func TestParseSummaryResponse_MissingTLDR(t *testing.T) {
	p := NewParser()

	if _, err := p.ParseSummaryResponse(`{"keyTopics":[]}`); err == nil {
		t.Fatal("expected error for missing tldr")
	}
}

func TestParseSummaryResponse_NoJSON(t *testing.T) {
	p := NewParser()

	if _, err := p.ParseSummaryResponse("I could not produce a summary."); err == nil {
		t.Fatal("expected error when no JSON object present")
	}
}

func TestParseSummaryResponse_Sanitize(t *testing.T) {
	p := NewParser()

	content := `{
		"tldr": "Recap.",
		"keyTopics": [{"title":"Zoning","summary":"Rezoning debate.","sentiment":"angry"}],
		"actionSteps": [{"action":"Email council","details":"Share feedback.","urgency":"whenever"}],
		"speakerOpinions": [
			{"speakerName":"Mayor Francis","topicTitle":"Zoning","stance":"support","summary":"In favor."},
			{"speakerName":"Unknown","topicTitle":"Zoning","stance":"enthusiastic","summary":"Dropped."}
		],
		"keyMoments": [
			{"timestamp":"01:02:03","timestampSeconds":3723,"title":"Vote","description":"Final vote.","momentType":"vote"},
			{"timestamp":"00:10:00","timestampSeconds":600,"title":"Chat","description":"Dropped.","momentType":"banter"}
		]
	}`

	out, err := p.ParseSummaryResponse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	// nil decisions slice becomes empty, never nil
	if out.Decisions == nil {
		t.Fatal("decisions should be empty, not nil")
	}

	// invalid optional enums reset to nil
	if out.KeyTopics[0].Sentiment != nil {
		t.Fatalf("sentiment should be nil, got %v", *out.KeyTopics[0].Sentiment)
	}
	if out.ActionSteps[0].Urgency != nil {
		t.Fatalf("urgency should be nil, got %v", *out.ActionSteps[0].Urgency)
	}

	// elements with invalid required enums are dropped whole
	if len(out.SpeakerOpinions) != 1 || out.SpeakerOpinions[0].SpeakerName != "Mayor Francis" {
		t.Fatalf("speaker opinions = %+v", out.SpeakerOpinions)
	}
	if out.SpeakerOpinions[0].KeyArguments == nil {
		t.Fatal("keyArguments should be empty, not nil")
	}
	if len(out.KeyMoments) != 1 || out.KeyMoments[0].MomentType != entities.MomentTypeVote {
		t.Fatalf("key moments = %+v", out.KeyMoments)
	}
}

func TestParseSummaryResponse_ExplicitNullsAreOmitted(t *testing.T) {
	p := NewParser()

	content := `{
		"tldr": "Recap.",
		"decisions": [{"title":"Rezoning","description":"Approved.","vote":null}],
		"actionSteps": [{"action":"Email council","details":"Share feedback.","contactInfo":null,"deadline":null,"contactEmail":null,"urgency":null}]
	}`

	out, err := p.ParseSummaryResponse(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	step := out.ActionSteps[0]
	if step.ContactInfo != nil || step.Deadline != nil || step.ContactEmail != nil || step.Urgency != nil {
		t.Fatalf("explicit nulls kept: %+v", step)
	}
	if out.Decisions[0].Vote != nil {
		t.Fatalf("explicit null vote kept: %+v", out.Decisions[0])
	}

	// stored form carries no keys for the null fields
	raw, err := json.Marshal(step)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, key := range []string{"contactInfo", "deadline", "contactEmail", "urgency"} {
		if strings.Contains(string(raw), key) {
			t.Fatalf("marshaled step kept %q: %s", key, raw)
		}
	}
}
