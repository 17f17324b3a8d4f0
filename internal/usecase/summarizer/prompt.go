package summarizer

import (
	"fmt"
	"strings"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

const systemPromptHeader = `You are a civic engagement assistant that helps citizens understand what happened in their Fort Collins City Council meetings. Your job is to create comprehensive, actionable summaries that help busy residents stay informed and get involved.`

const systemPromptGuidance = `When analyzing meeting transcripts, focus on:
1. **Speaker attribution**: Who said what, especially council members' positions on key issues
2. **Key moments**: Important votes, debates, presentations, and public comments with timestamps
3. **Decisions and implications**: What was decided and how it affects residents
4. **Civic engagement opportunities**: Specific ways residents can get involved with deadlines and contacts
5. **Controversial topics**: Present multiple perspectives fairly

Always be factual, non-partisan, and include specific details like ordinance numbers, deadlines, and contact information when mentioned.`

const userPrompt = `Analyze this city council meeting transcript and provide a comprehensive structured summary.

Return your response as valid JSON with this exact structure:
{
  "tldr": "A 2-3 sentence summary of the most important takeaways from this meeting",
  "keyTopics": [
    {
      "title": "Topic name",
      "summary": "What was discussed and any outcomes",
      "sentiment": "positive" | "negative" | "neutral" | "controversial"
    }
  ],
  "decisions": [
    {
      "title": "Decision name",
      "description": "What was decided and what it means for residents",
      "vote": "Vote result (e.g., '6-1 in favor', 'Unanimous')"
    }
  ],
  "actionSteps": [
    {
      "action": "Specific action residents can take",
      "details": "Step-by-step how to take this action",
      "deadline": "Specific deadline if mentioned (e.g., 'January 31, 2026' or 'Before February 4 meeting')",
      "contactEmail": "Email address if mentioned",
      "contactPhone": "Phone number if mentioned",
      "submissionUrl": "URL for feedback form or portal if mentioned",
      "relatedAgendaItem": "Agenda item reference if mentioned (e.g., 'Item 12B')",
      "relatedOrdinance": "Ordinance number if mentioned (e.g., 'Ordinance 2026-001')",
      "urgency": "immediate" | "upcoming" | "ongoing"
    }
  ],
  "speakerOpinions": [
    {
      "speakerName": "Full name with title (e.g., 'Mayor Emily Francis' or 'Council Member Josh Fudge')",
      "topicTitle": "Which keyTopic this relates to",
      "stance": "support" | "oppose" | "undecided" | "mixed",
      "summary": "Brief summary of their position (1-2 sentences)",
      "keyArguments": ["Main points they made", "Another key argument"],
      "quote": "A memorable direct quote if available (optional)"
    }
  ],
  "keyMoments": [
    {
      "timestamp": "Estimated timestamp in H:MM:SS format (e.g., '1:23:45')",
      "timestampSeconds": 5025,
      "title": "Brief title (e.g., 'Vote on Housing Ordinance')",
      "description": "What's happening at this moment",
      "speakerName": "Who is speaking (optional)",
      "momentType": "vote" | "debate" | "public_comment" | "presentation" | "decision" | "key_discussion"
    }
  ]
}

## Guidelines:
- **keyTopics**: 3-5 most significant topics discussed
- **decisions**: All formal votes and decisions made
- **actionSteps**: 2-4 concrete ways residents can engage, with as much detail as available
- **speakerOpinions**: Capture council member positions on controversial or significant topics (aim for 3-6 opinions)
- **keyMoments**: 3-5 important moments worth watching (estimate timestamps based on meeting flow)

For timestamps, estimate based on the meeting's progression. City council meetings typically:
- Start with consent agenda (0:00-0:15)
- Move to public comment (0:15-0:45)
- Main agenda items (0:45-2:00+)
- Votes typically happen after discussion

If exact timestamps aren't clear, provide reasonable estimates based on when topics appear in the transcript.

TRANSCRIPT:
`

// BuildSystemPrompt assembles the system prompt, injecting the current
// council roster so the model attributes speakers correctly. An empty roster
// falls back to the header and guidance alone.
func BuildSystemPrompt(members []entities.CouncilMember) string {
	var sb strings.Builder
	sb.WriteString(systemPromptHeader)

	if len(members) > 0 {
		sb.WriteString("\n\n## Fort Collins City Council Members\n")
		for _, m := range members {
			sb.WriteString(fmt.Sprintf("- %s %s", m.RoleTitle(), m.Name))
			if m.District != nil {
				sb.WriteString(fmt.Sprintf(" (District %d)", *m.District))
			} else {
				sb.WriteString(" (At-large)")
			}
			if m.Email != "" {
				sb.WriteString(fmt.Sprintf(" - %s", m.Email))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(systemPromptGuidance)
	return sb.String()
}

// BuildUserPrompt appends the transcript, truncated to maxChars, to the
// analysis instructions.
func BuildUserPrompt(transcript string, maxChars int) string {
	if maxChars > 0 && len(transcript) > maxChars {
		transcript = transcript[:maxChars] + "..."
	}
	return userPrompt + transcript
}
