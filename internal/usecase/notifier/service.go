package notifier

import (
	"context"
	"fmt"
	"html"
	"net/url"

	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
)

// EmailSender delivers one HTML email
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Result reports one fan-out run. Per-recipient failures are counted and
// collected, never raised.
type Result struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}

// Service emails finished summaries to active subscribers
type Service interface {
	NotifyAllSubscribers(ctx context.Context, meeting *entities.Meeting, tldr string) (*Result, error)
}

type notifierService struct {
	subscriberRepo repositories.SubscriberRepository
	sender         EmailSender
	baseURL        string
	logger         *zap.Logger
}

// NewService constructs a notifier service
func NewService(subscriberRepo repositories.SubscriberRepository, sender EmailSender, baseURL string, logger *zap.Logger) Service {
	return &notifierService{
		subscriberRepo: subscriberRepo,
		sender:         sender,
		baseURL:        baseURL,
		logger:         logger,
	}
}

// NotifyAllSubscribers sends the summary notification to every active
// subscriber, one at a time. A failed send moves on to the next recipient.
func (s *notifierService) NotifyAllSubscribers(ctx context.Context, meeting *entities.Meeting, tldr string) (*Result, error) {
	subscribers, err := s.subscriberRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	result := &Result{Errors: []string{}}
	subject := fmt.Sprintf("New City Council Summary: %s", meeting.Title)
	meetingURL := fmt.Sprintf("%s/meetings/%s", s.baseURL, meeting.ID)
	meetingDate := meeting.Date.Format("January 2, 2006")

	for _, sub := range subscribers {
		body := s.renderEmail(meeting.Title, meetingDate, tldr, meetingURL, sub.Email)

		if err := s.sender.Send(ctx, sub.Email, subject, body); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", sub.Email, err))
			continue
		}

		result.Sent++
		if err := s.subscriberRepo.TouchLastEmailed(ctx, sub.ID); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to record last_emailed_at",
				zap.String("subscriber_id", sub.ID.String()),
				zap.Error(err),
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("📧 Notification fan-out finished",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("sent", result.Sent),
			zap.Int("failed", result.Failed),
		)
	}

	return result, nil
}

func (s *notifierService) renderEmail(title, date, tldr, meetingURL, email string) string {
	unsubscribeURL := fmt.Sprintf("%s/unsubscribe?email=%s", s.baseURL, url.QueryEscape(email))

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <h1 style="font-size: 24px; margin-bottom: 8px;">New Meeting Summary</h1>
  <p style="color: #666; margin-top: 0;">%s &bull; %s</p>

  <div style="background: #f5f5f5; padding: 16px; border-radius: 8px; margin: 24px 0;">
    <h2 style="font-size: 16px; margin: 0 0 8px 0; color: #333;">TL;DR</h2>
    <p style="margin: 0; line-height: 1.6;">%s</p>
  </div>

  <a href="%s" style="display: inline-block; background: #000; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: 500;">
    Read Full Summary
  </a>

  <hr style="border: none; border-top: 1px solid #eee; margin: 32px 0;">

  <p style="font-size: 12px; color: #999;">
    You're receiving this because you subscribed to Cicero updates.<br>
    <a href="%s" style="color: #999;">Unsubscribe</a>
  </p>
</body>
</html>`,
		html.EscapeString(title), html.EscapeString(date), html.EscapeString(tldr), meetingURL, unsubscribeURL)
}
