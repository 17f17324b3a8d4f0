package scraper

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
	"github.com/cicero-foco/cicero/internal/infrastructure/external/municode"
)

// CalendarSource provides scraped meeting rows from the city calendar
type CalendarSource interface {
	FetchUpcoming(ctx context.Context) ([]municode.ScrapedMeeting, error)
}

// Result reports one scrape run
type Result struct {
	Scraped     int `json:"scraped"`
	NewMeetings int `json:"newMeetings"`
	Skipped     int `json:"skipped"`
}

// Service discovers City Council meetings and stores new ones
type Service interface {
	Run(ctx context.Context) (*Result, error)
}

type scraperService struct {
	meetingRepo repositories.MeetingRepository
	source      CalendarSource
	logger      *zap.Logger
}

// NewService constructs a scraper service
func NewService(meetingRepo repositories.MeetingRepository, source CalendarSource, logger *zap.Logger) Service {
	return &scraperService{
		meetingRepo: meetingRepo,
		source:      source,
		logger:      logger,
	}
}

// Run fetches the calendar and inserts every row whose municode ID is not
// yet stored. Already-known meetings are counted as skipped, never updated.
func (s *scraperService) Run(ctx context.Context) (*Result, error) {
	scraped, err := s.source.FetchUpcoming(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}

	result := &Result{Scraped: len(scraped)}

	for _, row := range scraped {
		exists, err := s.meetingRepo.ExistsByMunicodeID(ctx, row.MunicodeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check meeting existence: %w", err)
		}
		if exists {
			result.Skipped++
			continue
		}

		meeting := entities.NewMeeting(row.MunicodeID, row.Date, row.Title, row.Type)
		meeting.DateUnparsed = row.DateUnparsed
		meeting.AgendaURL = row.AgendaURL
		meeting.AgendaPacketURL = row.AgendaPacketURL
		meeting.VideoPageURL = row.VideoPageURL

		if err := s.meetingRepo.Create(ctx, meeting); err != nil {
			return nil, fmt.Errorf("failed to store meeting %s: %w", row.MunicodeID, err)
		}

		if s.logger != nil {
			s.logger.Info("🆕 Stored new meeting",
				zap.String("municode_id", row.MunicodeID),
				zap.String("title", row.Title),
				zap.Time("date", row.Date),
			)
		}
		result.NewMeetings++
	}

	if s.logger != nil {
		s.logger.Info("✅ Scrape run finished",
			zap.Int("scraped", result.Scraped),
			zap.Int("new", result.NewMeetings),
			zap.Int("skipped", result.Skipped),
		)
	}

	return result, nil
}
