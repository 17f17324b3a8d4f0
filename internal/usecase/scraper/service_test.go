package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
	"github.com/cicero-foco/cicero/internal/infrastructure/external/municode"
)

type fakeSource struct {
	rows []municode.ScrapedMeeting
	err  error
}

func (f *fakeSource) FetchUpcoming(_ context.Context) ([]municode.ScrapedMeeting, error) {
	return f.rows, f.err
}

type fakeMeetingRepo struct {
	byMunicodeID map[string]*entities.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{byMunicodeID: make(map[string]*entities.Meeting)}
}

func (f *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	if _, ok := f.byMunicodeID[m.MunicodeID]; ok {
		return errors.New("duplicate municode_id")
	}
	f.byMunicodeID[m.MunicodeID] = m
	return nil
}

func (f *fakeMeetingRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	for _, m := range f.byMunicodeID {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingRepo) GetByMunicodeID(_ context.Context, municodeID string) (*entities.Meeting, error) {
	return f.byMunicodeID[municodeID], nil
}

func (f *fakeMeetingRepo) ExistsByMunicodeID(_ context.Context, municodeID string) (bool, error) {
	_, ok := f.byMunicodeID[municodeID]
	return ok, nil
}

func (f *fakeMeetingRepo) List(_ context.Context, _ repositories.MeetingFilters) ([]entities.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) ListWithoutVideoURL(_ context.Context, _ int) ([]entities.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) ListReadyForTranscription(_ context.Context) ([]entities.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) UpdateVideoURL(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (f *fakeMeetingRepo) MarkProcessing(_ context.Context, _ uuid.UUID) error           { return nil }
func (f *fakeMeetingRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error     { return nil }
func (f *fakeMeetingRepo) MarkComplete(_ context.Context, _ uuid.UUID) error             { return nil }
func (f *fakeMeetingRepo) ResetToPending(_ context.Context, _ uuid.UUID) error           { return nil }
func (f *fakeMeetingRepo) Claim(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
	return true, nil
}
func (f *fakeMeetingRepo) ReleaseClaim(_ context.Context, _ uuid.UUID) error { return nil }

func scrapedRow(id, title string) municode.ScrapedMeeting {
	return municode.ScrapedMeeting{
		MunicodeID: id,
		Date:       time.Date(2026, 1, 14, 18, 0, 0, 0, time.Local),
		Title:      title,
		Type:       entities.ParseMeetingType(title),
	}
}

func TestRun_StoresNewMeetings(t *testing.T) {
	repo := newFakeMeetingRepo()
	source := &fakeSource{rows: []municode.ScrapedMeeting{
		scrapedRow("abc-123", "City Council Regular Meeting"),
		scrapedRow("def-456", "City Council Work Session"),
	}}

	svc := NewService(repo, source, nil)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Scraped != 2 || result.NewMeetings != 2 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored, _ := repo.GetByMunicodeID(context.Background(), "def-456")
	if stored == nil {
		t.Fatal("work session not stored")
	}
	if stored.Type != entities.MeetingTypeWorkSession {
		t.Fatalf("stored type = %q", stored.Type)
	}
	if stored.Status != entities.MeetingStatusPending {
		t.Fatalf("stored status = %q", stored.Status)
	}
}

func TestRun_Idempotent(t *testing.T) {
	repo := newFakeMeetingRepo()
	source := &fakeSource{rows: []municode.ScrapedMeeting{
		scrapedRow("abc-123", "City Council Regular Meeting"),
	}}

	svc := NewService(repo, source, nil)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	first, _ := repo.GetByMunicodeID(context.Background(), "abc-123")

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if result.NewMeetings != 0 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// existing row untouched
	second, _ := repo.GetByMunicodeID(context.Background(), "abc-123")
	if first.ID != second.ID {
		t.Fatal("existing meeting was replaced")
	}
}

func TestRun_FetchErrorBubbles(t *testing.T) {
	repo := newFakeMeetingRepo()
	source := &fakeSource{err: errors.New("calendar unreachable")}

	svc := NewService(repo, source, nil)

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestRun_CarriesDateUnparsedFlag(t *testing.T) {
	repo := newFakeMeetingRepo()
	row := scrapedRow("ghi-789", "Special City Council Meeting")
	row.DateUnparsed = true
	source := &fakeSource{rows: []municode.ScrapedMeeting{row}}

	svc := NewService(repo, source, nil)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	stored, _ := repo.GetByMunicodeID(context.Background(), "ghi-789")
	if stored == nil || !stored.DateUnparsed {
		t.Fatalf("date_unparsed flag not carried: %+v", stored)
	}
}
