package video

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
	"github.com/cicero-foco/cicero/internal/infrastructure/external/cablecast"
)

type fakeCatalog struct {
	shows []cablecast.Show
	err   error
	calls int
}

func (f *fakeCatalog) SearchShows(_ context.Context) ([]cablecast.Show, error) {
	f.calls++
	return f.shows, f.err
}

type fakeMeetingRepo struct {
	meetings map[uuid.UUID]*entities.Meeting
}

func newFakeMeetingRepo(meetings ...*entities.Meeting) *fakeMeetingRepo {
	f := &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)}
	for _, m := range meetings {
		f.meetings[m.ID] = m
	}
	return f
}

func (f *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	f.meetings[m.ID] = m
	return nil
}

func (f *fakeMeetingRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return f.meetings[id], nil
}

func (f *fakeMeetingRepo) GetByMunicodeID(_ context.Context, _ string) (*entities.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) ExistsByMunicodeID(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeMeetingRepo) List(_ context.Context, _ repositories.MeetingFilters) ([]entities.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) ListWithoutVideoURL(_ context.Context, limit int) ([]entities.Meeting, error) {
	var out []entities.Meeting
	for _, m := range f.meetings {
		if m.Status == entities.MeetingStatusPending && !m.HasVideoURL() {
			out = append(out, *m)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListReadyForTranscription(_ context.Context) ([]entities.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) UpdateVideoURL(_ context.Context, id uuid.UUID, videoURL string) error {
	if m, ok := f.meetings[id]; ok {
		m.VideoURL = &videoURL
	}
	return nil
}

func (f *fakeMeetingRepo) MarkProcessing(_ context.Context, id uuid.UUID) error {
	if m, ok := f.meetings[id]; ok {
		m.Status = entities.MeetingStatusProcessing
	}
	return nil
}

func (f *fakeMeetingRepo) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	if m, ok := f.meetings[id]; ok {
		m.Status = entities.MeetingStatusFailed
		m.ErrorMessage = &reason
	}
	return nil
}

func (f *fakeMeetingRepo) MarkComplete(_ context.Context, id uuid.UUID) error {
	if m, ok := f.meetings[id]; ok {
		now := time.Now()
		m.Status = entities.MeetingStatusComplete
		m.ProcessedAt = &now
	}
	return nil
}

func (f *fakeMeetingRepo) ResetToPending(_ context.Context, id uuid.UUID) error {
	if m, ok := f.meetings[id]; ok {
		m.ResetToPending()
	}
	return nil
}

func (f *fakeMeetingRepo) Claim(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
	return true, nil
}

func (f *fakeMeetingRepo) ReleaseClaim(_ context.Context, _ uuid.UUID) error { return nil }

func strPtr(s string) *string { return &s }

func testMeeting(title string) *entities.Meeting {
	return entities.NewMeeting(
		uuid.NewString(),
		time.Date(2026, 1, 14, 18, 0, 0, 0, time.UTC),
		title,
		entities.ParseMeetingType(title),
	)
}

func matchingShow(url string) cablecast.Show {
	return cablecast.Show{
		ID:        42,
		Title:     "City Council Regular Meeting",
		EventDate: "2026-01-14T18:00:00Z",
		CustomFields: []cablecast.CustomField{
			{FieldName: "Download VOD", Value: &url},
		},
	}
}

func TestExtractForMeeting_StoresVideoURL(t *testing.T) {
	meeting := testMeeting("City Council Regular Meeting")
	repo := newFakeMeetingRepo(meeting)
	catalog := &fakeCatalog{shows: []cablecast.Show{matchingShow("https://vod.test/42.mp4")}}

	svc := NewService(repo, catalog, nil)

	result, err := svc.ExtractForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("ExtractForMeeting failed: %v", err)
	}
	if !result.Success || result.VideoURL != "https://vod.test/42.mp4" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !meeting.HasVideoURL() {
		t.Fatal("video URL not stored on meeting")
	}
}

func TestExtractForMeeting_AlreadyResolved(t *testing.T) {
	meeting := testMeeting("City Council Regular Meeting")
	meeting.VideoURL = strPtr("https://vod.test/existing.mp4")
	repo := newFakeMeetingRepo(meeting)
	catalog := &fakeCatalog{}

	svc := NewService(repo, catalog, nil)

	result, err := svc.ExtractForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("ExtractForMeeting failed: %v", err)
	}
	if !result.Success || result.VideoURL != "https://vod.test/existing.mp4" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if catalog.calls != 0 {
		t.Fatalf("catalog queried %d times for resolved meeting", catalog.calls)
	}
}

func TestExtractForMeeting_MeetingNotFound(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc := NewService(repo, &fakeCatalog{}, nil)

	result, err := svc.ExtractForMeeting(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ExtractForMeeting failed: %v", err)
	}
	if result.Success || result.Reason != "Meeting not found" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestExtractForMeeting_CatalogErrorIsResult(t *testing.T) {
	meeting := testMeeting("City Council Regular Meeting")
	repo := newFakeMeetingRepo(meeting)
	catalog := &fakeCatalog{err: errors.New("timeout")}

	svc := NewService(repo, catalog, nil)

	result, err := svc.ExtractForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("catalog error should be a result, got error: %v", err)
	}
	if result.Success || !strings.Contains(result.Reason, "Cablecast API error") {
		t.Fatalf("unexpected result: %+v", result)
	}
	// the miss must not change the meeting
	if meeting.Status != entities.MeetingStatusPending || meeting.HasVideoURL() {
		t.Fatalf("meeting mutated on catalog error: %+v", meeting)
	}
}

func TestExtractForMeeting_NoMatchingShow(t *testing.T) {
	meeting := testMeeting("City Council Work Session")
	repo := newFakeMeetingRepo(meeting)
	// regular show on the same day does not match a work session
	catalog := &fakeCatalog{shows: []cablecast.Show{matchingShow("https://vod.test/42.mp4")}}

	svc := NewService(repo, catalog, nil)

	result, err := svc.ExtractForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("ExtractForMeeting failed: %v", err)
	}
	if result.Success || !strings.Contains(result.Reason, "No matching Cablecast show") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestExtractForMeeting_ShowWithoutDownloadURL(t *testing.T) {
	meeting := testMeeting("City Council Regular Meeting")
	repo := newFakeMeetingRepo(meeting)
	show := matchingShow("")
	show.CustomFields = nil
	catalog := &fakeCatalog{shows: []cablecast.Show{show}}

	svc := NewService(repo, catalog, nil)

	result, err := svc.ExtractForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("ExtractForMeeting failed: %v", err)
	}
	if result.Success || !strings.Contains(result.Reason, "no video URL available yet") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestExtractForPending_MissDoesNotStopBatch(t *testing.T) {
	matched := testMeeting("City Council Regular Meeting")
	unmatched := testMeeting("Special City Council Meeting")
	repo := newFakeMeetingRepo(matched, unmatched)
	catalog := &fakeCatalog{shows: []cablecast.Show{matchingShow("https://vod.test/42.mp4")}}

	svc := NewService(repo, catalog, nil)

	batch, err := svc.ExtractForPending(context.Background())
	if err != nil {
		t.Fatalf("ExtractForPending failed: %v", err)
	}
	if batch.Processed != 2 || batch.Successful != 1 || batch.Failed != 1 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
	if !matched.HasVideoURL() {
		t.Fatal("matched meeting should have a video URL")
	}
	if unmatched.HasVideoURL() {
		t.Fatal("unmatched meeting should not have a video URL")
	}
}
