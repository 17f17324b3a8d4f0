package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/domain/repositories"
	"github.com/cicero-foco/cicero/internal/usecase/scraper"
	"github.com/cicero-foco/cicero/internal/usecase/summarizer"
	"github.com/cicero-foco/cicero/internal/usecase/transcriber"
	"github.com/cicero-foco/cicero/internal/usecase/video"
)

type fakeScraper struct{}

func (f *fakeScraper) Run(_ context.Context) (*scraper.Result, error) {
	return &scraper.Result{}, nil
}

type fakeVideo struct {
	lastID uuid.UUID
	calls  int
}

func (f *fakeVideo) ExtractForMeeting(_ context.Context, id uuid.UUID) (*video.ExtractResult, error) {
	f.calls++
	f.lastID = id
	return &video.ExtractResult{Success: true, VideoURL: "https://video.example.com/a.mp4"}, nil
}

func (f *fakeVideo) ExtractForPending(_ context.Context) (*video.BatchResult, error) {
	return &video.BatchResult{}, nil
}

type fakeTranscriber struct {
	lastID uuid.UUID
	calls  int
}

func (f *fakeTranscriber) TranscribeMeeting(_ context.Context, id uuid.UUID) (*transcriber.TranscribeResult, error) {
	f.calls++
	f.lastID = id
	return &transcriber.TranscribeResult{Success: false, Reason: "No video URL available for this meeting"}, nil
}

func (f *fakeTranscriber) TranscribePending(_ context.Context) (*transcriber.BatchResult, error) {
	return &transcriber.BatchResult{}, nil
}

type fakeSummarizer struct {
	lastID uuid.UUID
	calls  int
}

func (f *fakeSummarizer) SummarizeMeeting(_ context.Context, id uuid.UUID) (*summarizer.SummarizeResult, error) {
	f.calls++
	f.lastID = id
	return &summarizer.SummarizeResult{Success: true, TLDR: "Council approved the budget."}, nil
}

func (f *fakeSummarizer) SummarizePending(_ context.Context) (*summarizer.BatchResult, error) {
	return &summarizer.BatchResult{}, nil
}

type fakeMeetingRepo struct {
	meeting    *entities.Meeting
	resetCalls int
}

func (f *fakeMeetingRepo) Create(_ context.Context, _ *entities.Meeting) error { return nil }

func (f *fakeMeetingRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	if f.meeting != nil && f.meeting.ID == id {
		return f.meeting, nil
	}
	return nil, nil
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

func (f *fakeMeetingRepo) ResetToPending(_ context.Context, _ uuid.UUID) error {
	f.resetCalls++
	return nil
}

func (f *fakeMeetingRepo) Claim(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
	return true, nil
}

func (f *fakeMeetingRepo) ReleaseClaim(_ context.Context, _ uuid.UUID) error { return nil }

func newTestPipeline(repo *fakeMeetingRepo) (*Pipeline, *fakeVideo, *fakeTranscriber, *fakeSummarizer) {
	vid := &fakeVideo{}
	tr := &fakeTranscriber{}
	sum := &fakeSummarizer{}
	h := NewPipeline(&fakeScraper{}, vid, tr, sum, nil, repo, nil)
	return h, vid, tr, sum
}

func invoke(t *testing.T, handlerFunc echo.HandlerFunc, meetingID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(meetingID)
	if err := handlerFunc(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestExtractMeetingVideo(t *testing.T) {
	h, vid, _, _ := newTestPipeline(&fakeMeetingRepo{})
	id := uuid.New()

	rec := invoke(t, h.ExtractMeetingVideo, id.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if vid.calls != 1 || vid.lastID != id {
		t.Fatalf("extract calls = %d, lastID = %s", vid.calls, vid.lastID)
	}

	var body struct {
		Data video.ExtractResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !body.Data.Success || body.Data.VideoURL == "" {
		t.Fatalf("unexpected payload: %+v", body.Data)
	}
}

func TestTranscribeMeeting_TaggedFailureIsOK(t *testing.T) {
	h, _, tr, _ := newTestPipeline(&fakeMeetingRepo{})
	id := uuid.New()

	rec := invoke(t, h.TranscribeMeeting, id.String())
	// precondition misses are result values, not HTTP errors
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if tr.calls != 1 || tr.lastID != id {
		t.Fatalf("transcribe calls = %d, lastID = %s", tr.calls, tr.lastID)
	}

	var body struct {
		Data transcriber.TranscribeResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data.Success || body.Data.Reason != "No video URL available for this meeting" {
		t.Fatalf("unexpected payload: %+v", body.Data)
	}
}

func TestSummarizeMeeting(t *testing.T) {
	h, _, _, sum := newTestPipeline(&fakeMeetingRepo{})
	id := uuid.New()

	rec := invoke(t, h.SummarizeMeeting, id.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if sum.calls != 1 || sum.lastID != id {
		t.Fatalf("summarize calls = %d, lastID = %s", sum.calls, sum.lastID)
	}
}

func TestPerMeetingTriggersRejectBadID(t *testing.T) {
	h, vid, tr, sum := newTestPipeline(&fakeMeetingRepo{})

	for name, fn := range map[string]echo.HandlerFunc{
		"extract":    h.ExtractMeetingVideo,
		"transcribe": h.TranscribeMeeting,
		"summarize":  h.SummarizeMeeting,
	} {
		rec := invoke(t, fn, "not-a-uuid")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", name, rec.Code)
		}
	}
	if vid.calls != 0 || tr.calls != 0 || sum.calls != 0 {
		t.Fatal("service called with an invalid meeting ID")
	}
}

func TestResetMeeting_RefusedWhileClaimed(t *testing.T) {
	meeting := entities.NewMeeting(uuid.NewString(), time.Now(), "City Council Regular Meeting", entities.MeetingTypeRegular)
	until := time.Now().Add(30 * time.Minute)
	meeting.ClaimedUntil = &until
	repo := &fakeMeetingRepo{meeting: meeting}
	h, _, _, _ := newTestPipeline(repo)

	rec := invoke(t, h.ResetMeeting, meeting.ID.String())
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if repo.resetCalls != 0 {
		t.Fatal("reset ran on a claimed meeting")
	}
}

func TestResetMeeting_ExpiredLeaseResets(t *testing.T) {
	meeting := entities.NewMeeting(uuid.NewString(), time.Now(), "City Council Regular Meeting", entities.MeetingTypeRegular)
	past := time.Now().Add(-time.Minute)
	meeting.ClaimedUntil = &past
	repo := &fakeMeetingRepo{meeting: meeting}
	h, _, _, _ := newTestPipeline(repo)

	rec := invoke(t, h.ResetMeeting, meeting.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if repo.resetCalls != 1 {
		t.Fatalf("resetCalls = %d, want 1", repo.resetCalls)
	}
}
