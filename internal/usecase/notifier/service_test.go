package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cicero-foco/cicero/internal/domain/entities"
)

type fakeSubscriberRepo struct {
	active  []entities.Subscriber
	listErr error
	touched map[uuid.UUID]int
}

func newFakeSubscriberRepo(emails ...string) *fakeSubscriberRepo {
	f := &fakeSubscriberRepo{touched: make(map[uuid.UUID]int)}
	for _, email := range emails {
		f.active = append(f.active, *entities.NewSubscriber(email))
	}
	return f
}

func (f *fakeSubscriberRepo) GetByEmail(_ context.Context, _ string) (*entities.Subscriber, error) {
	return nil, nil
}

func (f *fakeSubscriberRepo) Create(_ context.Context, _ *entities.Subscriber) error { return nil }

func (f *fakeSubscriberRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ entities.SubscriberStatus) error {
	return nil
}

func (f *fakeSubscriberRepo) ListActive(_ context.Context) ([]entities.Subscriber, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.active, nil
}

func (f *fakeSubscriberRepo) CountActive(_ context.Context) (int64, error) {
	return int64(len(f.active)), nil
}

func (f *fakeSubscriberRepo) TouchLastEmailed(_ context.Context, id uuid.UUID) error {
	f.touched[id]++
	return nil
}

type sentEmail struct {
	to      string
	subject string
	html    string
}

type fakeSender struct {
	failFor map[string]error
	sent    []sentEmail
}

func (f *fakeSender) Send(_ context.Context, to, subject, html string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, html: html})
	return nil
}

func summaryMeeting() *entities.Meeting {
	m := entities.NewMeeting(
		uuid.NewString(),
		time.Date(2026, 3, 17, 18, 0, 0, 0, time.UTC),
		"City Council Regular Meeting",
		entities.MeetingTypeRegular,
	)
	return m
}

func TestNotifyAllSubscribers_SendsToEveryActive(t *testing.T) {
	repo := newFakeSubscriberRepo("a@example.com", "b@example.com")
	sender := &fakeSender{}
	svc := NewService(repo, sender, "https://cicero.example.com", nil)

	result, err := svc.NotifyAllSubscribers(context.Background(), summaryMeeting(), "Council approved the budget.")
	if err != nil {
		t.Fatalf("NotifyAllSubscribers failed: %v", err)
	}
	if result.Sent != 2 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sender.sent))
	}
	if sender.sent[0].subject != "New City Council Summary: City Council Regular Meeting" {
		t.Fatalf("subject = %q", sender.sent[0].subject)
	}
	for _, id := range []uuid.UUID{repo.active[0].ID, repo.active[1].ID} {
		if repo.touched[id] != 1 {
			t.Fatalf("last_emailed_at not stamped for %s", id)
		}
	}
}

func TestNotifyAllSubscribers_FailureMovesOn(t *testing.T) {
	repo := newFakeSubscriberRepo("bounce@example.com", "ok@example.com")
	sender := &fakeSender{failFor: map[string]error{
		"bounce@example.com": errors.New("mailbox full"),
	}}
	svc := NewService(repo, sender, "https://cicero.example.com", nil)

	result, err := svc.NotifyAllSubscribers(context.Background(), summaryMeeting(), "Council approved the budget.")
	if err != nil {
		t.Fatalf("NotifyAllSubscribers failed: %v", err)
	}
	if result.Sent != 1 || result.Failed != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "bounce@example.com") {
		t.Fatalf("errors = %v", result.Errors)
	}
	if repo.touched[repo.active[0].ID] != 0 {
		t.Fatal("stamped last_emailed_at for a failed send")
	}
}

func TestNotifyAllSubscribers_EmailBody(t *testing.T) {
	repo := newFakeSubscriberRepo("mary+news@example.com")
	sender := &fakeSender{}
	svc := NewService(repo, sender, "https://cicero.example.com", nil)

	meeting := summaryMeeting()
	meeting.Title = "Budget & Appropriations <Special>"

	if _, err := svc.NotifyAllSubscribers(context.Background(), meeting, "Rates < last year."); err != nil {
		t.Fatalf("NotifyAllSubscribers failed: %v", err)
	}

	body := sender.sent[0].html
	if !strings.Contains(body, "Budget &amp; Appropriations &lt;Special&gt;") {
		t.Fatal("title not escaped in body")
	}
	if !strings.Contains(body, "Rates &lt; last year.") {
		t.Fatal("tldr not escaped in body")
	}
	if !strings.Contains(body, "March 17, 2026") {
		t.Fatal("meeting date missing from body")
	}
	if !strings.Contains(body, "https://cicero.example.com/meetings/"+meeting.ID.String()) {
		t.Fatal("meeting link missing from body")
	}
	if !strings.Contains(body, "/unsubscribe?email=mary%2Bnews%40example.com") {
		t.Fatal("unsubscribe link not query-escaped")
	}
}

func TestNotifyAllSubscribers_ListErrorBubbles(t *testing.T) {
	repo := newFakeSubscriberRepo()
	repo.listErr = errors.New("connection refused")
	svc := NewService(repo, &fakeSender{}, "https://cicero.example.com", nil)

	if _, err := svc.NotifyAllSubscribers(context.Background(), summaryMeeting(), "tldr"); err == nil {
		t.Fatal("expected list error to bubble")
	}
}
