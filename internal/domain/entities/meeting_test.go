package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func pendingMeeting() *Meeting {
	return NewMeeting(
		uuid.NewString(),
		time.Date(2026, 1, 14, 18, 0, 0, 0, time.UTC),
		"City Council Regular Meeting",
		MeetingTypeRegular,
	)
}

func TestMeetingStatusTransitions(t *testing.T) {
	m := pendingMeeting()

	if err := m.MarkProcessing(); err != nil {
		t.Fatalf("pending -> processing rejected: %v", err)
	}
	if err := m.MarkComplete(); err != nil {
		t.Fatalf("processing -> complete rejected: %v", err)
	}
	if m.ProcessedAt == nil {
		t.Fatal("ProcessedAt not set on completion")
	}

	// complete is terminal
	if err := m.MarkProcessing(); err == nil {
		t.Fatal("complete -> processing allowed")
	}
	if err := m.MarkFailed("late failure"); err == nil {
		t.Fatal("complete -> failed allowed")
	}
	if m.Status != MeetingStatusComplete {
		t.Fatalf("status mutated by rejected transition: %q", m.Status)
	}
}

func TestMeetingPendingCannotComplete(t *testing.T) {
	m := pendingMeeting()
	if err := m.MarkComplete(); err == nil {
		t.Fatal("pending -> complete allowed")
	}
	if m.Status != MeetingStatusPending || m.ProcessedAt != nil {
		t.Fatalf("rejected transition left a mark: status=%q processedAt=%v", m.Status, m.ProcessedAt)
	}
}

func TestMeetingFailedIsTerminalUntilReset(t *testing.T) {
	m := pendingMeeting()
	if err := m.MarkFailed("no video"); err != nil {
		t.Fatalf("pending -> failed rejected: %v", err)
	}
	if m.ErrorMessage == nil || *m.ErrorMessage != "no video" {
		t.Fatalf("failure reason not recorded: %v", m.ErrorMessage)
	}

	if err := m.MarkProcessing(); err == nil {
		t.Fatal("failed -> processing allowed")
	}

	until := time.Now().Add(time.Hour)
	m.ClaimedUntil = &until
	m.ResetToPending()
	if m.Status != MeetingStatusPending || m.ErrorMessage != nil || m.ClaimedUntil != nil {
		t.Fatalf("reset left state behind: %+v", m)
	}
	if err := m.MarkProcessing(); err != nil {
		t.Fatalf("reset meeting cannot re-enter processing: %v", err)
	}
}

func TestMarkCompleteClearsError(t *testing.T) {
	m := pendingMeeting()
	msg := "transient"
	m.ErrorMessage = &msg
	if err := m.MarkProcessing(); err != nil {
		t.Fatalf("MarkProcessing failed: %v", err)
	}
	if err := m.MarkComplete(); err != nil {
		t.Fatalf("MarkComplete failed: %v", err)
	}
	if m.ErrorMessage != nil {
		t.Fatal("completion kept a stale error message")
	}
}

func TestIsClaimed(t *testing.T) {
	m := pendingMeeting()
	now := time.Now()

	if m.IsClaimed(now) {
		t.Fatal("unleased meeting reads as claimed")
	}

	future := now.Add(30 * time.Minute)
	m.ClaimedUntil = &future
	if !m.IsClaimed(now) {
		t.Fatal("active lease not detected")
	}

	past := now.Add(-time.Minute)
	m.ClaimedUntil = &past
	if m.IsClaimed(now) {
		t.Fatal("expired lease reads as claimed")
	}
}
