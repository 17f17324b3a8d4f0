package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyMeetingID    KeyContext = "meeting_id"
	keyStage        KeyContext = "stage"
	keyRunStartTime KeyContext = "run_start_time"
)

// RunMetadata holds metadata for one pipeline run over a single meeting
type RunMetadata struct {
	MeetingID uuid.UUID
	Stage     string
	StartTime time.Time
}

// RunBegin initializes a pipeline run context for one meeting. The timeout
// bounds the run to the claim lease so a hung external call cannot outlive
// the claim.
func RunBegin(parentCtx context.Context, meetingID uuid.UUID, lease time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, lease)

	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyRunStartTime, time.Now())

	return ctx, cancel
}

// WithStage records the pipeline stage currently executing
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, keyStage, stage)
}

// GetMeetingID extracts the meeting ID from context
func GetMeetingID(ctx context.Context) (uuid.UUID, bool) {
	meetingID, ok := ctx.Value(keyMeetingID).(uuid.UUID)
	return meetingID, ok
}

// GetStage extracts the current pipeline stage from context
func GetStage(ctx context.Context) (string, bool) {
	stage, ok := ctx.Value(keyStage).(string)
	return stage, ok
}

// GetRunStartTime extracts the run start time from context
func GetRunStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyRunStartTime).(time.Time)
	return startTime, ok
}

// Elapsed reports how long the run has been executing. Returns zero when the
// context carries no run start time.
func Elapsed(ctx context.Context) time.Duration {
	startTime, ok := GetRunStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(startTime)
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	meetingID, _ := GetMeetingID(ctx)
	stage, _ := GetStage(ctx)
	startTime, _ := GetRunStartTime(ctx)

	return &RunMetadata{
		MeetingID: meetingID,
		Stage:     stage,
		StartTime: startTime,
	}
}
