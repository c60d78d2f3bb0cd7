// Package recorder turns stopped timer runs into time-log records.
package recorder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"Mansoor88-6/work-timer/internal/format"
	"Mansoor88-6/work-timer/internal/models"
	"Mansoor88-6/work-timer/internal/notify"

	"go.uber.org/zap"
)

// Sink is the external time-log system of record
type Sink interface {
	CreateTimeEntry(ctx context.Context, entry models.TimeEntry) error
}

// Entry describes one stopped run
type Entry struct {
	ProjectID      int64
	ProjectName    string
	Description    string
	ElapsedSeconds int64
	DurationHours  float64
	Date           string // YYYY-MM-DD
}

// RecordingError is a failed time-log submission
type RecordingError struct {
	ProjectID int64
	Err       error
}

func (e *RecordingError) Error() string {
	return fmt.Sprintf("failed to record time entry for project %d: %v", e.ProjectID, e.Err)
}

func (e *RecordingError) Unwrap() error {
	return e.Err
}

const (
	MsgRecordFailed = "Failed to save time entry. Timer data preserved."
)

// Recorder submits entries without blocking the caller. A failed
// submission is reported once and not retried.
type Recorder struct {
	sink     Sink
	notifier notify.Notifier
	timeout  time.Duration
	logger   *zap.Logger
	onResult func(entry models.TimeEntry, err error)
	wg       sync.WaitGroup
}

// NewRecorder creates a recorder writing to sink
func NewRecorder(sink Sink, notifier notify.Notifier, timeout time.Duration, logger *zap.Logger) *Recorder {
	return &Recorder{
		sink:     sink,
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}
}

// OnResult registers a hook called after every submission
func (r *Recorder) OnResult(fn func(entry models.TimeEntry, err error)) {
	r.onResult = fn
}

// Record submits entry in the background
func (r *Recorder) Record(entry Entry) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		// reported through the notifier
		_ = r.Submit(ctx, entry)
	}()
}

// Submit sends entry to the sink and notifies the outcome
func (r *Recorder) Submit(ctx context.Context, entry Entry) error {
	payload := BuildPayload(entry)

	err := r.sink.CreateTimeEntry(ctx, payload)
	if r.onResult != nil {
		r.onResult(payload, err)
	}
	if err != nil {
		rerr := &RecordingError{ProjectID: entry.ProjectID, Err: err}
		r.logger.Error("Time entry not saved",
			zap.Error(rerr),
			zap.Int64("project_id", entry.ProjectID),
			zap.Float64("hours", payload.Duration),
		)
		r.notifier.Notify(notify.LevelError, MsgRecordFailed)
		return rerr
	}

	r.logger.Info("Time entry recorded",
		zap.Int64("project_id", entry.ProjectID),
		zap.String("date", payload.Date),
		zap.Float64("hours", payload.Duration),
	)
	r.notifier.Notify(notify.LevelSuccess,
		fmt.Sprintf("Time logged: %s for %s", format.Duration(entry.ElapsedSeconds), entry.ProjectName))
	return nil
}

// Wait blocks until background submissions finish
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// BuildPayload maps an entry onto the sink's record layout
func BuildPayload(entry Entry) models.TimeEntry {
	return models.TimeEntry{
		ProjectID:   entry.ProjectID,
		Description: ResolveDescription(entry.Description, entry.ProjectName),
		Date:        entry.Date,
		Duration:    entry.DurationHours,
	}
}

// ResolveDescription falls back to "Work on <project>" for blank text
func ResolveDescription(description, projectName string) string {
	if strings.TrimSpace(description) == "" {
		return "Work on " + projectName
	}
	return description
}
