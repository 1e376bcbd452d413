package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"statwizard/internal"
)

// Event is one error/observation report sent to the telemetry backend.
// Metadata is an arbitrary bag; sinks must accept it without validation.
type Event struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	FileName   string         `json:"file_name,omitempty"`
	FileSize   int64          `json:"file_size,omitempty"`
	Tier       string         `json:"tier,omitempty"`
	Code       string         `json:"code,omitempty"`
	Message    string         `json:"message,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewEvent creates an event with a fresh ID and timestamp
func NewEvent(action string) Event {
	return Event{
		ID:         uuid.NewString(),
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}

// Reporter delivers events to a telemetry backend
type Reporter interface {
	Report(ctx context.Context, event Event) error
}

// Dispatcher wraps a Reporter with fire-and-forget semantics: Dispatch
// starts the report and discards its outcome, so a slow or failing backend
// can never delay or fail the user-facing operation.
type Dispatcher struct {
	reporter Reporter
	logger   *internal.Logger
	timeout  time.Duration
}

// NewDispatcher creates a dispatcher around the given reporter
func NewDispatcher(reporter Reporter) *Dispatcher {
	return &Dispatcher{
		reporter: reporter,
		logger:   internal.DefaultLogger,
		timeout:  5 * time.Second,
	}
}

// Dispatch reports the event in a detached goroutine. The caller's context
// is deliberately not used: the report must outlive the request that
// triggered it, and its result must stay unobservable.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil || d.reporter == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.reporter.Report(ctx, event); err != nil {
			d.logger.Debug("[Telemetry] report %s dropped: %v", event.Action, err)
		}
	}()
}

// LogSink is a Reporter that writes events to the application log
type LogSink struct {
	logger *internal.Logger
}

// NewLogSink creates a log-backed reporter
func NewLogSink() *LogSink {
	return &LogSink{logger: internal.DefaultLogger}
}

// Report logs the event at warn level
func (s *LogSink) Report(_ context.Context, event Event) error {
	s.logger.Warn("[Telemetry] action=%s file=%s size=%d tier=%s code=%s msg=%s meta=%v",
		event.Action, event.FileName, event.FileSize, event.Tier, event.Code, event.Message, event.Metadata)
	return nil
}
