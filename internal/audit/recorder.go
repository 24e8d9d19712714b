package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/forward-rent/prequal/internal/apperr"
)

// Recorder appends compliance events and exposes them for replay.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder builds a Recorder.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the timestamp source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record appends an event. A failure is a persistence error; already written
// events are left in place.
func (r *Recorder) Record(ctx context.Context, kind Kind, actor Actor, metadata map[string]any) (Event, error) {
	e, err := r.repo.Append(ctx, Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Actor:     actor,
		Metadata:  metadata,
		CreatedAt: r.now(),
	})
	if err != nil {
		return Event{}, apperr.Persistence("record audit event", err)
	}
	if r.logger != nil {
		r.logger.Info("audit event recorded", slog.String("kind", string(kind)), slog.String("actor", string(actor)), slog.Int64("seq", e.Seq))
	}
	return e, nil
}

// Trail returns the events matching filter in chronological order.
func (r *Recorder) Trail(ctx context.Context, filter Filter) ([]Event, error) {
	events, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence("list audit events", err)
	}
	return events, nil
}
