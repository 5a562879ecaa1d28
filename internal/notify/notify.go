// Package notify delivers scheduled-post outcomes to operator channels.
package notify

import (
	"context"
	"log/slog"
)

// Event is one scheduled-post outcome.
type Event struct {
	JobName string
	JobID   string
	PostID  string // empty on failure
	Err     error  // nil on success
}

// Notifier delivers one event to a channel. Delivery is best-effort: a
// failing notifier never fails the publish that triggered it.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev Event) error
}

// Multi fans one event out to every sink, logging per-sink failures.
type Multi struct {
	sinks []Notifier
}

// NewMulti builds a fan-out notifier; nil sinks are skipped.
func NewMulti(sinks ...Notifier) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *Multi) Name() string { return "multi" }

// Notify delivers ev to all sinks. Always returns nil.
func (m *Multi) Notify(ctx context.Context, ev Event) error {
	for _, s := range m.sinks {
		if err := s.Notify(ctx, ev); err != nil {
			slog.Warn("notify: delivery failed", "sink", s.Name(), "job", ev.JobName, "err", err)
		}
	}
	return nil
}

// Len reports the number of configured sinks.
func (m *Multi) Len() int { return len(m.sinks) }

func message(ev Event) string {
	if ev.Err != nil {
		return "Scheduled post \"" + ev.JobName + "\" failed: " + ev.Err.Error()
	}
	if ev.PostID != "" {
		return "Scheduled post \"" + ev.JobName + "\" published as " + ev.PostID
	}
	return "Scheduled post \"" + ev.JobName + "\" published"
}
