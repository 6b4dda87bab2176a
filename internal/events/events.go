// Package events publishes group activity (expenses, membership changes) to
// interested consumers.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Type identifies what happened. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
	MemberJoined   Type = "member.joined"
	MemberLeft     Type = "member.left"
	GroupDeleted   Type = "group.deleted"
)

// Event is a single activity record.
type Event struct {
	Type    Type   `json:"type"`
	GroupID string `json:"group_id"`

	// ActorID is the user that caused the event.
	ActorID string `json:"actor_id"`

	// SubjectID is the expense or member the event is about.
	SubjectID string `json:"subject_id,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// New creates an event stamped with the current time.
func New(t Type, groupID, actorID, subjectID string) Event {
	return Event{
		Type:       t,
		GroupID:    groupID,
		ActorID:    actorID,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Emit publishes event and logs failures. Activity events are best effort:
// a broker outage never fails the RPC that produced them.
func Emit(ctx context.Context, p Publisher, event Event) {
	if err := p.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish event",
			"type", event.Type,
			"group_id", event.GroupID,
			"error", err,
		)
	}
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event Event) error {
	slog.DebugContext(ctx, "Event",
		"type", event.Type,
		"group_id", event.GroupID,
		"actor_id", event.ActorID,
		"subject_id", event.SubjectID,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the types of the published events in order.
func (r *Recorder) Types() []Type {
	events := r.Events()
	types := make([]Type, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
