package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	SlackID   string
	Action    AuditEvent
	EventCode string
	Decision  string
	Reason    string
	RequestID string
	ClientIP  string
	UserAgent string
}

type AuditEvent string

const (
	EventAuthzDenied        AuditEvent = "authz_denied"
	EventEventsListed       AuditEvent = "events_listed"
	EventSubmissionsViewed  AuditEvent = "submissions_viewed"
	EventGrantRequested     AuditEvent = "grant_requested"
	EventGrantRejected      AuditEvent = "grant_rejected"
	EventNotificationFailed AuditEvent = "notification_failed"
)

// Store persists audit events for later inspection.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySlackID(ctx context.Context, slackID string) ([]Event, error)
}

// Publisher accepts events from domain code without blocking it. The default
// implementation feeds the in-process worker.
type Publisher interface {
	Publish(event Event)
}

// ChannelPublisher pushes events onto a buffered channel consumed by the
// worker. Events are dropped when the buffer is full; auditing never blocks
// a user request.
type ChannelPublisher struct {
	out chan<- Event
}

func NewChannelPublisher(out chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{out: out}
}

func (p *ChannelPublisher) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.out <- event:
	default:
	}
}

// NopPublisher discards events. Useful in tests and when auditing is off.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
