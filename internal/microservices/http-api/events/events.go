// Package events carries change notifications from services to live
// subscribers.
package events

import "time"

type Type string

const (
	TopicCreated       Type = "topic_created"
	TopicDeleted       Type = "topic_deleted"
	TopicScheduled     Type = "topic_scheduled"
	WillingnessChanged Type = "willingness_changed"
	RatingChanged      Type = "rating_changed"
	MessageReceived    Type = "message_received"
)

// Event is one change. RecipientID limits delivery to a single user; zero
// means every subscriber.
type Event struct {
	Type        Type      `json:"type"`
	TopicID     int64     `json:"topic_id,omitempty"`
	ActorID     int64     `json:"actor_id,omitempty"`
	RecipientID int64     `json:"-"`
	Data        any       `json:"data,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher must not block the caller.
type Publisher interface {
	Publish(event Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// Noop drops every event.
func Noop() Publisher { return noopPublisher{} }
