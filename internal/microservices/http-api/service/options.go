package service

import (
	"io"
	"log/slog"
	"time"

	"studymate/internal/microservices/http-api/events"
)

type options struct {
	now       func() time.Time
	logger    *slog.Logger
	publisher events.Publisher
}

// Option configures a service.
type Option func(*options)

// WithClock replaces time.Now. Tests use it to pin the instant the
// scheduling gate compares against.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPublisher sends committed changes to live subscribers.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		if p != nil {
			o.publisher = p
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		publisher: events.Noop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) publish(t events.Type, topicID, actorID int64, data any) {
	o.publisher.Publish(events.Event{
		Type:      t,
		TopicID:   topicID,
		ActorID:   actorID,
		Data:      data,
		Timestamp: o.now().UTC(),
	})
}
