package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one connection or transaction.
type Repositories struct {
	Users       UserRepository
	Topics      TopicRepository
	Willingness WillingnessRepository
	Ratings     RatingRepository
	Messages    MessageRepository

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Topics:      NewTopicRepository(db),
		Willingness: NewWillingnessRepository(db),
		Ratings:     NewRatingRepository(db),
		Messages:    NewMessageRepository(db),
		db:          db,
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. fn's error rolls everything back.
//
// The transaction is detached from ctx cancellation: once started it either
// commits or rolls back on its own terms, a client hanging up mid-request
// does not cut it short.
func (r *Repositories) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	ctx = context.WithoutCancel(ctx)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}
