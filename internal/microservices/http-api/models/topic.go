package models

import (
	"database/sql"
	"time"
)

type Topic struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Duration    string    `json:"duration" gorm:"not null"`
	Category    *string   `json:"category,omitempty"`
	OwnerID     int64     `json:"owner_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	// Stored exactly as entered; see schedule.Gate for how it is read.
	ScheduledAt *string `json:"scheduled_at,omitempty" gorm:"type:text"`

	// Associations
	Owner User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
}

func (Topic) TableName() string {
	return "topics"
}

// TopicStats is a topic joined with its owner and the aggregates computed
// from the willingness and ratings tables at read time.
type TopicStats struct {
	ID          int64
	Title       string
	Description string
	Duration    string
	Category    *string
	OwnerID     int64
	CreatedAt   time.Time
	ScheduledAt *string

	OwnerUsername    string
	OwnerName        string
	WillingnessCount int64
	AvgRating        sql.NullFloat64
	RatingsCount     int64
	ViewerJoined     int64 // 0 or 1
}

// Ratings returns the rating aggregate of the row.
func (t TopicStats) Ratings() RatingSummary {
	return NewRatingSummary(t.AvgRating, t.RatingsCount)
}
