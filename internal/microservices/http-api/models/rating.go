package models

import (
	"database/sql"
	"math"
	"time"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_user_topic"`
	TopicID   int64     `json:"topic_id" gorm:"not null;uniqueIndex:idx_ratings_user_topic;index"`
	Value     float64   `json:"value" gorm:"type:double precision;not null;check:chk_ratings_value,value >= 0 AND value <= 5"`
	Feedback  *string   `json:"feedback,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	User  User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Topic Topic `json:"-" gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}

// RatingSummary is the average and count of a set of ratings. Average is 0
// when Count is 0; use Rated to tell that apart from a real 0.0 average.
type RatingSummary struct {
	Average float64
	Count   int64
}

// NewRatingSummary builds a summary from a SQL AVG (NULL over no rows) and COUNT.
func NewRatingSummary(avg sql.NullFloat64, count int64) RatingSummary {
	if !avg.Valid || count == 0 {
		return RatingSummary{Count: count}
	}
	return RatingSummary{Average: RoundRating(avg.Float64), Count: count}
}

// Rated reports whether at least one rating contributed to the average.
func (s RatingSummary) Rated() bool {
	return s.Count > 0
}

// RoundRating rounds to two decimal places.
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

// RatingWithUser is a rating joined with the rater's identity.
type RatingWithUser struct {
	ID        int64
	UserID    int64
	TopicID   int64
	Value     float64
	Feedback  *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Name      string
}
