package dto

import (
	"time"

	"studymate/internal/microservices/http-api/models"
)

// RateTopicRequest for creating or updating a rating. Value is a pointer so
// that 0 is accepted while a missing value is not.
type RateTopicRequest struct {
	Value    *float64 `json:"value" binding:"required"`
	Feedback string   `json:"feedback"`
}

// RatingResponse for returning rating information
type RatingResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Feedback  *string   `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromRatingWithUser converts a joined rating row to RatingResponse DTO
func FromRatingWithUser(row models.RatingWithUser) RatingResponse {
	return RatingResponse{
		ID:        row.ID,
		UserID:    row.UserID,
		Username:  row.Username,
		Name:      row.Name,
		Value:     row.Value,
		Feedback:  row.Feedback,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// RatingSummaryResponse is a topic's average with the number of ratings
// behind it; an average of 0 with a count of 0 means unrated.
type RatingSummaryResponse struct {
	TopicID      int64   `json:"topic_id"`
	Average      float64 `json:"avg_rating"`
	RatingsCount int64   `json:"ratings_count"`
}

func FromRatingSummary(topicID int64, summary models.RatingSummary) *RatingSummaryResponse {
	return &RatingSummaryResponse{
		TopicID:      topicID,
		Average:      summary.Average,
		RatingsCount: summary.Count,
	}
}
