package dto

import "time"

// UpdateProfileRequest: both fields are required, blanks are rejected
type UpdateProfileRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Profession string `json:"profession" binding:"required,max=100"`
}

type ProfileStats struct {
	TopicsCreated int64   `json:"topics_created"`
	TopicsJoined  int64   `json:"topics_joined"`
	AverageRating float64 `json:"avg_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

// Activity kinds
const (
	ActivityCreated = "created"
	ActivityJoined  = "joined"
)

type ActivityResponse struct {
	Kind      string    `json:"kind"`
	TopicID   int64     `json:"topic_id"`
	Title     string    `json:"title"`
	At        time.Time `json:"at"`
	AtDisplay string    `json:"at_display"`
}

type ProfileResponse struct {
	User       UserResponse       `json:"user"`
	Stats      ProfileStats       `json:"stats"`
	Activities []ActivityResponse `json:"activities"`
}
