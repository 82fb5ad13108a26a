package dto

import "time"

// CreateTopicRequest for posting a new study topic
type CreateTopicRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"required"`
	Duration    string  `json:"duration" binding:"required,max=100"`
	Category    *string `json:"category,omitempty" binding:"omitempty,max=100"`
}

// ScheduleTopicRequest carries the session time exactly as the owner typed it.
type ScheduleTopicRequest struct {
	ScheduledAt string `json:"scheduled_at" binding:"required"`
}

// TopicResponse is a topic with its owner and live aggregates, seen by one viewer.
type TopicResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Duration      string  `json:"duration"`
	Category      *string `json:"category,omitempty"`
	OwnerID       int64   `json:"owner_id"`
	OwnerUsername string  `json:"owner_username"`
	OwnerName     string  `json:"owner_name"`

	CreatedAt        time.Time `json:"created_at"`
	CreatedDisplay   string    `json:"created_display"`
	ScheduledAt      *string   `json:"scheduled_at,omitempty"`
	ScheduledDisplay string    `json:"scheduled_display,omitempty"`

	WillingnessCount int64   `json:"willingness_count"`
	AverageRating    float64 `json:"avg_rating"`
	RatingsCount     int64   `json:"ratings_count"`

	IsOwner         bool `json:"is_owner"`
	ViewerJoined    bool `json:"viewer_joined"`
	CanGiveFeedback bool `json:"can_give_feedback"`
}

// ScheduleResponse echoes the stored schedule after an update.
type ScheduleResponse struct {
	TopicID          int64  `json:"topic_id"`
	ScheduledAt      string `json:"scheduled_at"`
	ScheduledDisplay string `json:"scheduled_display"`
	CanGiveFeedback  bool   `json:"can_give_feedback"`
}

// WillingnessResponse is the outcome of a join/leave toggle.
type WillingnessResponse struct {
	TopicID int64  `json:"topic_id"`
	Action  string `json:"action"` // "added" or "removed"
	Count   int64  `json:"count"`
}

// WillingUserResponse is a user who intends to join a topic.
type WillingUserResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Profession string `json:"profession"`
}
