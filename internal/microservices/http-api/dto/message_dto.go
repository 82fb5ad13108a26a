package dto

import (
	"time"

	"studymate/internal/microservices/http-api/models"
)

// SendMessageRequest for a direct message, optionally about a topic
type SendMessageRequest struct {
	ReceiverID int64   `json:"receiver_id" binding:"required,gt=0"`
	TopicID    *int64  `json:"topic_id,omitempty"`
	Subject    *string `json:"subject,omitempty" binding:"omitempty,max=200"`
	Body       string  `json:"body" binding:"required"`
}

type MessageResponse struct {
	ID               int64     `json:"id"`
	SenderID         int64     `json:"sender_id"`
	SenderUsername   string    `json:"sender_username"`
	ReceiverID       int64     `json:"receiver_id"`
	ReceiverUsername string    `json:"receiver_username"`
	TopicID          *int64    `json:"topic_id,omitempty"`
	Subject          *string   `json:"subject,omitempty"`
	Body             string    `json:"body"`
	Read             bool      `json:"read"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromMessageView(view models.MessageView) MessageResponse {
	return MessageResponse{
		ID:               view.ID,
		SenderID:         view.SenderID,
		SenderUsername:   view.SenderUsername,
		ReceiverID:       view.ReceiverID,
		ReceiverUsername: view.ReceiverUsername,
		TopicID:          view.TopicID,
		Subject:          view.Subject,
		Body:             view.Body,
		Read:             view.Read,
		CreatedAt:        view.CreatedAt,
	}
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
