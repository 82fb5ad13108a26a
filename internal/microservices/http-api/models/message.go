package models

import "time"

// Message is a direct message between two users, optionally about a topic.
type Message struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SenderID   int64     `json:"sender_id" gorm:"not null;index"`
	ReceiverID int64     `json:"receiver_id" gorm:"not null;index"`
	TopicID    *int64    `json:"topic_id,omitempty" gorm:"index"`
	Subject    *string   `json:"subject,omitempty"`
	Body       string    `json:"body" gorm:"type:text;not null"`
	Read       bool      `json:"read" gorm:"column:is_read;not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	// Associations
	Sender   User   `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;"`
	Receiver User   `json:"-" gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE;"`
	Topic    *Topic `json:"-" gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL;"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageView is a message joined with both participants' usernames.
type MessageView struct {
	ID               int64
	SenderID         int64
	ReceiverID       int64
	TopicID          *int64
	Subject          *string
	Body             string
	Read             bool `gorm:"column:is_read"`
	CreatedAt        time.Time
	SenderUsername   string
	ReceiverUsername string
}
