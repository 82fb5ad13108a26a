package models

import "time"

// Willingness records that a user intends to join a topic's session.
type Willingness struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_willingness_user_topic"`
	TopicID   int64     `json:"topic_id" gorm:"not null;uniqueIndex:idx_willingness_user_topic;index"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	User  User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Topic Topic `json:"-" gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE;"`
}

func (Willingness) TableName() string {
	return "willingness"
}

// JoinActivity is a joined topic with the time the user joined it.
type JoinActivity struct {
	TopicID   int64
	Title     string
	CreatedAt time.Time
}
