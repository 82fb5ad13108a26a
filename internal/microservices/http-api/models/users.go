package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	Password   string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Profession string    `gorm:"not null" json:"profession"`
	Name       string    `gorm:"not null" json:"name"`
	Role       string    `gorm:"default:'user';not null" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may use the admin routes.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserPostCount is a user row with the number of topics they posted.
type UserPostCount struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Profession string `json:"profession"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	PostCount  int64  `json:"post_count"`
}
