package models

import (
	"time"
)

// User is an account able to authenticate against the API.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
}

func (u *User) TableName() string {
	return "users"
}

// Token is the opaque API key a user presents in the Authorization header.
// A user owns at most one token.
type Token struct {
	Key       string    `gorm:"primaryKey;size:40"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null"`
}

func (t *Token) TableName() string {
	return "auth_tokens"
}
