package model

import "time"

// User represents a registered identity. Users are created once via
// registration and never updated or deleted through the API.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}
