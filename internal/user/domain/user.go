package domain

import "time"

// User is a registered account. Every user owns exactly one personal
// program, created at registration; it cannot be unsubscribed from or
// deleted.
type User struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	Email             string    `json:"email" gorm:"uniqueIndex;not null"`
	DisplayName       string    `json:"display_name"`
	PersonalProgramID string    `json:"personal_program_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
