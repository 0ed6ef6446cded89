package domain

import "time"

// DayFormat is the wire format for calendar dates. A day carries no
// timezone; all due-date arithmetic is calendar arithmetic on UTC
// midnights, never instant arithmetic.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD calendar date into its UTC midnight.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, s, time.UTC)
}

// DayOf truncates an instant to its calendar date at UTC midnight.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a date back to YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// Task is a concrete per-day item on a user's list. Two provenances
// exist: ad-hoc tasks (ActivityID nil, fully user-owned, hard-deleted)
// and generated tasks (materialized from an activity's schedule,
// soft-deleted only so the engine never resurrects a date the user
// explicitly removed).
//
// At most one non-deleted task exists per (UserID, ActivityID, DueDate);
// the unique index on that tuple is what makes the population upsert
// race-safe. NULL ActivityID rows are exempt by SQL NULL semantics,
// which is exactly what ad-hoc tasks need.
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_task_occurrence"`
	ActivityID  *string    `json:"activity_id,omitempty" gorm:"index;uniqueIndex:idx_task_occurrence"`
	ProgramID   *string    `json:"program_id,omitempty" gorm:"index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	DueDate     time.Time  `json:"due_date" gorm:"type:date;index;uniqueIndex:idx_task_occurrence"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsSticky    bool       `json:"is_sticky" gorm:"default:false"`
	IsDeleted   bool       `json:"is_deleted" gorm:"default:false;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsGenerated reports whether the task was materialized from an activity.
func (t *Task) IsGenerated() bool {
	return t.ActivityID != nil
}
