package domain

import (
	"time"

	"habitloop-backend/pkg/recurrence"
)

// Program is a named collection of activities. Personal programs are
// auto-created at registration, exactly one per user, and can neither
// be subscribed to nor deleted.
type Program struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	CreatorID  string     `json:"creator_id" gorm:"index;not null"`
	Title      string     `json:"title" gorm:"not null"`
	IsPersonal bool       `json:"is_personal" gorm:"default:false"`
	IsPrivate  bool       `json:"is_private" gorm:"default:false"`
	IsDeleted  bool       `json:"is_deleted" gorm:"default:false"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Activities []Activity `json:"activities,omitempty" gorm:"foreignKey:ProgramID"`
}

// Activity is a recurrence schedule plus descriptive text, owned by a
// program. The five schedule columns hold cron-style field strings;
// evaluation happens at day granularity, so minute and hour are stored
// but never gate task generation.
type Activity struct {
	ID          string `json:"id" gorm:"primaryKey"`
	ProgramID   string `json:"program_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description,omitempty"`
	IsSticky    bool   `json:"is_sticky" gorm:"default:false"`
	IsDeleted   bool   `json:"is_deleted" gorm:"default:false;index"`

	Minute     string `json:"minute" gorm:"default:*"`
	Hour       string `json:"hour" gorm:"default:*"`
	DayOfMonth string `json:"day_of_month" gorm:"default:*"`
	DayOfWeek  string `json:"day_of_week" gorm:"default:*"`
	Month      string `json:"month" gorm:"default:*"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Schedule bundles the activity's raw recurrence fields.
func (a *Activity) Schedule() recurrence.Spec {
	return recurrence.Spec{
		Minute:     a.Minute,
		Hour:       a.Hour,
		DayOfMonth: a.DayOfMonth,
		DayOfWeek:  a.DayOfWeek,
		Month:      a.Month,
	}
}

// Subscription links a user to a program, unique per pair.
type Subscription struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_program"`
	ProgramID string    `json:"program_id" gorm:"not null;uniqueIndex:idx_user_program"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
