package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habitloop-backend/internal/program/domain"
)

// gormProgramRepository implements ProgramRepository using GORM.
type gormProgramRepository struct {
	db *gorm.DB
}

// NewGormProgramRepository creates a new GORM-based ProgramRepository.
func NewGormProgramRepository(db *gorm.DB) ProgramRepository {
	return &gormProgramRepository{db: db}
}

func (r *gormProgramRepository) CreateProgram(ctx context.Context, program *domain.Program) error {
	if program.ID == "" {
		program.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(program).Error; err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

func (r *gormProgramRepository) FindProgramByID(ctx context.Context, id string) (*domain.Program, error) {
	var program domain.Program
	err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&program).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find program: %w", err)
	}
	return &program, nil
}

func (r *gormProgramRepository) ListProgramsByCreator(ctx context.Context, creatorID string) ([]*domain.Program, error) {
	var programs []*domain.Program
	err := r.db.WithContext(ctx).
		Where("creator_id = ? AND is_deleted = ?", creatorID, false).
		Order("created_at ASC").
		Find(&programs).Error
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

func (r *gormProgramRepository) FindPersonalProgram(ctx context.Context, userID string) (*domain.Program, error) {
	var program domain.Program
	err := r.db.WithContext(ctx).
		Where("creator_id = ? AND is_personal = ? AND is_deleted = ?", userID, true, false).
		First(&program).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find personal program: %w", err)
	}
	return &program, nil
}

func (r *gormProgramRepository) CreateActivity(ctx context.Context, activity *domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (r *gormProgramRepository) FindActivityByID(ctx context.Context, id string) (*domain.Activity, error) {
	var activity domain.Activity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find activity: %w", err)
	}
	return &activity, nil
}

func (r *gormProgramRepository) UpdateActivity(ctx context.Context, activity *domain.Activity) error {
	activity.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(activity).Error; err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

func (r *gormProgramRepository) ListActivitiesByProgram(ctx context.Context, programID string) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	err := r.db.WithContext(ctx).
		Where("program_id = ? AND is_deleted = ?", programID, false).
		Order("created_at ASC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// ListActivitiesForUser unions the user's subscribed programs with the
// personal program they own.
func (r *gormProgramRepository) ListActivitiesForUser(ctx context.Context, userID string) ([]*domain.Activity, error) {
	db := r.db.WithContext(ctx)

	subscribed := db.Model(&domain.Subscription{}).
		Select("program_id").
		Where("user_id = ?", userID)
	personal := db.Model(&domain.Program{}).
		Select("id").
		Where("creator_id = ? AND is_personal = ? AND is_deleted = ?", userID, true, false)

	var activities []*domain.Activity
	err := db.
		Where("is_deleted = ?", false).
		Where("program_id IN (?) OR program_id IN (?)", subscribed, personal).
		Order("created_at ASC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("list activities for user: %w", err)
	}
	return activities, nil
}

func (r *gormProgramRepository) CreateSubscription(ctx context.Context, sub *domain.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (r *gormProgramRepository) FindSubscription(ctx context.Context, userID, programID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return &sub, nil
}

func (r *gormProgramRepository) DeleteSubscription(ctx context.Context, userID, programID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND program_id = ?", userID, programID).
		Delete(&domain.Subscription{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete subscription: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *gormProgramRepository) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	var subs []*domain.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}
