package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"habitloop-backend/internal/task/domain"
)

// gormTaskRepository implements TaskRepository using GORM.
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository.
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *gormTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

func (r *gormTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *gormTaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *gormTaskRepository) FindTasks(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	query := applyFilter(r.db.WithContext(ctx).Model(&domain.Task{}), filter)
	if err := query.Order("due_date ASC, created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

// UpsertTask inserts unless the (user_id, activity_id, due_date) cell is
// already occupied. ON CONFLICT DO NOTHING makes concurrent population
// requests race-safe: the losing writer reads back the winner's row.
func (r *gormTaskRepository) UpsertTask(ctx context.Context, task *domain.Task) (*domain.Task, bool, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "activity_id"}, {Name: "due_date"},
		},
		DoNothing: true,
	}).Create(task)
	if res.Error != nil {
		return nil, false, fmt.Errorf("upsert task: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return task, true, nil
	}

	// Lost the race (or the cell was already materialized): the
	// intended task exists, so surface that row instead.
	var existing domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND activity_id = ? AND due_date = ?",
			task.UserID, task.ActivityID, task.DueDate).
		First(&existing).Error
	if err != nil {
		return nil, false, fmt.Errorf("read back upsert conflict: %w", err)
	}
	return &existing, false, nil
}

func (r *gormTaskRepository) UpdateTasks(ctx context.Context, filter TaskFilter, patch TaskPatch) (int64, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.IsSticky != nil {
		updates["is_sticky"] = *patch.IsSticky
	}
	if patch.IsDeleted != nil {
		updates["is_deleted"] = *patch.IsDeleted
	}

	res := applyFilter(r.db.WithContext(ctx).Model(&domain.Task{}), filter).Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("bulk update tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *gormTaskRepository) DeleteTasks(ctx context.Context, filter TaskFilter) (int64, error) {
	res := applyFilter(r.db.WithContext(ctx), filter).Delete(&domain.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("bulk delete tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func applyFilter(query *gorm.DB, filter TaskFilter) *gorm.DB {
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ActivityID != nil {
		query = query.Where("activity_id = ?", *filter.ActivityID)
	}
	if len(filter.ActivityIDs) > 0 {
		query = query.Where("activity_id IN ?", filter.ActivityIDs)
	}
	if filter.ProgramID != nil {
		query = query.Where("program_id = ?", *filter.ProgramID)
	}
	if filter.DueOn != nil {
		query = query.Where("due_date = ?", *filter.DueOn)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueAfter != nil {
		query = query.Where("due_date > ?", *filter.DueAfter)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}
	if filter.IsSticky != nil {
		query = query.Where("is_sticky = ?", *filter.IsSticky)
	}
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	return query
}
