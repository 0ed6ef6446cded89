package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"habitloop-backend/internal/task/domain"
	"habitloop-backend/internal/task/repository"
)

// PopulateDay is the engine's entry point for a (user, day) pair.
func (u *taskUsecase) PopulateDay(ctx context.Context, userID, day string) (*PopulateResult, error) {
	target, err := domain.ParseDay(day)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}

	// Carry-forward only applies to days that have happened: a future
	// day cannot be "caught up".
	if !target.After(u.today()) {
		if err := u.carryForward(ctx, userID, target); err != nil {
			return nil, err
		}
	}

	activities, err := u.directory.ActivitiesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve activities for user %s: %w", userID, err)
	}

	occs := evaluateOccurrences(activities, []time.Time{target})

	existing, err := u.taskRepo.FindTasks(ctx, repository.TaskFilter{
		UserID:         userID,
		DueOn:          &target,
		IncludeDeleted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load tasks for %s: %w", day, err)
	}

	result := reconcile(userID, occs, existing)
	created, _ := u.persist(ctx, result)
	return &PopulateResult{Created: created}, nil
}

// GetDayTasks returns the user's visible tasks for one day.
func (u *taskUsecase) GetDayTasks(ctx context.Context, userID, day string) ([]*domain.Task, error) {
	target, err := domain.ParseDay(day)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return u.taskRepo.FindTasks(ctx, repository.TaskFilter{
		UserID: userID,
		DueOn:  &target,
	})
}

// carryForward relocates the user's incomplete sticky tasks due before
// targetDay onto targetDay. This is a move, not a copy: each sticky task
// has exactly one active occurrence at a time. A relocation that would
// collide with an existing cell on the target day is skipped and logged.
func (u *taskUsecase) carryForward(ctx context.Context, userID string, targetDay time.Time) error {
	sticky := true
	completed := false
	stale, err := u.taskRepo.FindTasks(ctx, repository.TaskFilter{
		UserID:      userID,
		IsSticky:    &sticky,
		IsCompleted: &completed,
		DueBefore:   &targetDay,
	})
	if err != nil {
		return fmt.Errorf("find sticky tasks: %w", err)
	}

	for _, task := range stale {
		task.DueDate = targetDay
		if err := u.taskRepo.Update(ctx, task); err != nil {
			log.Printf("[TaskEngine] Carry-forward of task %s to %s failed, skipping: %v",
				task.ID, domain.FormatDay(targetDay), err)
		}
	}
	return nil
}

// persist writes a reconcile result through the store. Creates go through
// the conflict-keyed upsert, so two racing population requests cannot
// duplicate a cell: the loser observes created=false and moves on.
// Per-item failures are logged and skipped; the returned counts are
// best-effort.
func (u *taskUsecase) persist(ctx context.Context, result reconcileResult) (created, failed int) {
	for _, task := range result.toCreate {
		_, inserted, err := u.taskRepo.UpsertTask(ctx, task)
		if err != nil {
			log.Printf("[TaskEngine] Failed to create task for activity %s on %s: %v",
				deref(task.ActivityID), domain.FormatDay(task.DueDate), err)
			failed++
			continue
		}
		if inserted {
			created++
		}
	}
	for _, task := range result.toUpdate {
		if err := u.taskRepo.Update(ctx, task); err != nil {
			log.Printf("[TaskEngine] Failed to refresh task %s: %v", task.ID, err)
			failed++
		}
	}
	return created, failed
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateTask creates an ad-hoc task owned entirely by the user.
func (u *taskUsecase) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*domain.Task, error) {
	due, err := domain.ParseDay(input.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, input.DueDate)
	}

	task := &domain.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     due,
		IsSticky:    input.IsSticky,
	}
	if err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetCompletion toggles a task's completion. Last-writer-wins: no
// concurrency token guards this read-modify-write.
func (u *taskUsecase) SetCompletion(ctx context.Context, userID, taskID string, completed bool) (*domain.Task, error) {
	task, err := u.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = completed
	if completed {
		now := u.now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	if err := u.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task. Generated tasks are soft-deleted so the
// engine honors the removal on every later population of that date;
// ad-hoc tasks are physically deleted.
func (u *taskUsecase) DeleteTask(ctx context.Context, userID, taskID string) error {
	task, err := u.ownedTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if task.IsGenerated() {
		task.IsDeleted = true
		return u.taskRepo.Update(ctx, task)
	}
	return u.taskRepo.Delete(ctx, task.ID)
}

func (u *taskUsecase) ownedTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.IsDeleted {
		return nil, ErrTaskNotFound
	}
	if task.UserID != userID {
		return nil, ErrUnauthorized
	}
	return task, nil
}
