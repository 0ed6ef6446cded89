package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"habitloop-backend/internal/task/domain"
	"habitloop-backend/internal/task/repository"
	"habitloop-backend/pkg/recurrence"
)

// OnSubscribe backfills generated tasks for days [today, today+HORIZON-1].
// The horizon bounds cost; later days materialize lazily via PopulateDay.
func (u *taskUsecase) OnSubscribe(ctx context.Context, userID, programID string) (*BackfillResult, error) {
	activities, err := u.directory.ActivitiesForProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("resolve activities for program %s: %w", programID, err)
	}

	today := u.today()
	days := make([]time.Time, 0, BackfillHorizonDays)
	for i := 0; i < BackfillHorizonDays; i++ {
		days = append(days, today.AddDate(0, 0, i))
	}
	horizonEnd := today.AddDate(0, 0, BackfillHorizonDays)

	occs := evaluateOccurrences(activities, days)

	existing, err := u.taskRepo.FindTasks(ctx, repository.TaskFilter{
		UserID:         userID,
		DueFrom:        &today,
		DueBefore:      &horizonEnd,
		IncludeDeleted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load tasks in horizon: %w", err)
	}

	result := reconcile(userID, occs, existing)
	created, failed := u.persist(ctx, result)
	log.Printf("[TaskEngine] Backfill for user %s program %s: %d created, %d failed",
		userID, programID, created, failed)
	return &BackfillResult{Created: created, Failed: failed}, nil
}

// OnUnsubscribe soft-deletes the user's tasks generated from the
// program's activities with due_date >= today. History stays immutable:
// past tasks are untouched regardless of subscription status.
func (u *taskUsecase) OnUnsubscribe(ctx context.Context, userID, programID string) (int64, error) {
	activities, err := u.directory.ActivitiesForProgram(ctx, programID)
	if err != nil {
		return 0, fmt.Errorf("resolve activities for program %s: %w", programID, err)
	}
	if len(activities) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(activities))
	for _, act := range activities {
		ids = append(ids, act.ID)
	}

	today := u.today()
	deleted := true
	count, err := u.taskRepo.UpdateTasks(ctx, repository.TaskFilter{
		UserID:      userID,
		ActivityIDs: ids,
		DueFrom:     &today,
	}, repository.TaskPatch{IsDeleted: &deleted})
	if err != nil {
		return 0, fmt.Errorf("invalidate tasks for program %s: %w", programID, err)
	}
	log.Printf("[TaskEngine] Unsubscribe user %s from program %s: %d tasks invalidated",
		userID, programID, count)
	return count, nil
}

// OnActivityEdited propagates a schedule or text edit to the activity's
// future tasks, across all subscribed users. Tasks due today or earlier
// are never altered. A future task whose date no longer matches the new
// schedule is hard-deleted: that is a correction of a stale occurrence,
// distinct from user-initiated removal. Newly-matching dates gain tasks
// on their next population.
func (u *taskUsecase) OnActivityEdited(ctx context.Context, activityID string) error {
	snapshot, err := u.directory.ActivityByID(ctx, activityID)
	if err != nil {
		return fmt.Errorf("resolve activity %s: %w", activityID, err)
	}
	if snapshot == nil {
		return ErrActivityNotFound
	}

	rule, err := recurrence.Parse(snapshot.Schedule)
	if err != nil {
		// The write path validates schedules, so an unparseable rule
		// here is a hard fault, not a fail-closed evaluation: deleting
		// every future task on a parse bug would be destructive.
		return fmt.Errorf("activity %s has unparseable schedule: %w", activityID, err)
	}

	today := u.today()
	future, err := u.taskRepo.FindTasks(ctx, repository.TaskFilter{
		ActivityID:     &activityID,
		DueAfter:       &today,
		IncludeDeleted: true,
	})
	if err != nil {
		return fmt.Errorf("load future tasks for activity %s: %w", activityID, err)
	}

	for _, task := range future {
		if !rule.Fires(domain.DayOf(task.DueDate)) {
			if err := u.taskRepo.Delete(ctx, task.ID); err != nil {
				log.Printf("[TaskEngine] Failed to remove stale task %s: %v", task.ID, err)
			}
			continue
		}
		if task.IsDeleted || task.IsCompleted {
			continue
		}
		if task.Title != snapshot.Title ||
			task.Description != snapshot.Description ||
			task.IsSticky != snapshot.IsSticky {
			task.Title = snapshot.Title
			task.Description = snapshot.Description
			task.IsSticky = snapshot.IsSticky
			if err := u.taskRepo.Update(ctx, task); err != nil {
				log.Printf("[TaskEngine] Failed to refresh task %s: %v", task.ID, err)
			}
		}
	}
	return nil
}

// OnActivityDeleted cascades an activity soft-delete onto its future
// tasks (due_date >= today) for every user. Same shape as unsubscribe
// invalidation, scoped to a single activity.
func (u *taskUsecase) OnActivityDeleted(ctx context.Context, activityID string) (int64, error) {
	today := u.today()
	deleted := true
	count, err := u.taskRepo.UpdateTasks(ctx, repository.TaskFilter{
		ActivityID: &activityID,
		DueFrom:    &today,
	}, repository.TaskPatch{IsDeleted: &deleted})
	if err != nil {
		return 0, fmt.Errorf("cascade delete for activity %s: %w", activityID, err)
	}
	log.Printf("[TaskEngine] Activity %s deleted: %d future tasks invalidated", activityID, count)
	return count, nil
}
