package usecase

import (
	"log"
	"time"

	"habitloop-backend/internal/task/domain"
	"habitloop-backend/pkg/recurrence"
)

// occurrence is one (activity, date) cell selected by a schedule.
type occurrence struct {
	Activity ActivitySnapshot
	DueDate  time.Time
}

// reconcileResult is the minimal write set computed by reconcile.
type reconcileResult struct {
	toCreate []*domain.Task
	toUpdate []*domain.Task
}

// occurrenceKey identifies a task cell within one user's task set.
func occurrenceKey(activityID string, due time.Time) string {
	return activityID + "|" + domain.FormatDay(due)
}

// evaluateOccurrences runs the recurrence evaluator over every
// (activity, day) pair. Unparseable schedules fail closed: the activity
// is skipped and the error logged, never propagated. One bad schedule
// must not block generation for the rest.
func evaluateOccurrences(activities []ActivitySnapshot, days []time.Time) []occurrence {
	var occs []occurrence
	for _, act := range activities {
		rule, err := recurrence.Parse(act.Schedule)
		if err != nil {
			log.Printf("[TaskEngine] Skipping activity %s: unparseable schedule: %v", act.ID, err)
			continue
		}
		for _, day := range days {
			if rule.Fires(day) {
				occs = append(occs, occurrence{Activity: act, DueDate: day})
			}
		}
	}
	return occs
}

// reconcile diffs the wanted occurrences against the persisted tasks for
// the same user and date window. existing MUST include soft-deleted rows:
// a deleted cell means the user removed that date explicitly, and it is
// never recreated.
//
// Found tasks are left alone, so regenerating a day never flips
// IsCompleted. The one exception: incomplete tasks whose title,
// description or stickiness drifted from the activity's current values
// are refreshed.
// Running reconcile twice over the same inputs yields zero creates.
func reconcile(userID string, occs []occurrence, existing []*domain.Task) reconcileResult {
	byKey := make(map[string]*domain.Task, len(existing))
	for _, t := range existing {
		if t.ActivityID == nil {
			continue // ad-hoc tasks are invisible to the engine
		}
		byKey[occurrenceKey(*t.ActivityID, domain.DayOf(t.DueDate))] = t
	}

	var result reconcileResult
	seen := make(map[string]bool, len(occs))
	for _, occ := range occs {
		key := occurrenceKey(occ.Activity.ID, occ.DueDate)
		if seen[key] {
			continue
		}
		seen[key] = true

		task, ok := byKey[key]
		if !ok {
			activityID := occ.Activity.ID
			programID := occ.Activity.ProgramID
			result.toCreate = append(result.toCreate, &domain.Task{
				UserID:      userID,
				ActivityID:  &activityID,
				ProgramID:   &programID,
				Title:       occ.Activity.Title,
				Description: occ.Activity.Description,
				DueDate:     occ.DueDate,
				IsSticky:    occ.Activity.IsSticky,
			})
			continue
		}

		if task.IsDeleted {
			continue // deletion is sticky per date
		}
		if task.IsCompleted {
			continue // completed state is never rewritten
		}
		if task.Title != occ.Activity.Title ||
			task.Description != occ.Activity.Description ||
			task.IsSticky != occ.Activity.IsSticky {
			task.Title = occ.Activity.Title
			task.Description = occ.Activity.Description
			task.IsSticky = occ.Activity.IsSticky
			result.toUpdate = append(result.toUpdate, task)
		}
	}
	return result
}
