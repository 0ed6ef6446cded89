package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"habitloop-backend/internal/task/domain"
	"habitloop-backend/internal/task/repository"
	"habitloop-backend/pkg/recurrence"
)

// memTaskRepo is an in-memory TaskRepository honoring the same
// (user_id, activity_id, due_date) uniqueness the real store guarantees.
type memTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]*domain.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *memTaskRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("task-%d", r.seq)
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	return &c
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		task.ID = r.nextID()
	}
	r.tasks[task.ID] = copyTask(task)
	return nil
}

func (r *memTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok {
		return copyTask(t), nil
	}
	return nil, nil
}

func (r *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return fmt.Errorf("task %s not found", task.ID)
	}
	// The real store rejects an update that would land two generated
	// tasks on the same (user, activity, day) cell.
	if task.ActivityID != nil {
		for id, other := range r.tasks {
			if id == task.ID || other.ActivityID == nil {
				continue
			}
			if other.UserID == task.UserID &&
				*other.ActivityID == *task.ActivityID &&
				other.DueDate.Equal(task.DueDate) {
				return fmt.Errorf("unique constraint: cell %s/%s/%s occupied",
					task.UserID, *task.ActivityID, domain.FormatDay(task.DueDate))
			}
		}
	}
	r.tasks[task.ID] = copyTask(task)
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) FindTasks(_ context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if matches(t, filter) {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memTaskRepo) UpsertTask(_ context.Context, task *domain.Task) (*domain.Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tasks {
		if existing.UserID == task.UserID &&
			existing.ActivityID != nil && task.ActivityID != nil &&
			*existing.ActivityID == *task.ActivityID &&
			existing.DueDate.Equal(task.DueDate) {
			return copyTask(existing), false, nil
		}
	}
	if task.ID == "" {
		task.ID = r.nextID()
	}
	r.tasks[task.ID] = copyTask(task)
	return copyTask(task), true, nil
}

func (r *memTaskRepo) UpdateTasks(_ context.Context, filter repository.TaskFilter, patch repository.TaskPatch) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, t := range r.tasks {
		if !matches(t, filter) {
			continue
		}
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.DueDate != nil {
			t.DueDate = *patch.DueDate
		}
		if patch.IsSticky != nil {
			t.IsSticky = *patch.IsSticky
		}
		if patch.IsDeleted != nil {
			t.IsDeleted = *patch.IsDeleted
		}
		count++
	}
	return count, nil
}

func (r *memTaskRepo) DeleteTasks(_ context.Context, filter repository.TaskFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, t := range r.tasks {
		if matches(t, filter) {
			delete(r.tasks, id)
			count++
		}
	}
	return count, nil
}

func matches(t *domain.Task, f repository.TaskFilter) bool {
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.ActivityID != nil && (t.ActivityID == nil || *t.ActivityID != *f.ActivityID) {
		return false
	}
	if len(f.ActivityIDs) > 0 {
		if t.ActivityID == nil {
			return false
		}
		found := false
		for _, id := range f.ActivityIDs {
			if *t.ActivityID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ProgramID != nil && (t.ProgramID == nil || *t.ProgramID != *f.ProgramID) {
		return false
	}
	if f.DueOn != nil && !t.DueDate.Equal(*f.DueOn) {
		return false
	}
	if f.DueFrom != nil && t.DueDate.Before(*f.DueFrom) {
		return false
	}
	if f.DueAfter != nil && !t.DueDate.After(*f.DueAfter) {
		return false
	}
	if f.DueBefore != nil && !t.DueDate.Before(*f.DueBefore) {
		return false
	}
	if f.IsCompleted != nil && t.IsCompleted != *f.IsCompleted {
		return false
	}
	if f.IsSticky != nil && t.IsSticky != *f.IsSticky {
		return false
	}
	if !f.IncludeDeleted && t.IsDeleted {
		return false
	}
	return true
}

// all returns every stored task, deleted rows included.
func (r *memTaskRepo) all() []*domain.Task {
	tasks, _ := r.FindTasks(context.Background(), repository.TaskFilter{IncludeDeleted: true})
	return tasks
}

// memDirectory is an in-memory ProgramDirectory.
type memDirectory struct {
	byUser    map[string][]string // userID -> activity IDs
	byProgram map[string][]string // programID -> activity IDs
	snapshots map[string]ActivitySnapshot
}

func newMemDirectory() *memDirectory {
	return &memDirectory{
		byUser:    make(map[string][]string),
		byProgram: make(map[string][]string),
		snapshots: make(map[string]ActivitySnapshot),
	}
}

func (d *memDirectory) add(userID string, snap ActivitySnapshot) {
	d.snapshots[snap.ID] = snap
	d.byUser[userID] = append(d.byUser[userID], snap.ID)
	d.byProgram[snap.ProgramID] = append(d.byProgram[snap.ProgramID], snap.ID)
}

// set replaces the snapshot in place (simulates an activity edit).
func (d *memDirectory) set(snap ActivitySnapshot) {
	d.snapshots[snap.ID] = snap
}

func (d *memDirectory) remove(activityID string) {
	delete(d.snapshots, activityID)
	for user, ids := range d.byUser {
		d.byUser[user] = without(ids, activityID)
	}
	for program, ids := range d.byProgram {
		d.byProgram[program] = without(ids, activityID)
	}
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (d *memDirectory) resolve(ids []string) []ActivitySnapshot {
	var out []ActivitySnapshot
	for _, id := range ids {
		if snap, ok := d.snapshots[id]; ok {
			out = append(out, snap)
		}
	}
	return out
}

func (d *memDirectory) ActivitiesForUser(_ context.Context, userID string) ([]ActivitySnapshot, error) {
	return d.resolve(d.byUser[userID]), nil
}

func (d *memDirectory) ActivitiesForProgram(_ context.Context, programID string) ([]ActivitySnapshot, error) {
	return d.resolve(d.byProgram[programID]), nil
}

func (d *memDirectory) ActivityByID(_ context.Context, activityID string) (*ActivitySnapshot, error) {
	if snap, ok := d.snapshots[activityID]; ok {
		return &snap, nil
	}
	return nil, nil
}

// testEngine fixes the clock at 2024-01-10 (a Wednesday).
var testToday = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

func newTestEngine() (*taskUsecase, *memTaskRepo, *memDirectory) {
	repo := newMemTaskRepo()
	dir := newMemDirectory()
	uc := NewTaskUsecase(repo, dir).(*taskUsecase)
	uc.now = func() time.Time { return testToday.Add(9 * time.Hour) }
	return uc, repo, dir
}

func dailySnapshot(id, programID, title string) ActivitySnapshot {
	return ActivitySnapshot{
		ID:        id,
		ProgramID: programID,
		Title:     title,
		Schedule:  recurrence.Spec{DayOfMonth: "*", DayOfWeek: "*", Month: "*"},
	}
}
