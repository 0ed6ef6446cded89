package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitloop-backend/internal/task/domain"
)

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReconcileCreatesMissingCells(t *testing.T) {
	snap := dailySnapshot("act-1", "prog-1", "Stretch")
	occs := []occurrence{{Activity: snap, DueDate: day("2024-01-10")}}

	result := reconcile("u1", occs, nil)

	require.Len(t, result.toCreate, 1)
	assert.Empty(t, result.toUpdate)

	created := result.toCreate[0]
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "act-1", *created.ActivityID)
	assert.Equal(t, "prog-1", *created.ProgramID)
	assert.False(t, created.IsCompleted)
	assert.False(t, created.IsDeleted)
}

func TestReconcileIsANoOpForMatchingCells(t *testing.T) {
	snap := dailySnapshot("act-1", "prog-1", "Stretch")
	actID := "act-1"
	existing := []*domain.Task{{
		ID: "t1", UserID: "u1", ActivityID: &actID,
		Title: "Stretch", DueDate: day("2024-01-10"),
	}}
	occs := []occurrence{{Activity: snap, DueDate: day("2024-01-10")}}

	result := reconcile("u1", occs, existing)
	assert.Empty(t, result.toCreate)
	assert.Empty(t, result.toUpdate)
}

func TestReconcileSkipsDeletedCells(t *testing.T) {
	snap := dailySnapshot("act-1", "prog-1", "Stretch")
	actID := "act-1"
	existing := []*domain.Task{{
		ID: "t1", UserID: "u1", ActivityID: &actID,
		Title: "Old", DueDate: day("2024-01-10"), IsDeleted: true,
	}}
	occs := []occurrence{{Activity: snap, DueDate: day("2024-01-10")}}

	result := reconcile("u1", occs, existing)
	assert.Empty(t, result.toCreate, "deleted cells are never recreated")
	assert.Empty(t, result.toUpdate, "deleted cells are never refreshed")
}

func TestReconcileRefreshesDriftedIncompleteTasks(t *testing.T) {
	snap := dailySnapshot("act-1", "prog-1", "New")
	snap.IsSticky = true
	actID := "act-1"
	existing := []*domain.Task{{
		ID: "t1", UserID: "u1", ActivityID: &actID,
		Title: "Old", DueDate: day("2024-01-10"),
	}}
	occs := []occurrence{{Activity: snap, DueDate: day("2024-01-10")}}

	result := reconcile("u1", occs, existing)
	assert.Empty(t, result.toCreate)
	require.Len(t, result.toUpdate, 1)
	assert.Equal(t, "New", result.toUpdate[0].Title)
	assert.True(t, result.toUpdate[0].IsSticky)
}

func TestReconcileIgnoresAdHocTasks(t *testing.T) {
	snap := dailySnapshot("act-1", "prog-1", "Stretch")
	existing := []*domain.Task{{
		ID: "adhoc", UserID: "u1", Title: "Buy milk", DueDate: day("2024-01-10"),
	}}
	occs := []occurrence{{Activity: snap, DueDate: day("2024-01-10")}}

	result := reconcile("u1", occs, existing)
	require.Len(t, result.toCreate, 1, "an ad-hoc task does not occupy the activity's cell")
	assert.Empty(t, result.toUpdate)
}

func TestReconcileDeduplicatesOccurrences(t *testing.T) {
	snap := dailySnapshot("act-1", "prog-1", "Stretch")
	occs := []occurrence{
		{Activity: snap, DueDate: day("2024-01-10")},
		{Activity: snap, DueDate: day("2024-01-10")},
	}

	result := reconcile("u1", occs, nil)
	assert.Len(t, result.toCreate, 1)
}
