package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"habitloop-backend/internal/task/domain"
	"habitloop-backend/internal/task/usecase"
)

// UserLister enumerates the users to populate. Implemented by the user
// repository.
type UserLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// PopulateScheduler eagerly pre-populates today's tasks for every user
// once a day. Population stays lazy otherwise; this is a warm-up so the
// first page load of the day is cheap.
type PopulateScheduler struct {
	users UserLister
	tasks usecase.TaskUsecase
	cron  *cron.Cron
}

// NewPopulateScheduler creates a new scheduler.
func NewPopulateScheduler(users UserLister, tasks usecase.TaskUsecase, loc *time.Location) *PopulateScheduler {
	return &PopulateScheduler{
		users: users,
		tasks: tasks,
		cron:  cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the daily run at the given HH:MM time and starts the
// cron loop.
func (s *PopulateScheduler) Start(timeStr string) error {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, s.populateAll); err != nil {
		return fmt.Errorf("schedule daily population: %w", err)
	}
	s.cron.Start()
	log.Printf("[PopulateScheduler] Daily population scheduled at %s", timeStr)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *PopulateScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[PopulateScheduler] Stopped")
}

// populateAll runs PopulateDay(today) for every user. Per-user failures
// are logged and skipped; one broken user must not starve the rest.
func (s *PopulateScheduler) populateAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	today := domain.FormatDay(time.Now())

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		log.Printf("[PopulateScheduler] Failed to list users: %v", err)
		return
	}

	var created, failed int
	for _, userID := range ids {
		result, err := s.tasks.PopulateDay(ctx, userID, today)
		if err != nil {
			log.Printf("[PopulateScheduler] Population for user %s failed: %v", userID, err)
			failed++
			continue
		}
		created += result.Created
	}
	log.Printf("[PopulateScheduler] Populated %s for %d users: %d tasks created, %d users failed",
		today, len(ids), created, failed)
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
