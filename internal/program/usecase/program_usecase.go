package usecase

import (
	"context"
	"fmt"
	"log"

	"habitloop-backend/internal/program/domain"
	"habitloop-backend/internal/program/repository"
	"habitloop-backend/pkg/recurrence"
)

// programUsecase implements ProgramUsecase.
type programUsecase struct {
	programRepo repository.ProgramRepository
	hooks       TaskLifecycle
}

// NewProgramUsecase creates a new instance of programUsecase.
func NewProgramUsecase(programRepo repository.ProgramRepository) ProgramUsecase {
	return &programUsecase{programRepo: programRepo}
}

func (u *programUsecase) SetTaskLifecycle(hooks TaskLifecycle) {
	u.hooks = hooks
}

func (u *programUsecase) CreateProgram(ctx context.Context, creatorID, title string, isPrivate bool) (*domain.Program, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	program := &domain.Program{
		CreatorID: creatorID,
		Title:     title,
		IsPrivate: isPrivate,
	}
	if err := u.programRepo.CreateProgram(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (u *programUsecase) CreatePersonalProgram(ctx context.Context, userID string) (*domain.Program, error) {
	existing, err := u.programRepo.FindPersonalProgram(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	program := &domain.Program{
		CreatorID:  userID,
		Title:      "Personal",
		IsPersonal: true,
		IsPrivate:  true,
	}
	if err := u.programRepo.CreateProgram(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (u *programUsecase) GetProgram(ctx context.Context, programID string) (*domain.Program, error) {
	program, err := u.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	return program, nil
}

func (u *programUsecase) ListPrograms(ctx context.Context, creatorID string) ([]*domain.Program, error) {
	return u.programRepo.ListProgramsByCreator(ctx, creatorID)
}

func (u *programUsecase) ListActivities(ctx context.Context, programID string) ([]*domain.Activity, error) {
	if _, err := u.GetProgram(ctx, programID); err != nil {
		return nil, err
	}
	return u.programRepo.ListActivitiesByProgram(ctx, programID)
}

func (u *programUsecase) CreateActivity(ctx context.Context, userID, programID string, input ActivityInput) (*domain.Activity, error) {
	program, err := u.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	activity := &domain.Activity{
		ProgramID:   programID,
		Title:       input.Title,
		Description: input.Description,
		IsSticky:    input.IsSticky,
		Minute:      orWildcard(input.Minute),
		Hour:        orWildcard(input.Hour),
		DayOfMonth:  orWildcard(input.DayOfMonth),
		DayOfWeek:   orWildcard(input.DayOfWeek),
		Month:       orWildcard(input.Month),
	}
	if _, err := recurrence.Parse(specOf(input)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if err := u.programRepo.CreateActivity(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (u *programUsecase) UpdateActivity(ctx context.Context, userID, activityID string, input ActivityInput) (*domain.Activity, error) {
	activity, _, err := u.ownedActivity(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	activity.Title = input.Title
	activity.Description = input.Description
	activity.IsSticky = input.IsSticky
	activity.Minute = orWildcard(input.Minute)
	activity.Hour = orWildcard(input.Hour)
	activity.DayOfMonth = orWildcard(input.DayOfMonth)
	activity.DayOfWeek = orWildcard(input.DayOfWeek)
	activity.Month = orWildcard(input.Month)

	if _, err := recurrence.Parse(specOf(input)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if err := u.programRepo.UpdateActivity(ctx, activity); err != nil {
		return nil, err
	}

	if u.hooks != nil {
		if err := u.hooks.HandleActivityEdited(ctx, activity.ID); err != nil {
			log.Printf("[ProgramUsecase] Edit propagation for activity %s failed: %v", activity.ID, err)
		}
	}
	return activity, nil
}

func (u *programUsecase) DeleteActivity(ctx context.Context, userID, activityID string) error {
	activity, _, err := u.ownedActivity(ctx, userID, activityID)
	if err != nil {
		return err
	}

	activity.IsDeleted = true
	if err := u.programRepo.UpdateActivity(ctx, activity); err != nil {
		return err
	}

	if u.hooks != nil {
		if err := u.hooks.HandleActivityDeleted(ctx, activity.ID); err != nil {
			log.Printf("[ProgramUsecase] Delete cascade for activity %s failed: %v", activity.ID, err)
		}
	}
	return nil
}

func (u *programUsecase) Subscribe(ctx context.Context, userID, programID string) error {
	program, err := u.GetProgram(ctx, programID)
	if err != nil {
		return err
	}
	if program.IsPersonal {
		return ErrPersonalProgram
	}

	existing, err := u.programRepo.FindSubscription(ctx, userID, programID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadySubscribed
	}

	sub := &domain.Subscription{UserID: userID, ProgramID: programID}
	if err := u.programRepo.CreateSubscription(ctx, sub); err != nil {
		return err
	}

	if u.hooks != nil {
		if err := u.hooks.HandleSubscribed(ctx, userID, programID); err != nil {
			log.Printf("[ProgramUsecase] Backfill for user %s program %s failed: %v", userID, programID, err)
		}
	}
	return nil
}

func (u *programUsecase) Unsubscribe(ctx context.Context, userID, programID string) error {
	program, err := u.GetProgram(ctx, programID)
	if err != nil {
		return err
	}
	if program.IsPersonal {
		return ErrPersonalProgram
	}

	count, err := u.programRepo.DeleteSubscription(ctx, userID, programID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotSubscribed
	}

	if u.hooks != nil {
		if err := u.hooks.HandleUnsubscribed(ctx, userID, programID); err != nil {
			log.Printf("[ProgramUsecase] Invalidation for user %s program %s failed: %v", userID, programID, err)
		}
	}
	return nil
}

func (u *programUsecase) ownedActivity(ctx context.Context, userID, activityID string) (*domain.Activity, *domain.Program, error) {
	activity, err := u.programRepo.FindActivityByID(ctx, activityID)
	if err != nil {
		return nil, nil, err
	}
	if activity == nil || activity.IsDeleted {
		return nil, nil, ErrActivityNotFound
	}
	program, err := u.GetProgram(ctx, activity.ProgramID)
	if err != nil {
		return nil, nil, err
	}
	if program.CreatorID != userID {
		return nil, nil, ErrNotCreator
	}
	return activity, program, nil
}

func orWildcard(field string) string {
	if field == "" {
		return "*"
	}
	return field
}

func specOf(input ActivityInput) recurrence.Spec {
	return recurrence.Spec{
		Minute:     input.Minute,
		Hour:       input.Hour,
		DayOfMonth: input.DayOfMonth,
		DayOfWeek:  input.DayOfWeek,
		Month:      input.Month,
	}
}
