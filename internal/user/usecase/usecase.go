package usecase

import (
	"context"
	"errors"

	"habitloop-backend/internal/user/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// PersonalProgramFunc creates the user's personal program and returns
// its ID. Wired from the program feature at startup.
type PersonalProgramFunc func(ctx context.Context, userID string) (string, error)

// UserUsecase defines the interface for user business logic.
type UserUsecase interface {
	// Register creates the account together with its personal program.
	Register(ctx context.Context, email, displayName string) (*domain.User, error)

	GetUser(ctx context.Context, id string) (*domain.User, error)

	// SetPersonalProgramCreator wires the program feature's personal
	// program factory.
	SetPersonalProgramCreator(fn PersonalProgramFunc)
}
