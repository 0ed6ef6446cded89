package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"habitloop-backend/internal/user/domain"
	"habitloop-backend/internal/user/repository"
)

// userUsecase implements UserUsecase.
type userUsecase struct {
	userRepo        repository.UserRepository
	personalProgram PersonalProgramFunc
}

// NewUserUsecase creates a new instance of userUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) SetPersonalProgramCreator(fn PersonalProgramFunc) {
	u.personalProgram = fn
}

func (u *userUsecase) Register(ctx context.Context, email, displayName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &domain.User{
		Email:       email,
		DisplayName: displayName,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if u.personalProgram != nil {
		programID, err := u.personalProgram(ctx, user.ID)
		if err != nil {
			// The account stands; the personal program can be healed
			// manually. Registration is not rolled back over it.
			log.Printf("[UserUsecase] Failed to create personal program for user %s: %v", user.ID, err)
			return user, nil
		}
		user.PersonalProgramID = programID
		if err := u.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
