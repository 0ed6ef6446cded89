package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"habitloop-backend/internal/user/domain"
	"habitloop-backend/internal/user/repository"
)

func newTestUsecase(t *testing.T) UserUsecase {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return NewUserUsecase(repository.NewGormUserRepository(db))
}

func TestRegisterCreatesPersonalProgram(t *testing.T) {
	uc := newTestUsecase(t)

	var createdFor []string
	uc.SetPersonalProgramCreator(func(_ context.Context, userID string) (string, error) {
		createdFor = append(createdFor, userID)
		return "prog-" + userID, nil
	})

	user, err := uc.Register(context.Background(), "Ann@Example.com", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, []string{user.ID}, createdFor)
	assert.Equal(t, "prog-"+user.ID, user.PersonalProgramID)

	loaded, err := uc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PersonalProgramID, loaded.PersonalProgramID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	uc := newTestUsecase(t)

	_, err := uc.Register(context.Background(), "ann@example.com", "Ann")
	require.NoError(t, err)

	// Same address, different casing.
	_, err = uc.Register(context.Background(), "ANN@example.com", "Ann again")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSurvivesPersonalProgramFailure(t *testing.T) {
	uc := newTestUsecase(t)
	uc.SetPersonalProgramCreator(func(context.Context, string) (string, error) {
		return "", errors.New("program store down")
	})

	user, err := uc.Register(context.Background(), "ann@example.com", "Ann")
	require.NoError(t, err, "the account stands even when the program hook fails")
	assert.Empty(t, user.PersonalProgramID)
}

func TestRegisterRequiresEmail(t *testing.T) {
	uc := newTestUsecase(t)
	_, err := uc.Register(context.Background(), "   ", "Ann")
	assert.Error(t, err)
}

func TestGetUserNotFound(t *testing.T) {
	uc := newTestUsecase(t)
	_, err := uc.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
