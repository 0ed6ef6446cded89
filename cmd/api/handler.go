package api

import (
	"context"

	"github.com/gin-gonic/gin"

	programDelivery "habitloop-backend/internal/program/delivery"
	programDomain "habitloop-backend/internal/program/domain"
	programRepo "habitloop-backend/internal/program/repository"
	programUsecasePkg "habitloop-backend/internal/program/usecase"
	taskDelivery "habitloop-backend/internal/task/delivery"
	taskUsecasePkg "habitloop-backend/internal/task/usecase"
	userDelivery "habitloop-backend/internal/user/delivery"
	userUsecasePkg "habitloop-backend/internal/user/usecase"
)

// Handler assembles the HTTP delivery layer.
type Handler struct {
	userHandler    *userDelivery.UserHandler
	programHandler *programDelivery.ProgramHandler
	taskHandler    *taskDelivery.TaskHandler
}

// directoryAdapter adapts ProgramRepository to the task engine's
// ProgramDirectory interface.
type directoryAdapter struct {
	programRepo programRepo.ProgramRepository
}

func (a *directoryAdapter) ActivitiesForUser(ctx context.Context, userID string) ([]taskUsecasePkg.ActivitySnapshot, error) {
	activities, err := a.programRepo.ListActivitiesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshots := make([]taskUsecasePkg.ActivitySnapshot, 0, len(activities))
	for _, act := range activities {
		snapshots = append(snapshots, snapshotOf(act))
	}
	return snapshots, nil
}

func (a *directoryAdapter) ActivitiesForProgram(ctx context.Context, programID string) ([]taskUsecasePkg.ActivitySnapshot, error) {
	activities, err := a.programRepo.ListActivitiesByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	snapshots := make([]taskUsecasePkg.ActivitySnapshot, 0, len(activities))
	for _, act := range activities {
		snapshots = append(snapshots, snapshotOf(act))
	}
	return snapshots, nil
}

func (a *directoryAdapter) ActivityByID(ctx context.Context, activityID string) (*taskUsecasePkg.ActivitySnapshot, error) {
	activity, err := a.programRepo.FindActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil || activity.IsDeleted {
		return nil, nil
	}
	snapshot := snapshotOf(activity)
	return &snapshot, nil
}

func snapshotOf(act *programDomain.Activity) taskUsecasePkg.ActivitySnapshot {
	return taskUsecasePkg.ActivitySnapshot{
		ID:          act.ID,
		ProgramID:   act.ProgramID,
		Title:       act.Title,
		Description: act.Description,
		IsSticky:    act.IsSticky,
		Schedule:    act.Schedule(),
	}
}

// lifecycleAdapter adapts the task engine to the program feature's
// TaskLifecycle hook interface (the engine logs its own counts).
type lifecycleAdapter struct {
	taskUc taskUsecasePkg.TaskUsecase
}

func (a *lifecycleAdapter) HandleSubscribed(ctx context.Context, userID, programID string) error {
	_, err := a.taskUc.OnSubscribe(ctx, userID, programID)
	return err
}

func (a *lifecycleAdapter) HandleUnsubscribed(ctx context.Context, userID, programID string) error {
	_, err := a.taskUc.OnUnsubscribe(ctx, userID, programID)
	return err
}

func (a *lifecycleAdapter) HandleActivityEdited(ctx context.Context, activityID string) error {
	return a.taskUc.OnActivityEdited(ctx, activityID)
}

func (a *lifecycleAdapter) HandleActivityDeleted(ctx context.Context, activityID string) error {
	_, err := a.taskUc.OnActivityDeleted(ctx, activityID)
	return err
}

// NewDirectory exposes the program repository as the task engine's
// activity directory.
func NewDirectory(repo programRepo.ProgramRepository) taskUsecasePkg.ProgramDirectory {
	return &directoryAdapter{programRepo: repo}
}

// NewHandler wires the delivery layer and the cross-feature hooks.
func NewHandler(
	userUc userUsecasePkg.UserUsecase,
	programUc programUsecasePkg.ProgramUsecase,
	taskUc taskUsecasePkg.TaskUsecase,
) *Handler {
	// Subscription and activity events flow into the task engine.
	programUc.SetTaskLifecycle(&lifecycleAdapter{taskUc: taskUc})

	// Registration auto-creates the personal program.
	userUc.SetPersonalProgramCreator(func(ctx context.Context, userID string) (string, error) {
		program, err := programUc.CreatePersonalProgram(ctx, userID)
		if err != nil {
			return "", err
		}
		return program.ID, nil
	})

	return &Handler{
		userHandler:    userDelivery.NewUserHandler(userUc),
		programHandler: programDelivery.NewProgramHandler(programUc),
		taskHandler:    taskDelivery.NewTaskHandler(taskUc),
	}
}

// Start runs the HTTP server.
func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-User-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	SetupRoutes(r, h.userHandler, h.programHandler, h.taskHandler)

	return r.Run(addr)
}
