package main

import (
	"log"
	"time"

	api "habitloop-backend/cmd/api"
	programDomain "habitloop-backend/internal/program/domain"
	programRepo "habitloop-backend/internal/program/repository"
	programUsecase "habitloop-backend/internal/program/usecase"
	taskDomain "habitloop-backend/internal/task/domain"
	taskRepo "habitloop-backend/internal/task/repository"
	"habitloop-backend/internal/task/scheduler"
	taskUsecase "habitloop-backend/internal/task/usecase"
	userDomain "habitloop-backend/internal/user/domain"
	userRepo "habitloop-backend/internal/user/repository"
	userUsecase "habitloop-backend/internal/user/usecase"
	"habitloop-backend/pkg/config"
	"habitloop-backend/pkg/database"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&userDomain.User{},
		&programDomain.Program{},
		&programDomain.Activity{},
		&programDomain.Subscription{},
		&taskDomain.Task{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := userRepo.NewGormUserRepository(db)
	programRepository := programRepo.NewGormProgramRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)

	// Initialize use cases
	userUc := userUsecase.NewUserUsecase(userRepository)
	programUc := programUsecase.NewProgramUsecase(programRepository)
	taskUc := taskUsecase.NewTaskUsecase(taskRepository, api.NewDirectory(programRepository))

	// Initialize HTTP handler (wires cross-feature hooks)
	handler := api.NewHandler(userUc, programUc, taskUc)

	// Optional daily pre-population job
	if cfg.PopulateTime != "" {
		populateScheduler := scheduler.NewPopulateScheduler(userRepository, taskUc, time.Local)
		if err := populateScheduler.Start(cfg.PopulateTime); err != nil {
			log.Fatal("Failed to start population scheduler:", err)
		}
		defer populateScheduler.Stop()
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
