package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	programDelivery "habitloop-backend/internal/program/delivery"
	taskDelivery "habitloop-backend/internal/task/delivery"
	userDelivery "habitloop-backend/internal/user/delivery"
)

func SetupRoutes(
	r *gin.Engine,
	userHandler *userDelivery.UserHandler,
	programHandler *programDelivery.ProgramHandler,
	taskHandler *taskDelivery.TaskHandler,
) {
	api := r.Group("/api")
	{
		// Health check (no identity required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Registration (identity not established yet)
		api.POST("/users", userHandler.Register)

		identified := api.Group("")
		identified.Use(userDelivery.IdentityMiddleware())
		{
			identified.GET("/users/me", userHandler.Me)

			programs := identified.Group("/programs")
			{
				programs.GET("", programHandler.ListPrograms)
				programs.POST("", programHandler.CreateProgram)
				programs.GET("/:id", programHandler.GetProgram)
				programs.GET("/:id/activities", programHandler.ListActivities)
				programs.POST("/:id/activities", programHandler.CreateActivity)
				programs.POST("/:id/subscription", programHandler.Subscribe)
				programs.DELETE("/:id/subscription", programHandler.Unsubscribe)
			}

			activities := identified.Group("/activities")
			{
				activities.PUT("/:id", programHandler.UpdateActivity)
				activities.DELETE("/:id", programHandler.DeleteActivity)
			}

			tasks := identified.Group("/tasks")
			{
				tasks.GET("", taskHandler.GetDayTasks)
				tasks.POST("", taskHandler.CreateTask)
				tasks.POST("/populate", taskHandler.PopulateDay)
				tasks.PATCH("/:id/completion", taskHandler.SetCompletion)
				tasks.DELETE("/:id", taskHandler.DeleteTask)
			}
		}
	}
}
