package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"habitloop-backend/internal/task/usecase"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// CreateTaskRequest represents the request body for an ad-hoc task.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" binding:"required"`
	IsSticky    bool   `json:"is_sticky"`
}

// CompletionRequest represents the completion-toggle body.
type CompletionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// GetDayTasks returns the user's tasks for one calendar day.
// GET /api/tasks?date=2024-01-15
func (h *TaskHandler) GetDayTasks(c *gin.Context) {
	userID := c.GetString("userID")
	day := c.Query("date")

	tasks, err := h.taskUsecase.GetDayTasks(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}

// PopulateDay materializes the user's tasks for a day and returns the
// created count.
// POST /api/tasks/populate?date=2024-01-15
func (h *TaskHandler) PopulateDay(c *gin.Context) {
	userID := c.GetString("userID")
	day := c.Query("date")

	result, err := h.taskUsecase.PopulateDay(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateTask creates an ad-hoc task.
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := c.GetString("userID")

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), userID, usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsSticky:    req.IsSticky,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// SetCompletion toggles a task's completion state.
// PATCH /api/tasks/:id/completion
func (h *TaskHandler) SetCompletion(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.SetCompletion(c.Request.Context(), userID, taskID, *req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task (soft for generated, hard for ad-hoc).
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	if err := h.taskUsecase.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, usecase.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, usecase.ErrInvalidDay):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
