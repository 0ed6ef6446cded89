package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"habitloop-backend/internal/program/usecase"
)

// ProgramHandler handles program, activity and subscription HTTP requests.
type ProgramHandler struct {
	programUsecase usecase.ProgramUsecase
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programUsecase usecase.ProgramUsecase) *ProgramHandler {
	return &ProgramHandler{programUsecase: programUsecase}
}

// CreateProgramRequest represents the request body for creating a program.
type CreateProgramRequest struct {
	Title     string `json:"title" binding:"required"`
	IsPrivate bool   `json:"is_private"`
}

// ActivityRequest represents the request body for creating or editing an
// activity. Schedule fields default to wildcards; at least one must be
// supplied.
type ActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsSticky    bool   `json:"is_sticky"`
	Minute      string `json:"minute"`
	Hour        string `json:"hour"`
	DayOfMonth  string `json:"day_of_month"`
	DayOfWeek   string `json:"day_of_week"`
	Month       string `json:"month"`
}

func (r ActivityRequest) toInput() usecase.ActivityInput {
	return usecase.ActivityInput{
		Title:       r.Title,
		Description: r.Description,
		IsSticky:    r.IsSticky,
		Minute:      r.Minute,
		Hour:        r.Hour,
		DayOfMonth:  r.DayOfMonth,
		DayOfWeek:   r.DayOfWeek,
		Month:       r.Month,
	}
}

// CreateProgram creates a program owned by the caller.
// POST /api/programs
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	userID := c.GetString("userID")

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	program, err := h.programUsecase.CreateProgram(c.Request.Context(), userID, req.Title, req.IsPrivate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// GetProgram returns one program.
// GET /api/programs/:id
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	program, err := h.programUsecase.GetProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// ListPrograms returns the caller's programs.
// GET /api/programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	userID := c.GetString("userID")
	programs, err := h.programUsecase.ListPrograms(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": programs, "total": len(programs)})
}

// ListActivities returns a program's activities.
// GET /api/programs/:id/activities
func (h *ProgramHandler) ListActivities(c *gin.Context) {
	activities, err := h.programUsecase.ListActivities(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities, "total": len(activities)})
}

// CreateActivity adds an activity to a program.
// POST /api/programs/:id/activities
func (h *ProgramHandler) CreateActivity(c *gin.Context) {
	userID := c.GetString("userID")

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.programUsecase.CreateActivity(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// UpdateActivity edits an activity; schedule edits propagate to future
// generated tasks.
// PUT /api/activities/:id
func (h *ProgramHandler) UpdateActivity(c *gin.Context) {
	userID := c.GetString("userID")

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.programUsecase.UpdateActivity(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

// DeleteActivity soft-deletes an activity and cascades to its future tasks.
// DELETE /api/activities/:id
func (h *ProgramHandler) DeleteActivity(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.programUsecase.DeleteActivity(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "activity deleted"})
}

// Subscribe subscribes the caller to a program and backfills tasks.
// POST /api/programs/:id/subscription
func (h *ProgramHandler) Subscribe(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.programUsecase.Subscribe(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "subscribed"})
}

// Unsubscribe removes the caller's subscription and invalidates future
// generated tasks.
// DELETE /api/programs/:id/subscription
func (h *ProgramHandler) Unsubscribe(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.programUsecase.Unsubscribe(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrProgramNotFound), errors.Is(err, usecase.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotCreator):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrAlreadySubscribed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrPersonalProgram),
		errors.Is(err, usecase.ErrNotSubscribed),
		errors.Is(err, usecase.ErrInvalidSchedule):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
