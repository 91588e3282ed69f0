package handler

import (
	"net/http"
	"time"

	"github.com/burakkho/thrustr-backend/internal/service"
	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkoutHandler implements the workout API endpoints
type WorkoutHandler struct {
	service *service.WorkoutService
	logger  *zap.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler
func NewWorkoutHandler(service *service.WorkoutService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		service: service,
		logger:  logger,
	}
}

// LogWorkoutRequest is the body of a workout ingestion
type LogWorkoutRequest struct {
	UserID          uuid.UUID  `json:"user_id" binding:"required"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	DurationMinutes float64    `json:"duration_minutes" binding:"required"`
	Calories        float64    `json:"calories"`
	Type            string     `json:"type"`
}

// LogWorkout records a completed training session
// POST /api/v1/workouts
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	userID := req.UserID.String()

	// Convert API request to model
	workout := &model.Workout{
		DurationMinutes: req.DurationMinutes,
		Calories:        req.Calories,
		Type:            req.Type,
	}

	if req.StartedAt != nil {
		workout.StartedAt = *req.StartedAt
	}

	// Log the workout
	if err := h.service.LogWorkout(c.Request.Context(), userID, workout); err != nil {
		h.logger.Error("failed to log workout",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("workout logged",
		zap.String("workout_id", workout.ID),
		zap.String("user_id", userID),
		zap.String("workout_type", workout.Type),
	)

	c.JSON(http.StatusOK, workout)
}

// GetRecentWorkouts retrieves a user's recent workouts
// GET /api/v1/workouts?user_id=...&days=7|30|90
func (h *WorkoutHandler) GetRecentWorkouts(c *gin.Context) {
	userID, err := userIDFromQuery(c)
	if err != nil {
		h.logger.Error("invalid user ID", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid user ID",
			Details: stringPtr(err.Error()),
		})
		return
	}

	days, err := intQuery(c, "days", 7)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid days parameter",
			Details: stringPtr(err.Error()),
		})
		return
	}

	// Get recent workouts
	workouts, err := h.service.GetRecentWorkouts(c.Request.Context(), userID, days)
	if err != nil {
		h.logger.Error("failed to get recent workouts",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get recent workouts",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("recent workouts retrieved",
		zap.String("user_id", userID),
		zap.Int("count", len(workouts)),
	)

	c.JSON(http.StatusOK, workouts)
}

// GetTrends returns the aggregated training trend summary
// GET /api/v1/workouts/trends?user_id=...&weeks=4..26
func (h *WorkoutHandler) GetTrends(c *gin.Context) {
	userID, err := userIDFromQuery(c)
	if err != nil {
		h.logger.Error("invalid user ID", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid user ID",
			Details: stringPtr(err.Error()),
		})
		return
	}

	weeks, err := intQuery(c, "weeks", 12)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid weeks parameter",
			Details: stringPtr(err.Error()),
		})
		return
	}

	// Assemble the trend summary
	trends, err := h.service.GetTrends(c.Request.Context(), userID, weeks)
	if err != nil {
		h.logger.Error("failed to get workout trends",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get workout trends",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("workout trends retrieved",
		zap.String("user_id", userID),
		zap.Int("weekly_workouts", trends.WeeklyWorkouts),
		zap.String("direction", string(trends.Direction)),
	)

	c.JSON(http.StatusOK, trends)
}
