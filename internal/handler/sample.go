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

// SampleHandler implements the daily health sample API endpoints
type SampleHandler struct {
	service *service.HealthSampleService
	logger  *zap.Logger
}

// NewSampleHandler creates a new SampleHandler
func NewSampleHandler(service *service.HealthSampleService, logger *zap.Logger) *SampleHandler {
	return &SampleHandler{
		service: service,
		logger:  logger,
	}
}

// SyncSampleRequest is the body of a health sample sync. Every metric is
// optional; the client sends whatever the platform health store had that day.
type SyncSampleRequest struct {
	UserID     uuid.UUID  `json:"user_id" binding:"required"`
	SampleDate *time.Time `json:"sample_date,omitempty"`
	HRV        *float64   `json:"hrv,omitempty"`
	RestingHR  *float64   `json:"resting_heart_rate,omitempty"`
	SleepHours *float64   `json:"sleep_hours,omitempty"`
	Steps      *int       `json:"steps,omitempty"`
	BodyWeight *float64   `json:"body_weight,omitempty"`
	VO2Max     *float64   `json:"vo2_max,omitempty"`
}

// SyncSample ingests one day of synced health metrics
// POST /api/v1/health/samples
func (h *SampleHandler) SyncSample(c *gin.Context) {
	var req SyncSampleRequest
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
	sample := &model.HealthSample{
		HRV:        req.HRV,
		RestingHR:  req.RestingHR,
		SleepHours: req.SleepHours,
		Steps:      req.Steps,
		BodyWeight: req.BodyWeight,
		VO2Max:     req.VO2Max,
	}

	if req.SampleDate != nil {
		sample.SampleDate = *req.SampleDate
	}

	// Sync the sample
	if err := h.service.SyncSample(c.Request.Context(), userID, sample); err != nil {
		h.logger.Error("failed to sync health sample",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("health sample synced",
		zap.String("sample_id", sample.ID),
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusOK, sample)
}

// GetRecentSamples retrieves a user's recent health samples
// GET /api/v1/health/samples?user_id=...&days=7|30|90
func (h *SampleHandler) GetRecentSamples(c *gin.Context) {
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

	// Get recent samples
	samples, err := h.service.GetRecentSamples(c.Request.Context(), userID, days)
	if err != nil {
		h.logger.Error("failed to get recent samples",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get recent samples",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("recent samples retrieved",
		zap.String("user_id", userID),
		zap.Int("count", len(samples)),
	)

	c.JSON(http.StatusOK, samples)
}
