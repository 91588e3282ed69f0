package handler

import (
	"fmt"
	"net/http"

	"github.com/burakkho/thrustr-backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PrivacyHandler implements GDPR compliance endpoints
type PrivacyHandler struct {
	service *service.PrivacyService
	logger  *zap.Logger
}

// NewPrivacyHandler creates a new PrivacyHandler
func NewPrivacyHandler(service *service.PrivacyService, logger *zap.Logger) *PrivacyHandler {
	return &PrivacyHandler{
		service: service,
		logger:  logger,
	}
}

// DeleteUserData handles user data deletion requests (GDPR right to be forgotten)
// DELETE /api/v1/privacy/data?user_id=...
func (h *PrivacyHandler) DeleteUserData(c *gin.Context) {
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

	ipAddress := c.ClientIP()
	userAgent := c.Request.UserAgent()

	h.logger.Info("processing user data deletion request (GDPR)",
		zap.String("user_id", userID),
		zap.String("ip", ipAddress),
	)

	// Delete user data
	if err := h.service.DeleteUserData(c.Request.Context(), userID, ipAddress, userAgent); err != nil {
		h.logger.Error("failed to delete user data",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to delete user data",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("user data deleted successfully (GDPR)",
		zap.String("user_id", userID),
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "User data deleted successfully",
		"user_id": userID,
	})
}

// ExportUserData handles user data export requests (GDPR right to data portability)
// GET /api/v1/privacy/export?user_id=...
func (h *PrivacyHandler) ExportUserData(c *gin.Context) {
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

	ipAddress := c.ClientIP()
	userAgent := c.Request.UserAgent()

	h.logger.Info("processing user data export request (GDPR)",
		zap.String("user_id", userID),
	)

	// Export user data
	exportData, encrypted, err := h.service.ExportUserData(c.Request.Context(), userID, ipAddress, userAgent)
	if err != nil {
		h.logger.Error("failed to export user data",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to export user data",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("user data exported successfully (GDPR)",
		zap.String("user_id", userID),
		zap.Int("data_size_bytes", len(exportData)),
		zap.Bool("encrypted", encrypted),
	)

	// Return the export as a download. Encrypted exports are opaque blobs.
	if encrypted {
		filename := fmt.Sprintf("user_data_%s.json.enc", userID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "application/octet-stream", exportData)
		return
	}

	filename := fmt.Sprintf("user_data_%s.json", userID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/json", exportData)
}
