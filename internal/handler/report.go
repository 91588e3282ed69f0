package handler

import (
	"fmt"
	"net/http"

	"github.com/burakkho/thrustr-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportHandler implements the health report API endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateReportRequest is the body of a report generation request
type GenerateReportRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// GenerateReport runs the scoring engine over the user's recent data and
// persists the resulting report
// POST /api/v1/reports/generate
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
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

	// Generate the report (this could be done asynchronously in production)
	report, err := h.service.GenerateReport(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to generate report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to generate report",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("report generated",
		zap.String("report_id", report.ID),
		zap.String("user_id", userID),
		zap.Float64("overall_score", report.OverallScore),
	)

	c.JSON(http.StatusOK, report)
}

// GetReport fetches a stored report
// GET /api/v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.logger.Error("invalid report ID", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid report ID",
			Details: stringPtr(err.Error()),
		})
		return
	}

	report, err := h.service.GetReport(c.Request.Context(), reportID.String())
	if err != nil {
		h.logger.Error("failed to get report",
			zap.Error(err),
			zap.String("report_id", reportID.String()),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Report not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// DownloadReportPDF downloads the archived PDF rendering of a report
// GET /api/v1/reports/:id/pdf
func (h *ReportHandler) DownloadReportPDF(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.logger.Error("invalid report ID", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid report ID",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("downloading report PDF",
		zap.String("report_id", reportID.String()),
	)

	pdfBytes, err := h.service.GetReportPDF(c.Request.Context(), reportID.String())
	if err != nil {
		h.logger.Error("failed to get report PDF",
			zap.Error(err),
			zap.String("report_id", reportID.String()),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Report PDF not found",
			Details: stringPtr(err.Error()),
		})
		return
	}

	// Return PDF
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=health_report_%s.pdf", reportID.String()))
	c.Header("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)

	h.logger.Info("report PDF downloaded",
		zap.String("report_id", reportID.String()),
		zap.Int("size_bytes", len(pdfBytes)),
	)
}

// ListReports lists a user's most recent reports
// GET /api/v1/reports?user_id=...&limit=N
func (h *ReportHandler) ListReports(c *gin.Context) {
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

	limit, err := intQuery(c, "limit", 20)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid limit parameter",
			Details: stringPtr(err.Error()),
		})
		return
	}

	reports, err := h.service.ListReports(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to list reports",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list reports",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("reports listed",
		zap.String("user_id", userID),
		zap.Int("count", len(reports)),
	)

	c.JSON(http.StatusOK, reports)
}
