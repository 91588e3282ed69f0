package service

import (
	"context"
	"fmt"
	"time"

	"github.com/burakkho/thrustr-backend/internal/azure"
	"github.com/burakkho/thrustr-backend/internal/intelligence"
	"github.com/burakkho/thrustr-backend/internal/pdf"
	"github.com/burakkho/thrustr-backend/internal/repository"
	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lookback windows for report inputs. Recovery metrics use the freshest
// recent value, the activity series cover a month, trends cover a quarter.
const (
	metricsLookbackDays = 14
	seriesLookbackDays  = 30
	trendsLookbackWeeks = 12
	defaultReportLimit  = 20
)

// ReportSampleReader provides the sample-derived inputs for report generation
type ReportSampleReader interface {
	GetLatestMetrics(ctx context.Context, userID string, days int) (*repository.LatestMetrics, error)
	GetStepSeries(ctx context.Context, userID string, days int) ([]model.StepCount, error)
	GetWeightSeries(ctx context.Context, userID string, days int) ([]model.BodyWeight, error)
}

// ReportTrendsProvider supplies assembled workout trends
type ReportTrendsProvider interface {
	GetTrends(ctx context.Context, userID string, weeks int) (*model.WorkoutTrends, error)
}

// ReportRepositoryInterface defines the interface for report persistence
type ReportRepositoryInterface interface {
	Save(ctx context.Context, report *model.StoredReport) error
	GetByID(ctx context.Context, reportID string) (*model.StoredReport, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]model.StoredReport, error)
}

// NarrativeGenerator produces an optional AI summary for a computed report
type NarrativeGenerator interface {
	GenerateNarrative(ctx context.Context, report *model.HealthReport) (string, error)
}

// ReportService orchestrates health report generation
type ReportService struct {
	samples    ReportSampleReader
	trends     ReportTrendsProvider
	reports    ReportRepositoryInterface
	narrative  NarrativeGenerator
	blobClient azure.BlobStorage
	pdfGen     *pdf.PDFGenerator
	logger     *zap.Logger
}

// NewReportService creates a new ReportService. narrative may be nil when no
// AI backend is configured; reports then ship without a narrative.
func NewReportService(
	samples ReportSampleReader,
	trends ReportTrendsProvider,
	reports ReportRepositoryInterface,
	narrative NarrativeGenerator,
	blobClient azure.BlobStorage,
	pdfGen *pdf.PDFGenerator,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		samples:    samples,
		trends:     trends,
		reports:    reports,
		narrative:  narrative,
		blobClient: blobClient,
		pdfGen:     pdfGen,
		logger:     logger,
	}
}

// GenerateReport materializes the report inputs, runs the scoring engine and
// persists the result. The narrative and the archived PDF are best effort:
// when either fails the report still ships, just without that field.
func (s *ReportService) GenerateReport(ctx context.Context, userID string) (*model.StoredReport, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	s.logger.Info("generating health report",
		zap.String("user_id", userID),
	)

	// Generate report ID
	reportID := uuid.New().String()

	// Fetch all required inputs
	metrics, err := s.samples.GetLatestMetrics(ctx, userID, metricsLookbackDays)
	if err != nil {
		s.logger.Error("failed to get latest metrics for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get latest metrics: %w", err)
	}

	trends, err := s.trends.GetTrends(ctx, userID, trendsLookbackWeeks)
	if err != nil {
		s.logger.Error("failed to get workout trends for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get workout trends: %w", err)
	}

	steps, err := s.samples.GetStepSeries(ctx, userID, seriesLookbackDays)
	if err != nil {
		s.logger.Error("failed to get step series for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get step series: %w", err)
	}

	weights, err := s.samples.GetWeightSeries(ctx, userID, seriesLookbackDays)
	if err != nil {
		s.logger.Error("failed to get weight series for report",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get weight series: %w", err)
	}

	inputs := intelligence.ReportInputs{
		HRV:              metrics.HRV,
		RestingHeartRate: metrics.RestingHeartRate,
		VO2Max:           metrics.VO2Max,
		Trends:           *trends,
		Steps:            steps,
		Weights:          weights,
	}
	if metrics.SleepHours != nil {
		inputs.SleepHours = *metrics.SleepHours
	}

	// Run the scoring engine
	generatedAt := time.Now()
	report := intelligence.GenerateReport(inputs, generatedAt)

	stored := &model.StoredReport{
		ID:           reportID,
		UserID:       userID,
		OverallScore: report.Recovery.OverallScore,
		Category:     report.Recovery.Category,
		Report:       report,
		GeneratedAt:  generatedAt,
	}

	// Attach the AI narrative when a backend is configured
	if s.narrative != nil {
		narrative, err := s.narrative.GenerateNarrative(ctx, &report)
		if err != nil {
			s.logger.Warn("narrative generation failed, continuing without it",
				zap.Error(err),
				zap.String("report_id", reportID),
			)
		} else {
			stored.Narrative = &narrative
		}
	}

	// Render and archive the PDF
	pdfBytes, err := s.pdfGen.Generate(&pdf.ReportData{
		UserID:    userID,
		Report:    &report,
		Narrative: stored.Narrative,
	})
	if err != nil {
		s.logger.Warn("PDF generation failed, continuing without it",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
	} else {
		filename := fmt.Sprintf("%s/%s.pdf", userID, reportID)
		blobPath, err := s.blobClient.UploadPDF(ctx, filename, pdfBytes)
		if err != nil {
			s.logger.Warn("PDF upload failed, continuing without it",
				zap.Error(err),
				zap.String("report_id", reportID),
			)
		} else {
			stored.PDFPath = &blobPath
		}
	}

	if err := s.reports.Save(ctx, stored); err != nil {
		s.logger.Error("failed to save report record",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to save report record: %w", err)
	}

	s.logger.Info("health report generated successfully",
		zap.String("report_id", reportID),
		zap.String("user_id", userID),
		zap.Float64("overall_score", stored.OverallScore),
		zap.String("category", string(stored.Category)),
	)

	return stored, nil
}

// GetReport retrieves a stored report by ID
func (s *ReportService) GetReport(ctx context.Context, reportID string) (*model.StoredReport, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		s.logger.Error("failed to get report record",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to get report record: %w", err)
	}

	return report, nil
}

// GetReportPDF retrieves the archived PDF of a report for download
func (s *ReportService) GetReportPDF(ctx context.Context, reportID string) ([]byte, error) {
	s.logger.Info("retrieving report PDF",
		zap.String("report_id", reportID),
	)

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		s.logger.Error("failed to get report record",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to get report record: %w", err)
	}

	if report.PDFPath == nil {
		return nil, fmt.Errorf("report has no archived PDF: %s", reportID)
	}

	pdfBytes, err := s.blobClient.DownloadPDF(ctx, *report.PDFPath)
	if err != nil {
		s.logger.Error("failed to download PDF from blob storage",
			zap.Error(err),
			zap.String("report_id", reportID),
			zap.String("blob_path", *report.PDFPath),
		)
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}

	s.logger.Info("report PDF retrieved successfully",
		zap.String("report_id", reportID),
		zap.Int("size_bytes", len(pdfBytes)),
	)

	return pdfBytes, nil
}

// ListReports retrieves a user's stored reports, newest first
func (s *ReportService) ListReports(ctx context.Context, userID string, limit int) ([]model.StoredReport, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	// Validate limit parameter
	if limit <= 0 || limit > 100 {
		s.logger.Warn("invalid limit parameter, defaulting to 20",
			zap.Int("limit", limit),
		)
		limit = defaultReportLimit
	}

	reports, err := s.reports.ListByUserID(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to list reports",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	s.logger.Info("reports retrieved successfully",
		zap.String("user_id", userID),
		zap.Int("count", len(reports)),
	)

	return reports, nil
}
