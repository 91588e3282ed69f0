package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ReportRepository manages generated health reports
type ReportRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// Save persists a generated report. The full report document is stored as
// JSONB so the scoring breakdown survives schema changes.
func (r *ReportRepository) Save(ctx context.Context, report *model.StoredReport) error {
	payload, err := json.Marshal(report.Report)
	if err != nil {
		r.logger.Error("failed to marshal report payload",
			zap.Error(err),
			zap.String("report_id", report.ID),
		)
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	query := `
		INSERT INTO health_reports (
			id, user_id, overall_score, category,
			payload, narrative, pdf_path,
			generated_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err = r.db.Exec(ctx, query,
		report.ID,
		report.UserID,
		report.OverallScore,
		report.Category,
		payload,
		report.Narrative,
		report.PDFPath,
		report.GeneratedAt,
	)

	if err != nil {
		r.logger.Error("failed to save report",
			zap.Error(err),
			zap.String("report_id", report.ID),
			zap.String("user_id", report.UserID),
		)
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetByID retrieves a stored report by its ID
func (r *ReportRepository) GetByID(ctx context.Context, reportID string) (*model.StoredReport, error) {
	query := `
		SELECT
			id, user_id, overall_score, category,
			payload, narrative, pdf_path,
			generated_at, created_at
		FROM health_reports
		WHERE id = $1
	`

	var report model.StoredReport
	var payload []byte
	err := r.db.QueryRow(ctx, query, reportID).Scan(
		&report.ID,
		&report.UserID,
		&report.OverallScore,
		&report.Category,
		&payload,
		&report.Narrative,
		&report.PDFPath,
		&report.GeneratedAt,
		&report.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to get report",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := json.Unmarshal(payload, &report.Report); err != nil {
		r.logger.Error("failed to unmarshal report payload",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to unmarshal report payload: %w", err)
	}

	return &report, nil
}

// ListByUserID retrieves a user's stored reports, newest first
func (r *ReportRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]model.StoredReport, error) {
	query := `
		SELECT
			id, user_id, overall_score, category,
			payload, narrative, pdf_path,
			generated_at, created_at
		FROM health_reports
		WHERE user_id = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("failed to list reports", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []model.StoredReport
	for rows.Next() {
		var report model.StoredReport
		var payload []byte
		err := rows.Scan(
			&report.ID,
			&report.UserID,
			&report.OverallScore,
			&report.Category,
			&payload,
			&report.Narrative,
			&report.PDFPath,
			&report.GeneratedAt,
			&report.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan report", zap.Error(err))
			continue
		}
		if err := json.Unmarshal(payload, &report.Report); err != nil {
			r.logger.Error("failed to unmarshal report payload", zap.Error(err), zap.String("report_id", report.ID))
			continue
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating reports", zap.Error(err))
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}
