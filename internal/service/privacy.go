package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/burakkho/thrustr-backend/internal/audit"
	"github.com/burakkho/thrustr-backend/internal/security"
	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PrivacyService handles GDPR compliance operations
type PrivacyService struct {
	db          *pgxpool.Pool
	auditLogger *audit.Logger
	encryptor   *security.Encryptor
	logger      *zap.Logger
}

// NewPrivacyService creates a new privacy service. encryptor may be nil;
// exports are then returned as plain JSON.
func NewPrivacyService(db *pgxpool.Pool, auditLogger *audit.Logger, encryptor *security.Encryptor, logger *zap.Logger) *PrivacyService {
	return &PrivacyService{
		db:          db,
		auditLogger: auditLogger,
		encryptor:   encryptor,
		logger:      logger,
	}
}

// DeleteUserData deletes all user data (GDPR right to be forgotten)
func (s *PrivacyService) DeleteUserData(ctx context.Context, userID, ipAddress, userAgent string) error {
	s.logger.Info("Starting user data deletion (GDPR)",
		zap.String("user_id", userID),
	)

	// Start transaction
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Delete health samples
	_, err = tx.Exec(ctx, "DELETE FROM health_samples WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete health samples: %w", err)
	}

	// Delete workouts
	_, err = tx.Exec(ctx, "DELETE FROM workouts WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete workouts: %w", err)
	}

	// Delete reports
	_, err = tx.Exec(ctx, "DELETE FROM health_reports WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}

	// Mark user as deleted (soft delete to maintain referential integrity in audit logs)
	_, err = tx.Exec(ctx, "UPDATE users SET deleted_at = $1 WHERE id = $2", time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to mark user as deleted: %w", err)
	}

	// Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Log audit entry
	if err := s.auditLogger.LogDelete(ctx, userID, audit.ResourceUser, userID, ipAddress, userAgent); err != nil {
		s.logger.Error("Failed to log audit entry for user deletion", zap.Error(err))
	}

	s.logger.Info("User data deletion completed (GDPR)",
		zap.String("user_id", userID),
	)

	return nil
}

// ExportUserData exports all user data to JSON (GDPR right to data
// portability). When an export key is configured the payload is returned
// AES-256-GCM encrypted and the second return value is true.
func (s *PrivacyService) ExportUserData(ctx context.Context, userID, ipAddress, userAgent string) ([]byte, bool, error) {
	s.logger.Info("Starting user data export (GDPR)",
		zap.String("user_id", userID),
	)

	export := model.UserDataExport{
		UserID:     userID,
		ExportedAt: time.Now(),
	}

	// Get health samples
	sampleRows, err := s.db.Query(ctx, `
		SELECT id, user_id, sample_date, hrv_ms, resting_heart_rate, sleep_hours,
		       steps, body_weight_kg, vo2_max, created_at, updated_at
		FROM health_samples WHERE user_id = $1
		ORDER BY sample_date DESC
	`, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get health samples: %w", err)
	}
	defer sampleRows.Close()

	for sampleRows.Next() {
		var sample model.HealthSample
		err := sampleRows.Scan(
			&sample.ID, &sample.UserID, &sample.SampleDate, &sample.HRV,
			&sample.RestingHR, &sample.SleepHours, &sample.Steps,
			&sample.BodyWeight, &sample.VO2Max, &sample.CreatedAt, &sample.UpdatedAt,
		)
		if err != nil {
			s.logger.Error("Failed to scan health sample", zap.Error(err))
			continue
		}
		export.Samples = append(export.Samples, sample)
	}

	// Get workouts
	workoutRows, err := s.db.Query(ctx, `
		SELECT id, user_id, started_at, duration_minutes, calories, workout_type, created_at
		FROM workouts WHERE user_id = $1
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get workouts: %w", err)
	}
	defer workoutRows.Close()

	for workoutRows.Next() {
		var workout model.Workout
		err := workoutRows.Scan(
			&workout.ID, &workout.UserID, &workout.StartedAt,
			&workout.DurationMinutes, &workout.Calories, &workout.Type,
			&workout.CreatedAt,
		)
		if err != nil {
			s.logger.Error("Failed to scan workout", zap.Error(err))
			continue
		}
		export.Workouts = append(export.Workouts, workout)
	}

	// Get reports
	reportRows, err := s.db.Query(ctx, `
		SELECT id, user_id, overall_score, category, payload, narrative, pdf_path,
		       generated_at, created_at
		FROM health_reports WHERE user_id = $1
		ORDER BY generated_at DESC
	`, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get reports: %w", err)
	}
	defer reportRows.Close()

	for reportRows.Next() {
		var report model.StoredReport
		var payload []byte
		err := reportRows.Scan(
			&report.ID, &report.UserID, &report.OverallScore, &report.Category,
			&payload, &report.Narrative, &report.PDFPath,
			&report.GeneratedAt, &report.CreatedAt,
		)
		if err != nil {
			s.logger.Error("Failed to scan report", zap.Error(err))
			continue
		}
		if err := json.Unmarshal(payload, &report.Report); err != nil {
			s.logger.Error("Failed to unmarshal report payload", zap.Error(err))
			continue
		}
		export.Reports = append(export.Reports, report)
	}

	// Convert to JSON
	jsonData, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal export data: %w", err)
	}

	data := jsonData
	encrypted := false
	if s.encryptor != nil {
		ciphertext, err := s.encryptor.Encrypt(string(jsonData))
		if err != nil {
			return nil, false, fmt.Errorf("failed to encrypt export data: %w", err)
		}
		data = []byte(ciphertext)
		encrypted = true
	}

	// Log audit entry
	if err := s.auditLogger.LogExport(ctx, userID, encrypted, ipAddress, userAgent); err != nil {
		s.logger.Error("Failed to log audit entry for user export", zap.Error(err))
	}

	s.logger.Info("User data export completed (GDPR)",
		zap.String("user_id", userID),
		zap.Int("samples", len(export.Samples)),
		zap.Int("workouts", len(export.Workouts)),
		zap.Int("reports", len(export.Reports)),
		zap.Bool("encrypted", encrypted),
	)

	return data, encrypted, nil
}
