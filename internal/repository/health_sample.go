package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// VO2Max is re-estimated rarely by the platform health store, so it is
// looked up over a wider window than the daily metrics.
const vo2MaxLookbackDays = 90

// HealthSampleRepository manages daily synced health samples
type HealthSampleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewHealthSampleRepository creates a new HealthSampleRepository
func NewHealthSampleRepository(db *pgxpool.Pool, logger *zap.Logger) *HealthSampleRepository {
	return &HealthSampleRepository{
		db:     db,
		logger: logger,
	}
}

// LatestMetrics holds the most recent non-null value of each physiological
// metric within the lookback window
type LatestMetrics struct {
	HRV              *float64
	RestingHeartRate *float64
	SleepHours       *float64
	VO2Max           *float64
}

// Upsert inserts a sample or merges it into the existing row for the same
// user and day. Metrics absent from the incoming sample keep their stored
// value, so partial syncs never erase data.
func (r *HealthSampleRepository) Upsert(ctx context.Context, sample *model.HealthSample) error {
	query := `
		INSERT INTO health_samples (
			id, user_id, sample_date,
			hrv_ms, resting_heart_rate, sleep_hours,
			steps, body_weight_kg, vo2_max,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (user_id, sample_date) DO UPDATE SET
			hrv_ms = COALESCE(EXCLUDED.hrv_ms, health_samples.hrv_ms),
			resting_heart_rate = COALESCE(EXCLUDED.resting_heart_rate, health_samples.resting_heart_rate),
			sleep_hours = COALESCE(EXCLUDED.sleep_hours, health_samples.sleep_hours),
			steps = COALESCE(EXCLUDED.steps, health_samples.steps),
			body_weight_kg = COALESCE(EXCLUDED.body_weight_kg, health_samples.body_weight_kg),
			vo2_max = COALESCE(EXCLUDED.vo2_max, health_samples.vo2_max),
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		sample.ID,
		sample.UserID,
		sample.SampleDate,
		sample.HRV,
		sample.RestingHR,
		sample.SleepHours,
		sample.Steps,
		sample.BodyWeight,
		sample.VO2Max,
	)

	if err != nil {
		r.logger.Error("failed to upsert health sample",
			zap.Error(err),
			zap.String("user_id", sample.UserID),
		)
		return fmt.Errorf("failed to upsert health sample: %w", err)
	}

	return nil
}

// GetRecent retrieves samples for a user over the last N days, newest first
func (r *HealthSampleRepository) GetRecent(ctx context.Context, userID string, days int) ([]model.HealthSample, error) {
	startDate := time.Now().AddDate(0, 0, -days)

	query := `
		SELECT
			id, user_id, sample_date,
			hrv_ms, resting_heart_rate, sleep_hours,
			steps, body_weight_kg, vo2_max,
			created_at, updated_at
		FROM health_samples
		WHERE user_id = $1 AND sample_date >= $2
		ORDER BY sample_date DESC
	`

	rows, err := r.db.Query(ctx, query, userID, startDate)
	if err != nil {
		r.logger.Error("failed to get health samples", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get health samples: %w", err)
	}
	defer rows.Close()

	var samples []model.HealthSample
	for rows.Next() {
		var sample model.HealthSample
		err := rows.Scan(
			&sample.ID,
			&sample.UserID,
			&sample.SampleDate,
			&sample.HRV,
			&sample.RestingHR,
			&sample.SleepHours,
			&sample.Steps,
			&sample.BodyWeight,
			&sample.VO2Max,
			&sample.CreatedAt,
			&sample.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan health sample", zap.Error(err))
			continue
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating health samples", zap.Error(err))
		return nil, fmt.Errorf("error iterating health samples: %w", err)
	}

	return samples, nil
}

// GetLatestMetrics retrieves the most recent non-null value of each scoring
// metric for a user. Metrics with no value in the window come back nil.
func (r *HealthSampleRepository) GetLatestMetrics(ctx context.Context, userID string, days int) (*LatestMetrics, error) {
	query := `
		SELECT
			(SELECT hrv_ms FROM health_samples
			 WHERE user_id = $1 AND hrv_ms IS NOT NULL
			   AND sample_date >= NOW() - make_interval(days => $2)
			 ORDER BY sample_date DESC LIMIT 1) AS hrv_ms,
			(SELECT resting_heart_rate FROM health_samples
			 WHERE user_id = $1 AND resting_heart_rate IS NOT NULL
			   AND sample_date >= NOW() - make_interval(days => $2)
			 ORDER BY sample_date DESC LIMIT 1) AS resting_heart_rate,
			(SELECT sleep_hours FROM health_samples
			 WHERE user_id = $1 AND sleep_hours IS NOT NULL
			   AND sample_date >= NOW() - make_interval(days => $2)
			 ORDER BY sample_date DESC LIMIT 1) AS sleep_hours,
			(SELECT vo2_max FROM health_samples
			 WHERE user_id = $1 AND vo2_max IS NOT NULL
			   AND sample_date >= NOW() - make_interval(days => $3)
			 ORDER BY sample_date DESC LIMIT 1) AS vo2_max
	`

	var metrics LatestMetrics
	err := r.db.QueryRow(ctx, query, userID, days, vo2MaxLookbackDays).Scan(
		&metrics.HRV,
		&metrics.RestingHeartRate,
		&metrics.SleepHours,
		&metrics.VO2Max,
	)
	if err != nil {
		r.logger.Error("failed to get latest metrics",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get latest metrics: %w", err)
	}

	return &metrics, nil
}

// GetStepSeries retrieves daily step counts over the last N days, oldest first
func (r *HealthSampleRepository) GetStepSeries(ctx context.Context, userID string, days int) ([]model.StepCount, error) {
	startDate := time.Now().AddDate(0, 0, -days)

	query := `
		SELECT sample_date, steps
		FROM health_samples
		WHERE user_id = $1 AND sample_date >= $2 AND steps IS NOT NULL
		ORDER BY sample_date ASC
	`

	rows, err := r.db.Query(ctx, query, userID, startDate)
	if err != nil {
		r.logger.Error("failed to get step series", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get step series: %w", err)
	}
	defer rows.Close()

	var series []model.StepCount
	for rows.Next() {
		var point model.StepCount
		if err := rows.Scan(&point.Date, &point.Steps); err != nil {
			r.logger.Error("failed to scan step count", zap.Error(err))
			continue
		}
		series = append(series, point)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating step series", zap.Error(err))
		return nil, fmt.Errorf("error iterating step series: %w", err)
	}

	return series, nil
}

// GetWeightSeries retrieves body-weight measurements over the last N days,
// oldest first
func (r *HealthSampleRepository) GetWeightSeries(ctx context.Context, userID string, days int) ([]model.BodyWeight, error) {
	startDate := time.Now().AddDate(0, 0, -days)

	query := `
		SELECT sample_date, body_weight_kg
		FROM health_samples
		WHERE user_id = $1 AND sample_date >= $2 AND body_weight_kg IS NOT NULL
		ORDER BY sample_date ASC
	`

	rows, err := r.db.Query(ctx, query, userID, startDate)
	if err != nil {
		r.logger.Error("failed to get weight series", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get weight series: %w", err)
	}
	defer rows.Close()

	var series []model.BodyWeight
	for rows.Next() {
		var point model.BodyWeight
		if err := rows.Scan(&point.Date, &point.Weight); err != nil {
			r.logger.Error("failed to scan body weight", zap.Error(err))
			continue
		}
		series = append(series, point)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating weight series", zap.Error(err))
		return nil, fmt.Errorf("error iterating weight series: %w", err)
	}

	return series, nil
}
