package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// WorkoutRepository manages completed workout sessions
type WorkoutRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewWorkoutRepository creates a new WorkoutRepository
func NewWorkoutRepository(db *pgxpool.Pool, logger *zap.Logger) *WorkoutRepository {
	return &WorkoutRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a completed workout session
func (r *WorkoutRepository) Create(ctx context.Context, workout *model.Workout) error {
	query := `
		INSERT INTO workouts (
			id, user_id, started_at,
			duration_minutes, calories, workout_type,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		workout.ID,
		workout.UserID,
		workout.StartedAt,
		workout.DurationMinutes,
		workout.Calories,
		workout.Type,
	)

	if err != nil {
		r.logger.Error("failed to save workout",
			zap.Error(err),
			zap.String("user_id", workout.UserID),
		)
		return fmt.Errorf("failed to save workout: %w", err)
	}

	return nil
}

// GetRecent retrieves workouts for a user over the last N days, newest first
func (r *WorkoutRepository) GetRecent(ctx context.Context, userID string, days int) ([]model.Workout, error) {
	startDate := time.Now().AddDate(0, 0, -days)

	query := `
		SELECT
			id, user_id, started_at,
			duration_minutes, calories, workout_type,
			created_at
		FROM workouts
		WHERE user_id = $1 AND started_at >= $2
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, startDate)
	if err != nil {
		r.logger.Error("failed to get workouts", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get workouts: %w", err)
	}
	defer rows.Close()

	var workouts []model.Workout
	for rows.Next() {
		var workout model.Workout
		err := rows.Scan(
			&workout.ID,
			&workout.UserID,
			&workout.StartedAt,
			&workout.DurationMinutes,
			&workout.Calories,
			&workout.Type,
			&workout.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan workout", zap.Error(err))
			continue
		}
		workouts = append(workouts, workout)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating workouts", zap.Error(err))
		return nil, fmt.Errorf("error iterating workouts: %w", err)
	}

	return workouts, nil
}

// GetWeeklyActivity buckets a user's workouts into the last N calendar weeks,
// oldest week first. Weeks without workouts come back zero-filled so trend
// analysis sees gaps in training.
func (r *WorkoutRepository) GetWeeklyActivity(ctx context.Context, userID string, weeks int) ([]model.WeeklyActivity, error) {
	query := `
		WITH weeks AS (
			SELECT generate_series(
				date_trunc('week', NOW()) - make_interval(weeks => $2 - 1),
				date_trunc('week', NOW()),
				'1 week'
			) AS week_start
		)
		SELECT
			weeks.week_start,
			COUNT(w.id) AS workout_count,
			COALESCE(SUM(w.duration_minutes), 0) AS total_duration,
			COALESCE(SUM(w.calories), 0) AS total_calories
		FROM weeks
		LEFT JOIN workouts w
			ON w.user_id = $1
			AND date_trunc('week', w.started_at) = weeks.week_start
		GROUP BY weeks.week_start
		ORDER BY weeks.week_start ASC
	`

	rows, err := r.db.Query(ctx, query, userID, weeks)
	if err != nil {
		r.logger.Error("failed to get weekly activity", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get weekly activity: %w", err)
	}
	defer rows.Close()

	var activity []model.WeeklyActivity
	for rows.Next() {
		var week model.WeeklyActivity
		err := rows.Scan(
			&week.WeekStart,
			&week.WorkoutCount,
			&week.TotalDuration,
			&week.TotalCalories,
		)
		if err != nil {
			r.logger.Error("failed to scan weekly activity", zap.Error(err))
			continue
		}
		activity = append(activity, week)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating weekly activity", zap.Error(err))
		return nil, fmt.Errorf("error iterating weekly activity: %w", err)
	}

	return activity, nil
}

// CountByUserID returns the lifetime workout count for a user
func (r *WorkoutRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM workouts WHERE user_id = $1`

	var count int
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.logger.Error("failed to count workouts",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return 0, fmt.Errorf("failed to count workouts: %w", err)
	}

	return count, nil
}
