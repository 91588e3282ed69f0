package service

import (
	"context"
	"fmt"
	"time"

	"github.com/burakkho/thrustr-backend/internal/intelligence"
	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkoutRepositoryInterface defines the interface for workout data access
type WorkoutRepositoryInterface interface {
	Create(ctx context.Context, workout *model.Workout) error
	GetRecent(ctx context.Context, userID string, days int) ([]model.Workout, error)
	GetWeeklyActivity(ctx context.Context, userID string, weeks int) ([]model.WeeklyActivity, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// WorkoutService handles workout ingestion and trend assembly
type WorkoutService struct {
	repo   WorkoutRepositoryInterface
	logger *zap.Logger
}

// NewWorkoutService creates a new WorkoutService
func NewWorkoutService(repo WorkoutRepositoryInterface, logger *zap.Logger) *WorkoutService {
	return &WorkoutService{
		repo:   repo,
		logger: logger,
	}
}

// LogWorkout records a completed training session
func (s *WorkoutService) LogWorkout(ctx context.Context, userID string, workout *model.Workout) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}

	// Validate workout values
	if workout.DurationMinutes <= 0 || workout.DurationMinutes > 1440 {
		return fmt.Errorf("invalid duration: must be between 0 and 1440 minutes")
	}
	if workout.Calories < 0 {
		return fmt.Errorf("invalid calories: must not be negative")
	}

	// Normalize workout type
	validTypes := map[string]bool{
		"strength": true,
		"cardio":   true,
		"wod":      true,
		"mobility": true,
		"other":    true,
	}
	if !validTypes[workout.Type] {
		s.logger.Warn("unknown workout type, defaulting to other",
			zap.String("workout_type", workout.Type),
		)
		workout.Type = "other"
	}

	// Generate ID if not provided
	if workout.ID == "" {
		workout.ID = uuid.New().String()
	}

	// Set user ID
	workout.UserID = userID

	// Default the start time to now
	if workout.StartedAt.IsZero() {
		workout.StartedAt = time.Now()
	}

	// Set timestamp
	workout.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, workout); err != nil {
		s.logger.Error("failed to log workout",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to log workout: %w", err)
	}

	s.logger.Info("workout logged successfully",
		zap.String("workout_id", workout.ID),
		zap.String("user_id", userID),
		zap.String("workout_type", workout.Type),
		zap.Float64("duration_minutes", workout.DurationMinutes),
	)

	return nil
}

// GetRecentWorkouts retrieves a user's workouts with time range filtering
func (s *WorkoutService) GetRecentWorkouts(ctx context.Context, userID string, days int) ([]model.Workout, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	// Validate days parameter
	if days != 7 && days != 30 && days != 90 {
		s.logger.Warn("invalid days parameter, defaulting to 7",
			zap.Int("days", days),
		)
		days = 7
	}

	workouts, err := s.repo.GetRecent(ctx, userID, days)
	if err != nil {
		s.logger.Error("failed to get recent workouts",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get recent workouts: %w", err)
	}

	s.logger.Info("recent workouts retrieved successfully",
		zap.String("user_id", userID),
		zap.Int("count", len(workouts)),
	)

	return workouts, nil
}

// GetTrends assembles the training trend summary the scoring engine consumes
func (s *WorkoutService) GetTrends(ctx context.Context, userID string, weeks int) (*model.WorkoutTrends, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	// Validate weeks parameter
	if weeks < 4 || weeks > 26 {
		s.logger.Warn("invalid weeks parameter, defaulting to 12",
			zap.Int("weeks", weeks),
		)
		weeks = 12
	}

	history, err := s.repo.GetWeeklyActivity(ctx, userID, weeks)
	if err != nil {
		s.logger.Error("failed to get weekly activity",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get weekly activity: %w", err)
	}

	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count workouts",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to count workouts: %w", err)
	}

	trends := buildTrends(history, total)

	s.logger.Info("workout trends assembled successfully",
		zap.String("user_id", userID),
		zap.Int("weekly_workouts", trends.WeeklyWorkouts),
		zap.Int("total_workouts", trends.TotalWorkouts),
		zap.String("direction", string(trends.Direction)),
	)

	return trends, nil
}

// buildTrends derives the trend summary from ascending weekly buckets. The
// newest bucket is the in-progress week and is dropped, so a quiet Monday
// does not read as a training decline.
func buildTrends(history []model.WeeklyActivity, totalWorkouts int) *model.WorkoutTrends {
	completed := history
	if len(completed) > 0 {
		completed = completed[:len(completed)-1]
	}

	weekly := 0
	if len(completed) > 0 {
		weekly = completed[len(completed)-1].WorkoutCount
	}

	countSum := 0
	durationSum := 0.0
	for _, week := range completed {
		countSum += week.WorkoutCount
		durationSum += week.TotalDuration
	}
	avgDuration := 0.0
	if countSum > 0 {
		avgDuration = durationSum / float64(countSum)
	}

	return &model.WorkoutTrends{
		WeeklyWorkouts: weekly,
		AvgDuration:    avgDuration,
		TotalWorkouts:  totalWorkouts,
		WeeklyHistory:  completed,
		Direction:      intelligence.DeriveTrendDirection(completed),
	}
}
