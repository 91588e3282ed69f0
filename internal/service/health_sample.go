package service

import (
	"context"
	"fmt"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HealthSampleRepositoryInterface defines the interface for health sample data access
type HealthSampleRepositoryInterface interface {
	Upsert(ctx context.Context, sample *model.HealthSample) error
	GetRecent(ctx context.Context, userID string, days int) ([]model.HealthSample, error)
}

// HealthSampleService handles daily health sample ingestion
type HealthSampleService struct {
	repo   HealthSampleRepositoryInterface
	logger *zap.Logger
}

// NewHealthSampleService creates a new HealthSampleService
func NewHealthSampleService(repo HealthSampleRepositoryInterface, logger *zap.Logger) *HealthSampleService {
	return &HealthSampleService{
		repo:   repo,
		logger: logger,
	}
}

// SyncSample ingests one day of synced health metrics. Syncing the same day
// twice merges the sample into the stored row instead of duplicating it.
func (s *HealthSampleService) SyncSample(ctx context.Context, userID string, sample *model.HealthSample) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}

	// Validate metric ranges
	if sample.HRV != nil && (*sample.HRV < 0 || *sample.HRV > 300) {
		return fmt.Errorf("invalid hrv value: must be between 0 and 300 ms")
	}
	if sample.RestingHR != nil && (*sample.RestingHR < 20 || *sample.RestingHR > 250) {
		return fmt.Errorf("invalid resting heart rate: must be between 20 and 250 bpm")
	}
	if sample.SleepHours != nil && (*sample.SleepHours < 0 || *sample.SleepHours > 24) {
		return fmt.Errorf("invalid sleep hours: must be between 0 and 24")
	}
	if sample.Steps != nil && *sample.Steps < 0 {
		return fmt.Errorf("invalid steps value: must not be negative")
	}
	if sample.BodyWeight != nil && (*sample.BodyWeight < 20 || *sample.BodyWeight > 400) {
		return fmt.Errorf("invalid body weight: must be between 20 and 400 kg")
	}
	if sample.VO2Max != nil && (*sample.VO2Max < 10 || *sample.VO2Max > 90) {
		return fmt.Errorf("invalid vo2 max: must be between 10 and 90")
	}

	// An all-empty sample is a client bug, not a sync
	if sample.HRV == nil && sample.RestingHR == nil && sample.SleepHours == nil &&
		sample.Steps == nil && sample.BodyWeight == nil && sample.VO2Max == nil {
		return fmt.Errorf("sample must contain at least one metric")
	}

	// Generate ID if not provided
	if sample.ID == "" {
		sample.ID = uuid.New().String()
	}

	// Set user ID
	sample.UserID = userID

	// Default the sample date to today
	if sample.SampleDate.IsZero() {
		sample.SampleDate = time.Now()
	}

	// Set timestamps
	now := time.Now()
	sample.CreatedAt = now
	sample.UpdatedAt = now

	if err := s.repo.Upsert(ctx, sample); err != nil {
		s.logger.Error("failed to sync health sample",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to sync health sample: %w", err)
	}

	s.logger.Info("health sample synced successfully",
		zap.String("sample_id", sample.ID),
		zap.String("user_id", userID),
		zap.Time("sample_date", sample.SampleDate),
	)

	return nil
}

// GetRecentSamples retrieves a user's samples with time range filtering
func (s *HealthSampleService) GetRecentSamples(ctx context.Context, userID string, days int) ([]model.HealthSample, error) {
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

	samples, err := s.repo.GetRecent(ctx, userID, days)
	if err != nil {
		s.logger.Error("failed to get recent samples",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get recent samples: %w", err)
	}

	s.logger.Info("recent samples retrieved successfully",
		zap.String("user_id", userID),
		zap.Int("count", len(samples)),
	)

	return samples, nil
}
