package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockHealthSampleRepository is a mock implementation of HealthSampleRepositoryInterface
type MockHealthSampleRepository struct {
	mock.Mock
}

func (m *MockHealthSampleRepository) Upsert(ctx context.Context, sample *model.HealthSample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

func (m *MockHealthSampleRepository) GetRecent(ctx context.Context, userID string, days int) ([]model.HealthSample, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HealthSample), args.Error(1)
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func TestHealthSampleService_SyncSample_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockHealthSampleRepository)
	logger := zap.NewNop()
	service := NewHealthSampleService(mockRepo, logger)

	ctx := context.Background()
	userID := "user-123"
	sample := &model.HealthSample{
		HRV:        floatPtr(65),
		SleepHours: floatPtr(7.5),
		Steps:      intPtr(8200),
	}

	mockRepo.On("Upsert", ctx, sample).Return(nil)

	// Act
	err := service.SyncSample(ctx, userID, sample)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, sample.ID, "ID should be generated")
	assert.Equal(t, userID, sample.UserID)
	assert.False(t, sample.SampleDate.IsZero(), "sample date should default to today")
	assert.False(t, sample.CreatedAt.IsZero())
	assert.False(t, sample.UpdatedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestHealthSampleService_SyncSample_KeepsProvidedIDAndDate(t *testing.T) {
	// Arrange
	mockRepo := new(MockHealthSampleRepository)
	logger := zap.NewNop()
	service := NewHealthSampleService(mockRepo, logger)

	ctx := context.Background()
	sampleDate := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	sample := &model.HealthSample{
		ID:         "sample-1",
		SampleDate: sampleDate,
		HRV:        floatPtr(58),
	}

	mockRepo.On("Upsert", ctx, sample).Return(nil)

	// Act
	err := service.SyncSample(ctx, "user-123", sample)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "sample-1", sample.ID)
	assert.Equal(t, sampleDate, sample.SampleDate)
	mockRepo.AssertExpectations(t)
}

func TestHealthSampleService_SyncSample_MissingUserID(t *testing.T) {
	service := &HealthSampleService{}

	ctx := context.Background()
	sample := &model.HealthSample{
		HRV: floatPtr(65),
	}

	err := service.SyncSample(ctx, "", sample)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "user ID is required")
}

func TestHealthSampleService_SyncSample_ValidationErrors(t *testing.T) {
	service := &HealthSampleService{}

	ctx := context.Background()
	userID := "user-123"

	tests := []struct {
		name        string
		sample      *model.HealthSample
		expectedErr string
	}{
		{
			name:        "hrv negative",
			sample:      &model.HealthSample{HRV: floatPtr(-1)},
			expectedErr: "invalid hrv value",
		},
		{
			name:        "hrv too high",
			sample:      &model.HealthSample{HRV: floatPtr(301)},
			expectedErr: "invalid hrv value",
		},
		{
			name:        "resting heart rate too low",
			sample:      &model.HealthSample{RestingHR: floatPtr(19)},
			expectedErr: "invalid resting heart rate",
		},
		{
			name:        "resting heart rate too high",
			sample:      &model.HealthSample{RestingHR: floatPtr(251)},
			expectedErr: "invalid resting heart rate",
		},
		{
			name:        "sleep hours negative",
			sample:      &model.HealthSample{SleepHours: floatPtr(-0.5)},
			expectedErr: "invalid sleep hours",
		},
		{
			name:        "sleep hours too high",
			sample:      &model.HealthSample{SleepHours: floatPtr(24.5)},
			expectedErr: "invalid sleep hours",
		},
		{
			name:        "steps negative",
			sample:      &model.HealthSample{Steps: intPtr(-100)},
			expectedErr: "invalid steps value",
		},
		{
			name:        "body weight too low",
			sample:      &model.HealthSample{BodyWeight: floatPtr(19)},
			expectedErr: "invalid body weight",
		},
		{
			name:        "body weight too high",
			sample:      &model.HealthSample{BodyWeight: floatPtr(401)},
			expectedErr: "invalid body weight",
		},
		{
			name:        "vo2 max too low",
			sample:      &model.HealthSample{VO2Max: floatPtr(9)},
			expectedErr: "invalid vo2 max",
		},
		{
			name:        "vo2 max too high",
			sample:      &model.HealthSample{VO2Max: floatPtr(91)},
			expectedErr: "invalid vo2 max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.SyncSample(ctx, userID, tt.sample)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestHealthSampleService_SyncSample_EmptySample(t *testing.T) {
	service := &HealthSampleService{}

	ctx := context.Background()
	sample := &model.HealthSample{}

	err := service.SyncSample(ctx, "user-123", sample)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least one metric")
}

func TestHealthSampleService_SyncSample_BoundaryValues(t *testing.T) {
	tests := []struct {
		name   string
		sample *model.HealthSample
	}{
		{
			name:   "hrv at lower bound",
			sample: &model.HealthSample{HRV: floatPtr(0)},
		},
		{
			name:   "hrv at upper bound",
			sample: &model.HealthSample{HRV: floatPtr(300)},
		},
		{
			name:   "sleep at upper bound",
			sample: &model.HealthSample{SleepHours: floatPtr(24)},
		},
		{
			name:   "zero steps",
			sample: &model.HealthSample{Steps: intPtr(0)},
		},
		{
			name:   "resting heart rate at lower bound",
			sample: &model.HealthSample{RestingHR: floatPtr(20)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockHealthSampleRepository)
			service := NewHealthSampleService(mockRepo, zap.NewNop())
			ctx := context.Background()

			mockRepo.On("Upsert", ctx, tt.sample).Return(nil)

			err := service.SyncSample(ctx, "user-123", tt.sample)

			assert.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestHealthSampleService_SyncSample_RepositoryError(t *testing.T) {
	// Arrange
	mockRepo := new(MockHealthSampleRepository)
	logger := zap.NewNop()
	service := NewHealthSampleService(mockRepo, logger)

	ctx := context.Background()
	sample := &model.HealthSample{
		HRV: floatPtr(65),
	}

	mockRepo.On("Upsert", ctx, sample).Return(errors.New("database error"))

	// Act
	err := service.SyncSample(ctx, "user-123", sample)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sync health sample")
	mockRepo.AssertExpectations(t)
}

func TestHealthSampleService_GetRecentSamples_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockHealthSampleRepository)
	logger := zap.NewNop()
	service := NewHealthSampleService(mockRepo, logger)

	ctx := context.Background()
	userID := "user-123"
	samples := []model.HealthSample{
		{ID: "sample-1", UserID: userID, HRV: floatPtr(65)},
		{ID: "sample-2", UserID: userID, SleepHours: floatPtr(7)},
	}

	mockRepo.On("GetRecent", ctx, userID, 30).Return(samples, nil)

	// Act
	result, err := service.GetRecentSamples(ctx, userID, 30)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "sample-1", result[0].ID)
	mockRepo.AssertExpectations(t)
}

func TestHealthSampleService_GetRecentSamples_InvalidDaysDefaultsToSeven(t *testing.T) {
	// Arrange
	mockRepo := new(MockHealthSampleRepository)
	logger := zap.NewNop()
	service := NewHealthSampleService(mockRepo, logger)

	ctx := context.Background()
	userID := "user-123"

	// Invalid days value should default to 7
	mockRepo.On("GetRecent", ctx, userID, 7).Return([]model.HealthSample{}, nil)

	// Act
	result, err := service.GetRecentSamples(ctx, userID, 15)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, result)
	mockRepo.AssertExpectations(t)
}

func TestHealthSampleService_GetRecentSamples_MissingUserID(t *testing.T) {
	service := &HealthSampleService{}

	ctx := context.Background()

	result, err := service.GetRecentSamples(ctx, "", 7)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "user ID is required")
}

func TestHealthSampleService_GetRecentSamples_RepositoryError(t *testing.T) {
	// Arrange
	mockRepo := new(MockHealthSampleRepository)
	logger := zap.NewNop()
	service := NewHealthSampleService(mockRepo, logger)

	ctx := context.Background()
	userID := "user-123"

	mockRepo.On("GetRecent", ctx, userID, 7).Return(nil, errors.New("database error"))

	// Act
	result, err := service.GetRecentSamples(ctx, userID, 7)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to get recent samples")
	mockRepo.AssertExpectations(t)
}
