package intelligence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burakkho/thrustr-backend/pkg/model"
)

func TestGenerateReport_SteadyTrainee(t *testing.T) {
	// Arrange
	at := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)
	in := ReportInputs{
		HRV:              floatPtr(40),
		SleepHours:       8,
		RestingHeartRate: floatPtr(60),
		VO2Max:           floatPtr(48),
		Trends: model.WorkoutTrends{
			WeeklyWorkouts: 3,
			AvgDuration:    45,
			TotalWorkouts:  120,
			WeeklyHistory:  weeklyHistory(3, 3, 3, 3),
			Direction:      model.TrendStable,
		},
		Steps:   stepSeries(14, 9000),
		Weights: weightSeries(80, 80.1, 79.9),
	}

	// Act
	report := GenerateReport(in, at)

	// Assert
	// Sub-scores: HRV 40ms -> 81.67, 8h sleep -> 92.5, derived intensity
	// 4.83 -> load 61.67, resting HR 60 -> 85. Weighted sum: 81.625.
	assert.InDelta(t, 81.625, report.Recovery.OverallScore, 0.001)
	assert.Equal(t, model.RecoveryExcellent, report.Recovery.Category)
	assert.NotEmpty(t, report.Recovery.Recommendation)

	assert.Equal(t, model.LevelAdvanced, report.Fitness.CardioLevel)
	assert.Equal(t, model.LevelAdvanced, report.Fitness.OverallLevel)
	assert.Equal(t, 100.0, report.Fitness.ConsistencyScore)
	assert.Equal(t, model.TrendStable, report.Fitness.ProgressTrend)

	// Strong sleep is the only notable signal in this data.
	require.Len(t, report.Insights, 1)
	assert.Equal(t, ruleSleepStrong, report.Insights[0].ID)
}

func TestGenerateReport_EmptyInputs(t *testing.T) {
	// Arrange
	at := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)

	// Act
	report := GenerateReport(ReportInputs{}, at)

	// Assert
	// Neutral 50s for the missing HRV and resting HR, zero sleep, and a
	// perfect load score from zero intensity: 20 + 0 + 20 + 2.5.
	assert.InDelta(t, 42.5, report.Recovery.OverallScore, 0.001)
	assert.Equal(t, model.RecoveryModerate, report.Recovery.Category)
	assert.Equal(t, 50.0, report.Recovery.HRVScore)
	assert.Equal(t, 0.0, report.Recovery.SleepScore)
	assert.Equal(t, 100.0, report.Recovery.WorkoutLoadScore)
	assert.Equal(t, 50.0, report.Recovery.RestingHeartRateScore)

	assert.Equal(t, model.LevelBeginner, report.Fitness.OverallLevel)
	assert.Equal(t, model.LevelBeginner, report.Fitness.CardioLevel)
	assert.Equal(t, model.LevelBeginner, report.Fitness.StrengthLevel)
	assert.Equal(t, 0.0, report.Fitness.ConsistencyScore)

	// Missing sleep and missing training each surface as an insight.
	require.Len(t, report.Insights, 2)
	assert.Equal(t, ruleSleepCritical, report.Insights[0].ID)
	assert.Equal(t, ruleWorkoutFrequencyLow, report.Insights[1].ID)
}

func TestGenerateReport_StampsTimestampEverywhere(t *testing.T) {
	at := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)
	in := ReportInputs{
		HRV:        floatPtr(30),
		SleepHours: 6,
		Trends: model.WorkoutTrends{
			WeeklyWorkouts: 7,
			AvgDuration:    60,
			WeeklyHistory:  weeklyHistory(7, 7, 7, 7),
			Direction:      model.TrendStable,
		},
	}

	report := GenerateReport(in, at)

	assert.Equal(t, at, report.GeneratedAt)
	assert.Equal(t, at, report.Recovery.Date)
	assert.Equal(t, at, report.Fitness.AssessmentDate)
	for _, insight := range report.Insights {
		assert.Equal(t, at, insight.Date)
	}
}

func TestGenerateReport_Idempotent(t *testing.T) {
	at := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)
	in := ReportInputs{
		HRV:              floatPtr(22),
		SleepHours:       5.5,
		RestingHeartRate: floatPtr(74),
		VO2Max:           floatPtr(38),
		Trends: model.WorkoutTrends{
			WeeklyWorkouts: 6,
			AvgDuration:    70,
			TotalWorkouts:  220,
			WeeklyHistory:  weeklyHistory(4, 5, 6, 6),
			Direction:      model.TrendIncreasing,
		},
		Steps:   stepSeries(14, 5500),
		Weights: weightSeries(82, 81, 83, 80),
	}

	first := GenerateReport(in, at)
	second := GenerateReport(in, at)

	assert.Equal(t, first, second)
}
