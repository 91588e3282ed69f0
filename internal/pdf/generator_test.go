package pdf

import (
	"testing"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPDFGenerator_Generate_Success(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	action := "Aim for an earlier bedtime tonight."
	generatedAt := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)

	reportData := &ReportData{
		UserID: "user-1",
		Report: &model.HealthReport{
			Recovery: model.RecoveryScore{
				OverallScore:          72,
				HRVScore:              68,
				SleepScore:            80,
				WorkoutLoadScore:      65,
				RestingHeartRateScore: 75,
				Category:              model.RecoveryGood,
				Recommendation:        "Good recovery. You can train at moderate to high intensity.",
				Date:                  generatedAt,
			},
			Insights: []model.HealthInsight{
				{
					ID:         "sleep-short",
					Type:       model.InsightTypeSleep,
					Title:      "Short Sleep",
					Message:    "You averaged 5.5 hours of sleep this week.",
					Priority:   model.PriorityHigh,
					Date:       generatedAt,
					Actionable: true,
					Action:     &action,
				},
				{
					ID:         "workout-consistent",
					Type:       model.InsightTypeWorkout,
					Title:      "Consistent Training",
					Message:    "You hit four sessions this week.",
					Priority:   model.PriorityLow,
					Date:       generatedAt,
					Actionable: false,
				},
			},
			Fitness: model.FitnessAssessment{
				OverallLevel:     model.LevelIntermediate,
				CardioLevel:      model.LevelIntermediate,
				StrengthLevel:    model.LevelAdvanced,
				ConsistencyScore: 78,
				ProgressTrend:    model.TrendIncreasing,
				AssessmentDate:   generatedAt,
			},
			GeneratedAt: generatedAt,
		},
	}

	// Act
	pdfBytes, err := generator.Generate(reportData)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content")

	// PDF files start with %PDF
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestPDFGenerator_Generate_NoInsights(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	generatedAt := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)

	reportData := &ReportData{
		UserID: "user-1",
		Report: &model.HealthReport{
			Recovery: model.RecoveryScore{
				OverallScore:          50,
				HRVScore:              50,
				SleepScore:            50,
				WorkoutLoadScore:      50,
				RestingHeartRateScore: 50,
				Category:              model.RecoveryModerate,
				Recommendation:        "Moderate recovery. Consider a lighter session.",
				Date:                  generatedAt,
			},
			Insights: []model.HealthInsight{},
			Fitness: model.FitnessAssessment{
				OverallLevel:     model.LevelBeginner,
				CardioLevel:      model.LevelBeginner,
				StrengthLevel:    model.LevelBeginner,
				ConsistencyScore: 20,
				ProgressTrend:    model.TrendStable,
				AssessmentDate:   generatedAt,
			},
			GeneratedAt: generatedAt,
		},
	}

	// Act
	pdfBytes, err := generator.Generate(reportData)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content even without insights")

	// PDF files start with %PDF
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}

func TestPDFGenerator_Generate_WithNarrative(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	generator := NewPDFGenerator(logger)

	narrative := "Your recovery looks solid this week. Sleep has been your strongest driver, " +
		"and the training load is right where it should be. Keep the current rhythm and " +
		"prioritize an early night before your next hard session."
	generatedAt := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)

	reportData := &ReportData{
		UserID: "user-1",
		Report: &model.HealthReport{
			Recovery: model.RecoveryScore{
				OverallScore:          85,
				HRVScore:              90,
				SleepScore:            88,
				WorkoutLoadScore:      80,
				RestingHeartRateScore: 82,
				Category:              model.RecoveryExcellent,
				Recommendation:        "Excellent recovery! Your body is ready for high intensity training.",
				Date:                  generatedAt,
			},
			Insights: []model.HealthInsight{
				{
					ID:       "sleep-strong",
					Type:     model.InsightTypeSleep,
					Title:    "Strong Sleep",
					Message:  "Sleep has been consistently above eight hours.",
					Priority: model.PriorityLow,
					Date:     generatedAt,
				},
			},
			Fitness: model.FitnessAssessment{
				OverallLevel:     model.LevelAdvanced,
				CardioLevel:      model.LevelAdvanced,
				StrengthLevel:    model.LevelAdvanced,
				ConsistencyScore: 92,
				ProgressTrend:    model.TrendIncreasing,
				AssessmentDate:   generatedAt,
			},
			GeneratedAt: generatedAt,
		},
		Narrative: &narrative,
	}

	// Act
	pdfBytes, err := generator.Generate(reportData)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, pdfBytes)
	assert.Greater(t, len(pdfBytes), 0, "PDF should have content")
	assert.Equal(t, "%PDF", string(pdfBytes[:4]), "Should be a valid PDF file")
}
