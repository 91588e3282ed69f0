package intelligence

import (
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
)

// ReportInputs carries the already-materialized data a health report is
// computed from. Callers fetch these from persistence before invoking the
// engine; nil optionals trigger the documented neutral fallbacks.
type ReportInputs struct {
	HRV              *float64
	SleepHours       float64
	RestingHeartRate *float64
	VO2Max           *float64
	Trends           model.WorkoutTrends
	Steps            []model.StepCount
	Weights          []model.BodyWeight
}

// GenerateReport runs the full scoring pipeline: derive the 7-day training
// intensity, compute the recovery score, generate insights, compute the
// consistency score, assess fitness levels, and package everything with the
// given generation timestamp. Every step is a total pure function, so there
// are no error branches.
func GenerateReport(in ReportInputs, at time.Time) model.HealthReport {
	intensity := CalculateWorkoutIntensity(in.Trends)
	recovery := CalculateRecoveryScore(in.HRV, in.SleepHours, intensity, in.RestingHeartRate, at)
	insights := GenerateInsights(recovery, in.Trends, in.Steps, in.Weights, at)
	consistency := CalculateConsistencyScore(in.Trends.WeeklyHistory)
	fitness := AssessFitnessLevel(in.Trends, in.VO2Max, consistency, at)

	return model.HealthReport{
		Recovery:    recovery,
		Insights:    insights,
		Fitness:     fitness,
		GeneratedAt: at,
	}
}
