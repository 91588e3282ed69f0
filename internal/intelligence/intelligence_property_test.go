package intelligence

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/burakkho/thrustr-backend/pkg/model"
)

var propTestTime = time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)

// Property: every recovery score and sub-score stays inside 0-100 no matter
// how extreme or missing the inputs are.
func TestProperty_RecoveryScoreAlwaysInRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("recovery scores stay within 0-100 for any input", prop.ForAll(
		func(hrv float64, hasHRV bool, sleepHours float64, intensity float64, restingHR float64, hasRHR bool) bool {
			var hrvIn, rhrIn *float64
			if hasHRV {
				hrvIn = &hrv
			}
			if hasRHR {
				rhrIn = &restingHR
			}

			score := CalculateRecoveryScore(hrvIn, sleepHours, intensity, rhrIn, propTestTime)

			inRange := func(v float64) bool { return v >= 0 && v <= 100 }
			if !inRange(score.OverallScore) || !inRange(score.HRVScore) ||
				!inRange(score.SleepScore) || !inRange(score.WorkoutLoadScore) ||
				!inRange(score.RestingHeartRateScore) {
				t.Logf("score out of range: %+v", score)
				return false
			}

			if score.Category == "" || score.Recommendation == "" {
				t.Log("category and recommendation must always be populated")
				return false
			}

			return true
		},
		gen.Float64Range(-50, 500),
		gen.Bool(),
		gen.Float64Range(-5, 30),
		gen.Float64Range(-5, 25),
		gen.Float64Range(10, 300),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property: the overall score is a weighted mean, so it can never leave the
// band spanned by the lowest and highest sub-scores.
func TestProperty_RecoveryScoreBoundedBySubScores(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("overall recovery sits between the weakest and strongest component", prop.ForAll(
		func(hrv float64, sleepHours float64, intensity float64, restingHR float64) bool {
			score := CalculateRecoveryScore(&hrv, sleepHours, intensity, &restingHR, propTestTime)

			lo := math.Min(math.Min(score.HRVScore, score.SleepScore),
				math.Min(score.WorkoutLoadScore, score.RestingHeartRateScore))
			hi := math.Max(math.Max(score.HRVScore, score.SleepScore),
				math.Max(score.WorkoutLoadScore, score.RestingHeartRateScore))

			const epsilon = 1e-9
			if score.OverallScore < lo-epsilon || score.OverallScore > hi+epsilon {
				t.Logf("overall %.4f outside sub-score band [%.4f, %.4f]", score.OverallScore, lo, hi)
				return false
			}

			return true
		},
		gen.Float64Range(0, 300),
		gen.Float64Range(0, 24),
		gen.Float64Range(0, 10),
		gen.Float64Range(20, 250),
	))

	properties.TestingRun(t)
}

// Property: more HRV never lowers the HRV sub-score
func TestProperty_HRVScoreMonotone(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("higher HRV never scores lower", prop.ForAll(
		func(a, b float64) bool {
			lower, higher := math.Min(a, b), math.Max(a, b)

			return scoreHRV(lower) <= scoreHRV(higher)
		},
		gen.Float64Range(0, 200),
		gen.Float64Range(0, 200),
	))

	properties.TestingRun(t)
}

// Property: more training load never raises the load sub-score
func TestProperty_WorkoutLoadScoreInverse(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("heavier load never scores higher", prop.ForAll(
		func(a, b float64) bool {
			lower, higher := math.Min(a, b), math.Max(a, b)

			return scoreWorkoutLoad(lower) >= scoreWorkoutLoad(higher)
		},
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
	))

	properties.TestingRun(t)
}

// Property: nine hours is the global optimum of the sleep curve
func TestProperty_SleepScorePeaksInOptimalBand(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("no sleep duration outscores the optimal band", prop.ForAll(
		func(hours float64) bool {
			score := scoreSleep(hours)

			return score >= 0 && score <= scoreSleep(9)
		},
		gen.Float64Range(0, 24),
	))

	properties.TestingRun(t)
}

// Property: the insight list is capped at six, sorted high-priority first,
// carries no duplicate rules, and is fully deterministic.
func TestProperty_InsightListCappedSortedDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("insight lists are capped, ordered, unique and repeatable", prop.ForAll(
		func(overall, sleepScore float64, weeklyWorkouts, totalWorkouts int, avgDuration float64, direction string, dailySteps int, baseWeight, weightDrift float64) bool {
			recovery := model.RecoveryScore{
				OverallScore:          overall,
				HRVScore:              overall,
				SleepScore:            sleepScore,
				WorkoutLoadScore:      overall,
				RestingHeartRateScore: overall,
				Category:              CategoryForScore(overall),
				Date:                  propTestTime,
			}
			trends := model.WorkoutTrends{
				WeeklyWorkouts: weeklyWorkouts,
				AvgDuration:    avgDuration,
				TotalWorkouts:  totalWorkouts,
				Direction:      model.TrendDirection(direction),
			}
			steps := stepSeries(7, dailySteps)
			weights := weightSeries(baseWeight, baseWeight+weightDrift, baseWeight-weightDrift, baseWeight+2*weightDrift)

			insights := GenerateInsights(recovery, trends, steps, weights, propTestTime)

			if len(insights) > maxInsights {
				t.Logf("insight list exceeds cap: %d", len(insights))
				return false
			}

			seen := make(map[string]bool, len(insights))
			for i, insight := range insights {
				if insight.ID == "" || insight.Title == "" || insight.Message == "" {
					t.Log("insights must carry an id, title and message")
					return false
				}
				if seen[insight.ID] {
					t.Logf("duplicate insight rule %s", insight.ID)
					return false
				}
				seen[insight.ID] = true

				if !insight.Date.Equal(propTestTime) {
					t.Log("insight date must match the generation timestamp")
					return false
				}
				if i > 0 && priorityRank(insights[i-1].Priority) > priorityRank(insight.Priority) {
					t.Log("insights must be sorted high-priority first")
					return false
				}
			}

			again := GenerateInsights(recovery, trends, steps, weights, propTestTime)
			if !reflect.DeepEqual(insights, again) {
				t.Log("insight generation must be deterministic")
				return false
			}

			return true
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.IntRange(0, 10),
		gen.IntRange(0, 600),
		gen.Float64Range(0, 150),
		gen.OneConstOf("increasing", "decreasing", "stable"),
		gen.IntRange(0, 25000),
		gen.Float64Range(50, 150),
		gen.Float64Range(0, 15),
	))

	properties.TestingRun(t)
}

// Property: raising the consistency score alone never demotes the overall
// fitness level.
func TestProperty_FitnessLevelMonotoneInConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("more consistency never lowers the overall level", prop.ForAll(
		func(weeklyWorkouts, totalWorkouts int, avgDuration float64, vo2Max float64, hasVO2 bool, c1, c2 float64) bool {
			trends := model.WorkoutTrends{
				WeeklyWorkouts: weeklyWorkouts,
				AvgDuration:    avgDuration,
				TotalWorkouts:  totalWorkouts,
				Direction:      model.TrendStable,
			}
			var vo2 *float64
			if hasVO2 {
				vo2 = &vo2Max
			}

			lower, higher := math.Min(c1, c2), math.Max(c1, c2)
			atLower := AssessFitnessLevel(trends, vo2, lower, propTestTime)
			atHigher := AssessFitnessLevel(trends, vo2, higher, propTestTime)

			if levelRank(atLower.OverallLevel) > levelRank(atHigher.OverallLevel) {
				t.Logf("consistency %f -> %s outranked consistency %f -> %s",
					lower, atLower.OverallLevel, higher, atHigher.OverallLevel)
				return false
			}

			return true
		},
		gen.IntRange(0, 10),
		gen.IntRange(0, 600),
		gen.Float64Range(0, 150),
		gen.Float64Range(10, 90),
		gen.Bool(),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

// Property: the whole report pipeline is a pure function of its inputs
func TestProperty_ReportDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("identical inputs yield identical reports", prop.ForAll(
		func(hrv float64, hasHRV bool, sleepHours float64, restingHR float64, hasRHR bool, weeklyWorkouts int, avgDuration float64, dailySteps int) bool {
			in := ReportInputs{
				SleepHours: sleepHours,
				Trends: model.WorkoutTrends{
					WeeklyWorkouts: weeklyWorkouts,
					AvgDuration:    avgDuration,
					TotalWorkouts:  weeklyWorkouts * 26,
					WeeklyHistory:  weeklyHistory(weeklyWorkouts, weeklyWorkouts, weeklyWorkouts, weeklyWorkouts),
					Direction:      model.TrendStable,
				},
				Steps: stepSeries(7, dailySteps),
			}
			if hasHRV {
				in.HRV = &hrv
			}
			if hasRHR {
				in.RestingHeartRate = &restingHR
			}

			first := GenerateReport(in, propTestTime)
			second := GenerateReport(in, propTestTime)

			if !reflect.DeepEqual(first, second) {
				t.Log("reports must be deterministic")
				return false
			}

			return true
		},
		gen.Float64Range(0, 200),
		gen.Bool(),
		gen.Float64Range(0, 24),
		gen.Float64Range(20, 250),
		gen.Bool(),
		gen.IntRange(0, 10),
		gen.Float64Range(0, 150),
		gen.IntRange(0, 25000),
	))

	properties.TestingRun(t)
}
