package intelligence

import (
	"math"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
)

// Strength points map to levels via fixed cut points; the same cut points
// (translated to the 1-4 rank scale) govern the overall level.
const (
	strengthIntermediateCut = 3.0
	strengthAdvancedCut     = 6.0
	strengthEliteCut        = 9.0
)

// AssessFitnessLevel classifies cardio and strength ability from training
// trends, an optional VO2max reading and the consistency score, then
// combines them into an overall level. Deterministic and total; the at
// timestamp is stamped into the result.
func AssessFitnessLevel(trends model.WorkoutTrends, vo2Max *float64, consistencyScore float64, at time.Time) model.FitnessAssessment {
	cardio := classifyCardio(trends, vo2Max)
	strength := classifyStrength(trends, consistencyScore)

	return model.FitnessAssessment{
		OverallLevel:     combineLevels(cardio, strength, consistencyScore),
		CardioLevel:      cardio,
		StrengthLevel:    strength,
		ConsistencyScore: clamp(consistencyScore, 0, 100),
		ProgressTrend:    trends.Direction,
		AssessmentDate:   at,
	}
}

// classifyCardio uses VO2max bands when a reading exists, otherwise falls
// back to a frequency-and-duration heuristic. The heuristic never awards
// elite: that takes a measured VO2max.
func classifyCardio(trends model.WorkoutTrends, vo2Max *float64) model.FitnessLevel {
	if vo2Max != nil && *vo2Max > 0 {
		switch {
		case *vo2Max >= 55:
			return model.LevelElite
		case *vo2Max >= 45:
			return model.LevelAdvanced
		case *vo2Max >= 35:
			return model.LevelIntermediate
		default:
			return model.LevelBeginner
		}
	}

	switch {
	case trends.WeeklyWorkouts >= 5 && trends.AvgDuration >= 45:
		return model.LevelAdvanced
	case trends.WeeklyWorkouts >= 3 && trends.AvgDuration >= 30:
		return model.LevelIntermediate
	default:
		return model.LevelBeginner
	}
}

// classifyStrength accumulates frequency, duration-quality and experience
// points, scales the total by a consistency multiplier (0.5-1.0), and maps
// it through the strength cut points.
func classifyStrength(trends model.WorkoutTrends, consistencyScore float64) model.FitnessLevel {
	points := frequencyPoints(trends.WeeklyWorkouts) +
		durationPoints(trends.AvgDuration) +
		experiencePoints(trends.TotalWorkouts)

	multiplier := 0.5 + 0.5*clamp(consistencyScore, 0, 100)/100
	adjusted := points * multiplier

	switch {
	case adjusted >= strengthEliteCut:
		return model.LevelElite
	case adjusted >= strengthAdvancedCut:
		return model.LevelAdvanced
	case adjusted >= strengthIntermediateCut:
		return model.LevelIntermediate
	default:
		return model.LevelBeginner
	}
}

// frequencyPoints awards 0-5 points, one per weekly workout
func frequencyPoints(weeklyWorkouts int) float64 {
	if weeklyWorkouts <= 0 {
		return 0
	}
	if weeklyWorkouts > 5 {
		return 5
	}

	return float64(weeklyWorkouts)
}

// durationPoints awards 0-3 points for session length. Sessions past 75
// minutes are marked down: that usually means resting, not working.
func durationPoints(avgMinutes float64) float64 {
	switch {
	case avgMinutes < 20:
		return 0
	case avgMinutes < 30:
		return 1
	case avgMinutes < 45:
		return 2
	case avgMinutes <= 75:
		return 3
	default:
		return 2
	}
}

// experiencePoints awards 0-4 points by lifetime workout count
func experiencePoints(totalWorkouts int) float64 {
	switch {
	case totalWorkouts >= 300:
		return 4
	case totalWorkouts >= 150:
		return 3
	case totalWorkouts >= 50:
		return 2
	case totalWorkouts >= 10:
		return 1
	default:
		return 0
	}
}

// combineLevels averages the numeric encodings of the two sub-levels,
// nudges the result by up to ±0.25 for consistency, and rounds to the
// nearest level.
func combineLevels(cardio, strength model.FitnessLevel, consistencyScore float64) model.FitnessLevel {
	meanRank := float64(levelRank(cardio)+levelRank(strength)) / 2
	adjusted := meanRank + 0.5*(clamp(consistencyScore, 0, 100)-50)/100

	return levelForRankScore(adjusted)
}

// levelRank encodes levels for scoring: beginner=1 .. elite=4
func levelRank(level model.FitnessLevel) int {
	switch level {
	case model.LevelElite:
		return 4
	case model.LevelAdvanced:
		return 3
	case model.LevelIntermediate:
		return 2
	default:
		return 1
	}
}

// levelForRankScore maps a continuous 1-4 rank score to the nearest level
func levelForRankScore(score float64) model.FitnessLevel {
	switch {
	case score >= 3.5:
		return model.LevelElite
	case score >= 2.5:
		return model.LevelAdvanced
	case score >= 1.5:
		return model.LevelIntermediate
	default:
		return model.LevelBeginner
	}
}

// CalculateConsistencyScore measures how evenly training is distributed
// across the weekly history: 100 minus the coefficient of variation of
// weekly workout counts (as a percentage), clamped at zero, plus a bonus of
// up to 20 points for sustaining any weekly activity at all.
func CalculateConsistencyScore(weekly []model.WeeklyActivity) float64 {
	if len(weekly) == 0 {
		return 0
	}

	counts := make([]float64, len(weekly))
	for i, week := range weekly {
		counts[i] = float64(week.WorkoutCount)
	}

	m := mean(counts)
	if m == 0 {
		return 0
	}

	cv := stdDev(counts, m) / m
	base := math.Max(0, 100-cv*100)
	bonus := math.Min(20, m*5)

	return clamp(base+bonus, 0, 100)
}

// DeriveTrendDirection compares training volume between the older and newer
// halves of the weekly history (ordered oldest first). Changes within ±10%
// read as stable.
func DeriveTrendDirection(weekly []model.WeeklyActivity) model.TrendDirection {
	if len(weekly) < 2 {
		return model.TrendStable
	}

	mid := len(weekly) / 2
	older := meanWorkoutCount(weekly[:mid])
	newer := meanWorkoutCount(weekly[mid:])

	if older == 0 {
		if newer > 0 {
			return model.TrendIncreasing
		}

		return model.TrendStable
	}

	change := (newer - older) / older
	switch {
	case change > 0.10:
		return model.TrendIncreasing
	case change < -0.10:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

func meanWorkoutCount(weekly []model.WeeklyActivity) float64 {
	if len(weekly) == 0 {
		return 0
	}

	total := 0
	for _, week := range weekly {
		total += week.WorkoutCount
	}

	return float64(total) / float64(len(weekly))
}
