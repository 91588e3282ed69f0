package intelligence

import (
	"math"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
)

// Weights of the four recovery sub-scores. HRV and sleep dominate because
// they are the strongest predictors of next-day readiness; the weights sum
// to exactly 1.0.
const (
	hrvWeight   = 0.40
	sleepWeight = 0.35
	loadWeight  = 0.20
	rhrWeight   = 0.05
)

// neutralScore substitutes for a sub-score whose input metric is missing
const neutralScore = 50.0

// CalculateRecoveryScore maps the four physiological inputs onto a 0-100
// composite recovery score. The function is deterministic and total: missing
// optional inputs (HRV, resting heart rate) fall back to a neutral 50 for
// that component instead of failing. The at timestamp is stamped into the
// result so callers control it.
func CalculateRecoveryScore(hrv *float64, sleepHours float64, workoutIntensity float64, restingHR *float64, at time.Time) model.RecoveryScore {
	hrvScore := neutralScore
	if hrv != nil {
		hrvScore = scoreHRV(*hrv)
	}

	sleepScore := scoreSleep(sleepHours)
	loadScore := scoreWorkoutLoad(workoutIntensity)

	rhrScore := neutralScore
	if restingHR != nil {
		rhrScore = scoreRestingHR(*restingHR)
	}

	overall := clamp(hrvScore*hrvWeight+sleepScore*sleepWeight+loadScore*loadWeight+rhrScore*rhrWeight, 0, 100)
	category := CategoryForScore(overall)

	return model.RecoveryScore{
		OverallScore:          overall,
		HRVScore:              hrvScore,
		SleepScore:            sleepScore,
		WorkoutLoadScore:      loadScore,
		RestingHeartRateScore: rhrScore,
		Category:              category,
		Recommendation:        recommendationFor(category),
		Date:                  at,
	}
}

// scoreHRV maps heart-rate variability in milliseconds onto 0-100. Higher
// HRV reflects better autonomic recovery; gains flatten out past 50ms.
func scoreHRV(ms float64) float64 {
	switch {
	case ms < 15:
		return clamp(ms/15*20, 0, 100)
	case ms < 25:
		return clamp(20+(ms-15)*3, 0, 100)
	case ms < 35:
		return clamp(50+(ms-25)*2.5, 0, 100)
	case ms < 50:
		return clamp(75+(ms-35)*(20.0/15.0), 0, 100)
	default:
		return clamp(95+(ms-50)*0.25, 0, 100)
	}
}

// scoreSleep maps last-night sleep duration in hours onto 0-100. The optimal
// band is 7-9 hours; short sleep degrades steeply below 7 hours and very
// long sleep is penalized as a possible health signal.
func scoreSleep(hours float64) float64 {
	switch {
	case hours < 4:
		return 0
	case hours < 7:
		return clamp(20+(hours-4)/3*65, 0, 100)
	case hours <= 9:
		return clamp(85+(hours-7)/2*15, 0, 100)
	case hours <= 11:
		return clamp(100-(hours-9)/2*30, 0, 100)
	default:
		return 40
	}
}

// scoreWorkoutLoad maps the 7-day training-intensity value (0-10) inversely
// onto 0-100: heavy recent load predicts lower recovery.
func scoreWorkoutLoad(intensity float64) float64 {
	i := clamp(intensity, 0, 10)

	switch {
	case i < 2:
		return 100 - i/2*10
	case i < 4:
		return 90 - (i-2)/2*20
	case i < 6:
		return 70 - (i-4)/2*20
	case i < 8:
		return 50 - (i-6)/2*20
	default:
		return clamp(30-(i-8)*15, 0, 100)
	}
}

// scoreRestingHR maps resting heart rate in bpm onto 0-100. Elite resting
// rates below 40 score full marks; scores fall off steeply past 80.
func scoreRestingHR(bpm float64) float64 {
	switch {
	case bpm < 40:
		return 100
	case bpm < 50:
		return 100 - (bpm-40)/10*5
	case bpm < 60:
		return 95 - (bpm-50)/10*10
	case bpm < 70:
		return 85 - (bpm-60)/10*15
	case bpm < 80:
		return 70 - (bpm-70)/10*20
	case bpm < 90:
		return 50 - (bpm-80)/10*25
	default:
		return clamp(25-(bpm-90)*2.5, 0, 100)
	}
}

// CategoryForScore classifies an overall recovery score
func CategoryForScore(score float64) model.RecoveryCategory {
	switch {
	case score >= 80:
		return model.RecoveryExcellent
	case score >= 60:
		return model.RecoveryGood
	case score >= 40:
		return model.RecoveryModerate
	case score >= 20:
		return model.RecoveryPoor
	default:
		return model.RecoveryCritical
	}
}

// recommendationFor returns the coaching text for a recovery category
func recommendationFor(category model.RecoveryCategory) string {
	switch category {
	case model.RecoveryExcellent:
		return "You are fully recovered. A great day for a hard or long session."
	case model.RecoveryGood:
		return "Recovery is solid. Train as planned and protect tonight's sleep."
	case model.RecoveryModerate:
		return "Recovery is middling. Favor moderate intensity and wind down early tonight."
	case model.RecoveryPoor:
		return "Recovery is low. Keep today light: mobility work, a walk, or easy aerobic effort."
	default:
		return "Your body needs rest. Skip training today and prioritize sleep."
	}
}

// Per-component caps keep a single dimension from dominating the derived
// intensity value.
const (
	intensityFrequencyFactor = 1.5
	intensityDurationDivisor = 9.0
	intensityCalorieDivisor  = 80.0
)

// CalculateWorkoutIntensity derives the 0-10 training-intensity value for
// the last seven days from three capped components: weekly frequency,
// average session duration and average calories per workout.
func CalculateWorkoutIntensity(trends model.WorkoutTrends) float64 {
	frequency := math.Min(10, float64(trends.WeeklyWorkouts)*intensityFrequencyFactor)
	duration := math.Min(10, trends.AvgDuration/intensityDurationDivisor)
	calories := math.Min(10, averageCaloriesPerWorkout(trends.WeeklyHistory)/intensityCalorieDivisor)

	return clamp((frequency+duration+calories)/3, 0, 10)
}

// averageCaloriesPerWorkout averages calorie burn per session across the
// weekly history, guarding the empty case
func averageCaloriesPerWorkout(history []model.WeeklyActivity) float64 {
	workouts := 0
	calories := 0.0
	for _, week := range history {
		workouts += week.WorkoutCount
		calories += week.TotalCalories
	}

	if workouts == 0 {
		return 0
	}

	return calories / float64(workouts)
}
