package intelligence

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
)

// maxInsights caps the list returned to clients
const maxInsights = 6

// weightVolatilityCV is the coefficient-of-variation threshold above which a
// body-weight series counts as fluctuating
const weightVolatilityCV = 0.03

// Stable rule codes double as insight IDs so identical inputs always produce
// identical records.
const (
	ruleRecoveryBottleneck  = "recovery_bottleneck"
	ruleRecoveryPeak        = "recovery_peak"
	ruleSleepCritical       = "sleep_critical"
	ruleSleepImprove        = "sleep_improve"
	ruleSleepStrong         = "sleep_strong"
	ruleWorkoutFrequencyLow = "workout_frequency_low"
	ruleOvertrainingRisk    = "overtraining_risk"
	ruleTrendDeclining      = "trend_declining"
	ruleTrendMomentum       = "trend_momentum"
	ruleStepsVeryLow        = "steps_very_low"
	ruleStepsModerate       = "steps_moderate"
	ruleGymButSedentary     = "gym_but_sedentary"
	ruleWeightRapidChange   = "weight_rapid_change"
	ruleWeightFluctuation   = "weight_fluctuation"
	ruleBurnoutSignal       = "burnout_signal"
	ruleSleepTrendSynergy   = "sleep_trend_synergy"
	ruleStepsUnstructured   = "steps_unstructured"
)

// GenerateInsights evaluates the fixed rule battery over the recovery score,
// training trends and raw step/weight histories. Each rule emits at most one
// insight; empty histories simply keep the dependent rules from firing. The
// result is sorted high-priority first, actionable entries before passive
// ones within the same priority, and truncated to 6.
func GenerateInsights(recovery model.RecoveryScore, trends model.WorkoutTrends, steps []model.StepCount, weights []model.BodyWeight, at time.Time) []model.HealthInsight {
	candidates := make([]model.HealthInsight, 0, 16)

	collect := func(insight *model.HealthInsight) {
		if insight != nil {
			insight.Date = at
			candidates = append(candidates, *insight)
		}
	}

	collect(recoveryBottleneckInsight(recovery))
	collect(peakPerformanceInsight(recovery))
	collect(sleepQualityInsight(recovery.SleepScore))
	collect(lowFrequencyInsight(trends))
	collect(overtrainingInsight(trends, recovery.OverallScore))
	collect(trendDecliningInsight(trends))
	collect(trendMomentumInsight(trends, recovery.OverallScore))
	collect(stepsVeryLowInsight(steps))
	collect(stepsModerateInsight(steps))
	collect(gymButSedentaryInsight(steps, trends))
	collect(weightChangeInsight(weights))
	collect(weightFluctuationInsight(weights, trends))
	collect(burnoutInsight(trends, recovery.OverallScore))
	collect(sleepTrendSynergyInsight(recovery.SleepScore, trends))
	collect(unstructuredActivityInsight(steps, trends))

	sortInsights(candidates)
	if len(candidates) > maxInsights {
		candidates = candidates[:maxInsights]
	}

	return candidates
}

// sortInsights orders by priority (high first), then actionable-first within
// the same priority. The sort is stable so rule order breaks remaining ties.
func sortInsights(insights []model.HealthInsight) {
	sort.SliceStable(insights, func(i, j int) bool {
		pi := priorityRank(insights[i].Priority)
		pj := priorityRank(insights[j].Priority)
		if pi != pj {
			return pi < pj
		}
		if insights[i].Actionable != insights[j].Actionable {
			return insights[i].Actionable
		}

		return false
	})
}

func priorityRank(p model.InsightPriority) int {
	switch p {
	case model.PriorityHigh:
		return 0
	case model.PriorityMedium:
		return 1
	default:
		return 2
	}
}

// recoveryBottleneckInsight fires below a recovery score of 40 and names the
// weakest sub-score as the bottleneck, with a matching action.
func recoveryBottleneckInsight(recovery model.RecoveryScore) *model.HealthInsight {
	if recovery.OverallScore >= 40 {
		return nil
	}

	bottleneck := "hrv"
	lowest := recovery.HRVScore
	if recovery.SleepScore < lowest {
		bottleneck, lowest = "sleep", recovery.SleepScore
	}
	if recovery.WorkoutLoadScore < lowest {
		bottleneck, lowest = "training_load", recovery.WorkoutLoadScore
	}
	if recovery.RestingHeartRateScore < lowest {
		bottleneck, lowest = "resting_heart_rate", recovery.RestingHeartRateScore
	}

	insight := model.HealthInsight{
		ID:         ruleRecoveryBottleneck,
		Type:       model.InsightTypeRecovery,
		Title:      "Recovery is running low",
		Priority:   model.PriorityHigh,
		Actionable: true,
	}

	switch bottleneck {
	case "sleep":
		insight.Type = model.InsightTypeSleep
		insight.Message = fmt.Sprintf("Your recovery score is %.0f and sleep is the weakest link (%.0f/100).", recovery.OverallScore, lowest)
		insight.Action = strPtr("Aim for 8 hours tonight and keep screens out of the last hour before bed.")
	case "training_load":
		insight.Type = model.InsightTypeWorkout
		insight.Message = fmt.Sprintf("Your recovery score is %.0f and recent training load is the main drag (%.0f/100).", recovery.OverallScore, lowest)
		insight.Action = strPtr("Swap today's session for active recovery: easy spin, walk, or stretching.")
	case "resting_heart_rate":
		insight.Type = model.InsightTypeHeartHealth
		insight.Message = fmt.Sprintf("Your recovery score is %.0f and an elevated resting heart rate is the biggest factor (%.0f/100).", recovery.OverallScore, lowest)
		insight.Action = strPtr("Hydrate, skip stimulants after noon, and watch for signs of illness or stress.")
	default:
		insight.Message = fmt.Sprintf("Your recovery score is %.0f and low heart-rate variability is the biggest factor (%.0f/100).", recovery.OverallScore, lowest)
		insight.Action = strPtr("Back off intensity for a day or two and add breathing or relaxation work.")
	}

	return &insight
}

// peakPerformanceInsight fires above a recovery score of 85
func peakPerformanceInsight(recovery model.RecoveryScore) *model.HealthInsight {
	if recovery.OverallScore <= 85 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleRecoveryPeak,
		Type:       model.InsightTypeRecovery,
		Title:      "Primed for a big session",
		Message:    fmt.Sprintf("Recovery is at %.0f/100. Your body is ready for high intensity.", recovery.OverallScore),
		Priority:   model.PriorityLow,
		Actionable: true,
		Action:     strPtr("Schedule your hardest session of the week today."),
	}
}

// sleepQualityInsight maps the sleep sub-score onto one of three bands
func sleepQualityInsight(sleepScore float64) *model.HealthInsight {
	switch {
	case sleepScore < 50:
		return &model.HealthInsight{
			ID:         ruleSleepCritical,
			Type:       model.InsightTypeSleep,
			Title:      "Sleep needs attention",
			Message:    fmt.Sprintf("Your sleep score is %.0f/100. Too little sleep undermines every other metric.", sleepScore),
			Priority:   model.PriorityHigh,
			Actionable: true,
			Action:     strPtr("Set a fixed bedtime this week and target at least 7.5 hours."),
		}
	case sleepScore <= 70:
		return &model.HealthInsight{
			ID:         ruleSleepImprove,
			Type:       model.InsightTypeSleep,
			Title:      "Room to improve sleep",
			Message:    fmt.Sprintf("Your sleep score is %.0f/100. A little more consistency would lift your recovery noticeably.", sleepScore),
			Priority:   model.PriorityMedium,
			Actionable: true,
			Action:     strPtr("Move bedtime 30 minutes earlier and keep wake-up time constant."),
		}
	case sleepScore > 90:
		return &model.HealthInsight{
			ID:         ruleSleepStrong,
			Type:       model.InsightTypeSleep,
			Title:      "Sleep is dialed in",
			Message:    fmt.Sprintf("Your sleep score is %.0f/100. Excellent rest supports harder training.", sleepScore),
			Priority:   model.PriorityLow,
			Actionable: true,
			Action:     strPtr("Use this well-rested stretch for your more demanding workouts."),
		}
	default:
		return nil
	}
}

// lowFrequencyInsight fires below two workouts per week
func lowFrequencyInsight(trends model.WorkoutTrends) *model.HealthInsight {
	if trends.WeeklyWorkouts >= 2 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleWorkoutFrequencyLow,
		Type:       model.InsightTypeWorkout,
		Title:      "Training frequency is low",
		Message:    fmt.Sprintf("You logged %d workout(s) this week. Two to four sessions keep progress moving.", trends.WeeklyWorkouts),
		Priority:   model.PriorityMedium,
		Actionable: true,
		Action:     strPtr("Block two short sessions in your calendar for the coming week."),
	}
}

// overtrainingInsight fires past six weekly workouts when recovery is not
// keeping up
func overtrainingInsight(trends model.WorkoutTrends, overallScore float64) *model.HealthInsight {
	if trends.WeeklyWorkouts <= 6 || overallScore >= 60 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleOvertrainingRisk,
		Type:       model.InsightTypeWorkout,
		Title:      "Overtraining risk",
		Message:    fmt.Sprintf("%d workouts this week with recovery at %.0f/100. Your load is outrunning your recovery.", trends.WeeklyWorkouts, overallScore),
		Priority:   model.PriorityHigh,
		Actionable: true,
		Action:     strPtr("Plan a deload: cut volume roughly in half for the next 5-7 days."),
	}
}

// trendDecliningInsight fires when training volume is falling off
func trendDecliningInsight(trends model.WorkoutTrends) *model.HealthInsight {
	if trends.Direction != model.TrendDecreasing {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleTrendDeclining,
		Type:       model.InsightTypeWorkout,
		Title:      "Momentum is slipping",
		Message:    "Your training volume has been trending down over recent weeks.",
		Priority:   model.PriorityMedium,
		Actionable: true,
		Action:     strPtr("Pick one anchor workout you never skip, and rebuild from there."),
	}
}

// trendMomentumInsight rewards a rising trend backed by good recovery
func trendMomentumInsight(trends model.WorkoutTrends, overallScore float64) *model.HealthInsight {
	if trends.Direction != model.TrendIncreasing || overallScore <= 70 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleTrendMomentum,
		Type:       model.InsightTypeWorkout,
		Title:      "Great momentum",
		Message:    fmt.Sprintf("Training is trending up and recovery is holding at %.0f/100. The balance is working.", overallScore),
		Priority:   model.PriorityLow,
		Actionable: false,
	}
}

// stepsVeryLowInsight fires below a 5000-step daily average
func stepsVeryLowInsight(steps []model.StepCount) *model.HealthInsight {
	if len(steps) == 0 {
		return nil
	}

	avg := averageSteps(steps)
	if avg >= 5000 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleStepsVeryLow,
		Type:       model.InsightTypeSteps,
		Title:      "Daily movement is very low",
		Message:    fmt.Sprintf("You average %.0f steps a day, well below the activity baseline.", avg),
		Priority:   model.PriorityHigh,
		Actionable: true,
		Action:     strPtr("Add a 20-minute walk after one meal each day."),
	}
}

// stepsModerateInsight fires in the 5000-8000 average band
func stepsModerateInsight(steps []model.StepCount) *model.HealthInsight {
	if len(steps) == 0 {
		return nil
	}

	avg := averageSteps(steps)
	if avg < 5000 || avg > 8000 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleStepsModerate,
		Type:       model.InsightTypeSteps,
		Title:      "Steps can go further",
		Message:    fmt.Sprintf("You average %.0f steps a day. Decent, but with easy room to grow.", avg),
		Priority:   model.PriorityMedium,
		Actionable: true,
		Action:     strPtr("Aim for 8000+ by taking the long route on routine trips."),
	}
}

// gymButSedentaryInsight flags heavy gym schedules paired with little
// everyday movement
func gymButSedentaryInsight(steps []model.StepCount, trends model.WorkoutTrends) *model.HealthInsight {
	if len(steps) == 0 || trends.WeeklyWorkouts <= 4 {
		return nil
	}

	avg := averageSteps(steps)
	if avg >= 6000 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleGymButSedentary,
		Type:       model.InsightTypeSteps,
		Title:      "Active in the gym, sedentary outside it",
		Message:    fmt.Sprintf("%d workouts a week but only %.0f daily steps. Most of your day is still sedentary.", trends.WeeklyWorkouts, avg),
		Priority:   model.PriorityMedium,
		Actionable: true,
		Action:     strPtr("Break up long sitting blocks with a 5-minute walk every hour."),
	}
}

// weightChangeInsight flags a rapid change across the weight window,
// escalating past 15%
func weightChangeInsight(weights []model.BodyWeight) *model.HealthInsight {
	if len(weights) < 2 {
		return nil
	}

	first, last := weightEndpoints(weights)
	change := percentChange(first.Weight, last.Weight)
	magnitude := math.Abs(change)
	if magnitude <= 10 {
		return nil
	}

	direction := "gained"
	if change < 0 {
		direction = "lost"
	}

	priority := model.PriorityMedium
	if magnitude > 15 {
		priority = model.PriorityHigh
	}

	return &model.HealthInsight{
		ID:         ruleWeightRapidChange,
		Type:       model.InsightTypeWeight,
		Title:      "Rapid weight change",
		Message:    fmt.Sprintf("You %s %.1f%% of body weight over this period, faster than sustainable norms.", direction, magnitude),
		Priority:   priority,
		Actionable: true,
		Action:     strPtr("Review recent diet changes and slow the rate to 0.5-1% per week."),
	}
}

// weightFluctuationInsight flags a volatile weight series during an active
// training week
func weightFluctuationInsight(weights []model.BodyWeight, trends model.WorkoutTrends) *model.HealthInsight {
	if len(weights) < 3 || trends.WeeklyWorkouts < 3 {
		return nil
	}

	values := make([]float64, len(weights))
	for i, w := range weights {
		values[i] = w.Weight
	}

	if coefficientOfVariation(values) < weightVolatilityCV {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleWeightFluctuation,
		Type:       model.InsightTypeWeight,
		Title:      "Weight is swinging day to day",
		Message:    "Your weight fluctuates noticeably despite steady training. That is usually hydration and meal timing, not fat.",
		Priority:   model.PriorityMedium,
		Actionable: true,
		Action:     strPtr("Weigh in at the same time each morning and compare weekly averages instead."),
	}
}

// burnoutInsight flags a heavy schedule colliding with poor recovery
func burnoutInsight(trends model.WorkoutTrends, overallScore float64) *model.HealthInsight {
	if trends.WeeklyWorkouts <= 5 || overallScore >= 50 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleBurnoutSignal,
		Type:       model.InsightTypeRecovery,
		Title:      "Burnout signal",
		Message:    fmt.Sprintf("Training %d times a week while recovery sits at %.0f/100 is an imbalance that tends to end in injury or illness.", trends.WeeklyWorkouts, overallScore),
		Priority:   model.PriorityHigh,
		Actionable: true,
		Action:     strPtr("Take two full rest days this week and reassess."),
	}
}

// sleepTrendSynergyInsight rewards strong sleep paired with a rising
// training trend
func sleepTrendSynergyInsight(sleepScore float64, trends model.WorkoutTrends) *model.HealthInsight {
	if sleepScore <= 85 || trends.Direction != model.TrendIncreasing {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleSleepTrendSynergy,
		Type:       model.InsightTypeSleep,
		Title:      "Sleep and training in sync",
		Message:    fmt.Sprintf("Sleep at %.0f/100 while training volume climbs. This is the combination where adaptation happens.", sleepScore),
		Priority:   model.PriorityLow,
		Actionable: false,
	}
}

// unstructuredActivityInsight flags very high step counts with almost no
// structured training
func unstructuredActivityInsight(steps []model.StepCount, trends model.WorkoutTrends) *model.HealthInsight {
	if len(steps) == 0 || trends.WeeklyWorkouts >= 2 {
		return nil
	}

	avg := averageSteps(steps)
	if avg <= 12000 {
		return nil
	}

	return &model.HealthInsight{
		ID:         ruleStepsUnstructured,
		Type:       model.InsightTypeWorkout,
		Title:      "Very active, but unstructured",
		Message:    fmt.Sprintf("You move a lot (%.0f steps a day) but log almost no structured workouts.", avg),
		Priority:   model.PriorityMedium,
		Actionable: true,
		Action:     strPtr("Convert some of that activity into two planned strength sessions a week."),
	}
}

// averageSteps returns the mean daily step count, 0 for an empty series
func averageSteps(steps []model.StepCount) float64 {
	if len(steps) == 0 {
		return 0
	}

	total := 0
	for _, s := range steps {
		total += s.Steps
	}

	return float64(total) / float64(len(steps))
}

// weightEndpoints returns the chronologically first and last measurements
// without assuming the series arrives sorted
func weightEndpoints(weights []model.BodyWeight) (first, last model.BodyWeight) {
	first, last = weights[0], weights[0]
	for _, w := range weights[1:] {
		if w.Date.Before(first.Date) {
			first = w
		}
		if w.Date.After(last.Date) {
			last = w
		}
	}

	return first, last
}

func strPtr(s string) *string {
	return &s
}
