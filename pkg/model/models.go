package model

import "time"

// HealthSample represents one day of synced physiological metrics for a user.
// Every metric is optional; the mobile client sends whatever the platform
// health store had for that day.
type HealthSample struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SampleDate time.Time `json:"sample_date"`
	HRV        *float64  `json:"hrv,omitempty"`                // ms
	RestingHR  *float64  `json:"resting_heart_rate,omitempty"` // bpm
	SleepHours *float64  `json:"sleep_hours,omitempty"`
	Steps      *int      `json:"steps,omitempty"`
	BodyWeight *float64  `json:"body_weight,omitempty"` // kg
	VO2Max     *float64  `json:"vo2_max,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Workout represents a completed training session
type Workout struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes float64   `json:"duration_minutes"`
	Calories        float64   `json:"calories"`
	Type            string    `json:"type"`
	CreatedAt       time.Time `json:"created_at"`
}

// TrendDirection represents the direction of a training trend
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// WeeklyActivity summarizes one calendar week of training
type WeeklyActivity struct {
	WeekStart     time.Time `json:"week_start"`
	WorkoutCount  int       `json:"workout_count"`
	TotalDuration float64   `json:"total_duration_minutes"`
	TotalCalories float64   `json:"total_calories"`
}

// WorkoutTrends aggregates recent training statistics for the scoring engine
type WorkoutTrends struct {
	WeeklyWorkouts int              `json:"weekly_workouts"`
	AvgDuration    float64          `json:"avg_duration_minutes"`
	TotalWorkouts  int              `json:"total_workouts"`
	WeeklyHistory  []WeeklyActivity `json:"weekly_history,omitempty"`
	Direction      TrendDirection   `json:"direction"`
}

// StepCount is one day of step data
type StepCount struct {
	Date  time.Time `json:"date"`
	Steps int       `json:"steps"`
}

// BodyWeight is one body-weight measurement in kilograms
type BodyWeight struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// RecoveryCategory classifies an overall recovery score
type RecoveryCategory string

const (
	RecoveryExcellent RecoveryCategory = "excellent"
	RecoveryGood      RecoveryCategory = "good"
	RecoveryModerate  RecoveryCategory = "moderate"
	RecoveryPoor      RecoveryCategory = "poor"
	RecoveryCritical  RecoveryCategory = "critical"
)

// RecoveryScore is the composite readiness score with its weighted components.
// All scores are on a 0-100 scale.
type RecoveryScore struct {
	OverallScore          float64          `json:"overall_score"`
	HRVScore              float64          `json:"hrv_score"`
	SleepScore            float64          `json:"sleep_score"`
	WorkoutLoadScore      float64          `json:"workout_load_score"`
	RestingHeartRateScore float64          `json:"resting_heart_rate_score"`
	Category              RecoveryCategory `json:"category"`
	Recommendation        string           `json:"recommendation"`
	Date                  time.Time        `json:"date"`
}

// InsightType represents the health domain an insight belongs to
type InsightType string

const (
	InsightTypeWorkout     InsightType = "workout"
	InsightTypeSleep       InsightType = "sleep"
	InsightTypeNutrition   InsightType = "nutrition"
	InsightTypeRecovery    InsightType = "recovery"
	InsightTypeHeartHealth InsightType = "heart_health"
	InsightTypeWeight      InsightType = "weight"
	InsightTypeSteps       InsightType = "steps"
)

// InsightPriority represents how urgently an insight should be surfaced
type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

// HealthInsight is a single rule-generated observation with an optional
// suggested action. The ID is the stable code of the rule that produced it.
type HealthInsight struct {
	ID         string          `json:"id"`
	Type       InsightType     `json:"type"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Priority   InsightPriority `json:"priority"`
	Date       time.Time       `json:"date"`
	Actionable bool            `json:"actionable"`
	Action     *string         `json:"action,omitempty"`
}

// FitnessLevel classifies training ability, ordered beginner < intermediate
// < advanced < elite
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
	LevelElite        FitnessLevel = "elite"
)

// FitnessAssessment classifies cardio and strength ability and combines them
// into an overall level
type FitnessAssessment struct {
	OverallLevel     FitnessLevel   `json:"overall_level"`
	CardioLevel      FitnessLevel   `json:"cardio_level"`
	StrengthLevel    FitnessLevel   `json:"strength_level"`
	ConsistencyScore float64        `json:"consistency_score"`
	ProgressTrend    TrendDirection `json:"progress_trend"`
	AssessmentDate   time.Time      `json:"assessment_date"`
}

// HealthReport is the composite artifact returned by report generation
type HealthReport struct {
	Recovery    RecoveryScore     `json:"recovery"`
	Insights    []HealthInsight   `json:"insights"`
	Fitness     FitnessAssessment `json:"fitness"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// StoredReport is the persisted form of a generated health report
type StoredReport struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	OverallScore float64          `json:"overall_score"`
	Category     RecoveryCategory `json:"category"`
	Report       HealthReport     `json:"report"`
	Narrative    *string          `json:"narrative,omitempty"`
	PDFPath      *string          `json:"pdf_path,omitempty"`
	GeneratedAt  time.Time        `json:"generated_at"`
	CreatedAt    time.Time        `json:"created_at"`
}

// UserDataExport is the full privacy export for one user
type UserDataExport struct {
	UserID     string         `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Samples    []HealthSample `json:"samples"`
	Workouts   []Workout      `json:"workouts"`
	Reports    []StoredReport `json:"reports"`
}
