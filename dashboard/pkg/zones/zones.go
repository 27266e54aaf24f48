// Package zones classifies vital signs, scores and sleep into qualitative bands.
package zones

import (
	"time"
	"vitalz/dashboard/pkg/stats"
)

type Zone string

const (
	Error     Zone = "error"
	Warning   Zone = "warning"
	Success   Zone = "success"
	Secondary Zone = "secondary"
	Primary   Zone = "primary"
)

// HeartRate classifies beats per minute.
func HeartRate(bpm float64) Zone {
	switch {
	case bpm < 50 || bpm > 100:
		return Error
	case bpm < 60:
		return Warning
	default:
		return Success
	}
}

// HRV classifies heart rate variability in milliseconds.
func HRV(ms float64) Zone {
	switch {
	case ms < 20:
		return Error
	case ms < 30:
		return Warning
	default:
		return Success
	}
}

// Oxygen classifies blood oxygen saturation in percent.
func Oxygen(pct float64) Zone {
	switch {
	case pct < 90:
		return Error
	case pct < 95:
		return Warning
	default:
		return Success
	}
}

var scoreTypes = map[string]Zone{
	"Stress":     Error,
	"MildStress": Warning,
	"Recovery":   Success,
}

// ScoreType maps a score category to a zone, unknown categories are Secondary.
func ScoreType(category string) Zone {
	if z, ok := scoreTypes[category]; ok {
		return z
	}
	return Secondary
}

func Variability(v stats.Variability) Zone {
	switch v {
	case stats.VariabilityHigh:
		return Error
	case stats.VariabilityMedium:
		return Warning
	default:
		return Success
	}
}

type WellnessLevel string

const (
	Excellent WellnessLevel = "EXCELLENT"
	Good      WellnessLevel = "GOOD"
	Fair      WellnessLevel = "FAIR"
	Moderate  WellnessLevel = "MODERATE"
	AtRisk    WellnessLevel = "AT RISK"
)

func Wellness(score float64) WellnessLevel {
	switch {
	case score >= 80:
		return Excellent
	case score >= 70:
		return Good
	case score >= 60:
		return Fair
	case score >= 40:
		return Moderate
	default:
		return AtRisk
	}
}

type SleepRating string

const (
	SleepExcellent SleepRating = "Excellent"
	SleepGood      SleepRating = "Good"
	SleepFair      SleepRating = "Fair"
	SleepPoor      SleepRating = "Poor"
)

type SleepAssessment struct {
	Score       int         `json:"score"`
	Rating      SleepRating `json:"rating"`
	Description string      `json:"description"`
}

// SleepQuality scores a night out of 100: up to 40 for duration, 30 for deep
// sleep and 30 for time spent awake.
func SleepQuality(asleep time.Duration, deepPct, awakePct float64) SleepAssessment {
	hours := asleep.Hours()

	score := 0
	switch {
	case hours >= 7 && hours <= 9:
		score += 40
	case hours >= 6:
		score += 30
	case hours >= 5:
		score += 20
	default:
		score += 10
	}

	switch {
	case deepPct >= 20:
		score += 30
	case deepPct >= 15:
		score += 20
	default:
		score += 10
	}

	switch {
	case awakePct <= 5:
		score += 30
	case awakePct <= 10:
		score += 25
	case awakePct <= 15:
		score += 20
	default:
		score += 10
	}

	switch {
	case score >= 85:
		return SleepAssessment{score, SleepExcellent, "Outstanding sleep quality"}
	case score >= 70:
		return SleepAssessment{score, SleepGood, "Good restorative sleep"}
	case score >= 55:
		return SleepAssessment{score, SleepFair, "Moderate sleep quality"}
	default:
		return SleepAssessment{score, SleepPoor, "Sleep needs improvement"}
	}
}

type Band struct {
	Low  float64
	High float64
}

func (b Band) contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// SleepParameter is a reference range for one sleep measurement.
type SleepParameter struct {
	Optimal    Band
	Acceptable Band
	Unit       string
}

var (
	TotalSleep = SleepParameter{Optimal: Band{7, 9}, Acceptable: Band{6, 10}, Unit: "hours"}
	DeepSleep  = SleepParameter{Optimal: Band{15, 25}, Acceptable: Band{10, 30}, Unit: "%"}
	AwakeTime  = SleepParameter{Optimal: Band{0, 10}, Acceptable: Band{0, 15}, Unit: "%"}
)

type Status struct {
	Zone  Zone   `json:"zone"`
	Label string `json:"label"`
}

func (p SleepParameter) Status(v float64) Status {
	switch {
	case p.Optimal.contains(v):
		return Status{Success, "Optimal"}
	case p.Acceptable.contains(v):
		return Status{Warning, "Acceptable"}
	default:
		return Status{Error, "Needs Attention"}
	}
}
