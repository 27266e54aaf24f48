package zones

import "vitalz/dashboard/pkg/stats"

const (
	OverallHealthy   = "All key metrics are within healthy range"
	OverallAttention = "Attention needed - consult healthcare provider"
	OverallMinor     = "Generally good with minor variations"
)

// Vital is one metric's statistics with the zone of its daily average.
type Vital struct {
	Label       string            `json:"label"`
	Unit        string            `json:"unit"`
	Stats       stats.MetricStats `json:"stats"`
	Zone        Zone              `json:"zone"`
	Variability Zone              `json:"variability"`
}

type DailySummary struct {
	Vitals       []Vital `json:"vitals"`
	Overall      string  `json:"overall"`
	MostDynamic  string  `json:"mostDynamic"`
	OutlierCount int     `json:"outlierCount"`
}

// Vitals classifies heart rate, HRV and oxygen saturation, in that order.
func Vitals(ps *stats.ProcessedStatistics) []Vital {
	return []Vital{
		newVital("Heart Rate", "bpm", ps.HR, HeartRate),
		newVital("Heart Rate Variability", "ms", ps.HRV, HRV),
		newVital("Oxygen Saturation", "%", ps.Oxygen, Oxygen),
	}
}

func newVital(label, unit string, ms stats.MetricStats, classify func(float64) Zone) Vital {
	return Vital{
		Label:       label,
		Unit:        unit,
		Stats:       ms,
		Zone:        classify(ms.Average),
		Variability: Variability(ms.VariabilityScore),
	}
}

// Summarize returns nil when there are no statistics for the day.
func Summarize(ps *stats.ProcessedStatistics) *DailySummary {
	if ps == nil {
		return nil
	}

	vitals := Vitals(ps)
	summary := DailySummary{Vitals: vitals}

	healthy, attention := 0, false
	dynamic := vitals[0]
	for i, v := range vitals {
		switch v.Zone {
		case Success:
			healthy++
		case Error:
			attention = true
		}
		// Ties favour the later metric.
		if i > 0 && !(dynamic.Stats.StandardDeviation > v.Stats.StandardDeviation) {
			dynamic = v
		}
		summary.OutlierCount += len(v.Stats.Outliers)
	}

	switch {
	case healthy == len(vitals):
		summary.Overall = OverallHealthy
	case attention:
		summary.Overall = OverallAttention
	default:
		summary.Overall = OverallMinor
	}
	summary.MostDynamic = dynamic.Label

	return &summary
}
