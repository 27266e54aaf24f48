package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"vitalz/dashboard/defs"

	"github.com/montanaflynn/stats"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type Variability string

const (
	VariabilityLow    Variability = "low"
	VariabilityMedium Variability = "medium"
	VariabilityHigh   Variability = "high"
)

// Coefficient of variation bounds, in percent.
const (
	highVariationCV   = 15
	mediumVariationCV = 8
)

const (
	outlierDeviations = 2
	trendDeviations   = 0.5
)

type MetricStats struct {
	Average           float64     `json:"average"`
	Min               float64     `json:"min"`
	Max               float64     `json:"max"`
	Range             float64     `json:"range"`
	StandardDeviation float64     `json:"standardDeviation"`
	Outliers          []float64   `json:"outliers"`
	Trend             Trend       `json:"trend"`
	VariabilityScore  Variability `json:"variabilityScore"`
}

type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ProcessedStatistics struct {
	Raw           []defs.Reading `json:"raw"`
	HR            MetricStats    `json:"hr"`
	HRV           MetricStats    `json:"hrv"`
	Oxygen        MetricStats    `json:"oxygen"`
	TotalReadings int            `json:"totalReadings"`
	TimeRange     TimeRange      `json:"timeRange"`
}

// ComputeMetricStats summarises one metric over a day. Values must be in
// chronological order for the trend to be meaningful. Only the average and
// standard deviation are rounded, to 2 decimals; min, max and range are raw.
func ComputeMetricStats(values []float64) MetricStats {
	if len(values) == 0 {
		return MetricStats{
			Outliers:         []float64{},
			Trend:            TrendStable,
			VariabilityScore: VariabilityLow,
		}
	}

	// Errors are only returned for empty input.
	avg, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	dev, _ := stats.StandardDeviationPopulation(values)

	outliers := make([]float64, 0)
	for _, v := range values {
		if math.Abs(v-avg) > outlierDeviations*dev {
			outliers = append(outliers, v)
		}
	}

	roundedAvg, _ := stats.Round(avg, 2)
	roundedDev, _ := stats.Round(dev, 2)

	return MetricStats{
		Average:           roundedAvg,
		Min:               min,
		Max:               max,
		Range:             max - min,
		StandardDeviation: roundedDev,
		Outliers:          outliers,
		Trend:             trendOf(values, dev),
		VariabilityScore:  variabilityOf(avg, dev),
	}
}

func variabilityOf(avg, dev float64) Variability {
	if avg == 0 {
		return VariabilityLow
	}
	cv := dev / avg * 100
	switch {
	case cv > highVariationCV:
		return VariabilityHigh
	case cv > mediumVariationCV:
		return VariabilityMedium
	default:
		return VariabilityLow
	}
}

// trendOf compares the mean of the second half of the day against the first.
func trendOf(values []float64, dev float64) Trend {
	mid := len(values) / 2
	if mid == 0 {
		return TrendStable
	}

	first, _ := stats.Mean(values[:mid])
	second, _ := stats.Mean(values[mid:])
	threshold := dev * trendDeviations

	switch {
	case second-first > threshold:
		return TrendUp
	case first-second > threshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// ParseTimeToMinutes converts HH:MM to minutes since midnight. Malformed
// input is treated as midnight.
func ParseTimeToMinutes(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

// SortReadings returns a chronologically ordered copy of readings.
func SortReadings(readings []defs.Reading) []defs.Reading {
	sorted := make([]defs.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ParseTimeToMinutes(sorted[i].Time) < ParseTimeToMinutes(sorted[j].Time)
	})
	return sorted
}

// Process computes per-metric statistics for one user's day. It returns nil
// when there are no readings.
func Process(readings []defs.Reading) *ProcessedStatistics {
	if len(readings) == 0 {
		return nil
	}

	sorted := SortReadings(readings)

	hr := make([]float64, len(sorted))
	hrv := make([]float64, len(sorted))
	oxygen := make([]float64, len(sorted))
	for i, r := range sorted {
		hr[i] = r.HR
		hrv[i] = r.HRV
		oxygen[i] = r.OxygenSaturation
	}

	return &ProcessedStatistics{
		Raw:           sorted,
		HR:            ComputeMetricStats(hr),
		HRV:           ComputeMetricStats(hrv),
		Oxygen:        ComputeMetricStats(oxygen),
		TotalReadings: len(sorted),
		TimeRange: TimeRange{
			Start: sorted[0].Time,
			End:   sorted[len(sorted)-1].Time,
		},
	}
}
