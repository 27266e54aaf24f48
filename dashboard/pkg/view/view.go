// Package view assembles the records and derived statistics shown for a user and a day.
package view

import (
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/stats"
	"vitalz/dashboard/pkg/zones"
)

// UserData is everything loaded up front for a selected user.
type UserData struct {
	Key    defs.UserKey       `json:"-"`
	Sleep  []defs.SleepRecord `json:"sleep"`
	Scores []defs.ScoreRecord `json:"scores"`
}

// SleepOn returns the first sleep record for date, if any.
func (ud *UserData) SleepOn(date string) *defs.SleepRecord {
	if ud == nil {
		return nil
	}
	return firstOn(ud.Sleep, date)
}

// ScoreOn returns the first score record for date, if any.
func (ud *UserData) ScoreOn(date string) *defs.ScoreRecord {
	if ud == nil {
		return nil
	}
	return firstOn(ud.Scores, date)
}

func firstOn[T defs.Dated](records []T, date string) *T {
	for i := range records {
		if records[i].GetDate() == date {
			return &records[i]
		}
	}
	return nil
}

type SleepView struct {
	Record   defs.SleepRecord      `json:"record"`
	Quality  zones.SleepAssessment `json:"quality"`
	Duration zones.Status          `json:"duration"`
	Deep     zones.Status          `json:"deep"`
	Awake    zones.Status          `json:"awake"`
}

func NewSleepView(sr *defs.SleepRecord) *SleepView {
	if sr == nil {
		return nil
	}

	asleep := sr.TotalAsleep()
	deep := float64(sr.Deep.Int())
	awake := float64(sr.Awake.Int())

	return &SleepView{
		Record:   *sr,
		Quality:  zones.SleepQuality(asleep, deep, awake),
		Duration: zones.TotalSleep.Status(asleep.Hours()),
		Deep:     zones.DeepSleep.Status(deep),
		Awake:    zones.AwakeTime.Status(awake),
	}
}

type ScoreView struct {
	Record   defs.ScoreRecord    `json:"record"`
	Zone     zones.Zone          `json:"zone"`
	Wellness zones.WellnessLevel `json:"wellness"`
}

func NewScoreView(sc *defs.ScoreRecord) *ScoreView {
	if sc == nil {
		return nil
	}
	return &ScoreView{
		Record:   *sc,
		Zone:     zones.ScoreType(sc.ScoreType),
		Wellness: zones.Wellness(sc.VitalzScore),
	}
}

// Day is the detail view for one user and date. Any part may be nil when
// nothing was recorded.
type Day struct {
	Date       string                     `json:"date"`
	Sleep      *SleepView                 `json:"sleep"`
	Score      *ScoreView                 `json:"score"`
	Statistics *stats.ProcessedStatistics `json:"statistics"`
	Summary    *zones.DailySummary        `json:"summary"`
}

func NewDay(date string, ud *UserData, readings []defs.Reading) *Day {
	ps := stats.Process(readings)
	return &Day{
		Date:       date,
		Sleep:      NewSleepView(ud.SleepOn(date)),
		Score:      NewScoreView(ud.ScoreOn(date)),
		Statistics: ps,
		Summary:    zones.Summarize(ps),
	}
}

// Empty reports whether nothing at all was recorded for the day.
func (d *Day) Empty() bool {
	return d.Sleep == nil && d.Score == nil && d.Statistics == nil
}
