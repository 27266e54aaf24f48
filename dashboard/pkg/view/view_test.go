package view

import (
	"testing"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/zones"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ud = &UserData{
	Sleep: []defs.SleepRecord{
		{Date: "2024-05-01", Awake: "4", Deep: "22", Light: "74", TotalTimeAsleep: "28800"},
		{Date: "2024-05-02", Awake: "18", Deep: "9", Light: "73", TotalTimeAsleep: "16200"},
	},
	Scores: []defs.ScoreRecord{
		{Date: "2024-05-01", VitalzScore: 75, ScoreType: "Recovery"},
	},
}

func TestNewDay(t *testing.T) {
	readings := []defs.Reading{
		{Time: "09:00", HR: 72, HRV: 40, OxygenSaturation: 97},
		{Time: "08:00", HR: 68, HRV: 44, OxygenSaturation: 98},
	}

	day := NewDay("2024-05-01", ud, readings)

	require.NotNil(t, day.Sleep)
	assert.Equal(t, 100, day.Sleep.Quality.Score)
	assert.Equal(t, zones.SleepExcellent, day.Sleep.Quality.Rating)
	assert.Equal(t, "Optimal", day.Sleep.Duration.Label)

	require.NotNil(t, day.Score)
	assert.Equal(t, zones.Good, day.Score.Wellness)
	assert.Equal(t, zones.Success, day.Score.Zone)

	require.NotNil(t, day.Statistics)
	assert.Equal(t, "08:00", day.Statistics.TimeRange.Start)
	require.NotNil(t, day.Summary)
	assert.Equal(t, zones.OverallHealthy, day.Summary.Overall)
	assert.False(t, day.Empty())
}

func TestNewDayPoorSleepNoScore(t *testing.T) {
	day := NewDay("2024-05-02", ud, nil)

	require.NotNil(t, day.Sleep)
	assert.Equal(t, zones.SleepPoor, day.Sleep.Quality.Rating)
	assert.Equal(t, "Needs Attention", day.Sleep.Deep.Label)
	assert.Nil(t, day.Score)
	assert.Nil(t, day.Statistics)
	assert.Nil(t, day.Summary)
}

func TestNewDayNothingRecorded(t *testing.T) {
	day := NewDay("2024-06-01", nil, []defs.Reading{})
	assert.True(t, day.Empty())
}
