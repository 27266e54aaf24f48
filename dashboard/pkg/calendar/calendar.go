package calendar

import (
	"time"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/zones"
)

const (
	Weeks       = 6
	DaysPerWeek = 7
	TotalDays   = Weeks * DaysPerWeek
)

var WeekDays = [DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type Day struct {
	Date           string            `json:"date"`
	Day            int               `json:"day"`
	IsCurrentMonth bool              `json:"isCurrentMonth"`
	HasData        bool              `json:"hasData"`
	IsToday        bool              `json:"isToday"`
	Score          *defs.ScoreRecord `json:"score,omitempty"`
	Indicator      zones.Zone        `json:"indicator,omitempty"`
}

// Selectable reports whether the day can be opened from the grid.
func (d Day) Selectable() bool {
	return d.IsCurrentMonth
}

type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Calendar struct {
	Month time.Time `json:"month"`
	Days  []Day     `json:"days"`
	Range *Range    `json:"range,omitempty"`
}

// New lays out the six week grid containing month. Dates with sleep or score
// records are marked, scored dates are coloured by score type.
func New(month time.Time, sleep []defs.SleepRecord, scores []defs.ScoreRecord, now time.Time) *Calendar {
	loc := now.Location()
	first := MonthOf(month.In(loc))

	available := make(map[string]bool)
	scoreByDate := make(map[string]defs.ScoreRecord)
	for _, sr := range sleep {
		available[sr.Date] = true
	}
	for _, sc := range scores {
		available[sc.Date] = true
		scoreByDate[sc.Date] = sc
	}

	dates := make([]string, 0, len(available))
	for d := range available {
		dates = append(dates, d)
	}

	cal := &Calendar{Month: first, Days: make([]Day, 0, TotalDays)}
	if start, end, ok := DateRange(dates, loc); ok {
		cal.Range = &Range{Start: start, End: end}
	}

	today := now.Format(defs.DateLayout)
	current := first.AddDate(0, 0, -int(first.Weekday()))
	for i := 0; i < TotalDays; i++ {
		date := current.Format(defs.DateLayout)
		day := Day{
			Date:           date,
			Day:            current.Day(),
			IsCurrentMonth: current.Month() == first.Month(),
			HasData:        available[date],
			IsToday:        date == today,
		}
		if sc, ok := scoreByDate[date]; ok {
			sc := sc
			day.Score = &sc
		}
		day.Indicator = indicator(day)

		cal.Days = append(cal.Days, day)
		current = current.AddDate(0, 0, 1)
	}

	return cal
}

func indicator(d Day) zones.Zone {
	switch {
	case !d.HasData:
		return ""
	case d.Score != nil:
		return zones.ScoreType(d.Score.ScoreType)
	default:
		return zones.Primary
	}
}

// Lookup finds a date in the grid.
func (c *Calendar) Lookup(date string) (Day, bool) {
	for _, d := range c.Days {
		if d.Date == date {
			return d, true
		}
	}
	return Day{}, false
}

func (c *Calendar) Next() time.Time {
	return c.Month.AddDate(0, 1, 0)
}

func (c *Calendar) Prev() time.Time {
	return c.Month.AddDate(0, -1, 0)
}

// First is the month holding the earliest record, or the current month when empty.
func (c *Calendar) First() time.Time {
	if c.Range == nil {
		return c.Month
	}
	return MonthOf(c.Range.Start)
}

// Last is the month holding the latest record, or the current month when empty.
func (c *Calendar) Last() time.Time {
	if c.Range == nil {
		return c.Month
	}
	return MonthOf(c.Range.End)
}

// MonthOf truncates t to midnight on the first of its month.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// InitialMonth picks the month of the most recent record, falling back to now.
func InitialMonth(sleep []defs.SleepRecord, scores []defs.ScoreRecord, now time.Time) time.Time {
	dates := make([]string, 0, len(sleep)+len(scores))
	for _, sr := range sleep {
		dates = append(dates, sr.Date)
	}
	for _, sc := range scores {
		dates = append(dates, sc.Date)
	}

	if _, end, ok := DateRange(dates, now.Location()); ok {
		return MonthOf(end)
	}
	return MonthOf(now)
}

// DateRange returns the earliest and latest parseable dates. Unparseable
// dates are skipped.
func DateRange(dates []string, loc *time.Location) (time.Time, time.Time, bool) {
	var start, end time.Time
	found := false
	for _, d := range dates {
		t, err := time.ParseInLocation(defs.DateLayout, d, loc)
		if err != nil {
			continue
		}
		if !found || t.Before(start) {
			start = t
		}
		if !found || t.After(end) {
			end = t
		}
		found = true
	}
	return start, end, found
}
