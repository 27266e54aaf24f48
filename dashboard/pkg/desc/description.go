package desc

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/calendar"
	"vitalz/dashboard/pkg/stats"
	"vitalz/dashboard/pkg/view"
	"vitalz/dashboard/pkg/zones"
)

const (
	cmdTimeFormat   = "03:04 PM"
	dateFormat      = "Jan 2, 2006"
	monthYearFormat = "January 2006"
)

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// Duration formats seconds as "7hr 30min".
func Duration(seconds int) string {
	return fmt.Sprintf("%dhr %dmin", seconds/3600, (seconds%3600)/60)
}

// ScoreType splits a camel-cased category, "MildStress" becomes "Mild Stress".
func ScoreType(s string) string {
	return camelBoundary.ReplaceAllString(s, "$1 $2")
}

// Date formats a YYYY-MM-DD string as "Jan 2, 2006", returning it unchanged
// when it does not parse.
func Date(date string) string {
	t, err := time.Parse(defs.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(dateFormat)
}

// Clock formats an HH:MM reading time on a 12 hour clock.
func Clock(hhmm string) string {
	m := stats.ParseTimeToMinutes(hhmm)
	return time.Date(0, time.January, 1, m/60, m%60, 0, 0, time.UTC).Format(cmdTimeFormat)
}

func MonthYear(t time.Time) string {
	return t.Format(monthYearFormat)
}

type Descriptor struct {
	Loc *time.Location
}

func New(loc *time.Location) *Descriptor {
	return &Descriptor{Loc: loc}
}

// Timestamp formats a sleep onset or wake time in the descriptor's location.
func (d *Descriptor) Timestamp(ts string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		t, err := time.ParseInLocation(layout, ts, d.Loc)
		if err == nil {
			return t.In(d.Loc).Format(cmdTimeFormat)
		}
	}
	return ts
}

func (d *Descriptor) Users(users []defs.User) string {
	if len(users) == 0 {
		return "No users found\n"
	}

	var b strings.Builder
	for i, u := range users {
		fmt.Fprintf(&b, "[%d] %s <%s> :: %s %s\n", i+1, u.UserName, u.LoginEmail, u.DeviceCompany, u.DeviceUserID)
	}
	return b.String()
}

var indicatorMarks = map[zones.Zone]string{
	zones.Success:   "+",
	zones.Warning:   "~",
	zones.Error:     "!",
	zones.Secondary: "?",
	zones.Primary:   "*",
}

func (d *Descriptor) Calendar(cal *calendar.Calendar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", MonthYear(cal.Month))
	for _, wd := range calendar.WeekDays {
		fmt.Fprintf(&b, " %-4s", wd)
	}
	b.WriteString("\n")

	for i, day := range cal.Days {
		mark, ok := indicatorMarks[day.Indicator]
		if !ok {
			mark = " "
		}
		switch {
		case !day.IsCurrentMonth:
			b.WriteString("     ")
		case day.IsToday:
			fmt.Fprintf(&b, "[%2d]%s", day.Day, mark)
		default:
			fmt.Fprintf(&b, " %2d%s ", day.Day, mark)
		}
		if (i+1)%calendar.DaysPerWeek == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("* data  + recovery  ~ mild stress  ! stress  ? other\n")
	if cal.Range != nil {
		fmt.Fprintf(&b, "Data from %s to %s\n",
			cal.Range.Start.Format(dateFormat), cal.Range.End.Format(dateFormat))
	}
	return b.String()
}

func (d *Descriptor) Day(day *view.Day) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Date(day.Date))

	if day.Empty() {
		b.WriteString("No data recorded for this day\n")
		return b.String()
	}

	b.WriteString("\nSleep\n")
	if sv := day.Sleep; sv != nil {
		fmt.Fprintf(&b, "  quality   %s (%d/100) :: %s\n", sv.Quality.Rating, sv.Quality.Score, sv.Quality.Description)
		fmt.Fprintf(&b, "  duration  %s [%s]\n", Duration(sv.Record.TotalTimeAsleep.Int()), sv.Duration.Label)
		fmt.Fprintf(&b, "  onset     %s\n", d.Timestamp(sv.Record.SleepOnset))
		fmt.Fprintf(&b, "  wake      %s\n", d.Timestamp(sv.Record.WakeUpTime))
		fmt.Fprintf(&b, "  deep      %d%% [%s]\n", sv.Record.Deep.Int(), sv.Deep.Label)
		fmt.Fprintf(&b, "  light     %d%%\n", sv.Record.Light.Int())
		fmt.Fprintf(&b, "  awake     %d%% [%s]\n", sv.Record.Awake.Int(), sv.Awake.Label)
	} else {
		b.WriteString("  no sleep data\n")
	}

	b.WriteString("\nScore\n")
	if sc := day.Score; sc != nil {
		fmt.Fprintf(&b, "  %.0f %s :: %s (%s)\n", sc.Record.VitalzScore, sc.Wellness, ScoreType(sc.Record.ScoreType), sc.Zone)
	} else {
		b.WriteString("  no score\n")
	}

	b.WriteString("\nVitals\n")
	if ps := day.Statistics; ps != nil && day.Summary != nil {
		fmt.Fprintf(&b, "  %d readings from %s to %s\n", ps.TotalReadings, Clock(ps.TimeRange.Start), Clock(ps.TimeRange.End))
		for _, v := range day.Summary.Vitals {
			b.WriteString(d.Vital(v))
		}
		fmt.Fprintf(&b, "\n  %s\n", day.Summary.Overall)
		fmt.Fprintf(&b, "  %s showed the most variation today\n", day.Summary.MostDynamic)
		fmt.Fprintf(&b, "  %d outliers detected\n", day.Summary.OutlierCount)
	} else {
		b.WriteString("  no readings\n")
	}

	return b.String()
}

func (d *Descriptor) Vital(v zones.Vital) string {
	ms := v.Stats

	outliers := "none"
	if len(ms.Outliers) > 0 {
		vals := make([]string, len(ms.Outliers))
		for i, o := range ms.Outliers {
			vals[i] = fmt.Sprintf("%g", o)
		}
		outliers = strings.Join(vals, ", ") + " " + v.Unit
	}

	return fmt.Sprintf("  %-24s avg %.2f %s [%s] min %g max %g range %g sd %.2f trend %s variability %s, outliers %s\n",
		v.Label, ms.Average, v.Unit, v.Zone, ms.Min, ms.Max, ms.Range, ms.StandardDeviation, ms.Trend, ms.VariabilityScore, outliers)
}
