package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/calendar"
	"vitalz/dashboard/pkg/view"

	"go.uber.org/zap"
)

// Messages shown in place of a view whose fetch failed.
const (
	UsersFailed    = "Failed to fetch users"
	UserDataFailed = "Failed to fetch user data"
	DayFailed      = "Failed to fetch statistics"
)

var (
	ErrNoUser      = errors.New("no user selected")
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// State is a point-in-time copy of what the dashboard shows.
type State struct {
	Users    []defs.User
	UsersErr string

	User        *defs.User
	UserData    *view.UserData
	UserLoading bool
	UserErr     string
	Month       time.Time

	Date       string
	Day        *view.Day
	DayLoading bool
	DayErr     string
}

// Dashboard holds the current user and date selection. Each selection is
// tagged with a generation, responses for anything but the latest one are
// dropped.
type Dashboard struct {
	Loader   *Loader
	Logger   *zap.Logger
	Location *time.Location

	mu         sync.Mutex
	state      State
	userGen    uint64
	dayGen     uint64
	cancelUser context.CancelFunc
	cancelDay  context.CancelFunc
}

func New(loader *Loader, logger *zap.Logger, loc *time.Location) *Dashboard {
	return &Dashboard{Loader: loader, Logger: logger, Location: loc}
}

func (d *Dashboard) now() time.Time {
	return time.Now().In(d.Location)
}

func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dashboard) LoadUsers(ctx context.Context) error {
	users, err := d.Loader.Users(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.Logger.Debug("unable to load users", zap.Error(err))
		d.state.UsersErr = UsersFailed
		return err
	}
	d.state.Users = users
	d.state.UsersErr = ""
	return nil
}

// SelectUser switches to user and loads their records in the background. The
// returned channel is closed once the load has finished or been discarded.
func (d *Dashboard) SelectUser(ctx context.Context, user defs.User) <-chan struct{} {
	d.mu.Lock()
	d.userGen++
	d.dayGen++
	gen := d.userGen
	d.cancelAll()

	ctx, cancel := context.WithCancel(ctx)
	d.cancelUser = cancel

	u := user
	d.state.User = &u
	d.state.UserData = nil
	d.state.UserLoading = true
	d.state.UserErr = ""
	d.clearDay()
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		ud, err := d.Loader.UserData(ctx, user.Key())

		d.mu.Lock()
		defer d.mu.Unlock()
		if gen != d.userGen {
			d.Logger.Debug("discarding stale user data",
				zap.String("device", user.DeviceUserID),
				zap.Uint64("generation", gen),
			)
			return
		}

		d.state.UserLoading = false
		if err != nil {
			d.Logger.Debug("unable to load user data", zap.Error(err))
			d.state.UserErr = UserDataFailed
			return
		}
		d.state.UserData = ud
		d.state.Month = calendar.InitialMonth(ud.Sleep, ud.Scores, d.now())
	}()

	return done
}

// SelectDate opens the detail view for date, loading it in the background.
func (d *Dashboard) SelectDate(ctx context.Context, date string) (<-chan struct{}, error) {
	if _, err := time.Parse(defs.DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	d.mu.Lock()
	if d.state.User == nil {
		d.mu.Unlock()
		return nil, ErrNoUser
	}
	d.dayGen++
	gen := d.dayGen
	if d.cancelDay != nil {
		d.cancelDay()
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancelDay = cancel

	key := d.state.User.Key()
	ud := d.state.UserData
	d.clearDay()
	d.state.Date = date
	d.state.DayLoading = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		day, err := d.Loader.Day(ctx, key, date, ud)

		d.mu.Lock()
		defer d.mu.Unlock()
		if gen != d.dayGen {
			d.Logger.Debug("discarding stale day",
				zap.String("device", key.DeviceUserID),
				zap.String("date", date),
				zap.Uint64("generation", gen),
			)
			return
		}

		d.state.DayLoading = false
		if err != nil {
			d.Logger.Debug("unable to load day", zap.Error(err))
			d.state.DayErr = DayFailed
			return
		}
		d.state.Day = day
	}()

	return done, nil
}

// CloseDate dismisses the detail view, dropping any load in flight.
func (d *Dashboard) CloseDate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dayGen++
	if d.cancelDay != nil {
		d.cancelDay()
		d.cancelDay = nil
	}
	d.clearDay()
}

// SetMonth moves the calendar to the month containing t.
func (d *Dashboard) SetMonth(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Month = calendar.MonthOf(t.In(d.Location))
}

// Calendar lays out the displayed month, nil until user data has loaded.
func (d *Dashboard) Calendar() *calendar.Calendar {
	s := d.Snapshot()
	if s.UserData == nil {
		return nil
	}
	return calendar.New(s.Month, s.UserData.Sleep, s.UserData.Scores, d.now())
}

// Close cancels anything in flight.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.userGen++
	d.dayGen++
	d.cancelAll()
}

func (d *Dashboard) cancelAll() {
	if d.cancelUser != nil {
		d.cancelUser()
		d.cancelUser = nil
	}
	if d.cancelDay != nil {
		d.cancelDay()
		d.cancelDay = nil
	}
}

func (d *Dashboard) clearDay() {
	d.state.Date = ""
	d.state.Day = nil
	d.state.DayLoading = false
	d.state.DayErr = ""
}
