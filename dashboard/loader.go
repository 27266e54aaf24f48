package dashboard

import (
	"context"
	"fmt"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/stats"
	"vitalz/dashboard/pkg/view"
	"vitalz/dashboard/pkg/vitalz"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Loader struct {
	Source vitalz.Source
	Logger *zap.Logger
}

func (l *Loader) Users(ctx context.Context) ([]defs.User, error) {
	users, err := l.Source.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch users: %w", err)
	}
	return users, nil
}

// UserData fetches sleep and score records concurrently, both must succeed.
func (l *Loader) UserData(ctx context.Context, key defs.UserKey) (*view.UserData, error) {
	ud := &view.UserData{Key: key}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sleep, err := l.Source.SleepData(gctx, key)
		if err != nil {
			return fmt.Errorf("unable to fetch sleep data: %w", err)
		}
		ud.Sleep = sleep
		return nil
	})
	g.Go(func() error {
		scores, err := l.Source.Scores(gctx, key)
		if err != nil {
			return fmt.Errorf("unable to fetch scores: %w", err)
		}
		ud.Scores = scores
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.Logger.Debug("loaded user data",
		zap.String("device", key.DeviceUserID),
		zap.Int("sleep", len(ud.Sleep)),
		zap.Int("scores", len(ud.Scores)),
	)

	return ud, nil
}

// Statistics fetches only the day's readings and processes them. It is nil
// when nothing was recorded.
func (l *Loader) Statistics(ctx context.Context, key defs.UserKey, date string) (*stats.ProcessedStatistics, error) {
	readings, err := l.Source.Readings(ctx, key, date)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch statistics: %w", err)
	}

	l.Logger.Debug("loaded statistics",
		zap.String("device", key.DeviceUserID),
		zap.String("date", date),
		zap.Int("readings", len(readings)),
	)

	return stats.Process(readings), nil
}

// Day builds the detail view for date. When ud is nil the user's sleep and
// score records are fetched alongside the readings.
func (l *Loader) Day(ctx context.Context, key defs.UserKey, date string, ud *view.UserData) (*view.Day, error) {
	var readings []defs.Reading

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		readings, err = l.Source.Readings(gctx, key, date)
		if err != nil {
			return fmt.Errorf("unable to fetch statistics: %w", err)
		}
		return nil
	})
	if ud == nil {
		g.Go(func() error {
			var err error
			ud, err = l.UserData(gctx, key)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.Logger.Debug("loaded day",
		zap.String("device", key.DeviceUserID),
		zap.String("date", date),
		zap.Int("readings", len(readings)),
	)

	return view.NewDay(date, ud, readings), nil
}
