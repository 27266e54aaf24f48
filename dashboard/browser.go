package dashboard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/desc"

	"go.uber.org/zap"
)

const browserHelp = `commands:
  users                      list users
  user N | user EMAIL        select a user
  calendar                   show the selected month
  month next|prev|first|last|current
  date YYYY-MM-DD            open a day
  show                       reprint the open day
  close                      close the open day
  help                       this message
  quit                       exit
`

var errQuit = errors.New("quit")

// Browser is a line-oriented front end over a Dashboard.
type Browser struct {
	Dashboard  *Dashboard
	Descriptor *desc.Descriptor
	Logger     *zap.Logger

	In  io.Reader
	Out io.Writer
}

func NewBrowser(d *Dashboard, in io.Reader, out io.Writer) *Browser {
	return &Browser{
		Dashboard:  d,
		Descriptor: desc.New(d.Location),
		Logger:     d.Logger,
		In:         in,
		Out:        out,
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (b *Browser) Run(ctx context.Context) error {
	defer b.Dashboard.Close()

	if err := b.Dashboard.LoadUsers(ctx); err != nil {
		fmt.Fprintln(b.Out, UsersFailed)
	} else {
		fmt.Fprint(b.Out, b.Descriptor.Users(b.Dashboard.Snapshot().Users))
	}

	scanner := bufio.NewScanner(b.In)
	for {
		fmt.Fprint(b.Out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		err := b.Exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(b.Out, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs a single command line.
func (b *Browser) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	b.Logger.Debug("received command", zap.String("cmd", cmd), zap.Strings("args", args))

	switch cmd {
	case "help", "?":
		fmt.Fprint(b.Out, browserHelp)
	case "users":
		return b.handleUsers(ctx)
	case "user":
		return b.handleUser(ctx, args)
	case "calendar", "cal":
		return b.handleCalendar()
	case "month":
		return b.handleMonth(args)
	case "date":
		return b.handleDate(ctx, args)
	case "show":
		return b.handleShow()
	case "close":
		b.Dashboard.CloseDate()
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command: %s (try help)", cmd)
	}
	return nil
}

func (b *Browser) handleUsers(ctx context.Context) error {
	if err := b.Dashboard.LoadUsers(ctx); err != nil {
		return errors.New(UsersFailed)
	}
	fmt.Fprint(b.Out, b.Descriptor.Users(b.Dashboard.Snapshot().Users))
	return nil
}

func (b *Browser) handleUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: user N | user EMAIL")
	}

	user, err := b.findUser(args[0])
	if err != nil {
		return err
	}

	if err := wait(ctx, b.Dashboard.SelectUser(ctx, user)); err != nil {
		return err
	}

	s := b.Dashboard.Snapshot()
	if s.UserErr != "" {
		return errors.New(s.UserErr)
	}
	if s.UserData == nil {
		return errors.New(UserDataFailed)
	}
	fmt.Fprintf(b.Out, "%s: %d sleep records, %d scores\n", user.UserName, len(s.UserData.Sleep), len(s.UserData.Scores))
	return b.handleCalendar()
}

func (b *Browser) findUser(arg string) (defs.User, error) {
	users := b.Dashboard.Snapshot().Users
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(users) {
			return defs.User{}, fmt.Errorf("no user %d", n)
		}
		return users[n-1], nil
	}
	for _, u := range users {
		if strings.EqualFold(u.LoginEmail, arg) {
			return u, nil
		}
	}
	return defs.User{}, fmt.Errorf("no user %s", arg)
}

func (b *Browser) handleCalendar() error {
	cal := b.Dashboard.Calendar()
	if cal == nil {
		return ErrNoUser
	}
	fmt.Fprint(b.Out, b.Descriptor.Calendar(cal))
	return nil
}

func (b *Browser) handleMonth(args []string) error {
	cal := b.Dashboard.Calendar()
	if cal == nil {
		return ErrNoUser
	}
	if len(args) != 1 {
		return errors.New("usage: month next|prev|first|last|current")
	}

	var month time.Time
	switch args[0] {
	case "next":
		month = cal.Next()
	case "prev":
		month = cal.Prev()
	case "first":
		month = cal.First()
	case "last":
		month = cal.Last()
	case "current":
		month = time.Now()
	default:
		return fmt.Errorf("unknown month: %s", args[0])
	}

	b.Dashboard.SetMonth(month)
	return b.handleCalendar()
}

func (b *Browser) handleDate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: date YYYY-MM-DD")
	}

	done, err := b.Dashboard.SelectDate(ctx, args[0])
	if err != nil {
		return err
	}
	if t, err := time.ParseInLocation(defs.DateLayout, args[0], b.Dashboard.Location); err == nil {
		b.Dashboard.SetMonth(t)
	}
	if err := wait(ctx, done); err != nil {
		return err
	}
	return b.handleShow()
}

func (b *Browser) handleShow() error {
	s := b.Dashboard.Snapshot()
	switch {
	case s.Date == "":
		return errors.New("no date selected")
	case s.DayLoading:
		fmt.Fprintln(b.Out, "loading...")
	case s.DayErr != "":
		return errors.New(s.DayErr)
	case s.Day != nil:
		fmt.Fprint(b.Out, b.Descriptor.Day(s.Day))
	}
	return nil
}

func wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
