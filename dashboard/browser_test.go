package dashboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"vitalz/dashboard/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBrowser(input string) (*Browser, *bytes.Buffer) {
	loader := &Loader{Source: newSource(), Logger: zap.NewNop()}
	out := &bytes.Buffer{}
	return NewBrowser(New(loader, zap.NewNop(), time.UTC), strings.NewReader(input), out), out
}

func TestBrowserSession(t *testing.T) {
	b, out := newBrowser(strings.Join([]string{
		"help",
		"user 1",
		"month prev",
		"month last",
		"date 2024-05-01",
		"quit",
		"users",
	}, "\n"))

	require.NoError(t, b.Run(context.Background()))

	s := out.String()
	assert.Contains(t, s, "[1] Alice <alice@example.com>")
	assert.Contains(t, s, "[2] Bob <bob@example.com>")
	assert.Contains(t, s, "commands:")
	assert.Contains(t, s, "Alice: 1 sleep records, 1 scores")
	assert.Contains(t, s, "April 2024")
	assert.Contains(t, s, "May 2024")
	assert.Contains(t, s, "May 1, 2024")
	assert.Contains(t, s, "2 readings from 08:00 AM to 09:00 AM")

	// Nothing after quit runs.
	assert.Equal(t, 1, strings.Count(s, "[2] Bob"))
}

func TestBrowserSelectByEmail(t *testing.T) {
	b, out := newBrowser("")
	require.NoError(t, b.Dashboard.LoadUsers(context.Background()))

	require.NoError(t, b.Exec(context.Background(), "user BOB@example.com"))
	assert.Contains(t, out.String(), "Bob: 1 sleep records, 0 scores")
	assert.Contains(t, out.String(), "March 2024")
}

func TestBrowserErrors(t *testing.T) {
	b, _ := newBrowser("")
	ctx := context.Background()
	require.NoError(t, b.Dashboard.LoadUsers(ctx))

	assert.ErrorIs(t, b.Exec(ctx, "calendar"), ErrNoUser)
	assert.ErrorIs(t, b.Exec(ctx, "date 2024-05-01"), ErrNoUser)
	assert.Error(t, b.Exec(ctx, "user 9"))
	assert.Error(t, b.Exec(ctx, "user nobody@example.com"))
	assert.Error(t, b.Exec(ctx, "dance"))
	assert.NoError(t, b.Exec(ctx, "   "))

	require.NoError(t, b.Exec(ctx, "user 1"))
	assert.ErrorIs(t, b.Exec(ctx, "date 05/01/2024"), ErrInvalidDate)
	assert.Error(t, b.Exec(ctx, "month sideways"))
	assert.Error(t, b.Exec(ctx, "show"))
}

func TestBrowserUsersFailure(t *testing.T) {
	b, out := newBrowser("users\nquit\n")
	b.Dashboard.Loader.Source.(*mocks.Source).Err = errors.New("boom")

	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, 2, strings.Count(out.String(), UsersFailed))
	assert.NotContains(t, out.String(), "boom")
}

func TestBrowserUserLoadDiscarded(t *testing.T) {
	b, _ := newBrowser("")
	ctx := context.Background()
	require.NoError(t, b.Dashboard.LoadUsers(ctx))

	source := b.Dashboard.Loader.Source.(*mocks.Source)
	gate := make(chan struct{})
	source.Gates[alice.LoginEmail] = gate

	go func() {
		for len(source.Calls()) < 3 {
			time.Sleep(time.Millisecond)
		}
		b.Dashboard.Close()
		close(gate)
	}()

	err := b.Exec(ctx, "user 1")
	assert.EqualError(t, err, UserDataFailed)
	assert.Nil(t, b.Dashboard.Snapshot().UserData)
}

func TestBrowserEmptyDay(t *testing.T) {
	b, out := newBrowser("")
	ctx := context.Background()
	require.NoError(t, b.Dashboard.LoadUsers(ctx))
	require.NoError(t, b.Exec(ctx, "user 1"))

	require.NoError(t, b.Exec(ctx, "date 2024-06-30"))
	assert.Contains(t, out.String(), "No data recorded for this day")
	assert.Equal(t, time.June, b.Dashboard.Snapshot().Month.Month())

	require.NoError(t, b.Exec(ctx, "close"))
	assert.Empty(t, b.Dashboard.Snapshot().Date)
}

func TestBrowserQuitOnCanceledContext(t *testing.T) {
	b, _ := newBrowser("help\nhelp\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, errors.Is(b.Run(ctx), context.Canceled))
}
