package mocks

import (
	"context"
	"fmt"
	"sync"
	"vitalz/dashboard/defs"
)

// Source is an in-memory vitalz.Source. Records are keyed by login email,
// readings by email and date.
type Source struct {
	UserList     []defs.User
	SleepRecords map[string][]defs.SleepRecord
	ScoreRecords map[string][]defs.ScoreRecord
	DayReadings  map[string][]defs.Reading

	// Err fails every call when set.
	Err error
	// CallErrs fails only the named call ("sleep", "scores", "readings").
	CallErrs map[string]error
	// Gates block calls for a login email until the channel is closed.
	// Gated calls ignore cancellation so late responses can be observed.
	Gates map[string]chan struct{}

	mu       sync.Mutex
	calls    []string
	canceled []string
}

func ReadingsKey(email, date string) string {
	return email + "/" + date
}

func (s *Source) Users(ctx context.Context) ([]defs.User, error) {
	s.record("users", "")
	if s.Err != nil {
		return nil, s.Err
	}
	return s.UserList, nil
}

func (s *Source) SleepData(ctx context.Context, key defs.UserKey) ([]defs.SleepRecord, error) {
	s.wait(ctx, "sleep", key.LoginEmail)
	if err := s.errFor("sleep"); err != nil {
		return nil, err
	}
	return s.SleepRecords[key.LoginEmail], nil
}

func (s *Source) Scores(ctx context.Context, key defs.UserKey) ([]defs.ScoreRecord, error) {
	s.wait(ctx, "scores", key.LoginEmail)
	if err := s.errFor("scores"); err != nil {
		return nil, err
	}
	return s.ScoreRecords[key.LoginEmail], nil
}

func (s *Source) Readings(ctx context.Context, key defs.UserKey, date string) ([]defs.Reading, error) {
	s.wait(ctx, "readings", key.LoginEmail)
	if err := s.errFor("readings"); err != nil {
		return nil, err
	}
	return s.DayReadings[ReadingsKey(key.LoginEmail, date)], nil
}

func (s *Source) errFor(call string) error {
	if s.Err != nil {
		return s.Err
	}
	return s.CallErrs[call]
}

func (s *Source) wait(ctx context.Context, call, email string) {
	s.record(call, email)

	s.mu.Lock()
	gate, ok := s.Gates[email]
	s.mu.Unlock()
	if !ok {
		return
	}

	<-gate
	if ctx.Err() != nil {
		s.mu.Lock()
		s.canceled = append(s.canceled, fmt.Sprintf("%s:%s", call, email))
		s.mu.Unlock()
	}
}

func (s *Source) record(call, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("%s:%s", call, email))
}

// Calls lists every call made so far as "call:email".
func (s *Source) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Canceled lists gated calls whose context was done when the gate opened.
func (s *Source) Canceled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.canceled...)
}
