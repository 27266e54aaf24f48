package dashboard

import (
	"context"
	"errors"
	"io"
	"time"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/desc"
	"vitalz/dashboard/pkg/vitalz"

	"go.uber.org/zap"
)

// Server wires the upstream client into the loader and the text front ends.
type Server struct {
	Config   defs.Config
	Client   *vitalz.Client
	Loader   *Loader
	Logger   *zap.Logger
	Location *time.Location
}

func NewServer(config defs.Config) (*Server, error) {
	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	client := vitalz.New(config.Vitalz.BaseURL, config.Vitalz.Timeout, config.Logger)
	return &Server{
		Config:   config,
		Client:   client,
		Loader:   &Loader{Source: client, Logger: config.Logger},
		Logger:   config.Logger,
		Location: loc,
	}, nil
}

// Browse runs an interactive session reading commands from in.
func (s *Server) Browse(ctx context.Context, in io.Reader, out io.Writer) error {
	d := New(s.Loader, s.Logger, s.Location)
	return NewBrowser(d, in, out).Run(ctx)
}

// Users prints the user list once.
func (s *Server) Users(ctx context.Context, out io.Writer) error {
	users, err := s.Loader.Users(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, desc.New(s.Location).Users(users))
	return err
}

// Day prints the report for one user's day once.
func (s *Server) Day(ctx context.Context, key defs.UserKey, date string, out io.Writer) error {
	if !key.Valid() {
		return errors.New("email and device are required")
	}
	if _, err := time.Parse(defs.DateLayout, date); err != nil {
		return ErrInvalidDate
	}

	day, err := s.Loader.Day(ctx, key, date, nil)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, desc.New(s.Location).Day(day))
	return err
}
