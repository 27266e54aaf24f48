package vitalz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"vitalz/dashboard/defs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	userListEndpoint   = "api/getUserList"
	sleepDataEndpoint  = "api/getUserSleepData"
	scoreEndpoint      = "api/getUserScore"
	statisticsEndpoint = "api/getUserStatics" // Spelling is part of the upstream contract.
)

var ErrUnexpectedStatus = errors.New("unexpected status")

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitalz_upstream_requests_total",
			Help: "Total number of requests made to the vitalz API",
		},
		[]string{"endpoint", "outcome"},
	)

	upstreamDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitalz_upstream_request_duration_seconds",
			Help:    "Duration of requests made to the vitalz API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

type Source interface {
	Users(ctx context.Context) ([]defs.User, error)
	SleepData(ctx context.Context, key defs.UserKey) ([]defs.SleepRecord, error)
	Scores(ctx context.Context, key defs.UserKey) ([]defs.ScoreRecord, error)
	Readings(ctx context.Context, key defs.UserKey, date string) ([]defs.Reading, error)
}

type Client struct {
	client  *http.Client
	logger  *zap.Logger
	baseURL string
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) Users(ctx context.Context) ([]defs.User, error) {
	return fetch[defs.User](ctx, c, userListEndpoint, nil)
}

func (c *Client) SleepData(ctx context.Context, key defs.UserKey) ([]defs.SleepRecord, error) {
	return fetch[defs.SleepRecord](ctx, c, sleepDataEndpoint, userParams(key))
}

func (c *Client) Scores(ctx context.Context, key defs.UserKey) ([]defs.ScoreRecord, error) {
	return fetch[defs.ScoreRecord](ctx, c, scoreEndpoint, userParams(key))
}

func (c *Client) Readings(ctx context.Context, key defs.UserKey, date string) ([]defs.Reading, error) {
	params := userParams(key)
	params.Set("Date", date)
	return fetch[defs.Reading](ctx, c, statisticsEndpoint, params)
}

func userParams(key defs.UserKey) url.Values {
	return url.Values{
		"LoginEmail":   {key.LoginEmail},
		"DeviceUserID": {key.DeviceUserID},
	}
}

func fetch[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	// Login emails stay out of the logs.
	c.logger.Debug("making fetch request",
		zap.String("endpoint", endpoint),
		zap.String("device", params.Get("DeviceUserID")),
		zap.String("date", params.Get("Date")),
	)

	start := time.Now()
	defer func() {
		upstreamDurationSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	data, err := c.do(ctx, u, endpoint)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.Debug("fetch request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, err
	}
	upstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()

	var resp defs.Response[T]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unable to decode %s response: %w", endpoint, err)
	}
	if resp.Data == nil {
		resp.Data = make([]T, 0)
	}

	c.logger.Debug("received records from vitalz API",
		zap.String("endpoint", endpoint),
		zap.Int("count", len(resp.Data)),
	)

	return resp.Data, nil
}

func (c *Client) do(ctx context.Context, u, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error carries the full query, login email included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("unable to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w from %s: %d", ErrUnexpectedStatus, endpoint, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("unable to read %s response: %w", endpoint, err)
	}
	return raw, nil
}
