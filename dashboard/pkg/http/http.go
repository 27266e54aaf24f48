package http

import (
	"context"
	"net/http"
	"strconv"
	"time"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/pkg/calendar"
	"vitalz/dashboard/pkg/stats"
	"vitalz/dashboard/pkg/view"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	upstreamTimeout = 15 * time.Second
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	requestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_request_duration_seconds",
			Help:    "Dashboard request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

type dashboardLoader interface {
	Users(ctx context.Context) ([]defs.User, error)
	UserData(ctx context.Context, key defs.UserKey) (*view.UserData, error)
	Day(ctx context.Context, key defs.UserKey, date string, ud *view.UserData) (*view.Day, error)
	Statistics(ctx context.Context, key defs.UserKey, date string) (*stats.ProcessedStatistics, error)
}

type HttpServer struct {
	Loader   dashboardLoader
	Logger   *zap.Logger
	Location *time.Location

	router *gin.Engine
}

type calendarResponse struct {
	*calendar.Calendar
	Sleep  []defs.SleepRecord `json:"sleep"`
	Scores []defs.ScoreRecord `json:"scores"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func New(loader dashboardLoader, logger *zap.Logger, loc *time.Location) *HttpServer {
	hs := &HttpServer{
		Loader:   loader,
		Logger:   logger,
		Location: loc,
	}
	hs.router = hs.routes()
	return hs
}

func (s *HttpServer) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *HttpServer) Run(addr string) error {
	s.Logger.Info("serving dashboard", zap.String("address", addr))
	return s.router.Run(addr)
}

func (s *HttpServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	d := r.Group("/dashboard")
	d.GET("/users", s.users)
	d.GET("/calendar", s.calendar)
	d.GET("/day", s.day)
	d.GET("/statistics", s.statistics)

	return r
}

// observe tags each request with an id, then logs and counts it.
func (s *HttpServer) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		latency := time.Since(start)

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		requestDurationSeconds.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

		s.Logger.Debug("handled request",
			zap.String("id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		)
	}
}

func (s *HttpServer) fail(c *gin.Context, status int, msg string, err error) {
	id := c.GetString(requestIDHeader)
	if err != nil {
		s.Logger.Debug("request failed",
			zap.String("id", id),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, RequestID: id})
}

func userKey(c *gin.Context) (defs.UserKey, bool) {
	key := defs.UserKey{
		LoginEmail:   c.Query("LoginEmail"),
		DeviceUserID: c.Query("DeviceUserID"),
	}
	return key, key.Valid()
}

func (s *HttpServer) users(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	users, err := s.Loader.Users(ctx)
	if err != nil {
		s.fail(c, http.StatusBadGateway, "Failed to fetch users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *HttpServer) calendar(c *gin.Context) {
	key, ok := userKey(c)
	if !ok {
		s.fail(c, http.StatusBadRequest, "LoginEmail and DeviceUserID are required", nil)
		return
	}

	var month time.Time
	if m := c.Query("Month"); m != "" {
		t, err := time.ParseInLocation(defs.MonthLayout, m, s.Location)
		if err != nil {
			s.fail(c, http.StatusBadRequest, "Month must be YYYY-MM", nil)
			return
		}
		month = t
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	ud, err := s.Loader.UserData(ctx, key)
	if err != nil {
		s.fail(c, http.StatusBadGateway, "Failed to fetch user data", err)
		return
	}

	now := time.Now().In(s.Location)
	if month.IsZero() {
		month = calendar.InitialMonth(ud.Sleep, ud.Scores, now)
	}

	c.JSON(http.StatusOK, calendarResponse{
		Calendar: calendar.New(month, ud.Sleep, ud.Scores, now),
		Sleep:    ud.Sleep,
		Scores:   ud.Scores,
	})
}

func (s *HttpServer) dayQuery(c *gin.Context) (defs.UserKey, string, bool) {
	key, ok := userKey(c)
	if !ok {
		s.fail(c, http.StatusBadRequest, "LoginEmail and DeviceUserID are required", nil)
		return key, "", false
	}
	date := c.Query("Date")
	if _, err := time.Parse(defs.DateLayout, date); err != nil {
		s.fail(c, http.StatusBadRequest, "Date must be YYYY-MM-DD", nil)
		return key, "", false
	}
	return key, date, true
}

func (s *HttpServer) day(c *gin.Context) {
	key, date, ok := s.dayQuery(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	day, err := s.Loader.Day(ctx, key, date, nil)
	if err != nil {
		s.fail(c, http.StatusBadGateway, "Failed to fetch statistics", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// statistics only touches the readings endpoint, so sleep or score outages
// do not fail it.
func (s *HttpServer) statistics(c *gin.Context) {
	key, date, ok := s.dayQuery(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
	defer cancel()

	ps, err := s.Loader.Statistics(ctx, key, date)
	if err != nil {
		s.fail(c, http.StatusBadGateway, "Failed to fetch statistics", err)
		return
	}
	c.JSON(http.StatusOK, ps)
}
