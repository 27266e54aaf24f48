package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vitalz/dashboard"
	"vitalz/dashboard/defs"
	"vitalz/dashboard/mocks"
	"vitalz/dashboard/pkg/stats"
	"vitalz/dashboard/pkg/view"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const keyQuery = "LoginEmail=jane@example.com&DeviceUserID=dev-1"

var jane = defs.User{ID: "7", LoginEmail: "jane@example.com", UserName: "Jane", DeviceCompany: "Acme", DeviceUserID: "dev-1"}

type HttpTestSuite struct {
	suite.Suite
	source *mocks.Source
	server *HttpServer
}

func TestHttpTestSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(HttpTestSuite))
}

func (suite *HttpTestSuite) SetupTest() {
	suite.source = &mocks.Source{
		UserList: []defs.User{jane},
		SleepRecords: map[string][]defs.SleepRecord{
			jane.LoginEmail: {{Date: "2024-05-01", Awake: "4", Deep: "22", TotalTimeAsleep: "28800"}},
		},
		ScoreRecords: map[string][]defs.ScoreRecord{
			jane.LoginEmail: {{Date: "2024-05-02", VitalzScore: 64, ScoreType: "Stress"}},
		},
		DayReadings: map[string][]defs.Reading{
			mocks.ReadingsKey(jane.LoginEmail, "2024-05-01"): {
				{Time: "09:00", HR: 70, HRV: 40, OxygenSaturation: 98},
				{Time: "08:00", HR: 60, HRV: 42, OxygenSaturation: 97},
			},
		},
	}
	loader := &dashboard.Loader{Source: suite.source, Logger: zap.NewNop()}
	suite.server = New(loader, zap.NewNop(), time.UTC)
}

func (suite *HttpTestSuite) get(target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	suite.server.Handler().ServeHTTP(w, req)
	return w
}

func (suite *HttpTestSuite) TestHealth() {
	w := suite.get("/health")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(suite.T(), w.Header().Get(requestIDHeader))
}

func (suite *HttpTestSuite) TestRequestIDIsEchoed() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	suite.server.Handler().ServeHTTP(w, req)

	assert.Equal(suite.T(), "abc-123", w.Header().Get(requestIDHeader))
}

func (suite *HttpTestSuite) TestMetrics() {
	suite.get("/health")

	w := suite.get("/metrics")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "dashboard_http_requests_total")
}

func (suite *HttpTestSuite) TestUsers() {
	w := suite.get("/dashboard/users")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var users []defs.User
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &users))
	assert.Equal(suite.T(), []defs.User{jane}, users)
}

func (suite *HttpTestSuite) TestUsersUpstreamFailure() {
	suite.source.Err = errors.New("connection refused")

	w := suite.get("/dashboard/users")
	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)

	var resp errorResponse
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "Failed to fetch users", resp.Error)
	assert.NotContains(suite.T(), w.Body.String(), "connection refused")
}

func (suite *HttpTestSuite) TestCalendar() {
	w := suite.get("/dashboard/calendar?" + keyQuery)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var resp struct {
		Month time.Time `json:"month"`
		Days  []struct {
			Date      string `json:"date"`
			HasData   bool   `json:"hasData"`
			Indicator string `json:"indicator"`
		} `json:"days"`
		Sleep  []defs.SleepRecord `json:"sleep"`
		Scores []defs.ScoreRecord `json:"scores"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(suite.T(), time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), resp.Month.UTC())
	assert.Len(suite.T(), resp.Days, 42)
	assert.Len(suite.T(), resp.Sleep, 1)
	assert.Len(suite.T(), resp.Scores, 1)

	for _, d := range resp.Days {
		switch d.Date {
		case "2024-05-01":
			assert.True(suite.T(), d.HasData)
			assert.Equal(suite.T(), "primary", d.Indicator)
		case "2024-05-02":
			assert.Equal(suite.T(), "error", d.Indicator)
		}
	}
}

func (suite *HttpTestSuite) TestCalendarMonth() {
	w := suite.get("/dashboard/calendar?" + keyQuery + "&Month=2024-06")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var resp struct {
		Month time.Time `json:"month"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), time.June, resp.Month.Month())
}

func (suite *HttpTestSuite) TestBadRequests() {
	for _, target := range []string{
		"/dashboard/calendar",
		"/dashboard/calendar?LoginEmail=jane@example.com",
		"/dashboard/calendar?" + keyQuery + "&Month=June",
		"/dashboard/day?" + keyQuery,
		"/dashboard/day?" + keyQuery + "&Date=2024/05/01",
		"/dashboard/statistics?DeviceUserID=dev-1&Date=2024-05-01",
	} {
		w := suite.get(target)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, target)
	}
	assert.Empty(suite.T(), suite.source.Calls())
}

func (suite *HttpTestSuite) TestDay() {
	w := suite.get("/dashboard/day?" + keyQuery + "&Date=2024-05-01")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var day view.Day
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &day))
	assert.Equal(suite.T(), "2024-05-01", day.Date)
	require.NotNil(suite.T(), day.Sleep)
	assert.Nil(suite.T(), day.Score)
	require.NotNil(suite.T(), day.Statistics)
	assert.Equal(suite.T(), 2, day.Statistics.TotalReadings)
	require.NotNil(suite.T(), day.Summary)
}

func (suite *HttpTestSuite) TestStatistics() {
	w := suite.get("/dashboard/statistics?" + keyQuery + "&Date=2024-05-01")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var ps stats.ProcessedStatistics
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &ps))
	assert.Equal(suite.T(), stats.TimeRange{Start: "08:00", End: "09:00"}, ps.TimeRange)
	assert.Equal(suite.T(), 65.0, ps.HR.Average)
	assert.Equal(suite.T(), stats.TrendUp, ps.HR.Trend)
	assert.Equal(suite.T(), "08:00", ps.Raw[0].Time)
}

func (suite *HttpTestSuite) TestStatisticsOnlyFetchesReadings() {
	suite.source.CallErrs = map[string]error{
		"sleep":  errors.New("sleep endpoint down"),
		"scores": errors.New("score endpoint down"),
	}

	w := suite.get("/dashboard/statistics?" + keyQuery + "&Date=2024-05-01")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var ps stats.ProcessedStatistics
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &ps))
	assert.Equal(suite.T(), 2, ps.TotalReadings)
	assert.Equal(suite.T(), []string{"readings:" + jane.LoginEmail}, suite.source.Calls())
}

func (suite *HttpTestSuite) TestStatisticsUpstreamFailure() {
	suite.source.CallErrs = map[string]error{"readings": errors.New("timeout")}

	w := suite.get("/dashboard/statistics?" + keyQuery + "&Date=2024-05-01")
	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)
}

func (suite *HttpTestSuite) TestStatisticsWithoutReadings() {
	w := suite.get("/dashboard/statistics?" + keyQuery + "&Date=2024-05-09")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "null", w.Body.String())
}

func (suite *HttpTestSuite) TestDayUpstreamFailure() {
	suite.source.Err = errors.New("timeout")

	w := suite.get("/dashboard/day?" + keyQuery + "&Date=2024-05-01")
	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)

	var resp errorResponse
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "Failed to fetch statistics", resp.Error)
	assert.NotEmpty(suite.T(), resp.RequestID)
}
