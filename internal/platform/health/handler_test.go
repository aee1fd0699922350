package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"linkboard/pkg/platform/clock"
)

type HealthSuite struct {
	suite.Suite
	handler *Handler
	router  *chi.Mux
	clock   *clock.Manual
}

func TestHealthSuite(t *testing.T) {
	suite.Run(t, new(HealthSuite))
}

func (s *HealthSuite) SetupTest() {
	s.clock = clock.NewManual(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.handler = New("test", WithClock(s.clock))
	s.router = chi.NewRouter()
	s.handler.Register(s.router)
}

func (s *HealthSuite) get(path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func (s *HealthSuite) TestLiveness() {
	rr := s.get("/health/live")
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"status":"alive"}`, rr.Body.String())
}

func (s *HealthSuite) TestStatus() {
	rr := s.get("/health")
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal("healthy", resp.Status)
	s.Equal("test", resp.Environment)
	s.Equal(Version, resp.Version)
	s.Equal("2024-01-01T12:00:00Z", resp.Timestamp)
	s.Zero(resp.UptimeSeconds)

	s.clock.Advance(90 * time.Second)
	rr = s.get("/health")
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal(int64(90), resp.UptimeSeconds)
}

func (s *HealthSuite) TestReadinessAllUp() {
	s.handler.RegisterCheck("postgres", func(context.Context) error { return nil })

	rr := s.get("/health/ready")
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp ReadinessResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal("ready", resp.Status)
	s.Equal("up", resp.Checks["postgres"])
}

func (s *HealthSuite) TestReadinessReportsFailingCheck() {
	s.handler.RegisterCheck("postgres", func(context.Context) error { return nil })
	s.handler.RegisterCheck("redis", func(context.Context) error { return errors.New("connection refused") })

	rr := s.get("/health/ready")
	s.Require().Equal(http.StatusServiceUnavailable, rr.Code)

	var resp ReadinessResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal("not_ready", resp.Status)
	s.Equal("up", resp.Checks["postgres"])
	s.Equal("down", resp.Checks["redis"])
	s.NotContains(rr.Body.String(), "connection refused")
}

func (s *HealthSuite) TestChecksReceiveDeadline() {
	var hasDeadline bool
	s.handler.RegisterCheck("db", func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	s.get("/health/ready")
	s.True(hasDeadline)
}

func (s *HealthSuite) TestReRegisterReplacesCheck() {
	s.handler.RegisterCheck("redis", func(context.Context) error { return errors.New("down") })
	s.handler.RegisterCheck("redis", func(context.Context) error { return nil })

	rr := s.get("/health/ready")
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"status":"ready","checks":{"redis":"up"}}`, rr.Body.String())
}
