package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"linkboard/internal/auth/handler/mocks"
	"linkboard/internal/auth/models"
	"linkboard/internal/auth/service"
	jwttoken "linkboard/internal/jwt_token"
	ratelimitModels "linkboard/internal/ratelimit/models"
	"linkboard/internal/ratelimit/service/loginlimit"
	id "linkboard/pkg/domain"
	dErrors "linkboard/pkg/domain-errors"
	"linkboard/pkg/platform/httputil"
	"linkboard/pkg/platform/middleware/auth"
	"linkboard/pkg/platform/middleware/requesttime"
	"linkboard/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service
type AuthHandlerSuite struct {
	suite.Suite
	now    time.Time
	userID id.UserID
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.userID = id.NewUserID()
}

func (s *AuthHandlerSuite) TestHandler_Login() {
	s.T().Run("happy path - session token issued", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		expected := &models.TokenResult{Token: "tok", TokenType: "session", IssuedAt: s.now}
		mockService.EXPECT().Login(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *models.LoginRequest) (*models.TokenResult, error) {
				assert.Equal(t, "alice@example.com", req.Email)
				assert.Equal(t, "hunter22", req.Password)
				assert.True(t, req.RememberMe)
				assert.Equal(t, "203.0.113.9", req.Address)
				return expected, nil
			})

		rr := s.do(t, router, http.MethodPost, "/auth/login",
			`{"email":"  Alice@Example.com ","password":"hunter22","remember_me":true}`, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var got models.TokenResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "tok", got.Token)
		assert.Equal(t, "session", got.TokenType)
	})

	s.T().Run("400 - invalid json body", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Login(gomock.Any(), gomock.Any()).Times(0)

		rr := s.do(t, router, http.MethodPost, "/auth/login", `{"email": "`, nil)
		s.assertError(t, rr, http.StatusBadRequest, "bad_request")
	})

	s.T().Run("400 - unknown field", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Login(gomock.Any(), gomock.Any()).Times(0)

		rr := s.do(t, router, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"x","admin":true}`, nil)
		s.assertError(t, rr, http.StatusBadRequest, "bad_request")
	})

	s.T().Run("400 error scenarios - invalid input", func(t *testing.T) {
		for name, body := range map[string]string{
			"missing email":   `{"password":"hunter22"}`,
			"invalid email":   `{"email":"not-an-email","password":"hunter22"}`,
			"blank password":  `{"email":"a@example.com","password":"   "}`,
			"short totp code": `{"email":"a@example.com","password":"hunter22","totp_code":"123"}`,
		} {
			mockService, router := s.newHandler(t)
			mockService.EXPECT().Login(gomock.Any(), gomock.Any()).Times(0)

			rr := s.do(t, router, http.MethodPost, "/auth/login", body, nil)
			s.assertError(t, rr, http.StatusBadRequest, "validation_error", name)
		}
	})

	s.T().Run("401 - invalid credentials", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, service.ErrInvalidCredentials)

		rr := s.do(t, router, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"wrong"}`, nil)
		body := s.assertError(t, rr, http.StatusUnauthorized, "unauthorized")
		assert.Equal(t, "invalid credentials", body.ErrorDescription)
		assert.Empty(t, body.Reason)
	})

	s.T().Run("401 - totp required", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, service.ErrTOTPRequired)

		rr := s.do(t, router, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"right"}`, nil)
		body := s.assertError(t, rr, http.StatusUnauthorized, "unauthorized")
		assert.Equal(t, "totp_required", body.Reason)
	})

	s.T().Run("429 - blocked with retry-after", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		blocked := &loginlimit.RateLimitExceededError{
			Scope:     ratelimitModels.ScopeUsername,
			ExpiresAt: s.now.Add(90*time.Second + 500*time.Millisecond),
		}
		mockService.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, blocked)

		rr := s.do(t, router, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"x"}`, nil)
		body := s.assertError(t, rr, http.StatusTooManyRequests, "rate_limited")
		assert.Equal(t, "91", rr.Header().Get("Retry-After"))
		assert.NotContains(t, body.ErrorDescription, "username")
	})

	s.T().Run("500 - infrastructure failure hides detail", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("dial tcp: refused"), dErrors.CodeInternal, "failed to check login block"))

		rr := s.do(t, router, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"x"}`, nil)
		body := s.assertError(t, rr, http.StatusInternalServerError, "internal_error")
		assert.Empty(t, body.ErrorDescription)
		assert.NotContains(t, rr.Body.String(), "refused")
	})
}

func (s *AuthHandlerSuite) TestHandler_Refresh() {
	s.T().Run("happy path - new token", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		expected := &models.TokenResult{Token: "fresh", TokenType: "remember_me", IssuedAt: s.now}
		mockService.EXPECT().Refresh(gomock.Any(), "old.token").Return(expected, nil)

		rr := s.do(t, router, http.MethodPost, "/auth/refresh", `{"token":" old.token "}`, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.TokenResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "fresh", got.Token)
	})

	s.T().Run("401 - expired token carries reason", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Refresh(gomock.Any(), "old.token").Return(nil, jwttoken.ErrExpired)

		rr := s.do(t, router, http.MethodPost, "/auth/refresh", `{"token":"old.token"}`, nil)
		body := s.assertError(t, rr, http.StatusUnauthorized, "invalid_token")
		assert.Equal(t, "expired", body.Reason)
	})

	s.T().Run("400 - missing token", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Refresh(gomock.Any(), gomock.Any()).Times(0)

		rr := s.do(t, router, http.MethodPost, "/auth/refresh", `{}`, nil)
		s.assertError(t, rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *AuthHandlerSuite) TestHandler_Me() {
	claims := jwttoken.Claims{SubjectUserID: s.userID, Type: jwttoken.TypeSession, IssuedAt: s.now, JTI: ""}

	s.T().Run("happy path - principal returned", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().CurrentUser(gomock.Any(), claims).Return(&models.MeResult{
			UserID:    s.userID.String(),
			Email:     "alice@example.com",
			TokenType: "session",
			IssuedAt:  s.now,
		}, nil)

		rr := s.do(t, router, http.MethodGet, "/auth/me", "", &claims)
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.MeResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, s.userID.String(), got.UserID)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	s.T().Run("401 - no principal", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().CurrentUser(gomock.Any(), gomock.Any()).Times(0)

		rr := s.do(t, router, http.MethodGet, "/auth/me", "", nil)
		s.assertError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	s.T().Run("404 - user deleted", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().CurrentUser(gomock.Any(), claims).Return(nil, dErrors.New(dErrors.CodeNotFound, "user not found"))

		rr := s.do(t, router, http.MethodGet, "/auth/me", "", &claims)
		s.assertError(t, rr, http.StatusNotFound, "not_found")
	})
}

func (s *AuthHandlerSuite) TestHandler_CLITokens() {
	claims := jwttoken.Claims{SubjectUserID: s.userID, Type: jwttoken.TypeSession, IssuedAt: s.now}

	s.T().Run("issue - 201", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().IssueCLIToken(gomock.Any(), s.userID).
			Return(&models.TokenResult{Token: "cli", TokenType: "cli", IssuedAt: s.now, JTI: "jti-1"}, nil)

		rr := s.do(t, router, http.MethodPost, "/auth/cli-tokens", "", &claims)
		require.Equal(t, http.StatusCreated, rr.Code)
		var got models.TokenResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "jti-1", got.JTI)
		assert.Nil(t, got.ExpiresAt)
	})

	s.T().Run("list - maps tokens", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().ListCLITokens(gomock.Any(), s.userID).Return([]models.CLIToken{
			{JTI: "b", CreatedAt: s.now},
			{JTI: "a", CreatedAt: s.now.Add(-time.Hour)},
		}, nil)

		rr := s.do(t, router, http.MethodGet, "/auth/cli-tokens", "", &claims)
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.CLITokenListResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got.Tokens, 2)
		assert.Equal(t, "b", got.Tokens[0].JTI)
	})

	s.T().Run("list - empty is an empty array", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().ListCLITokens(gomock.Any(), s.userID).Return(nil, nil)

		rr := s.do(t, router, http.MethodGet, "/auth/cli-tokens", "", &claims)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"tokens":[]}`, rr.Body.String())
	})

	s.T().Run("revoke - 204", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().RevokeCLIToken(gomock.Any(), s.userID, "jti-1").Return(nil)

		rr := s.do(t, router, http.MethodDelete, "/auth/cli-tokens/jti-1", "", &claims)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	s.T().Run("revoke - 404 when not owned", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().RevokeCLIToken(gomock.Any(), s.userID, "someone-elses").Return(service.ErrCLITokenNotFound)

		rr := s.do(t, router, http.MethodDelete, "/auth/cli-tokens/someone-elses", "", &claims)
		s.assertError(t, rr, http.StatusNotFound, "not_found")
	})

	s.T().Run("401 - no principal", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().IssueCLIToken(gomock.Any(), gomock.Any()).Times(0)

		rr := s.do(t, router, http.MethodPost, "/auth/cli-tokens", "", nil)
		s.assertError(t, rr, http.StatusUnauthorized, "unauthorized")
	})
}

func (s *AuthHandlerSuite) newHandler(t *testing.T) (*mocks.MockService, *chi.Mux) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := mocks.NewMockService(ctrl)
	h := New(mockService, logger)
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterProtected(r)
	return mockService, r
}

// do sends a request the way the middleware chain would deliver it: client
// metadata and request time set, and claims present when given.
func (s *AuthHandlerSuite) do(t *testing.T, router http.Handler, method, path, body string, claims *jwttoken.Claims) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	ctx := requestcontext.WithRequestID(req.Context(), "req-1")
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.9", "curl/8.0")
	ctx = requesttime.WithTime(ctx, s.now)
	if claims != nil {
		ctx = auth.WithClaims(ctx, *claims)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func (s *AuthHandlerSuite) assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string, msgAndArgs ...any) httputil.ErrorResponse {
	t.Helper()
	assert.Equal(t, status, rr.Code, msgAndArgs...)
	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), msgAndArgs...)
	assert.Equal(t, code, body.Error, msgAndArgs...)
	return body
}
