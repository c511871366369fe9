package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/parkpals/parkpals-backend/api/middleware"
	"github.com/parkpals/parkpals-backend/internal/auth"
	"github.com/parkpals/parkpals-backend/internal/users"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"github.com/parkpals/parkpals-backend/pkg/logger"
	"github.com/parkpals/parkpals-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubAuthService struct {
	loginResp  *auth.LoginResponse
	loginErr   error
	registered *auth.RegisterRequest
	loggedOut  string
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	s.registered = &req
	return &auth.RegisterResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &users.UserDTO{ID: 1, Email: req.Email, Username: req.Username},
	}, nil
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResp, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = accessID
	return nil
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	return &auth.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
}

func TestAuthRegister(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubAuthService{}
		body := `{"email":"alice@example.com","username":"alice","password":"correcthorse"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthRegister(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if stub.registered == nil || stub.registered.Email != "alice@example.com" {
			t.Fatalf("expected register call, got %+v", stub.registered)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		body := `{"email":"alice@example.com","username":"alice","password":"short"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthRegister(&stubAuthService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		body := `{"email":"alice@example.com","username":"alice","password":"correcthorse","is_admin":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthRegister(&stubAuthService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("nil service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		AuthRegister(nil, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestAuthLogin(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubAuthService{loginResp: &auth.LoginResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         &users.UserDTO{ID: 1, Username: "alice"},
		}}
		body := `{"identifier":"alice","password":"correcthorse"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthLogin(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalid credentials stay opaque", func(t *testing.T) {
		stub := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
		body := `{"identifier":"alice","password":"wrong-password"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		AuthLogin(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var envelope types.ErrorEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if envelope.Error.Message != "invalid credentials" {
			t.Fatalf("unexpected message %q", envelope.Error.Message)
		}
	})
}

func TestAuthLogout(t *testing.T) {
	logg := testLogger()

	t.Run("revokes bound session", func(t *testing.T) {
		stub := &stubAuthService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req = req.WithContext(middleware.WithAccessID(req.Context(), "jti-123"))
		rec := httptest.NewRecorder()
		AuthLogout(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.loggedOut != "jti-123" {
			t.Fatalf("expected session jti-123 revoked, got %q", stub.loggedOut)
		}
	})

	t.Run("missing session id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		rec := httptest.NewRecorder()
		AuthLogout(&stubAuthService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthRefresh(t *testing.T) {
	logg := testLogger()

	body := `{"access_token":"old-access","refresh_token":"old-refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthRefresh(&stubAuthService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data auth.TokenPair `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.AccessToken != "new-access" {
		t.Fatalf("expected rotated pair, got %+v", envelope.Data)
	}
}
