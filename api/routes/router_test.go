package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parkpals/parkpals-backend/internal/auth"
	"github.com/parkpals/parkpals-backend/internal/authz"
	"github.com/parkpals/parkpals-backend/internal/dashboard"
	"github.com/parkpals/parkpals-backend/internal/dogs"
	"github.com/parkpals/parkpals-backend/internal/parks"
	"github.com/parkpals/parkpals-backend/internal/users"
	"github.com/parkpals/parkpals-backend/internal/visits"
	pkgAuth "github.com/parkpals/parkpals-backend/pkg/auth"
	"github.com/parkpals/parkpals-backend/pkg/auth/session"
	"github.com/parkpals/parkpals-backend/pkg/config"
	"github.com/parkpals/parkpals-backend/pkg/logger"
	redisclient "github.com/parkpals/parkpals-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthzService struct{}

// Resolve treats user 99 as the administrator fixture.
func (stubAuthzService) Resolve(ctx context.Context, userID int64) (authz.Principal, error) {
	return authz.Principal{UserID: userID, IsAdmin: userID == 99}, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	panic("unimplemented")
}

type stubUserService struct{}

func (stubUserService) GetProfile(ctx context.Context, userID int64) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID, Username: "stub"}, nil
}

func (stubUserService) UpdateProfile(ctx context.Context, principal authz.Principal, dto users.UpdateUserDTO) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) ChangePassword(ctx context.Context, userID int64, req users.ChangePasswordRequest) error {
	panic("unimplemented")
}

func (stubUserService) CreateUser(ctx context.Context, dto users.AdminCreateUserRequest) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) ListUsers(ctx context.Context) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (stubUserService) GetUser(ctx context.Context, id int64) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) UpdateUser(ctx context.Context, id int64, dto users.UpdateUserDTO) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) DeactivateUser(ctx context.Context, id int64) error {
	panic("unimplemented")
}

type stubDogService struct{}

func (stubDogService) Create(ctx context.Context, principal authz.Principal, req dogs.CreateDogRequest) (*dogs.DogDTO, error) {
	panic("unimplemented")
}

func (stubDogService) Get(ctx context.Context, id int64) (*dogs.DogDTO, error) {
	panic("unimplemented")
}

func (stubDogService) ListMine(ctx context.Context, principal authz.Principal) ([]dogs.DogDTO, error) {
	return []dogs.DogDTO{}, nil
}

func (stubDogService) ListAll(ctx context.Context) ([]dogs.DogDTO, error) {
	return []dogs.DogDTO{}, nil
}

func (stubDogService) Update(ctx context.Context, principal authz.Principal, id int64, req dogs.UpdateDogRequest) (*dogs.DogDTO, error) {
	panic("unimplemented")
}

func (stubDogService) Delete(ctx context.Context, principal authz.Principal, id int64) error {
	panic("unimplemented")
}

type stubParkService struct{}

func (stubParkService) Create(ctx context.Context, principal authz.Principal, req parks.CreateParkRequest) (*parks.ParkDTO, error) {
	panic("unimplemented")
}

func (stubParkService) Get(ctx context.Context, id int64) (*parks.ParkDTO, error) {
	panic("unimplemented")
}

func (stubParkService) List(ctx context.Context, search string) ([]parks.ParkDTO, error) {
	return []parks.ParkDTO{}, nil
}

func (stubParkService) Update(ctx context.Context, principal authz.Principal, id int64, req parks.UpdateParkRequest) (*parks.ParkDTO, error) {
	panic("unimplemented")
}

func (stubParkService) Delete(ctx context.Context, principal authz.Principal, id int64) error {
	panic("unimplemented")
}

type stubVisitService struct{}

func (stubVisitService) Create(ctx context.Context, principal authz.Principal, req visits.CreateVisitRequest) (*visits.VisitDTO, error) {
	panic("unimplemented")
}

func (stubVisitService) Get(ctx context.Context, id int64) (*visits.VisitDTO, error) {
	panic("unimplemented")
}

func (stubVisitService) List(ctx context.Context, filter visits.ListFilter) ([]visits.VisitDTO, error) {
	return []visits.VisitDTO{}, nil
}

func (stubVisitService) ListMine(ctx context.Context, principal authz.Principal) ([]visits.VisitDTO, error) {
	return []visits.VisitDTO{}, nil
}

func (stubVisitService) ListUpcoming(ctx context.Context, now time.Time) ([]visits.VisitDTO, error) {
	return []visits.VisitDTO{}, nil
}

func (stubVisitService) Update(ctx context.Context, principal authz.Principal, id int64, req visits.UpdateVisitRequest) (*visits.VisitDTO, error) {
	panic("unimplemented")
}

func (stubVisitService) Delete(ctx context.Context, principal authz.Principal, id int64) error {
	panic("unimplemented")
}

type stubDashboardService struct{}

func (stubDashboardService) Compute(ctx context.Context, principal authz.Principal, now time.Time) (*dashboard.Stats, error) {
	return &dashboard.Stats{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		(*redisclient.Client)(nil),
		stubSessionChecker{},
		stubAuthzService{},
		stubAuthService{},
		stubUserService{},
		stubDogService{},
		stubParkService{},
		stubVisitService{},
		stubDashboardService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, userID int64) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyPingsDependencies(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/users/me", "/api/v1/dogs/", "/api/v1/parks/", "/api/v1/visits/"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token got %d", path, resp.Code)
		}
	}
}

func TestProtectedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 1))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 1))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 99))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestRefreshIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil))
	// reaches the controller (400 for the empty body) instead of a 401 gate
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
