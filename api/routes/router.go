package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parkpals/parkpals-backend/api/controllers"
	"github.com/parkpals/parkpals-backend/api/middleware"
	"github.com/parkpals/parkpals-backend/internal/auth"
	"github.com/parkpals/parkpals-backend/internal/authz"
	"github.com/parkpals/parkpals-backend/internal/dashboard"
	"github.com/parkpals/parkpals-backend/internal/dogs"
	"github.com/parkpals/parkpals-backend/internal/parks"
	"github.com/parkpals/parkpals-backend/internal/users"
	"github.com/parkpals/parkpals-backend/internal/visits"
	"github.com/parkpals/parkpals-backend/pkg/auth/session"
	"github.com/parkpals/parkpals-backend/pkg/config"
	"github.com/parkpals/parkpals-backend/pkg/db"
	"github.com/parkpals/parkpals-backend/pkg/logger"
	redisclient "github.com/parkpals/parkpals-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redisclient.Pinger,
	redisClient *redisclient.Client,
	sessions session.AccessSessionChecker,
	authzService authz.Service,
	authService auth.Service,
	userService users.Service,
	dogService dogs.Service,
	parkService parks.Service,
	visitService visits.Service,
	dashboardService dashboard.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisP, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, authzService, logg)).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, authzService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UsersMe(userService, logg))
			r.Patch("/me", controllers.UsersUpdateMe(userService, logg))
			r.Post("/me/change-password", controllers.UsersChangePassword(userService, logg))
		})

		r.Route("/dogs", func(r chi.Router) {
			r.Post("/", controllers.DogsCreate(dogService, logg))
			r.Get("/", controllers.DogsList(dogService, logg))
			r.Get("/{dogID}", controllers.DogsGet(dogService, logg))
			r.Patch("/{dogID}", controllers.DogsUpdate(dogService, logg))
			r.Delete("/{dogID}", controllers.DogsDelete(dogService, logg))
		})

		r.Route("/parks", func(r chi.Router) {
			r.Post("/", controllers.ParksCreate(parkService, logg))
			r.Get("/", controllers.ParksList(parkService, logg))
			r.Get("/{parkID}", controllers.ParksGet(parkService, logg))
			r.Patch("/{parkID}", controllers.ParksUpdate(parkService, logg))
			r.Delete("/{parkID}", controllers.ParksDelete(parkService, logg))
		})

		r.Route("/visits", func(r chi.Router) {
			r.Post("/", controllers.VisitsCreate(visitService, logg))
			r.Get("/", controllers.VisitsList(visitService, logg))
			r.Get("/my", controllers.VisitsListMine(visitService, logg))
			r.Get("/upcoming-activity", controllers.VisitsUpcoming(visitService, logg))
			r.Get("/dashboard-stats", controllers.VisitsDashboardStats(dashboardService, logg))
			r.Get("/{visitID}", controllers.VisitsGet(visitService, logg))
			r.Patch("/{visitID}", controllers.VisitsUpdate(visitService, logg))
			r.Delete("/{visitID}", controllers.VisitsDelete(visitService, logg))
		})

		r.Route("/admin/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Post("/", controllers.AdminUsersCreate(userService, logg))
			r.Get("/", controllers.AdminUsersList(userService, logg))
			r.Get("/{userID}", controllers.AdminUsersGet(userService, logg))
			r.Patch("/{userID}", controllers.AdminUsersUpdate(userService, logg))
			r.Delete("/{userID}", controllers.AdminUsersDeactivate(userService, logg))
		})
	})

	return r
}
