package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/parkpals/parkpals-backend/api/routes"
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
	"github.com/parkpals/parkpals-backend/pkg/migrate"
	"github.com/parkpals/parkpals-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	dogRepo := dogs.NewRepository(dbClient.DB())
	parkRepo := parks.NewRepository(dbClient.DB())
	visitRepo := visits.NewRepository(dbClient.DB())

	authzService, err := authz.NewService(authz.ServiceParams{UserRepo: userRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create authz service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	dogService, err := dogs.NewService(dogs.ServiceParams{DogRepo: dogRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create dog service", err)
		os.Exit(1)
	}

	parkService, err := parks.NewService(parks.ServiceParams{ParkRepo: parkRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create park service", err)
		os.Exit(1)
	}

	visitService, err := visits.NewService(visits.ServiceParams{
		Client:    dbClient,
		VisitRepo: visitRepo,
		UserRepo:  userRepo,
		ParkRepo:  parkRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create visit service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{DB: dbClient.DB()})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			sessionManager,
			authzService,
			authService,
			userService,
			dogService,
			parkService,
			visitService,
			dashboardService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
