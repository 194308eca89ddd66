package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Rpoore10/health-hire/internal/config"
	"github.com/Rpoore10/health-hire/internal/database"
	"github.com/Rpoore10/health-hire/internal/database/migration"
	dbpostgres "github.com/Rpoore10/health-hire/internal/database/postgres"
	"github.com/Rpoore10/health-hire/internal/delivery/http/middleware"
	"github.com/Rpoore10/health-hire/internal/delivery/http/routes"
	docpostgres "github.com/Rpoore10/health-hire/internal/docstore/postgres"
	"github.com/Rpoore10/health-hire/internal/identity"
	"github.com/Rpoore10/health-hire/internal/identity/local"
	"github.com/Rpoore10/health-hire/internal/infrastructure/cache"
	"github.com/Rpoore10/health-hire/internal/pkg/jwt"
	"github.com/Rpoore10/health-hire/internal/provision"
	jobuc "github.com/Rpoore10/health-hire/internal/usecase/job"
	"github.com/Rpoore10/health-hire/internal/ws"
	"github.com/Rpoore10/health-hire/migrations"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App

	db database.DB
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := (migration.Runner{FS: migrations.FS}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	redisCache := cache.NewRedis(logger)

	hub := ws.NewHub(logger)
	go hub.Run()
	ws.SetDefaultHub(hub)

	tokens := jwt.NewHMACService(cfg.JWT.SessionSecret, cfg.JWT.SessionExpiresIn)

	store := docpostgres.NewStore(db)
	provisioner := provision.NewProvisioner(store)

	idClient := local.NewClient(
		local.NewUserRepository(db),
		tokens,
		local.NewRedisLimiter(redisCache, 10, time.Minute),
		local.NewRedisResetTokens(redisCache),
		func(event string, s identity.Session) { ws.NotifySessionChanged(event, s.UserID) },
		logger,
	)

	jobs := jobuc.NewService(store, cache.NewSubmitLocks(redisCache), logger)

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	f.Use(middleware.NewErrorMiddleware(logger).Middleware())
	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())

	routes.Register(f, routes.Deps{
		Logger:      logger,
		DB:          db,
		Identity:    idClient,
		Provisioner: provisioner,
		Jobs:        jobs,
		Tokens:      tokens,
		Hub:         hub,
	})

	a := &App{Fiber: f, db: db}
	cleanup := func() error {
		return db.Close()
	}
	return a, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
