package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/voxstream/voxstream-backend/internal/api"
	"github.com/voxstream/voxstream-backend/internal/auth"
	"github.com/voxstream/voxstream-backend/internal/config"
	"github.com/voxstream/voxstream-backend/internal/database"
	"github.com/voxstream/voxstream-backend/internal/repository"
	"github.com/voxstream/voxstream-backend/internal/repository/sqlstore"
	"github.com/voxstream/voxstream-backend/internal/services"
)

func main() {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("VOXSTREAM_LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	// Open the durable store. Failure is non-fatal: the persistence
	// subsystem degrades to in-memory-only operation and the server keeps
	// serving live state.
	var (
		sessionRepo repository.SessionRepository
		metaRepo    repository.MetaRepository
	)
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Warn("Durable storage unavailable, continuing without persistence")
	} else {
		defer db.Close()

		if err := database.RunMigrations(cfg.Database); err != nil {
			log.WithError(err).Warn("Migrations failed, continuing without persistence")
		} else {
			sessionRepo = sqlstore.NewSessionRepository(db.DB)
			metaRepo = sqlstore.NewMetaRepository(db.DB)
		}
	}

	// Wire services and open the persistence lifecycle
	svc := services.NewServices(cfg, sessionRepo, metaRepo, log)
	if err := svc.Persist.Init(context.Background()); err != nil {
		log.WithError(err).Warn("Persistence degraded")
	}

	// Optional bearer-token auth
	var jwtService *auth.JWTService
	if cfg.Auth.Enabled {
		if cfg.Auth.Secret == "" {
			log.Fatal("auth.enabled requires auth.secret (or VOXSTREAM_AUTH_SECRET)")
		}
		jwtService = auth.NewJWTService(cfg.Auth.Secret, cfg.Auth.Issuer)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Voxstream Backend",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getOrigins(cfg),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	api.SetupRoutes(app, svc, jwtService)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Infof("Voxstream backend starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func getOrigins(cfg *config.Config) string {
	if cfg.Server.CORSOrigins != "" {
		return cfg.Server.CORSOrigins
	}
	return "http://localhost:5173,http://localhost:3000"
}
