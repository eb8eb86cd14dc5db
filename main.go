package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/canteen-api/config"
	orderControllers "github.com/junaidrashid-git/canteen-api/controllers/order"
	"github.com/junaidrashid-git/canteen-api/database"
	"github.com/junaidrashid-git/canteen-api/middleware"
	"github.com/junaidrashid-git/canteen-api/routes"
	"github.com/junaidrashid-git/canteen-api/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	app := &cli.App{
		Name:   "canteen-api",
		Usage:  "university canteen ordering backend",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("canteen-api stopped")
	}
}

// bootstrap loads configuration and opens the database.
func bootstrap() (config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	log := cfg.NewLogger()

	db, err := database.Open(cfg, log)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	log.WithField("driver", cfg.DBDriver).Info("database connected")
	return cfg, log, db, nil
}

func closeDB(db *gorm.DB, log logrus.FieldLogger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Warn("closing database")
	}
}

func migrate(_ *cli.Context) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("schema is up to date")
	return nil
}

func serve(c *cli.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if err := database.Migrate(db); err != nil {
		return err
	}

	hub := orderControllers.NewHub(log)
	deps := routes.Deps{
		DB:        db,
		JWTSecret: []byte(cfg.JWTSecret),
		Users:     services.NewUserService(db, log),
		Catalog:   services.NewCatalogService(db, log),
		Carts:     services.NewCartService(db, log),
		Orders:    services.NewOrderService(db, log, hub),
		Hub:       hub,
	}

	gin.SetMode(cfg.GinMode)
	r := newEngine(cfg, log)
	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("port", cfg.Port).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		// Hijacked websocket connections are not tracked by Shutdown.
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
	})

	return g.Wait()
}

func newEngine(cfg config.Config, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// Only the catalog import accepts files.
	r.MaxMultipartMemory = 16 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	return r
}
