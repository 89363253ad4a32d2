// @title To-Do Web App
// @version 1.0
// @description Session-authenticated multi-user to-do list
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"github.com/spf13/pflag"

	_ "TODO_WEB-APP/docs" // This is required for swagger
	"TODO_WEB-APP/internal/config"
	"TODO_WEB-APP/internal/flash"
	"TODO_WEB-APP/internal/handlers"
	"TODO_WEB-APP/internal/render"
	"TODO_WEB-APP/internal/routes"
	"TODO_WEB-APP/internal/session"
	"TODO_WEB-APP/internal/store"
	"TODO_WEB-APP/internal/store/memory"
	"TODO_WEB-APP/internal/store/mongodb"
	"TODO_WEB-APP/internal/store/postgres"
	"TODO_WEB-APP/internal/utils"
)

func main() {
	envFiles := pflag.StringSlice("env-file", []string{".env"}, "dotenv files to load before reading the environment")
	port := pflag.String("port", "", "listen port (overrides SERVER_PORT)")
	pflag.Parse()

	cfg, err := config.Load(*envFiles...)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	// A store that cannot be reached at startup is fatal
	db, err := openStore(context.Background(), &cfg.Database)
	if err != nil {
		logger.Error("open store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())
	logger.Info("store connected", "driver", cfg.Database.Driver)

	// --- HTTP Handlers ---

	renderer, err := render.New()
	if err != nil {
		logger.Error("parse templates", "error", err)
		os.Exit(1)
	}

	sessions := session.NewManager(db, &cfg.Session)
	view := handlers.NewView(renderer, flash.New(cfg.Session.Secret, cfg.Session.CookieSecure), logger, cfg.IsGoogleOAuthConfigured())

	var mailer handlers.Mailer
	if cfg.IsEmailConfigured() {
		mailer = utils.NewEmailService(&cfg.Email)
	}

	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(db, sessions, view, mailer, logger),
		Tasks:  handlers.NewTasksHandler(db, view),
		Health: handlers.NewHealthHandler(db, logger),
	}
	if cfg.IsGoogleOAuthConfigured() {
		h.Google = handlers.NewGoogleAuthHandler(db, sessions, view, logger, cfg)
	}

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(routes.NewRouter(h, sessions, logger)),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// --- HTTP Server + Graceful Shutdown ---

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ListenAndServe", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown", "error", err)
	}
	logger.Info("Server stopped.")
}

func openStore(ctx context.Context, cfg *config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverMongo:
		db, err := mongodb.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
