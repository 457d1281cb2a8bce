// @title                       Learning Tracker API
// @version                     1.0
// @description                 Learning goals, tasks and progress dashboards.
// @host                        localhost:8080
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"learntrack/internal/app"
	"learntrack/internal/config"

	_ "learntrack/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logConfig(cfg)

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("app init: %v", err)
	}
	server := newServer(cfg, application.Router())

	errc := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	case err := <-errc:
		log.Printf("HTTP server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout.Duration())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := application.Close(ctx); err != nil {
		log.Fatalf("app close: %v", err)
	}
	log.Printf("bye")
}

func logConfig(cfg config.Config) {
	log.Printf("config loaded (env=%s, version=%s)", cfg.App.Env, cfg.App.Version)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		log.Printf("store: postgres, migrations from %s", cfg.PG.MigrationsDir)
	default:
		log.Printf("store: %s", cfg.Store.Driver)
	}
	if ttl := cfg.Redis.DashboardTTL.Duration(); ttl > 0 {
		log.Printf("dashboard cache: ttl %s (redis %s, db %d)", ttl, cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		log.Printf("dashboard cache: disabled")
	}
	log.Printf("sessions: token ttl %s, CORS origins %q", cfg.Auth.TokenTTL.Duration(), cfg.HTTP.CORSOrigins)
}

func newServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      h,
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}
}
