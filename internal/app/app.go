package app

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"learntrack/internal/config"
	"learntrack/internal/repo"
	"learntrack/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	store  repo.Store
	redis  *redis.Client
	router *gin.Engine
}

func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	a.store = store

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		store.Close()
		return nil, err
	}
	a.redis = rdb

	a.router = newRouter(cfg, a.store, a.redis)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	return nil
}

func newStore(cfg config.Config) (repo.Store, error) {
	if cfg.Store.Driver == config.DriverMemory {
		log.Printf("using in-memory store, data is lost on restart")
		return repo.NewMemoryStore(), nil
	}
	if err := runMigrations(cfg.PG.DSN, cfg.PG.MigrationsDir); err != nil {
		return nil, err
	}
	pool, err := newPostgres(cfg.PG.DSN)
	if err != nil {
		return nil, err
	}
	return repo.NewPGStore(pool), nil
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string, migrationsDir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, store repo.Store, rdb *redis.Client) *gin.Engine {
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(corsConfig(cfg.HTTP.CORSOrigins)))

	Setup(r, cfg, store, rdb)
	return r
}

// corsConfig allows credentials only for an explicit origin list;
// an empty list or "*" opens the API to every origin without cookies.
func corsConfig(origins string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	list := utils.SplitList(origins)
	if len(list) == 0 || slices.Contains(list, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = list
	c.AllowCredentials = true
	return c
}
