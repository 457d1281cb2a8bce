// One-off: go run ./cmd/seed -username demo -password demo1234 -plan plan.yaml
//
// Creates a user in the configured Postgres store and optionally imports a
// YAML learning plan for them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"learntrack/internal/config"
	"learntrack/internal/importer"
	"learntrack/internal/repo"
	"learntrack/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	username := flag.String("username", "demo", "username of the new user")
	password := flag.String("password", "demo1234", "password of the new user")
	email := flag.String("email", "", "email, defaults to <username>@example.com")
	plan := flag.String("plan", "", "optional YAML plan to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Store.Driver != config.DriverPostgres {
		log.Fatalf("seed needs STORE_DRIVER=%s", config.DriverPostgres)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PG.DSN)
	if err != nil {
		log.Fatalf("pg connect: %v", err)
	}
	store := repo.NewPGStore(pool)
	defer store.Close()

	if *email == "" {
		*email = *username + "@example.com"
	}
	users := service.NewUserService(store, nil)
	u, err := users.Register(ctx, service.RegisterInput{Email: *email, Username: *username, Password: *password})
	if err != nil {
		log.Fatalf("register %s: %v", *username, err)
	}
	fmt.Printf("user %d: %s\n", u.ID, u.Username)

	if *plan == "" {
		return
	}
	data, err := os.ReadFile(*plan)
	if err != nil {
		log.Fatalf("read plan: %v", err)
	}
	gp, err := importer.Import(ctx, service.NewGoalService(store, nil), u.ID, data)
	if err != nil {
		log.Fatalf("import %s: %v", *plan, err)
	}
	fmt.Printf("goal %d: %s (%d tasks)\n", gp.Goal.ID, gp.Goal.Title, gp.Progress.TotalTasks)
}
