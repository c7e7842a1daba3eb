package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/moviegraph/moviegraph/internal/auth"
	"github.com/moviegraph/moviegraph/internal/config"
	"github.com/moviegraph/moviegraph/internal/database"
	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/handler"
	"github.com/moviegraph/moviegraph/internal/queue"
	"github.com/moviegraph/moviegraph/internal/repository"
	"github.com/moviegraph/moviegraph/internal/router"
	"github.com/moviegraph/moviegraph/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	privateKey, err := auth.LoadPrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("load signing key: %v", err)
	}
	publicKey, err := auth.LoadPublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("load verification key: %v", err)
	}

	users := repository.NewUserRepo(db)
	resolver := &graph.Resolver{
		Movies:     repository.NewMovieRepo(db),
		Actors:     repository.NewActorRepo(db),
		Ratings:    repository.NewRatingRepo(db),
		Users:      users,
		Auth:       auth.NewGuard(users, publicKey),
		SigningKey: privateKey,
		TokenTTL:   time.Duration(cfg.JWTTTLSeconds) * time.Second,
		BcryptCost: cfg.BcryptCost,
		Events:     service.NewPublisher(),
	}
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		log.Fatalf("build schema: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	// Record movie.added events in the background.
	go func() {
		if err := queue.StartMovieConsumer(); err != nil {
			log.Printf("movie consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, handler.NewGraphQLHandler(schema, cfg.Env), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
