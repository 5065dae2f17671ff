package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/readmark/book-review-api/internal/config"
	"github.com/readmark/book-review-api/internal/database"
	"github.com/readmark/book-review-api/internal/handler"
	"github.com/readmark/book-review-api/internal/queue"
	"github.com/readmark/book-review-api/internal/repository"
	"github.com/readmark/book-review-api/internal/router"
	"github.com/readmark/book-review-api/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)
	reviews := repository.NewReviewRepo(db)

	issuer := token.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)
	verifier := token.NewVerifier(cfg.JWTSecret)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Auth:     handler.NewAuthHandler(users, issuer, cfg.BcryptCost),
		Books:    handler.NewBookHandler(books),
		Reviews:  handler.NewReviewHandler(reviews),
		Verifier: verifier,
		Users:    users,
		Redis:    rdb,
		Cache:    config.LoadCacheConfig(),
		Limit:    config.LoadRateLimitConfig(),
	})

	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
