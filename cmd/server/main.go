package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mmp/beacon-platform/internal/config"
	"github.com/mmp/beacon-platform/internal/database"
	"github.com/mmp/beacon-platform/internal/handler"
	"github.com/mmp/beacon-platform/internal/queue"
	"github.com/mmp/beacon-platform/internal/repository"
	"github.com/mmp/beacon-platform/internal/router"
	"github.com/mmp/beacon-platform/internal/service"
	"github.com/mmp/beacon-platform/internal/session"
	"github.com/mmp/beacon-platform/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	issuer := utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)

	// Sessions live in Redis when available so refresh tokens survive
	// restarts; otherwise fall back to the in-process map.
	rdb := config.NewRedisClient()
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, issuer.RefreshTTL())
	} else {
		log.Printf("redis unavailable, using in-memory session store")
		sessions = session.NewMemoryStore()
	}

	store := repository.NewMySQLStore(db)
	svc := service.NewUserService(store, sessions, issuer, queue.NewPublisher(), cfg.BcryptCost, cfg.DefaultCompanyID)

	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(svc), config.LoadRateLimitConfig(), rdb)
	router.RegisterUsers(e, handler.NewUserHandler(svc), issuer)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
