package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopkart-io/storefront/internal/auth"
	"github.com/shopkart-io/storefront/internal/cart"
	"github.com/shopkart-io/storefront/internal/config"
	"github.com/shopkart-io/storefront/internal/db"
	api "github.com/shopkart-io/storefront/internal/http"
	"github.com/shopkart-io/storefront/internal/http/handlers"
	rl "github.com/shopkart-io/storefront/internal/http/rate_limiter"
	"github.com/shopkart-io/storefront/internal/repo"
	"github.com/shopkart-io/storefront/internal/session"
)

// @title Storefront API
// @version 1.0
// @description REST API for the storefront catalog, cart and admin panel.
// @host localhost:8080
// @BasePath /
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load configuration")
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close()

	productRepo := repo.NewPostgresProductRepository(database)
	handlers.SetProductRepo(productRepo)
	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))

	var cartStore cart.Store
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, carts will not survive restarts")
		cartStore = cart.NewMemoryStore()
	} else {
		defer rdb.Close()
		cartStore = cart.NewRedisStore(rdb)
	}
	cancel()
	handlers.SetCartService(cart.NewService(cartStore, productRepo))

	auth.SetSecret(cfg.JWTSecret)
	handlers.SetSessionCodec(session.NewCodec(cfg.SessionSecret))
	handlers.SetAdminKey(cfg.AdminKey)

	go rl.StartVisitorCleanupLoop()

	r := api.NewRouter(logger)
	logger.Info().Str("addr", cfg.Addr).Msg("server running")
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
