// Command seed loads a flat JSON product file into the database and creates
// the demo accounts used by the storefront.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopkart-io/storefront/internal/config"
	"github.com/shopkart-io/storefront/internal/db"
	"github.com/shopkart-io/storefront/internal/models"
	"github.com/shopkart-io/storefront/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	username string
	password string
	role     string
}

var demoUsers = []demoUser{
	{"admin", "admin123", "admin"},
	{"user", "user123", "user"},
}

func main() {
	productsPath := flag.String("products", "data/products.json", "path to a JSON array of products")
	flag.Parse()

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

	userRepo := repo.NewPostgresUserRepository(database)
	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not hash password")
		}
		_, err = userRepo.CreateUser(models.User{
			Username:     u.username,
			PasswordHash: string(hash),
			Role:         u.role,
		})
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			logger.Info().Str("username", u.username).Msg("user already exists, skipping")
		case err != nil:
			logger.Fatal().Err(err).Str("username", u.username).Msg("could not create user")
		default:
			logger.Info().Str("username", u.username).Str("role", u.role).Msg("user created")
		}
	}

	data, err := os.ReadFile(*productsPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *productsPath).Msg("could not read products file")
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logger.Fatal().Err(err).Msg("products file must hold a JSON array")
	}

	productRepo := repo.NewPostgresProductRepository(database)
	imported := 0
	for _, p := range products {
		if p.Slug == "" {
			p.Slug = models.Slugify(p.Name)
		}
		if p.LastUpdated == "" {
			p.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		}
		if _, err := productRepo.Create(p); err != nil {
			if errors.Is(err, repo.ErrDuplicateSlug) {
				logger.Info().Str("slug", p.Slug).Msg("product already exists, skipping")
				continue
			}
			logger.Fatal().Err(err).Str("slug", p.Slug).Msg("could not create product")
		}
		imported++
	}

	logger.Info().Int("imported", imported).Msg("seed complete")
}
