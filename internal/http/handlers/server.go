package handlers

import (
	"github.com/shopkart-io/storefront/internal/cart"
	"github.com/shopkart-io/storefront/internal/repo"
	"github.com/shopkart-io/storefront/internal/session"
)

var (
	productRepo  repo.ProductRepository
	userRepo     repo.UserRepository
	cartService  *cart.Service
	sessionCodec session.Codec
	adminKey     string
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetCartService(s *cart.Service) {
	cartService = s
}

func SetSessionCodec(c session.Codec) {
	sessionCodec = c
}

func SetAdminKey(key string) {
	adminKey = key
}

// AdminKey exposes the configured shared secret to the router's admin gate.
func AdminKey() string {
	return adminKey
}

// SessionCodec exposes the configured codec to the router's middleware.
func SessionCodec() session.Codec {
	return sessionCodec
}
