package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/shopkart-io/storefront/internal/http/handlers"
)

// NewRouter wires the storefront routes. Repositories, the cart service, the
// session codec and the admin key must be set on the handlers package first.
func NewRouter(logger zerolog.Logger) http.Handler {
	codec := handlers.SessionCodec()

	r := chi.NewRouter()
	r.Use(Recoverer(logger))
	r.Use(RequestLogger(logger))
	r.Use(cors.New(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "x-admin-key"},
		AllowCredentials: true,
	}).Handler)
	r.Use(RateLimit)
	r.Use(PageGuard(codec))

	r.Post("/login", handlers.LoginHandler)
	r.Post("/logout", handlers.LogoutHandler)
	r.Post("/register", handlers.RegisterHandler)

	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/{slug}", handlers.GetProductBySlugHandler)
	r.Get("/categories", handlers.GetCategoriesHandler)

	r.Group(func(r chi.Router) {
		r.Use(AdminOnly(handlers.AdminKey()))
		r.Post("/products", handlers.CreateProductHandler)
		r.Put("/products/{id}", handlers.UpdateProductHandler)
		r.Delete("/products/{id}", handlers.DeleteProductHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
	})

	// page data endpoints; PageGuard has already redirected unauthorized
	// navigations before these run
	r.Get("/admin", handlers.AdminStatsHandler)
	r.Get("/dashboard", handlers.DashboardHandler)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(codec))
		r.Get("/cart", handlers.GetCartHandler)
		r.Delete("/cart", handlers.ClearCartHandler)
		r.Post("/cart/items", handlers.AddCartItemHandler)
		r.Put("/cart/items/{id}", handlers.UpdateCartItemHandler)
		r.Delete("/cart/items/{id}", handlers.RemoveCartItemHandler)
		r.Post("/checkout", handlers.CheckoutHandler)
	})

	return r
}
