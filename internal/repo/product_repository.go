package repo

import "github.com/shopkart-io/storefront/internal/models"

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetAll() ([]models.Product, error)
	GetByID(id string) (models.Product, error)
	GetBySlug(slug string) (models.Product, error)
	Update(product models.Product) (models.Product, error)
	Delete(id string) error
	Categories() ([]string, error)
}
