package handlers

import "github.com/shopkart-io/storefront/internal/models"

type ProductRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Inventory   int     `json:"inventory,omitempty"`
}

type DeleteProductResult struct {
	Success bool           `json:"success"`
	Removed models.Product `json:"removed"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	OK    bool   `json:"ok"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type CartItemRequest struct {
	ProductID string `json:"id"`
	Qty       int    `json:"qty"`
}

type AdminStats struct {
	Products       int     `json:"products"`
	TotalInventory int     `json:"total_inventory"`
	Categories     int     `json:"categories"`
	CatalogValue   float64 `json:"catalog_value"`
}

type DashboardInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}
