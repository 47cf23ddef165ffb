package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopkart-io/storefront/internal/models"
	"github.com/shopkart-io/storefront/internal/repo"
)

// ImportProductsHandler godoc
// @Summary Bulk-import products from a JSON file
// @Description Accepts a multipart upload holding a JSON array of products (the flat products.json layout). Rows that fail validation are reported and skipped.
// @Tags products
// @Accept mpfd
// @Produce json
// @Param file formData file true "JSON array of products"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} map[string]string
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	var rows []ProductRequest
	if err := json.NewDecoder(file).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, "file must hold a JSON array of products")
		return
	}

	result := ImportProductsResult{Errors: []ProductValidationError{}}
	for i, row := range rows {
		if rowErrs := validateProduct(row); len(rowErrs) > 0 {
			for _, e := range rowErrs {
				result.Errors = append(result.Errors, ProductValidationError{
					Field:       fmt.Sprintf("row %d: %s", i+1, e.Field),
					Description: e.Description,
				})
			}
			continue
		}

		slug := strings.TrimSpace(row.Slug)
		if slug == "" {
			slug = models.Slugify(row.Name)
		}

		_, err := productRepo.Create(models.Product{
			Name:        row.Name,
			Slug:        slug,
			Description: row.Description,
			Price:       row.Price,
			Category:    row.Category,
			Inventory:   row.Inventory,
			LastUpdated: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			desc := "could not create product"
			if errors.Is(err, repo.ErrDuplicateSlug) {
				desc = "slug already exists"
			}
			result.Errors = append(result.Errors, ProductValidationError{
				Field:       fmt.Sprintf("row %d: Slug", i+1),
				Description: desc,
			})
			continue
		}
		result.ImportedProductsCount++
	}

	writeJSON(w, http.StatusOK, result)
}
