package handlers

import (
	"net/http"

	"github.com/shopkart-io/storefront/internal/session"
)

// AdminStatsHandler backs the admin landing page. The route guard has already
// ensured an admin session by the time this runs.
func AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not fetch products")
		return
	}

	stats := AdminStats{Products: len(products)}
	seen := map[string]bool{}
	for _, p := range products {
		stats.TotalInventory += p.Inventory
		stats.CatalogValue += p.Price * float64(p.Inventory)
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			stats.Categories++
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

// DashboardHandler backs the user dashboard page.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, DashboardInfo{Username: s.Username, Role: s.Role})
}
