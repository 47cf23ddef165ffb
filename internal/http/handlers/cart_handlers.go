package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopkart-io/storefront/internal/cart"
	"github.com/shopkart-io/storefront/internal/repo"
	"github.com/shopkart-io/storefront/internal/session"
)

// GetCartHandler godoc
// @Summary Get the current user's cart
// @Tags cart
// @Produce json
// @Success 200 {object} cart.Cart
// @Router /cart [get]
func GetCartHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())

	c, err := cartService.Get(r.Context(), s.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not fetch cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AddCartItemHandler godoc
// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param item body CartItemRequest true "product and quantity"
// @Success 200 {object} cart.Cart
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cart/items [post]
func AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	c, err := cartService.AddItem(r.Context(), s.Username, req.ProductID, req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, cart.ErrOutOfStock):
			writeError(w, http.StatusConflict, "product is out of stock")
		default:
			writeError(w, http.StatusInternalServerError, "could not update cart")
		}
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCartItemHandler godoc
// @Summary Change the quantity of a cart line
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param item body CartItemRequest true "new quantity"
// @Success 200 {object} cart.Cart
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cart/items/{id} [put]
func UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	c, err := cartService.UpdateQuantity(r.Context(), s.Username, id, req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrItemNotFound):
			writeError(w, http.StatusNotFound, "item not in cart")
		case errors.Is(err, repo.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, cart.ErrOutOfStock):
			writeError(w, http.StatusConflict, "product is out of stock")
		default:
			writeError(w, http.StatusInternalServerError, "could not update cart")
		}
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RemoveCartItemHandler godoc
// @Summary Remove a cart line
// @Tags cart
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} cart.Cart
// @Failure 404 {object} map[string]string
// @Router /cart/items/{id} [delete]
func RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	c, err := cartService.RemoveItem(r.Context(), s.Username, id)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "item not in cart")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not update cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ClearCartHandler godoc
// @Summary Empty the cart
// @Tags cart
// @Success 204 "Cleared"
// @Router /cart [delete]
func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())

	if err := cartService.Clear(r.Context(), s.Username); err != nil {
		writeError(w, http.StatusInternalServerError, "could not clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckoutHandler godoc
// @Summary Place an order for the cart contents
// @Description Stub checkout: acknowledges the order and empties the cart. No payment is taken.
// @Tags cart
// @Produce json
// @Success 200 {object} cart.Order
// @Failure 400 {object} map[string]string
// @Router /checkout [post]
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())

	order, err := cartService.Checkout(r.Context(), s.Username)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not place order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}
