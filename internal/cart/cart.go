// Package cart holds per-user shopping carts and the checkout stub.
package cart

import (
	"context"
	"errors"
)

// Item is a single cart line.
type Item struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

// Cart is the set of items a user intends to buy.
type Cart struct {
	Items []Item `json:"items"`
}

// Total returns the cart value.
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Qty)
	}
	return total
}

// Store persists carts keyed by owner.
type Store interface {
	Get(ctx context.Context, owner string) (Cart, error)
	Save(ctx context.Context, owner string, c Cart) error
	Clear(ctx context.Context, owner string) error
}

var (
	// ErrItemNotFound is returned when a cart line for the product does not exist.
	ErrItemNotFound = errors.New("item not in cart")
	// ErrEmptyCart is returned when checking out an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOutOfStock is returned when the product has no inventory left.
	ErrOutOfStock = errors.New("product is out of stock")
)
