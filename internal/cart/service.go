package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopkart-io/storefront/internal/repo"
)

// Order is the acknowledgment returned by the checkout stub. No payment is
// taken; the order is not persisted.
type Order struct {
	ID       string    `json:"id"`
	Items    []Item    `json:"items"`
	Total    float64   `json:"total"`
	PlacedAt time.Time `json:"placed_at"`
}

// Service applies cart rules on top of a Store: out-of-stock products are
// rejected, quantities are clamped to the product's current inventory and
// lines always carry the catalog price.
type Service struct {
	store    Store
	products repo.ProductRepository
}

func NewService(store Store, products repo.ProductRepository) *Service {
	return &Service{store: store, products: products}
}

func (s *Service) Get(ctx context.Context, owner string) (Cart, error) {
	return s.store.Get(ctx, owner)
}

// AddItem puts qty units of a product into the cart, merging with an existing
// line for the same product.
func (s *Service) AddItem(ctx context.Context, owner, productID string, qty int) (Cart, error) {
	if qty < 1 {
		qty = 1
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return Cart{}, err
	}
	if product.Inventory <= 0 {
		return Cart{}, ErrOutOfStock
	}

	c, err := s.store.Get(ctx, owner)
	if err != nil {
		return Cart{}, err
	}

	merged := false
	for i, it := range c.Items {
		if it.ProductID == productID {
			c.Items[i].Qty = clampQty(it.Qty+qty, product.Inventory)
			c.Items[i].Price = product.Price
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Qty:       clampQty(qty, product.Inventory),
		})
	}

	if err := s.store.Save(ctx, owner, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, owner, productID string, qty int) (Cart, error) {
	c, err := s.store.Get(ctx, owner)
	if err != nil {
		return Cart{}, err
	}

	idx := -1
	for i, it := range c.Items {
		if it.ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Cart{}, ErrItemNotFound
	}

	if qty <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		product, err := s.products.GetByID(productID)
		if err != nil {
			return Cart{}, err
		}
		if product.Inventory <= 0 {
			return Cart{}, ErrOutOfStock
		}
		c.Items[idx].Qty = clampQty(qty, product.Inventory)
		c.Items[idx].Price = product.Price
	}

	if err := s.store.Save(ctx, owner, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// RemoveItem drops a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, owner, productID string) (Cart, error) {
	return s.UpdateQuantity(ctx, owner, productID, 0)
}

func (s *Service) Clear(ctx context.Context, owner string) error {
	return s.store.Clear(ctx, owner)
}

// Checkout acknowledges the order and empties the cart.
func (s *Service) Checkout(ctx context.Context, owner string) (Order, error) {
	c, err := s.store.Get(ctx, owner)
	if err != nil {
		return Order{}, err
	}
	if len(c.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	order := Order{
		ID:       uuid.NewString(),
		Items:    c.Items,
		Total:    c.Total(),
		PlacedAt: time.Now().UTC(),
	}

	if err := s.store.Clear(ctx, owner); err != nil {
		return Order{}, err
	}
	return order, nil
}

func clampQty(qty, inventory int) int {
	if qty > inventory {
		return inventory
	}
	return qty
}
