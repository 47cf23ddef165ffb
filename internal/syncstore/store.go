// Package syncstore keeps a local product list consistent with the remote
// catalog API. Mutations are optimistic: the local list changes immediately
// and is rolled back to its pre-mutation snapshot if the remote call fails.
package syncstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopkart-io/storefront/internal/models"
)

// Draft is the partial product submitted by an add action.
type Draft struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Inventory   int     `json:"inventory,omitempty"`
}

// Store is the client-side product cache. Reads return copies; mutations are
// serialized through opMu so that one operation's rollback can never discard
// another's speculative edit.
type Store struct {
	client *Client
	log    zerolog.Logger

	opMu sync.Mutex // serializes mutations end to end

	mu            sync.Mutex // guards the fields below
	products      []models.Product
	syncing       bool
	refreshSeq    int
	cancelRefresh context.CancelFunc
}

func NewStore(client *Client, log zerolog.Logger) *Store {
	return &Store{client: client, log: log}
}

// Products returns a copy of the current local list.
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Syncing reports whether a remote call is in flight.
func (s *Store) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// Categories returns the distinct non-empty categories in the local list.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var categories []string
	for _, p := range s.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// Refresh replaces the local list wholesale with the remote one. On failure
// the prior list is left untouched. A newer Refresh cancels a superseded one
// still in flight; the superseded call returns context.Canceled without
// touching the list.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.cancelRefresh != nil {
		s.cancelRefresh()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelRefresh = cancel
	s.refreshSeq++
	seq := s.refreshSeq
	s.syncing = true
	s.mu.Unlock()
	defer cancel()

	products, err := s.client.FetchProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.refreshSeq {
		// superseded by a newer refresh; its outcome stands, not ours
		return err
	}
	s.syncing = false
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Error().Err(err).Msg("refresh failed")
		}
		return err
	}
	s.products = products
	return nil
}

// OptimisticAdd appends a provisional product immediately and reconciles it
// with the server-issued record, rolling back on failure.
func (s *Store) OptimisticAdd(ctx context.Context, draft Draft) (models.Product, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	slug := strings.TrimSpace(draft.Slug)
	if slug == "" {
		return models.Product{}, ErrSlugRequired
	}
	draft.Slug = slug

	s.mu.Lock()
	if s.indexOfSlug(slug, "") != -1 {
		s.mu.Unlock()
		return models.Product{}, ErrDuplicateSlug
	}

	previous := s.products
	temp := provisional(draft)
	s.products = append(append([]models.Product{}, previous...), temp)
	s.syncing = true
	s.mu.Unlock()

	created, err := s.client.CreateProduct(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = false
	if err != nil {
		s.products = previous
		s.log.Error().Err(err).Str("slug", slug).Msg("optimistic add failed")
		return models.Product{}, opError("create", err)
	}

	for i, p := range s.products {
		if p.ID == temp.ID {
			s.products[i] = created
			break
		}
	}
	return created, nil
}

// OptimisticUpdate merges the patch locally, then replaces the entry with the
// canonical record the server returns, rolling back on failure.
func (s *Store) OptimisticUpdate(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	idx := s.indexOfID(id)
	if idx == -1 {
		s.mu.Unlock()
		return models.Product{}, ErrNotFound
	}
	if patch.Slug != nil {
		if s.indexOfSlug(strings.TrimSpace(*patch.Slug), id) != -1 {
			s.mu.Unlock()
			return models.Product{}, ErrDuplicateSlug
		}
	}

	previous := s.products
	speculative := patch.Apply(previous[idx])
	speculative.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	s.products = append([]models.Product{}, previous...)
	s.products[idx] = speculative
	s.syncing = true
	s.mu.Unlock()

	updated, err := s.client.UpdateProduct(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = false
	if err != nil {
		s.products = previous
		s.log.Error().Err(err).Str("id", id).Msg("optimistic update failed")
		return models.Product{}, opError("update", err)
	}

	if i := s.indexOfID(id); i != -1 {
		s.products[i] = updated
	}
	return updated, nil
}

// OptimisticDelete removes the entry immediately; a failed remote delete puts
// it back.
func (s *Store) OptimisticDelete(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	idx := s.indexOfID(id)
	if idx == -1 {
		s.mu.Unlock()
		return ErrNotFound
	}

	previous := s.products
	s.products = append(append([]models.Product{}, previous[:idx]...), previous[idx+1:]...)
	s.syncing = true
	s.mu.Unlock()

	err := s.client.DeleteProduct(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = false
	if err != nil {
		s.products = previous
		s.log.Error().Err(err).Str("id", id).Msg("optimistic delete failed")
		return opError("delete", err)
	}
	return nil
}

// indexOfID returns the position of the product with the given id, or -1.
// Callers must hold mu.
func (s *Store) indexOfID(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// indexOfSlug returns the position of the product with the given slug,
// ignoring the product with id exceptID. Callers must hold mu.
func (s *Store) indexOfSlug(slug, exceptID string) int {
	for i, p := range s.products {
		if p.Slug == slug && p.ID != exceptID {
			return i
		}
	}
	return -1
}

// provisional assembles the complete placeholder product for a draft.
func provisional(draft Draft) models.Product {
	name := draft.Name
	if name == "" {
		name = "Untitled"
	}
	return models.Product{
		ID:          fmt.Sprintf("temp-%d", time.Now().UnixNano()),
		Name:        name,
		Slug:        draft.Slug,
		Description: draft.Description,
		Price:       draft.Price,
		Category:    draft.Category,
		Inventory:   draft.Inventory,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
}

func opError(op string, err error) *OpError {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return &OpError{Op: op, Message: remote.Message, Err: err}
	}
	return &OpError{Op: op, Err: err}
}
