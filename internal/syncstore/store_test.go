package syncstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopkart-io/storefront/internal/models"
)

const testAdminKey = "secret-key"

// fakeAPI is an in-memory stand-in for the remote product API.
type fakeAPI struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int

	failMutations bool   // non-2xx on create/update/delete
	failList      bool   // non-2xx on list
	errBody       string // error message mutations fail with

	createCalls int
	deleteCalls int

	// when set, the list handler blocks until the channel is closed and
	// signals arrival on listStarted
	blockList   chan struct{}
	listStarted chan struct{}
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()

	r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		block, started := f.blockList, f.listStarted
		f.blockList, f.listStarted = nil, nil
		fail := f.failList
		f.mu.Unlock()
		if block != nil {
			close(started)
			select {
			case <-block:
			case <-req.Context().Done():
				return
			}
		}
		if fail {
			writeErr(w, http.StatusInternalServerError, "list unavailable")
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.products)
	})

	r.Post("/products", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.createCalls++
		fail, msg := f.failMutations, f.errBody
		f.mu.Unlock()
		if req.Header.Get("x-admin-key") != testAdminKey {
			writeErr(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if fail {
			writeErr(w, http.StatusInternalServerError, msg)
			return
		}
		var draft Draft
		json.NewDecoder(req.Body).Decode(&draft)
		f.mu.Lock()
		f.nextID++
		created := models.Product{
			ID:          fmt.Sprintf("srv-%d", f.nextID),
			Name:        draft.Name,
			Slug:        draft.Slug,
			Description: draft.Description,
			Price:       draft.Price,
			Category:    draft.Category,
			Inventory:   draft.Inventory,
			LastUpdated: "2024-01-01T00:00:00Z",
		}
		f.products = append(f.products, created)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	})

	r.Put("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		fail, msg := f.failMutations, f.errBody
		f.mu.Unlock()
		if fail {
			writeErr(w, http.StatusInternalServerError, msg)
			return
		}
		id := chi.URLParam(req, "id")
		var patch models.ProductPatch
		json.NewDecoder(req.Body).Decode(&patch)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, p := range f.products {
			if p.ID == id {
				updated := patch.Apply(p)
				updated.LastUpdated = "2024-02-02T00:00:00Z" // server-computed
				f.products[i] = updated
				json.NewEncoder(w).Encode(updated)
				return
			}
		}
		writeErr(w, http.StatusNotFound, "Not found")
	})

	r.Delete("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.deleteCalls++
		fail, msg := f.failMutations, f.errBody
		f.mu.Unlock()
		if fail {
			writeErr(w, http.StatusInternalServerError, msg)
			return
		}
		id := chi.URLParam(req, "id")
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, p := range f.products {
			if p.ID == id {
				f.products = append(f.products[:i], f.products[i+1:]...)
				json.NewEncoder(w).Encode(map[string]any{"success": true, "removed": p})
				return
			}
		}
		writeErr(w, http.StatusNotFound, "Not found")
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// failWith makes mutation endpoints answer 500 with msg as the error body.
func (f *fakeAPI) failWith(msg string) {
	f.mu.Lock()
	f.failMutations = true
	f.errBody = msg
	f.mu.Unlock()
}

func (f *fakeAPI) breakList() {
	f.mu.Lock()
	f.failList = true
	f.mu.Unlock()
}

func (f *fakeAPI) calls() (created, deleted int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.deleteCalls
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func newTestStore(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	srv := api.server(t)
	return NewStore(NewClient(srv.URL, testAdminKey), zerolog.Nop())
}

func seeded(products ...models.Product) *fakeAPI {
	return &fakeAPI{products: products}
}

func pen(price float64) models.Product {
	return models.Product{ID: "42", Name: "Pen", Slug: "pen", Price: price, Category: "Stationery", LastUpdated: "2024-01-01T00:00:00Z"}
}

func TestRefresh_ReplacesListWholesale(t *testing.T) {
	api := seeded(pen(100), models.Product{ID: "7", Name: "Mug", Slug: "mug", Price: 8})
	store := newTestStore(t, api)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if got := len(store.Products()); got != 2 {
		t.Fatalf("expected 2 products, got %d", got)
	}
	if store.Syncing() {
		t.Error("expected syncing to be cleared after refresh")
	}
}

func TestRefresh_Idempotent(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	first := store.Products()

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	second := store.Products()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical lists, got %v and %v", first, second)
	}
}

func TestRefresh_FailureLeavesListUntouched(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	before := store.Products()

	api.breakList()
	if err := store.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}
	if !reflect.DeepEqual(store.Products(), before) {
		t.Error("expected prior list to survive a failed refresh")
	}
	if store.Syncing() {
		t.Error("expected syncing to be cleared after failed refresh")
	}
}

func TestRefresh_SupersededFetchIsCancelled(t *testing.T) {
	api := seeded(pen(100))
	block := make(chan struct{})
	started := make(chan struct{})
	api.blockList, api.listStarted = block, started
	store := newTestStore(t, api)

	errCh := make(chan error, 1)
	go func() { errCh <- store.Refresh(context.Background()) }()
	<-started // first fetch is in flight

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	close(block)

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected first refresh to be cancelled, got %v", err)
	}
	if got := len(store.Products()); got != 1 {
		t.Errorf("expected the newer refresh result to stand, got %d products", got)
	}
	if store.Syncing() {
		t.Error("expected syncing to be cleared")
	}
}

// Scenario: add a new product while no slug collides. The list grows by a
// provisional entry immediately and settles to the server record.
func TestOptimisticAdd_ReconciliationReplacesPlaceholder(t *testing.T) {
	api := seeded()
	srv := api.server(t)
	store := NewStore(NewClient(srv.URL, testAdminKey), zerolog.Nop())

	created, err := store.OptimisticAdd(context.Background(), Draft{Name: "Pen", Slug: "pen", Price: 10})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if created.ID != "srv-1" {
		t.Errorf("expected server-issued id, got %q", created.ID)
	}
	list := store.Products()
	if len(list) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list))
	}
	if !reflect.DeepEqual(list[0], created) {
		t.Errorf("expected list to hold the canonical server record, got %+v", list[0])
	}
	for _, p := range list {
		if strings.HasPrefix(p.ID, "temp-") {
			t.Errorf("temporary id %q survived reconciliation", p.ID)
		}
	}
}

// The provisional entry and the syncing flag are observable while the remote
// call is still in flight.
func TestOptimisticAdd_PlaceholderVisibleDuringRemoteCall(t *testing.T) {
	var store *Store
	var midFlight []models.Product
	var midFlightSyncing bool

	mux := chi.NewRouter()
	mux.Post("/products", func(w http.ResponseWriter, req *http.Request) {
		midFlight = store.Products()
		midFlightSyncing = store.Syncing()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Product{ID: "srv-1", Name: "Pen", Slug: "pen", Price: 10, LastUpdated: "2024-01-01T00:00:00Z"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	store = NewStore(NewClient(srv.URL, testAdminKey), zerolog.Nop())

	if _, err := store.OptimisticAdd(context.Background(), Draft{Name: "Pen", Slug: "pen", Price: 10}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if len(midFlight) != 1 {
		t.Fatalf("expected the provisional entry mid-flight, got %d products", len(midFlight))
	}
	if !strings.HasPrefix(midFlight[0].ID, "temp-") {
		t.Errorf("expected a temp id mid-flight, got %q", midFlight[0].ID)
	}
	if !midFlightSyncing {
		t.Error("expected syncing to be set mid-flight")
	}
}

// Scenario: adding a second product with an existing slug is rejected before
// any remote call.
func TestOptimisticAdd_DuplicateSlug(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	before := store.Products()

	_, err := store.OptimisticAdd(context.Background(), Draft{Name: "Pen 2", Slug: "pen", Price: 5})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
	if !reflect.DeepEqual(store.Products(), before) {
		t.Error("expected list to be unchanged")
	}
	if created, _ := api.calls(); created != 0 {
		t.Errorf("expected no remote call, got %d", created)
	}
}

func TestOptimisticAdd_SlugRequired(t *testing.T) {
	store := newTestStore(t, seeded())

	_, err := store.OptimisticAdd(context.Background(), Draft{Name: "Pen", Slug: "   "})
	if !errors.Is(err, ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
}

func TestOptimisticAdd_FailureRollsBack(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	before := store.Products()

	api.failWith("disk full")

	_, err := store.OptimisticAdd(context.Background(), Draft{Name: "Mug", Slug: "mug", Price: 8})
	if err == nil {
		t.Fatal("expected add to fail")
	}
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected *OpError, got %T", err)
	}
	if opErr.Op != "create" {
		t.Errorf("expected op 'create', got %q", opErr.Op)
	}
	if opErr.Message != "disk full" {
		t.Errorf("expected server message to surface, got %q", opErr.Message)
	}
	if !reflect.DeepEqual(store.Products(), before) {
		t.Error("expected rollback to restore the pre-mutation list")
	}
	if store.Syncing() {
		t.Error("expected syncing to be cleared")
	}
}

func TestOptimisticUpdate_ReplacesWithCanonicalRecord(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	price := 120.0
	updated, err := store.OptimisticUpdate(context.Background(), "42", models.ProductPatch{Price: &price})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.LastUpdated != "2024-02-02T00:00:00Z" {
		t.Errorf("expected the server-computed timestamp, got %q", updated.LastUpdated)
	}
	list := store.Products()
	if len(list) != 1 || !reflect.DeepEqual(list[0], updated) {
		t.Errorf("expected list to hold the canonical record, got %+v", list)
	}
}

// Scenario: a price update fails remotely; the price reverts.
func TestOptimisticUpdate_FailureRollsBack(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	before := store.Products()

	api.failWith("")
	price := 120.0
	_, err := store.OptimisticUpdate(context.Background(), "42", models.ProductPatch{Price: &price})
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != "update" {
		t.Fatalf("expected update OpError, got %v", err)
	}
	if !reflect.DeepEqual(store.Products(), before) {
		t.Error("expected rollback to restore the pre-mutation list")
	}
	if got := store.Products()[0].Price; got != 100 {
		t.Errorf("expected price to revert to 100, got %v", got)
	}
}

func TestOptimisticUpdate_NotFound(t *testing.T) {
	store := newTestStore(t, seeded(pen(100)))
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	price := 1.0
	_, err := store.OptimisticUpdate(context.Background(), "missing", models.ProductPatch{Price: &price})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOptimisticUpdate_SlugConflict(t *testing.T) {
	api := seeded(pen(100), models.Product{ID: "7", Name: "Mug", Slug: "mug", Price: 8})
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	before := store.Products()

	slug := "pen"
	_, err := store.OptimisticUpdate(context.Background(), "7", models.ProductPatch{Slug: &slug})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
	if !reflect.DeepEqual(store.Products(), before) {
		t.Error("expected list to be unchanged")
	}
}

func TestOptimisticUpdate_KeepingOwnSlugIsAllowed(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	slug := "pen"
	if _, err := store.OptimisticUpdate(context.Background(), "42", models.ProductPatch{Slug: &slug}); err != nil {
		t.Fatalf("expected updating a product to its own slug to succeed, got %v", err)
	}
}

func TestOptimisticDelete_Success(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if err := store.OptimisticDelete(context.Background(), "42"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := len(store.Products()); got != 0 {
		t.Errorf("expected empty list, got %d products", got)
	}
}

// Scenario: deleting an id that is not present locally is rejected without a
// remote call.
func TestOptimisticDelete_NotFound(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	err := store.OptimisticDelete(context.Background(), "7")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, deleted := api.calls(); deleted != 0 {
		t.Errorf("expected no remote call, got %d", deleted)
	}
}

func TestOptimisticDelete_FailureRollsBack(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	before := store.Products()

	api.failWith("")
	err := store.OptimisticDelete(context.Background(), "42")
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != "delete" {
		t.Fatalf("expected delete OpError, got %v", err)
	}
	if !reflect.DeepEqual(store.Products(), before) {
		t.Error("expected rollback to restore the pre-mutation list")
	}
}

func TestCategories(t *testing.T) {
	api := seeded(
		models.Product{ID: "1", Name: "Pen", Slug: "pen", Category: "Stationery"},
		models.Product{ID: "2", Name: "Mug", Slug: "mug", Category: "Kitchen"},
		models.Product{ID: "3", Name: "Pad", Slug: "pad", Category: "Stationery"},
		models.Product{ID: "4", Name: "Misc", Slug: "misc"},
	)
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	got := store.Categories()
	want := []string{"Kitchen", "Stationery"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected categories %v, got %v", want, got)
	}
}

func TestProducts_ReturnsCopy(t *testing.T) {
	api := seeded(pen(100))
	store := newTestStore(t, api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	list := store.Products()
	list[0].Price = 999

	if got := store.Products()[0].Price; got != 100 {
		t.Errorf("mutating the returned slice leaked into the store: price %v", got)
	}
}
