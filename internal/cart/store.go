// Package cart owns the canonical cart line-item collection. Every mutation
// writes the whole serialized collection back to the key-value store under a
// fixed key; a missing or corrupt blob on load is treated as an empty cart.
package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	appErrors "github.com/trovemarket/storefront-client/internal/errors"
	"github.com/trovemarket/storefront-client/internal/kvstore"
	"github.com/trovemarket/storefront-client/internal/models"
)

type Store struct {
	kv     kvstore.Store
	logger *slog.Logger

	mu     sync.Mutex
	items  []models.CartLineItem
	loaded bool
}

func NewStore(kv kvstore.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{kv: kv, logger: logger}
}

// ensureLoaded reads the persisted cart once per store lifetime. Parsing
// failures are logged and swallowed: a corrupt blob means an empty cart,
// never an error surfaced to the caller.
func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}

	s.loaded = true

	blob, found, err := s.kv.Get(ctx, kvstore.CartKey)
	if err != nil {
		s.logger.Warn("failed to load cart from storage, starting empty",
			slog.String("error", err.Error()))

		return
	}

	if !found {
		return
	}

	var items []models.CartLineItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		s.logger.Warn("corrupt cart blob in storage, starting empty",
			slog.String("error", err.Error()))

		return
	}

	s.items = items
}

func (s *Store) persist(ctx context.Context) error {

	blob, err := json.Marshal(s.items)
	if err != nil {
		return appErrors.StorageError("Failed to serialize cart").WithError(err)
	}

	if err := s.kv.Set(ctx, kvstore.CartKey, string(blob)); err != nil {
		return appErrors.StorageError("Failed to persist cart").WithError(err)
	}

	return nil
}

// AddToCart merges quantity into an existing line item for the same product,
// or appends a new one. Quantity must be at least 1; stock is only a
// snapshot and is not re-checked on merge.
func (s *Store) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if quantity < 1 {
		return appErrors.ValidationError("Quantity must be at least 1")
	}

	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity += quantity

			return s.persist(ctx)
		}
	}

	s.items = append(s.items, models.CartLineItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Quantity:  quantity,
		Stock:     product.Stock,
		AddedAt:   time.Now(),
	})

	return s.persist(ctx)
}

// AddRawToCart normalizes a polymorphic product payload and adds it.
func (s *Store) AddRawToCart(ctx context.Context, raw models.RawProduct, quantity int) error {

	product, err := Normalize(raw)
	if err != nil {
		return err
	}

	return s.AddToCart(ctx, product, quantity)
}

// RemoveFromCart is idempotent: removing a product that is not in the cart
// succeeds and persists the (unchanged) collection.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	filtered := s.items[:0]
	for _, item := range s.items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}

	s.items = filtered

	return s.persist(ctx)
}

// UpdateQuantity sets the quantity on an existing line item. A quantity of
// zero or less removes the item, same as RemoveFromCart. Updating a product
// that is not in the cart is a failure, not an insert.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {

	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity

			return s.persist(ctx)
		}
	}

	return appErrors.NotFoundError("Product is not in the cart")
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	s.items = nil

	return s.persist(ctx)
}

// Items returns a copy of the current line items.
func (s *Store) Items(ctx context.Context) []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	items := make([]models.CartLineItem, len(s.items))
	copy(items, s.items)

	return items
}

// Snapshot derives the totals from the current collection. It is never
// persisted; always recomputed.
func (s *Store) Snapshot(ctx context.Context) models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	var snapshot models.CartSnapshot

	for _, item := range s.items {
		snapshot.Total += item.UnitPrice * float64(item.Quantity)
		snapshot.ItemCount += item.Quantity
	}

	return snapshot
}

func (s *Store) Total(ctx context.Context) float64 {
	return s.Snapshot(ctx).Total
}

func (s *Store) ItemCount(ctx context.Context) int {
	return s.Snapshot(ctx).ItemCount
}

func (s *Store) IsInCart(ctx context.Context, productID string) bool {
	_, ok := s.Item(ctx, productID)

	return ok
}

func (s *Store) Item(ctx context.Context, productID string) (models.CartLineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	for _, item := range s.items {
		if item.ProductID == productID {
			return item, true
		}
	}

	return models.CartLineItem{}, false
}
