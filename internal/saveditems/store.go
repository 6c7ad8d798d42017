// Package saveditems keeps the wishlist. Local state flips optimistically:
// a backend 5xx during a toggle does not block the user, the change is kept
// locally and marked pending sync. Persistence follows the cart's pattern
// (fixed key, whole-blob writes, corrupt blob reads as empty).
package saveditems

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

// RemoteSaver is the slice of the gateway this package needs.
type RemoteSaver interface {
	SaveProduct(ctx context.Context, productID string, token string) error
	UnsaveProduct(ctx context.Context, productID string, token string) error
}

type Store struct {
	kv     kvstore.Store
	remote RemoteSaver
	logger *slog.Logger

	mu     sync.Mutex
	items  []models.SavedItem
	loaded bool
}

func NewStore(kv kvstore.Store, remote RemoteSaver, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{kv: kv, remote: remote, logger: logger}
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}

	s.loaded = true

	blob, found, err := s.kv.Get(ctx, kvstore.SavedItemsKey)
	if err != nil {
		s.logger.Warn("failed to load saved items from storage, starting empty",
			slog.String("error", err.Error()))

		return
	}

	if !found {
		return
	}

	var items []models.SavedItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		s.logger.Warn("corrupt saved-items blob in storage, starting empty",
			slog.String("error", err.Error()))

		return
	}

	s.items = items
}

func (s *Store) persist(ctx context.Context) error {

	blob, err := json.Marshal(s.items)
	if err != nil {
		return appErrors.StorageError("Failed to serialize saved items").WithError(err)
	}

	if err := s.kv.Set(ctx, kvstore.SavedItemsKey, string(blob)); err != nil {
		return appErrors.StorageError("Failed to persist saved items").WithError(err)
	}

	return nil
}

// ToggleResult tells the view what happened.
type ToggleResult struct {
	Saved bool
	// PendingSync is set when the backend failed with a 5xx and the change
	// was kept locally anyway ("saved locally, pending sync").
	PendingSync bool
}

// Toggle flips the saved state of a product. The local flip happens first;
// a backend 5xx is masked (kept local, marked pending), any other backend
// failure reverts the flip and propagates.
func (s *Store) Toggle(ctx context.Context, product models.Product, token string) (ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if idx := s.indexOf(product.ID); idx >= 0 {
		return s.toggleOff(ctx, idx, product.ID, token)
	}

	return s.toggleOn(ctx, product, token)
}

func (s *Store) toggleOn(ctx context.Context, product models.Product, token string) (ToggleResult, error) {

	item := models.SavedItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Category:  product.Category,
		Brand:     product.Brand,
		SavedAt:   time.Now(),
	}

	s.items = append(s.items, item)

	remoteErr := s.remote.SaveProduct(ctx, product.ID, token)

	switch {
	case remoteErr == nil:
	case appErrors.HasCode(remoteErr, appErrors.ErrCodeServer):
		s.logger.Info("save masked past backend failure, pending sync",
			slog.String("product_id", product.ID))
		s.items[len(s.items)-1].PendingSync = true
	default:
		// revert the optimistic flip
		s.items = s.items[:len(s.items)-1]

		return ToggleResult{}, remoteErr
	}

	if err := s.persist(ctx); err != nil {
		return ToggleResult{}, err
	}

	return ToggleResult{Saved: true, PendingSync: s.items[len(s.items)-1].PendingSync}, nil
}

func (s *Store) toggleOff(ctx context.Context, idx int, productID string, token string) (ToggleResult, error) {

	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	remoteErr := s.remote.UnsaveProduct(ctx, productID, token)

	switch {
	case remoteErr == nil:
	case appErrors.HasCode(remoteErr, appErrors.ErrCodeServer):
		s.logger.Info("removal masked past backend failure, pending sync",
			slog.String("product_id", productID))
	default:
		s.items = append(s.items, removed)

		return ToggleResult{Saved: true}, remoteErr
	}

	if err := s.persist(ctx); err != nil {
		return ToggleResult{}, err
	}

	return ToggleResult{Saved: false}, nil
}

func (s *Store) indexOf(productID string) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}

	return -1
}

func (s *Store) IsSaved(ctx context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	return s.indexOf(productID) >= 0
}

// Items returns a copy of the saved collection.
func (s *Store) Items(ctx context.Context) []models.SavedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	items := make([]models.SavedItem, len(s.items))
	copy(items, s.items)

	return items
}

// Products adapts the saved collection for the listing filter pipeline.
func (s *Store) Products(ctx context.Context) []models.Product {

	items := s.Items(ctx)

	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		products = append(products, models.Product{
			ID:        item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Category:  item.Category,
			Brand:     item.Brand,
		})
	}

	return products
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	s.items = nil

	return s.persist(ctx)
}
