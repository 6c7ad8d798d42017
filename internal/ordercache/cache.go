// Package ordercache is the locally durable overlay of orders the client
// falls back to when the backend cannot list or update orders. Records are
// accumulated for the session and persisted whole on every mutation, in the
// same fixed-key blob pattern the cart uses.
package ordercache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	appErrors "github.com/trovemarket/storefront-client/internal/errors"
	"github.com/trovemarket/storefront-client/internal/kvstore"
	"github.com/trovemarket/storefront-client/internal/models"
)

type Cache struct {
	kv     kvstore.Store
	key    string
	logger *slog.Logger

	mu     sync.Mutex
	orders []models.LocalOrderRecord
	loaded bool
}

// NewCache stores orders under the process-wide key, shared across whoever
// logs in on this profile.
func NewCache(kv kvstore.Store, logger *slog.Logger) *Cache {
	return newCache(kv, kvstore.OrdersKey, logger)
}

// NewCacheForUser scopes the storage key by user id so one user's cached
// orders are not visible to the next login on the same profile.
func NewCacheForUser(kv kvstore.Store, userID string, logger *slog.Logger) *Cache {
	return newCache(kv, kvstore.Key(kvstore.OrdersKey, userID), logger)
}

func newCache(kv kvstore.Store, key string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{kv: kv, key: key, logger: logger}
}

func (c *Cache) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}

	c.loaded = true

	blob, found, err := c.kv.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("failed to load order cache from storage, starting empty",
			slog.String("error", err.Error()))

		return
	}

	if !found {
		return
	}

	var orders []models.LocalOrderRecord
	if err := json.Unmarshal([]byte(blob), &orders); err != nil {
		c.logger.Warn("corrupt order cache blob in storage, starting empty",
			slog.String("error", err.Error()))

		return
	}

	c.orders = orders
}

func (c *Cache) persist(ctx context.Context) error {

	blob, err := json.Marshal(c.orders)
	if err != nil {
		return appErrors.StorageError("Failed to serialize order cache").WithError(err)
	}

	if err := c.kv.Set(ctx, c.key, string(blob)); err != nil {
		return appErrors.StorageError("Failed to persist order cache").WithError(err)
	}

	return nil
}

// AddOrder upserts by order id: an optimistic insert reconciled later with
// the authoritative record replaces the earlier entry instead of showing up
// twice. Locally generated placeholder ids are unique, so fresh inserts
// always append.
func (c *Cache) AddOrder(ctx context.Context, order models.LocalOrderRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	for i := range c.orders {
		if c.orders[i].ID == order.ID {
			c.orders[i] = order

			return c.persist(ctx)
		}
	}

	c.orders = append(c.orders, order)

	return c.persist(ctx)
}

// UpdateOrder shallow-merges patch into the order with the given id. An
// unknown id is a no-op, not an error.
func (c *Cache) UpdateOrder(ctx context.Context, orderID string, patch models.OrderPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	for i := range c.orders {
		if c.orders[i].ID != orderID {
			continue
		}

		if patch.Status != nil {
			c.orders[i].Status = *patch.Status
		}

		if patch.PaymentStatus != nil {
			c.orders[i].PaymentStatus = *patch.PaymentStatus
		}

		if patch.ID != nil {
			c.orders[i].ID = *patch.ID
		}

		return c.persist(ctx)
	}

	return nil
}

// OrdersFor returns the records visible to userID in the given role: buyers
// see orders they bought, sellers see orders they sold, and any other role
// value gets the whole collection (the admin view).
func (c *Cache) OrdersFor(ctx context.Context, userID string, role models.Role) []models.LocalOrderRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	var scoped []models.LocalOrderRecord

	for _, order := range c.orders {
		switch role {
		case models.RoleBuyer:
			if order.BuyerID == userID {
				scoped = append(scoped, order)
			}
		case models.RoleSeller:
			if order.SellerID == userID {
				scoped = append(scoped, order)
			}
		default:
			scoped = append(scoped, order)
		}
	}

	return scoped
}

func (c *Cache) OrderByID(ctx context.Context, orderID string) (models.LocalOrderRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	for _, order := range c.orders {
		if order.ID == orderID {
			return order, true
		}
	}

	return models.LocalOrderRecord{}, false
}

func (c *Cache) ClearOrders(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	c.orders = nil

	return c.persist(ctx)
}
