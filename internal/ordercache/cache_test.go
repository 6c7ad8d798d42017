package ordercache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trovemarket/storefront-client/internal/kvstore"
	"github.com/trovemarket/storefront-client/internal/models"
	"github.com/trovemarket/storefront-client/internal/ordercache"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func order(id, buyerID, sellerID string) models.LocalOrderRecord {
	return models.LocalOrderRecord{
		ID:       id,
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   models.OrderStatusPending,
	}
}

func TestAddOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Appends New Record", func(t *testing.T) {
		// Arrange
		cache := ordercache.NewCache(kvstore.NewMemoryStore(), discardLogger())

		// Act
		err := cache.AddOrder(ctx, order("o1", "u1", "s1"))

		// Assert
		require.NoError(t, err)
		got, ok := cache.OrderByID(ctx, "o1")
		assert.True(t, ok)
		assert.Equal(t, "u1", got.BuyerID)
	})

	t.Run("Upserts By ID", func(t *testing.T) {
		// Arrange
		cache := ordercache.NewCache(kvstore.NewMemoryStore(), discardLogger())
		require.NoError(t, cache.AddOrder(ctx, order("o1", "u1", "s1")))

		replacement := order("o1", "u1", "s1")
		replacement.Status = models.OrderStatusProcessing

		// Act
		err := cache.AddOrder(ctx, replacement)

		// Assert
		require.NoError(t, err)
		all := cache.OrdersFor(ctx, "", "admin")
		require.Len(t, all, 1, "a reconciled insert with a known id must replace, not duplicate")
		assert.Equal(t, models.OrderStatusProcessing, all[0].Status)
	})
}

func TestUpdateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Shallow Merges Patch", func(t *testing.T) {
		// Arrange
		cache := ordercache.NewCache(kvstore.NewMemoryStore(), discardLogger())
		require.NoError(t, cache.AddOrder(ctx, order("o1", "u1", "s1")))

		shipped := models.OrderStatusShipped

		// Act
		err := cache.UpdateOrder(ctx, "o1", models.OrderPatch{Status: &shipped})

		// Assert
		require.NoError(t, err)
		got, _ := cache.OrderByID(ctx, "o1")
		assert.Equal(t, models.OrderStatusShipped, got.Status)
		assert.Equal(t, "u1", got.BuyerID, "unpatched fields stay intact")
	})

	t.Run("Unknown ID Is A No-Op", func(t *testing.T) {
		// Arrange
		cache := ordercache.NewCache(kvstore.NewMemoryStore(), discardLogger())
		shipped := models.OrderStatusShipped

		// Act
		err := cache.UpdateOrder(ctx, "ghost", models.OrderPatch{Status: &shipped})

		// Assert
		require.NoError(t, err)
	})

	t.Run("Replaces Placeholder ID", func(t *testing.T) {
		// Arrange
		cache := ordercache.NewCache(kvstore.NewMemoryStore(), discardLogger())
		require.NoError(t, cache.AddOrder(ctx, order("local-123", "u1", "s1")))

		serverID := "srv-789"

		// Act
		err := cache.UpdateOrder(ctx, "local-123", models.OrderPatch{ID: &serverID})

		// Assert
		require.NoError(t, err)
		_, ok := cache.OrderByID(ctx, "local-123")
		assert.False(t, ok)
		_, ok = cache.OrderByID(ctx, "srv-789")
		assert.True(t, ok)
	})
}

func TestOrdersForRoleScoping(t *testing.T) {
	ctx := context.Background()
	cache := ordercache.NewCache(kvstore.NewMemoryStore(), discardLogger())

	require.NoError(t, cache.AddOrder(ctx, order("o1", "u1", "s1")))
	require.NoError(t, cache.AddOrder(ctx, order("o2", "u2", "s1")))
	require.NoError(t, cache.AddOrder(ctx, order("o3", "u1", "s2")))

	t.Run("Buyer Sees Own Purchases", func(t *testing.T) {
		got := cache.OrdersFor(ctx, "u1", models.RoleBuyer)

		require.Len(t, got, 2)

		for _, o := range got {
			assert.Equal(t, "u1", o.BuyerID)
		}
	})

	t.Run("Seller Sees Own Sales", func(t *testing.T) {
		got := cache.OrdersFor(ctx, "s1", models.RoleSeller)

		require.Len(t, got, 2)

		for _, o := range got {
			assert.Equal(t, "s1", o.SellerID)
		}
	})

	t.Run("Unknown Role Sees Everything", func(t *testing.T) {
		got := cache.OrdersFor(ctx, "whoever", "admin")

		assert.Len(t, got, 3)
	})
}

func TestClearOrders(t *testing.T) {
	ctx := context.Background()
	cache := ordercache.NewCache(kvstore.NewMemoryStore(), discardLogger())

	require.NoError(t, cache.AddOrder(ctx, order("o1", "u1", "s1")))
	require.NoError(t, cache.ClearOrders(ctx))

	assert.Empty(t, cache.OrdersFor(ctx, "", "admin"))
}

func TestCachePersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	first := ordercache.NewCache(kv, discardLogger())
	require.NoError(t, first.AddOrder(ctx, order("o1", "u1", "s1")))

	second := ordercache.NewCache(kv, discardLogger())
	got, ok := second.OrderByID(ctx, "o1")
	require.True(t, ok)
	assert.Equal(t, "u1", got.BuyerID)
}

func TestUserScopedCachesAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()

	alice := ordercache.NewCacheForUser(kv, "alice", discardLogger())
	require.NoError(t, alice.AddOrder(ctx, order("o1", "alice", "s1")))

	bob := ordercache.NewCacheForUser(kv, "bob", discardLogger())
	assert.Empty(t, bob.OrdersFor(ctx, "bob", models.RoleBuyer))
	assert.Empty(t, bob.OrdersFor(ctx, "", "admin"))
}

func TestCorruptOrderBlobRecovery(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, kvstore.OrdersKey, "][ not json"))

	cache := ordercache.NewCache(kv, discardLogger())

	assert.Empty(t, cache.OrdersFor(ctx, "", "admin"))
	require.NoError(t, cache.AddOrder(ctx, order("o1", "u1", "s1")))
}
