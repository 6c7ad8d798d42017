package checkout_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trovemarket/storefront-client/internal/cart"
	"github.com/trovemarket/storefront-client/internal/checkout"
	appErrors "github.com/trovemarket/storefront-client/internal/errors"
	"github.com/trovemarket/storefront-client/internal/kvstore"
	"github.com/trovemarket/storefront-client/internal/models"
	"github.com/trovemarket/storefront-client/internal/ordercache"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buyerToken(t *testing.T) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

// scriptedCreator returns the scripted outcome for each call in order.
type scriptedCreator struct {
	outcomes []func() (string, error)
	calls    []string // product ids in call order
}

func (s *scriptedCreator) CreateOrder(_ context.Context, productID string, _ models.CreateOrderRequest, _ string) (string, error) {
	s.calls = append(s.calls, productID)

	if len(s.outcomes) == 0 {
		return "", nil
	}

	next := s.outcomes[0]
	s.outcomes = s.outcomes[1:]

	return next()
}

func succeedWith(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

func failWith(err error) func() (string, error) {
	return func() (string, error) { return "", err }
}

func shippingRequest() checkout.Request {
	return checkout.Request{
		ShippingAddress: models.Address{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
			Country: "US",
			Phone:   "555-0100",
		},
		PaymentMethod: "card",
	}
}

func newFixture(t *testing.T, creator checkout.OrderCreator) (*checkout.Service, *cart.Store, *ordercache.Cache) {
	t.Helper()

	kv := kvstore.NewMemoryStore()
	cartStore := cart.NewStore(kv, discardLogger())
	cache := ordercache.NewCache(kv, discardLogger())

	return checkout.NewService(cartStore, cache, creator, discardLogger()), cartStore, cache
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - One Order Per Line Item, Cart Cleared", func(t *testing.T) {
		// Arrange
		creator := &scriptedCreator{outcomes: []func() (string, error){
			succeedWith("srv-1"),
			succeedWith("srv-2"),
		}}
		service, cartStore, cache := newFixture(t, creator)

		require.NoError(t, cartStore.AddToCart(ctx, models.Product{ID: "p1", Name: "Desk", UnitPrice: 100}, 1))
		require.NoError(t, cartStore.AddToCart(ctx, models.Product{ID: "p2", Name: "Chair", UnitPrice: 40}, 2))

		// Act
		result, err := service.Checkout(ctx, shippingRequest(), buyerToken(t))

		// Assert
		require.NoError(t, err)
		require.Len(t, result.Created, 2)
		assert.Equal(t, []string{"p1", "p2"}, creator.calls, "line items are processed in order")
		assert.Empty(t, cartStore.Items(ctx), "cart is cleared after full success")

		cached := cache.OrdersFor(ctx, "u1", models.RoleBuyer)
		assert.Len(t, cached, 2)

		first, ok := cache.OrderByID(ctx, "srv-1")
		require.True(t, ok)
		assert.Equal(t, "u1", first.BuyerID)
		assert.Equal(t, models.OrderStatusPending, first.Status)
		assert.InDelta(t, 100.0, first.TotalAmount, 1e-9)
	})

	t.Run("Partial Failure - Halts, Keeps Cart, Names The Item", func(t *testing.T) {
		// Arrange
		creator := &scriptedCreator{outcomes: []func() (string, error){
			succeedWith("srv-1"),
			failWith(appErrors.NetworkError("connection reset")),
		}}
		service, cartStore, cache := newFixture(t, creator)

		require.NoError(t, cartStore.AddToCart(ctx, models.Product{ID: "p1", Name: "Desk", UnitPrice: 100}, 1))
		require.NoError(t, cartStore.AddToCart(ctx, models.Product{ID: "p2", Name: "Chair", UnitPrice: 40}, 1))

		// Act
		result, err := service.Checkout(ctx, shippingRequest(), buyerToken(t))

		// Assert
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNetwork))
		assert.Contains(t, err.Error(), "Chair", "the error names the failing product")
		assert.Equal(t, "Chair", result.FailedProduct)

		require.Len(t, result.Created, 1, "exactly the successful prefix is reported")
		assert.Len(t, cache.OrdersFor(ctx, "u1", models.RoleBuyer), 1,
			"only the successful order reached the cache")
		assert.Len(t, cartStore.Items(ctx), 2, "the cart is not cleared on partial failure")
	})

	t.Run("First Item Fails - Nothing Created", func(t *testing.T) {
		// Arrange
		creator := &scriptedCreator{outcomes: []func() (string, error){
			failWith(appErrors.ServerError("boom")),
		}}
		service, cartStore, cache := newFixture(t, creator)

		require.NoError(t, cartStore.AddToCart(ctx, models.Product{ID: "p1", Name: "Desk", UnitPrice: 100}, 1))
		require.NoError(t, cartStore.AddToCart(ctx, models.Product{ID: "p2", Name: "Chair", UnitPrice: 40}, 1))

		// Act
		result, err := service.Checkout(ctx, shippingRequest(), buyerToken(t))

		// Assert
		require.Error(t, err)
		assert.Empty(t, result.Created)
		assert.Empty(t, cache.OrdersFor(ctx, "u1", models.RoleBuyer))
		assert.Equal(t, 1, len(creator.calls), "the sequence stops at the first failure")
	})

	t.Run("Empty Cart Rejected", func(t *testing.T) {
		service, _, _ := newFixture(t, &scriptedCreator{})

		_, err := service.Checkout(ctx, shippingRequest(), buyerToken(t))

		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})

	t.Run("Backend Without Order Id Gets Local Placeholder", func(t *testing.T) {
		// Arrange
		creator := &scriptedCreator{outcomes: []func() (string, error){succeedWith("")}}
		service, cartStore, cache := newFixture(t, creator)

		require.NoError(t, cartStore.AddToCart(ctx, models.Product{ID: "p1", Name: "Desk", UnitPrice: 100}, 1))

		// Act
		result, err := service.Checkout(ctx, shippingRequest(), buyerToken(t))

		// Assert
		require.NoError(t, err)
		require.Len(t, result.Created, 1)
		assert.NotEmpty(t, result.Created[0].ID)
		assert.Contains(t, result.Created[0].ID, "local-")

		_, ok := cache.OrderByID(ctx, result.Created[0].ID)
		assert.True(t, ok)
	})
}
