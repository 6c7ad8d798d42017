// Package checkout turns the cart into orders: one create call per line
// item, strictly sequential, so a failure partway leaves a deterministic
// prefix of created orders and a clear stopping point. Already-created
// orders are not rolled back.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trovemarket/storefront-client/internal/auth"
	"github.com/trovemarket/storefront-client/internal/cart"
	appErrors "github.com/trovemarket/storefront-client/internal/errors"
	"github.com/trovemarket/storefront-client/internal/models"
	"github.com/trovemarket/storefront-client/internal/ordercache"
)

// estimatedDeliveryWindow is what the backend quotes for standard shipping.
const estimatedDeliveryWindow = 7 * 24 * time.Hour

// OrderCreator is the slice of the gateway checkout needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, productID string, req models.CreateOrderRequest, token string) (string, error)
}

type Service struct {
	cart    *cart.Store
	cache   *ordercache.Cache
	creator OrderCreator
	logger  *slog.Logger
}

func NewService(cartStore *cart.Store, cache *ordercache.Cache, creator OrderCreator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{cart: cartStore, cache: cache, creator: creator, logger: logger}
}

// Request is the checkout form: one address and payment method for the
// whole cart.
type Request struct {
	ShippingAddress models.Address
	PaymentMethod   string
	Notes           string
}

// Result reports what actually happened, including on partial failure.
type Result struct {
	Created []models.LocalOrderRecord
	// FailedProduct names the line item that stopped the sequence, empty on
	// full success.
	FailedProduct string
}

// Checkout places one order per cart line item, awaiting each before
// starting the next. Every success is mirrored into the order cache
// immediately, so a later failure cannot lose the record. The cart is
// cleared only after every line item went through.
func (s *Service) Checkout(ctx context.Context, req Request, token string) (Result, error) {

	var result Result

	buyerID, err := auth.UserID(token)
	if err != nil {
		return result, err
	}

	items := s.cart.Items(ctx)
	if len(items) == 0 {
		return result, appErrors.BadRequestError("Cannot check out an empty cart")
	}

	for _, item := range items {

		orderReq := models.CreateOrderRequest{
			BuyerID:         buyerID,
			Quantity:        item.Quantity,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Notes:           req.Notes,
		}

		orderID, err := s.creator.CreateOrder(ctx, item.ProductID, orderReq, token)
		if err != nil {
			result.FailedProduct = item.Name

			s.logger.Warn("checkout halted",
				slog.String("product_id", item.ProductID),
				slog.Int("orders_created", len(result.Created)),
				slog.String("error", err.Error()))

			return result, itemError(item.Name, err)
		}

		if orderID == "" {
			orderID = "local-" + uuid.NewString()
		}

		record := models.LocalOrderRecord{
			ID:                orderID,
			BuyerID:           buyerID,
			ProductID:         item.ProductID,
			ProductName:       item.Name,
			Quantity:          item.Quantity,
			TotalAmount:       item.UnitPrice * float64(item.Quantity),
			Status:            models.OrderStatusPending,
			PaymentStatus:     models.PaymentStatusPending,
			ShippingAddress:   req.ShippingAddress,
			CreatedAt:         time.Now(),
			EstimatedDelivery: time.Now().Add(estimatedDeliveryWindow),
		}

		if err := s.cache.AddOrder(ctx, record); err != nil {
			// the order exists remotely; a cache write failure is logged,
			// not surfaced as a checkout failure
			s.logger.Warn("failed to mirror created order into local cache",
				slog.String("order_id", orderID),
				slog.String("error", err.Error()))
		}

		result.Created = append(result.Created, record)
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		s.logger.Warn("orders created but cart could not be cleared",
			slog.String("error", err.Error()))

		return result, err
	}

	return result, nil
}

// itemError rewraps a per-item failure so the message names the product the
// sequence stopped on.
func itemError(productName string, err error) error {

	if appErr, ok := appErrors.IsAppError(err); ok {
		return appErrors.NewAppError(
			appErr.Code,
			fmt.Sprintf("Could not order %s: %s", productName, appErr.Message),
			appErr.StatusCode,
		).WithError(err)
	}

	return appErrors.InternalError(fmt.Sprintf("Could not order %s", productName)).WithError(err)
}
