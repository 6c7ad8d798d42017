// Package orders composes the strict remote order API with the permissive
// local cache. The remote tier validates status transitions and talks HTTP;
// the local tier applies whatever it is told. FallbackRepository makes the
// degraded-availability trade-off an explicit policy: remote first, local
// only when the remote endpoint does not exist.
package orders

import (
	"context"
	"fmt"
	"log/slog"

	appErrors "github.com/trovemarket/storefront-client/internal/errors"
	"github.com/trovemarket/storefront-client/internal/metrics"
	"github.com/trovemarket/storefront-client/internal/models"
	"github.com/trovemarket/storefront-client/internal/ordercache"
)

// Gateway is the slice of the HTTP client this package needs.
type Gateway interface {
	BuyerOrders(ctx context.Context, token string) ([]models.LocalOrderRecord, error)
	SellerOrders(ctx context.Context, token string) ([]models.LocalOrderRecord, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, token string) error
	CancelOrder(ctx context.Context, orderID string, token string) error
}

type Repository interface {
	Orders(ctx context.Context, userID string, role models.Role, token string) ([]models.LocalOrderRecord, error)
	UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus, token string) error
	Cancel(ctx context.Context, orderID string, token string) error
}

// RemoteRepository is the strict tier: invalid transitions are rejected
// before the backend is asked, and every backend failure propagates.
type RemoteRepository struct {
	gw Gateway
}

func NewRemoteRepository(gw Gateway) *RemoteRepository {
	return &RemoteRepository{gw: gw}
}

func (r *RemoteRepository) Orders(ctx context.Context, _ string, role models.Role, token string) ([]models.LocalOrderRecord, error) {

	switch role {
	case models.RoleBuyer:
		return r.gw.BuyerOrders(ctx, token)
	case models.RoleSeller:
		return r.gw.SellerOrders(ctx, token)
	default:
		// the backend has no cross-user listing endpoint; only the local
		// cache can serve the admin-style view
		return nil, appErrors.NotFoundError("No remote listing for this role")
	}
}

func (r *RemoteRepository) UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus, token string) error {

	if !models.CanTransition(from, to) {
		return appErrors.BusinessRuleError(
			fmt.Sprintf("Cannot change status from %s to %s", from, to))
	}

	return r.gw.UpdateOrderStatus(ctx, orderID, to, token)
}

func (r *RemoteRepository) Cancel(ctx context.Context, orderID string, token string) error {
	return r.gw.CancelOrder(ctx, orderID, token)
}

// LocalRepository is the permissive tier over the order cache. It applies
// status changes unconditionally: in degraded mode availability wins over
// transition validity.
type LocalRepository struct {
	cache *ordercache.Cache
}

func NewLocalRepository(cache *ordercache.Cache) *LocalRepository {
	return &LocalRepository{cache: cache}
}

func (l *LocalRepository) Orders(ctx context.Context, userID string, role models.Role, _ string) ([]models.LocalOrderRecord, error) {
	return l.cache.OrdersFor(ctx, userID, role), nil
}

func (l *LocalRepository) UpdateStatus(ctx context.Context, orderID string, _, to models.OrderStatus, _ string) error {

	return l.cache.UpdateOrder(ctx, orderID, models.OrderPatch{Status: &to})
}

func (l *LocalRepository) Cancel(ctx context.Context, orderID string, _ string) error {

	cancelled := models.OrderStatusCancelled

	return l.cache.UpdateOrder(ctx, orderID, models.OrderPatch{Status: &cancelled})
}

// FallbackRepository tries the remote tier and falls back to the local one
// on exactly one error kind: the endpoint not existing. Every other failure
// class (auth, network, server, business rule) propagates untouched — the
// local path is a degraded-availability mode, not a second source of truth.
type FallbackRepository struct {
	remote Repository
	local  *LocalRepository
	cache  *ordercache.Cache
	logger *slog.Logger
}

func NewFallbackRepository(remote Repository, cache *ordercache.Cache, logger *slog.Logger) *FallbackRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &FallbackRepository{
		remote: remote,
		local:  NewLocalRepository(cache),
		cache:  cache,
		logger: logger,
	}
}

func (f *FallbackRepository) shouldFallBack(err error) bool {
	return appErrors.HasCode(err, appErrors.ErrCodeNotFound)
}

// Orders lists from the backend and reconciles the authoritative records
// into the cache (upsert by id), so the overlay stays current. When the
// backend has no listing endpoint the cache serves the request.
func (f *FallbackRepository) Orders(ctx context.Context, userID string, role models.Role, token string) ([]models.LocalOrderRecord, error) {

	remote, err := f.remote.Orders(ctx, userID, role, token)
	if err == nil {
		for _, record := range remote {
			if cacheErr := f.cache.AddOrder(ctx, record); cacheErr != nil {
				f.logger.Warn("failed to reconcile order into local cache",
					slog.String("order_id", record.ID),
					slog.String("error", cacheErr.Error()))
			}
		}

		return remote, nil
	}

	if !f.shouldFallBack(err) {
		return nil, err
	}

	f.logger.Info("order listing unavailable remotely, serving local cache",
		slog.String("role", string(role)))
	metrics.ObserveFallback("list_orders")

	return f.local.Orders(ctx, userID, role, token)
}

func (f *FallbackRepository) UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus, token string) error {

	err := f.remote.UpdateStatus(ctx, orderID, from, to, token)
	if err == nil {
		// keep the overlay in step with the accepted change
		return f.local.UpdateStatus(ctx, orderID, from, to, token)
	}

	if !f.shouldFallBack(err) {
		return err
	}

	f.logger.Info("status endpoint unavailable, applying change locally",
		slog.String("order_id", orderID),
		slog.String("status", string(to)))
	metrics.ObserveFallback("update_status")

	return f.local.UpdateStatus(ctx, orderID, from, to, token)
}

func (f *FallbackRepository) Cancel(ctx context.Context, orderID string, token string) error {

	err := f.remote.Cancel(ctx, orderID, token)
	if err == nil {
		return f.local.Cancel(ctx, orderID, token)
	}

	if !f.shouldFallBack(err) {
		return err
	}

	f.logger.Info("cancel endpoint unavailable, applying change locally",
		slog.String("order_id", orderID))
	metrics.ObserveFallback("cancel_order")

	return f.local.Cancel(ctx, orderID, token)
}
