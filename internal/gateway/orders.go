package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/trovemarket/storefront-client/internal/errors"
	"github.com/trovemarket/storefront-client/internal/models"
)

var validate = validator.New()

// wireOrder is the backend's order payload shape.
type wireOrder struct {
	ID                string         `json:"_id"`
	BuyerID           string         `json:"buyerId"`
	SellerID          string         `json:"sellerId"`
	ProductID         string         `json:"productId"`
	ProductName       string         `json:"productName"`
	Quantity          int            `json:"quantity"`
	TotalAmount       float64        `json:"totalAmount"`
	Status            string         `json:"status"`
	PaymentStatus     string         `json:"paymentStatus"`
	ShippingAddress   models.Address `json:"shippingAddress"`
	CreatedAt         time.Time      `json:"createdAt"`
	EstimatedDelivery time.Time      `json:"estimatedDelivery"`
}

func (w wireOrder) toRecord() models.LocalOrderRecord {
	return models.LocalOrderRecord{
		ID:                w.ID,
		BuyerID:           w.BuyerID,
		SellerID:          w.SellerID,
		ProductID:         w.ProductID,
		ProductName:       w.ProductName,
		Quantity:          w.Quantity,
		TotalAmount:       w.TotalAmount,
		Status:            models.OrderStatus(w.Status),
		PaymentStatus:     models.PaymentStatus(w.PaymentStatus),
		ShippingAddress:   w.ShippingAddress,
		CreatedAt:         w.CreatedAt,
		EstimatedDelivery: w.EstimatedDelivery,
	}
}

// CreateOrder issues one POST per line item; there is no batch endpoint.
// The request is validated in full before any network I/O: an incomplete
// shipping address or a bad quantity never reaches the wire. The returned
// id may be empty when the backend acknowledged without one; callers
// generate a local placeholder in that case.
func (c *Client) CreateOrder(ctx context.Context, productID string, req models.CreateOrderRequest, token string) (string, error) {

	if productID == "" {
		return "", appErrors.ValidationError("Product id is required")
	}

	if err := validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			return "", appErrors.ValidationError("Order is incomplete").WithDetail(validationErrs.Error())
		}

		return "", appErrors.ValidationError("Order is incomplete").WithError(err)
	}

	env, err := c.do(ctx, "create_order", http.MethodPost, "/orders/buyer/product/"+productID, req, token)
	if err != nil {
		return "", err
	}

	return orderIDFrom(env), nil
}

// orderIDFrom digs the created order's id out of the envelope: the backend
// has returned it as data._id, order._id, and a bare _id across versions.
func orderIDFrom(env *envelope) string {

	if env.ID != "" {
		return env.ID
	}

	var idHolder struct {
		ID string `json:"_id"`
	}

	if len(env.Order) > 0 {
		if err := json.Unmarshal(env.Order, &idHolder); err == nil && idHolder.ID != "" {
			return idHolder.ID
		}
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &idHolder); err == nil && idHolder.ID != "" {
			return idHolder.ID
		}
	}

	return ""
}

// BuyerOrders walks the endpoint fallback ladder: a 404 on one shape tries
// the next, so an endpoint-shape mismatch never becomes a hard failure while
// an alternative is known. Any other failure stops the ladder immediately.
func (c *Client) BuyerOrders(ctx context.Context, token string) ([]models.LocalOrderRecord, error) {

	var lastErr error

	for _, path := range c.cfg.BuyerOrderPaths {
		env, err := c.do(ctx, "list_buyer_orders", http.MethodGet, path, nil, token)
		if err == nil {
			return decodeOrders(env)
		}

		lastErr = err

		if !appErrors.HasCode(err, appErrors.ErrCodeNotFound) {
			return nil, err
		}

		c.logger.Debug("order list endpoint missing, trying next shape",
			slog.String("path", path))
	}

	if lastErr == nil {
		lastErr = appErrors.NotFoundError("No order list endpoint available")
	}

	return nil, lastErr
}

func (c *Client) SellerOrders(ctx context.Context, token string) ([]models.LocalOrderRecord, error) {

	env, err := c.do(ctx, "list_seller_orders", http.MethodGet, c.cfg.SellerOrderPath, nil, token)
	if err != nil {
		return nil, err
	}

	return decodeOrders(env)
}

func decodeOrders(env *envelope) ([]models.LocalOrderRecord, error) {

	raw := env.Data
	if len(raw) == 0 {
		raw = env.Orders
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var wire []wireOrder
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, appErrors.InternalError("Unexpected order list payload").WithError(err)
	}

	records := make([]models.LocalOrderRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, w.toRecord())
	}

	return records, nil
}

// UpdateOrderStatus PUTs the new status. A 404 is surfaced as NotFound so
// the caller can apply its local degraded-mode fallback; other failures are
// hard errors.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, token string) error {

	if !models.ValidStatus(status) {
		return appErrors.ValidationError(fmt.Sprintf("Unknown order status %q", status))
	}

	body := map[string]models.OrderStatus{"status": status}

	_, err := c.do(ctx, "update_order_status", http.MethodPut, "/orders/"+orderID+"/status", body, token)

	return err
}

func (c *Client) CancelOrder(ctx context.Context, orderID string, token string) error {

	_, err := c.do(ctx, "cancel_order", http.MethodPut, "/orders/"+orderID+"/cancel", nil, token)

	return err
}
