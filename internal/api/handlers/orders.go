package handlers

import (
	"net/http"

	"github.com/trovemarket/storefront-client/internal/api/response"
	"github.com/trovemarket/storefront-client/internal/auth"
	"github.com/trovemarket/storefront-client/internal/models"
	"github.com/trovemarket/storefront-client/internal/orders"
)

type OrderHandler struct {
	repo orders.Repository
}

func NewOrderHandler(repo orders.Repository) *OrderHandler {
	return &OrderHandler{repo: repo}
}

type updateStatusRequest struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

// ListOrders scopes the listing by the caller's token: the role claim picks
// buyer vs. seller, the user id scopes the local fallback.
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		token := bearerToken(r)

		claims, err := auth.Inspect(token)
		if err != nil {
			response.Error(w, err)

			return
		}

		records, err := h.repo.Orders(r.Context(), claims.UserID, models.Role(claims.Role), token)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, records)
	}
}

func (h *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orderID := r.PathValue("id")

		var req updateStatusRequest
		if err := decodeJSONBody(r, &req); err != nil {
			response.Error(w, err)

			return
		}

		if err := h.repo.UpdateStatus(r.Context(), orderID, req.From, req.To, bearerToken(r)); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"id": orderID, "status": string(req.To)})
	}
}

func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orderID := r.PathValue("id")

		if err := h.repo.Cancel(r.Context(), orderID, bearerToken(r)); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"id": orderID, "status": string(models.OrderStatusCancelled)})
	}
}
