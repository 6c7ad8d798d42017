package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/trovemarket/storefront-client/internal/api/response"
	"github.com/trovemarket/storefront-client/internal/checkout"
	"github.com/trovemarket/storefront-client/internal/models"
)

type CheckoutHandler struct {
	service   *checkout.Service
	validator *validator.Validate
}

func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		service:   service,
		validator: validator.New(),
	}
}

type checkoutRequest struct {
	ShippingAddress models.Address `json:"shippingAddress" validate:"required"`
	PaymentMethod   string         `json:"paymentMethod" validate:"required"`
	Notes           string         `json:"notes"`
}

func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req checkoutRequest
		if !parseAndValidate(r, w, &req, h.validator) {
			return
		}

		result, err := h.service.Checkout(r.Context(), checkout.Request{
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Notes:           req.Notes,
		}, bearerToken(r))

		if err != nil {
			// partial success still carries created orders; surface both
			if len(result.Created) > 0 {
				response.WriteJson(w, http.StatusMultiStatus, response.APIResponse{
					Success: false,
					Data:    result,
					Error: &response.ErrorResponse{
						Code:    "PARTIAL_CHECKOUT",
						Message: err.Error(),
					},
				})

				return
			}

			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusCreated, result)
	}
}
