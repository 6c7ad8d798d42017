package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/trovemarket/storefront-client/internal/api/response"
	"github.com/trovemarket/storefront-client/internal/cart"
	"github.com/trovemarket/storefront-client/internal/models"
)

type CartHandler struct {
	cartStore *cart.Store
	validator *validator.Validate
}

func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{
		cartStore: store,
		validator: validator.New(),
	}
}

type addItemRequest struct {
	Product  models.RawProduct `json:"product" validate:"required"`
	Quantity int               `json:"quantity" validate:"required,min=1"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartView struct {
	Items    []models.CartLineItem `json:"items"`
	Snapshot models.CartSnapshot   `json:"snapshot"`
}

func (h *CartHandler) view(r *http.Request) cartView {
	return cartView{
		Items:    h.cartStore.Items(r.Context()),
		Snapshot: h.cartStore.Snapshot(r.Context()),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.view(r))
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req addItemRequest
		if !parseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.cartStore.AddRawToCart(r.Context(), req.Product, req.Quantity); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, h.view(r))
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		productID := r.PathValue("id")

		var req updateQuantityRequest
		if err := decodeJSONBody(r, &req); err != nil {
			response.Error(w, err)

			return
		}

		if err := h.cartStore.UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, h.view(r))
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		productID := r.PathValue("id")

		if err := h.cartStore.RemoveFromCart(r.Context(), productID); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, h.view(r))
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if err := h.cartStore.ClearCart(r.Context()); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, h.view(r))
	}
}
