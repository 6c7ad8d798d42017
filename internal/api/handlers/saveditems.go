package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/trovemarket/storefront-client/internal/api/response"
	"github.com/trovemarket/storefront-client/internal/models"
	"github.com/trovemarket/storefront-client/internal/saveditems"
)

type SavedItemsHandler struct {
	store     *saveditems.Store
	validator *validator.Validate
}

func NewSavedItemsHandler(store *saveditems.Store) *SavedItemsHandler {
	return &SavedItemsHandler{
		store:     store,
		validator: validator.New(),
	}
}

type toggleRequest struct {
	Product models.Product `json:"product" validate:"required"`
}

func (h *SavedItemsHandler) ListSaved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.store.Items(r.Context()))
	}
}

func (h *SavedItemsHandler) Toggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req toggleRequest
		if !parseAndValidate(r, w, &req, h.validator) {
			return
		}

		result, err := h.store.Toggle(r.Context(), req.Product, bearerToken(r))
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, result)
	}
}
