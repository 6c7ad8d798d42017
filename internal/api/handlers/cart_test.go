package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trovemarket/storefront-client/internal/api/handlers"
	"github.com/trovemarket/storefront-client/internal/api/response"
	"github.com/trovemarket/storefront-client/internal/cart"
	"github.com/trovemarket/storefront-client/internal/kvstore"
	"github.com/trovemarket/storefront-client/internal/models"
)

func setupCartTest() (*cart.Store, *handlers.CartHandler) {
	store := cart.NewStore(kvstore.NewMemoryStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	return store, handlers.NewCartHandler(store)
}

func jsonRequest(method, url string, body []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func decodeAPIResponse(t *testing.T, recorder *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))

	return resp
}

func TestAddItem(t *testing.T) {

	t.Run("Success - Adds Raw Product", func(t *testing.T) {
		// Arrange
		store, handler := setupCartTest()
		body, _ := json.Marshal(map[string]any{
			"product":  map[string]any{"_id": "p1", "name": "Desk Lamp", "price": 35.0, "stock": 4},
			"quantity": 2,
		})
		req := jsonRequest(http.MethodPost, "/api/v1/cart/items", body)
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.True(t, resp.Success)

		item, ok := store.Item(req.Context(), "p1")
		require.True(t, ok)
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("Failure - Zero Quantity Rejected", func(t *testing.T) {
		// Arrange
		_, handler := setupCartTest()
		body, _ := json.Marshal(map[string]any{
			"product":  map[string]any{"_id": "p1", "name": "Desk Lamp", "price": 35.0},
			"quantity": 0,
		})
		req := jsonRequest(http.MethodPost, "/api/v1/cart/items", body)
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.False(t, resp.Success)
	})

	t.Run("Failure - Malformed Body", func(t *testing.T) {
		_, handler := setupCartTest()
		req := jsonRequest(http.MethodPost, "/api/v1/cart/items", []byte("{not json"))
		recorder := httptest.NewRecorder()

		handler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetCart(t *testing.T) {
	// Arrange
	store, handler := setupCartTest()
	req := jsonRequest(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, store.AddToCart(req.Context(), models.Product{ID: "p1", Name: "Oak Chair", UnitPrice: 90}, 3))
	recorder := httptest.NewRecorder()

	// Act
	handler.GetCart()(recorder, req)

	// Assert
	assert.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeAPIResponse(t, recorder)
	assert.True(t, resp.Success)
	assert.Contains(t, recorder.Body.String(), `"item_count":3`)
}

func TestRemoveItem(t *testing.T) {
	// Arrange
	store, handler := setupCartTest()
	req := jsonRequest(http.MethodDelete, "/api/v1/cart/items/p1", nil)
	req.SetPathValue("id", "p1")
	require.NoError(t, store.AddToCart(req.Context(), models.Product{ID: "p1", Name: "Oak Chair", UnitPrice: 90}, 1))
	recorder := httptest.NewRecorder()

	// Act
	handler.RemoveItem()(recorder, req)

	// Assert
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, store.IsInCart(req.Context(), "p1"))
}
