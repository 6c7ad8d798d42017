package gateway

import (
	"context"
	"net/http"

	appErrors "github.com/trovemarket/storefront-client/internal/errors"
)

// SaveProduct and UnsaveProduct are plain CRUD against the saved-items
// endpoints; the interesting behavior (optimistic masking of 5xx) lives in
// the saveditems package.

func (c *Client) SaveProduct(ctx context.Context, productID string, token string) error {

	if productID == "" {
		return appErrors.ValidationError("Product id is required")
	}

	_, err := c.do(ctx, "save_product", http.MethodPost, "/saved-items/"+productID, nil, token)

	return err
}

func (c *Client) UnsaveProduct(ctx context.Context, productID string, token string) error {

	if productID == "" {
		return appErrors.ValidationError("Product id is required")
	}

	_, err := c.do(ctx, "unsave_product", http.MethodDelete, "/saved-items/"+productID, nil, token)

	return err
}
