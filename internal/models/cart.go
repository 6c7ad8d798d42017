package models

import (
	"time"
)

// CartLineItem is one product-plus-quantity entry in the cart. At most one
// line item exists per ProductID; adding an already-present product merges
// into the existing entry.
type CartLineItem struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Stock     int       `json:"stock"` // availability snapshot at add time
	AddedAt   time.Time `json:"added_at"`
}

// CartSnapshot holds the derived totals for the current line items. It is
// recomputed from the collection on every read and never persisted.
type CartSnapshot struct {
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// Product is the normalized product shape accepted by the cart. Listing and
// detail endpoints disagree on where name/price/stock live (flat vs. nested
// under the product-type/brand sub-structure), so both raw shapes are folded
// into this one at the cart ingress.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Stock     int     `json:"stock"`
	Category  string  `json:"category,omitempty"`
	Brand     string  `json:"brand,omitempty"`
}

// RawProduct mirrors the backend's polymorphic product payload. Top-level
// fields win when both are present.
type RawProduct struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name,omitempty"`
	Price       *float64        `json:"price,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
	ProductType *RawProductType `json:"productTypeId,omitempty"`
}

type RawProductType struct {
	Name  string       `json:"name,omitempty"`
	Price *float64     `json:"price,omitempty"`
	Stock *int         `json:"stock,omitempty"`
	Brand *RawCategory `json:"brandId,omitempty"`
}

type RawCategory struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// SavedItem is one entry in the saved-items (wishlist) collection.
type SavedItem struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Category  string    `json:"category,omitempty"`
	Brand     string    `json:"brand,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
	// PendingSync marks an item whose save was masked past a backend 5xx and
	// still needs to reach the server.
	PendingSync bool `json:"pending_sync,omitempty"`
}
