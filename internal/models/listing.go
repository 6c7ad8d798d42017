package models

// SortDirection for listing queries.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Filters is the criteria applied to a product or saved-item listing.
// Zero values mean "not filtered on".
type Filters struct {
	Search     string        `json:"search,omitempty"`
	PriceMin   float64       `json:"price_min,omitempty"`
	PriceMax   float64       `json:"price_max,omitempty"` // 0 = unbounded
	CategoryID string        `json:"category_id,omitempty"`
	BrandID    string        `json:"brand_id,omitempty"`
	SortKey    string        `json:"sort_key,omitempty"`
	SortDir    SortDirection `json:"sort_dir,omitempty"`
}

// ListQueryState is the pagination + filter state of one listing view.
// Page is 1-based and always clamped to [1, ceil(TotalCount/PageSize)]
// whenever TotalCount or PageSize changes.
type ListQueryState struct {
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	Filters    Filters `json:"filters"`
	TotalCount int     `json:"total_count"`
}

type PaginatedResponse struct {
	Data     any `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}
