// Package listing keeps a view's page, page size and filter criteria
// consistent with a result set whose size is only known after a fetch. Text
// and price filters are debounced; category, brand, sort and page-size
// changes apply immediately. Whenever the result set or page size changes,
// the page is clamped back into range so a shrinking filtered set never
// leaves the view pointing past the end.
package listing

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/trovemarket/storefront-client/internal/config"
	"github.com/trovemarket/storefront-client/internal/models"
)

var searchPolicy = bluemonday.StrictPolicy()

// ApplyFunc receives the settled query state and performs the refetch or
// re-filter. It runs on the debounce timer's goroutine for debounced
// changes and synchronously for immediate ones.
type ApplyFunc func(models.ListQueryState)

type Controller struct {
	mu    sync.Mutex
	state models.ListQueryState

	searchDebounce *Debouncer
	priceDebounce  *Debouncer
	apply          ApplyFunc
}

func NewController(pageSize int, debounce config.Debounce, apply ApplyFunc) *Controller {
	if pageSize < 1 {
		pageSize = 10
	}

	if apply == nil {
		apply = func(models.ListQueryState) {}
	}

	return &Controller{
		state:          models.ListQueryState{Page: 1, PageSize: pageSize},
		searchDebounce: NewDebouncer(debounce.Search),
		priceDebounce:  NewDebouncer(debounce.PriceRange),
		apply:          apply,
	}
}

func (c *Controller) State() models.ListQueryState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// SetSearch stages a text filter change. Only the last change within the
// quiet window resets to page 1 and fires an apply.
func (c *Controller) SetSearch(text string) {

	text = strings.TrimSpace(searchPolicy.Sanitize(text))

	c.searchDebounce.Arm(func() {
		c.mu.Lock()
		c.state.Filters.Search = text
		c.state.Page = 1
		state := c.state
		c.mu.Unlock()

		c.apply(state)
	})
}

// SetPriceRange stages a price filter change; same coalescing as search but
// with its own, longer window (slider drags produce bursts).
func (c *Controller) SetPriceRange(minPrice, maxPrice float64) {

	c.priceDebounce.Arm(func() {
		c.mu.Lock()
		c.state.Filters.PriceMin = minPrice
		c.state.Filters.PriceMax = maxPrice
		c.state.Page = 1
		state := c.state
		c.mu.Unlock()

		c.apply(state)
	})
}

// SetCategory applies immediately.
func (c *Controller) SetCategory(categoryID string) {
	c.applyImmediate(func() {
		c.state.Filters.CategoryID = categoryID
	})
}

// SetBrand applies immediately.
func (c *Controller) SetBrand(brandID string) {
	c.applyImmediate(func() {
		c.state.Filters.BrandID = brandID
	})
}

// SetSort applies immediately.
func (c *Controller) SetSort(key string, dir models.SortDirection) {
	c.applyImmediate(func() {
		c.state.Filters.SortKey = key
		c.state.Filters.SortDir = dir
	})
}

// SetPageSize applies immediately; any size change restarts at page 1.
func (c *Controller) SetPageSize(pageSize int) {
	if pageSize < 1 {
		return
	}

	c.applyImmediate(func() {
		c.state.PageSize = pageSize
	})
}

func (c *Controller) applyImmediate(mutate func()) {
	c.mu.Lock()
	mutate()
	c.state.Page = 1
	state := c.state
	c.mu.Unlock()

	c.apply(state)
}

// SetPage navigates to a page, clamped into the known bounds.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()

	if page < 1 {
		page = 1
	}

	c.state.Page = page
	c.clampLocked()
	state := c.state
	c.mu.Unlock()

	c.apply(state)
}

// SetTotalCount records the authoritative result-set size after a fetch
// (or the filtered length in client-side mode) and re-evaluates the page
// clamp. An apply fires only when the clamp actually moved the page, to
// fetch the corrected window.
func (c *Controller) SetTotalCount(total int) {
	c.mu.Lock()

	c.state.TotalCount = total
	before := c.state.Page
	c.clampLocked()
	moved := c.state.Page != before
	state := c.state
	c.mu.Unlock()

	if moved {
		c.apply(state)
	}
}

// clampLocked forces page into [1, ceil(total/pageSize)]. With an unknown
// or empty result set (total == 0) the page is left alone rather than
// forced below 1.
func (c *Controller) clampLocked() {

	maxPage := (c.state.TotalCount + c.state.PageSize - 1) / c.state.PageSize

	if c.state.Page > maxPage && maxPage > 0 {
		c.state.Page = maxPage
	}
}

// Close drops any pending debounced applies, for view unmount.
func (c *Controller) Close() {
	c.searchDebounce.Cancel()
	c.priceDebounce.Cancel()
}
