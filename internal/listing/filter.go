package listing

import (
	"sort"
	"strings"

	"github.com/trovemarket/storefront-client/internal/models"
)

// ApplyFilters derives the filtered, sorted collection from the full set.
// It is a pure function of its inputs: the input slice is never mutated and
// repeated calls with the same arguments return the same result, so views
// may re-derive on every render.
func ApplyFilters(products []models.Product, f models.Filters) []models.Product {

	search := strings.ToLower(strings.TrimSpace(f.Search))

	filtered := make([]models.Product, 0, len(products))

	for _, p := range products {

		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}

		if f.PriceMin > 0 && p.UnitPrice < f.PriceMin {
			continue
		}

		if f.PriceMax > 0 && p.UnitPrice > f.PriceMax {
			continue
		}

		if f.CategoryID != "" && p.Category != f.CategoryID {
			continue
		}

		if f.BrandID != "" && p.Brand != f.BrandID {
			continue
		}

		filtered = append(filtered, p)
	}

	sortProducts(filtered, f.SortKey, f.SortDir)

	return filtered
}

func sortProducts(products []models.Product, key string, dir models.SortDirection) {

	var less func(a, b models.Product) bool

	switch key {
	case "price":
		less = func(a, b models.Product) bool { return a.UnitPrice < b.UnitPrice }
	case "name":
		less = func(a, b models.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	default:
		return
	}

	sort.SliceStable(products, func(i, j int) bool {
		if dir == models.SortDesc {
			return less(products[j], products[i])
		}

		return less(products[i], products[j])
	})
}

// Paginate slices one page out of a derived collection. An out-of-range
// page yields an empty slice, not an error; the controller's clamp keeps
// the view off such pages.
func Paginate[T any](items []T, page, pageSize int) []T {

	if page < 1 || pageSize < 1 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}
