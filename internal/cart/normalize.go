package cart

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	appErrors "github.com/trovemarket/storefront-client/internal/errors"
	"github.com/trovemarket/storefront-client/internal/models"
)

// namePolicy strips any markup out of product names before they enter local
// state; listing payloads are not trusted to be plain text.
var namePolicy = bluemonday.StrictPolicy()

// Normalize folds the backend's polymorphic product payload into the one
// canonical shape the cart stores. Name, price and stock may live at the top
// level or nested under productTypeId (with the brand one level below that);
// top-level fields win when both are present. This is the only place the
// variability is allowed to exist.
func Normalize(raw models.RawProduct) (models.Product, error) {

	if raw.ID == "" {
		return models.Product{}, appErrors.ValidationError("Product is missing an id")
	}

	product := models.Product{
		ID:   raw.ID,
		Name: raw.Name,
	}

	if raw.Price != nil {
		product.UnitPrice = *raw.Price
	}

	if raw.Stock != nil {
		product.Stock = *raw.Stock
	}

	if nested := raw.ProductType; nested != nil {

		if product.Name == "" {
			product.Name = nested.Name
		}

		if raw.Price == nil && nested.Price != nil {
			product.UnitPrice = *nested.Price
		}

		if raw.Stock == nil && nested.Stock != nil {
			product.Stock = *nested.Stock
		}

		if nested.Brand != nil {
			product.Brand = nested.Brand.Name
		}
	}

	product.Name = strings.TrimSpace(namePolicy.Sanitize(product.Name))

	if product.Name == "" {
		return models.Product{}, appErrors.ValidationError("Product is missing a name")
	}

	if product.UnitPrice < 0 {
		return models.Product{}, appErrors.ValidationError("Product price cannot be negative")
	}

	return product, nil
}
