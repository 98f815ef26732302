// Package adapters defines the platform adapter capability and selects the
// adapter matching a business's configured storefront.
package adapters

import (
	"context"

	"github.com/localmart/catalog-sync/models"
)

// Adapter translates one storefront platform's catalog into canonical
// products. Fetch paginates the platform feed, applies the business's tag
// filter, and assigns product ids sequentially from
// Business.NextProductID. When Fetch fails mid-pass it returns the products
// collected so far together with the error; the orchestrator decides
// whether to keep them.
type Adapter interface {
	// Platform is the label used for settings lookup and failure reports.
	Platform() string
	// Homepage returns the business's storefront URL for this platform,
	// empty when not configured.
	Homepage(biz *models.Business) string
	// Fetch retrieves and normalizes the full catalog for one sync pass.
	Fetch(ctx context.Context, biz *models.Business) ([]models.Product, error)
}

// Set is the registry of configured adapters in precedence order:
// Shopify, then Etsy, then Square. The first platform with a configured
// homepage wins when a business has several.
type Set struct {
	Adapters []Adapter
}

// ForBusiness returns the adapter matching the business's storefront, or
// nil when no storefront is configured.
func (s *Set) ForBusiness(biz *models.Business) Adapter {
	for _, a := range s.Adapters {
		if a.Homepage(biz) != "" {
			return a
		}
	}
	return nil
}
