package models

// GeoPoint is one geolocation point of a business, in the shape the search
// index expects for proximity queries.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Product is the canonical, platform-agnostic record an adapter produces for
// one storefront listing. It is immutable after creation; VariantTags and
// VariantImages are always the same length and order-aligned.
type Product struct {
	ID            string     `json:"id"`
	BusinessID    int64      `json:"business_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Departments   []string   `json:"departments"`
	Tags          []string   `json:"tags"`
	PriceRange    [2]float64 `json:"price_range"`
	Geolocation   []GeoPoint `json:"geolocation"`
	VariantTags   []string   `json:"variant_tags"`
	VariantImages []string   `json:"variant_images"`
	Link          string     `json:"link"`
}
