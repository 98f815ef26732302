package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Homepages holds the storefront URLs a business has connected. A business
// usually configures exactly one; precedence when several are present is
// decided by the adapter selection, not here.
type Homepages struct {
	Shopify string `json:"shopifyHomepage"`
	Etsy    string `json:"etsyHomepage"`
	Square  string `json:"squareHomepage"`
}

// DepartmentMapping maps one listing category or product type to the
// canonical department labels it should contribute.
type DepartmentMapping struct {
	Key         string   `json:"key"`
	Departments []string `json:"departments"`
}

// PlatformSettings is the per-platform slice of a business's upload_settings
// column. Zero values mean "no filtering".
type PlatformSettings struct {
	IncludeTags       []string            `json:"includeTags"`
	ExcludeTags       []string            `json:"excludeTags"`
	DepartmentMapping []DepartmentMapping `json:"departmentMapping"`
}

// Normalize replaces nil slices with empty ones so downstream code never has
// to re-check defaults.
func (s *PlatformSettings) Normalize() {
	if s.IncludeTags == nil {
		s.IncludeTags = []string{}
	}
	if s.ExcludeTags == nil {
		s.ExcludeTags = []string{}
	}
	if s.DepartmentMapping == nil {
		s.DepartmentMapping = []DepartmentMapping{}
	}
}

// Business is one row of the businesses table. Latitude and Longitude are
// stored as comma-separated float lists forming parallel geolocation points.
type Business struct {
	ID             int64
	Name           string
	Homepages      Homepages
	Latitude       string
	Longitude      string
	UploadSettings map[string]PlatformSettings
	NextProductID  int64
}

// Settings returns the normalized settings for a platform key, falling back
// to an empty (keep-everything) configuration when none is stored.
func (b *Business) Settings(platform string) PlatformSettings {
	s := b.UploadSettings[platform]
	s.Normalize()
	return s
}

// Geolocation zips the latitude and longitude columns into points. The lists
// are truncated to the shorter of the two.
func (b *Business) Geolocation() ([]GeoPoint, error) {
	lats, err := splitFloats(b.Latitude)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lngs, err := splitFloats(b.Longitude)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	n := len(lats)
	if len(lngs) < n {
		n = len(lngs)
	}
	points := make([]GeoPoint, n)
	for i := 0; i < n; i++ {
		points[i] = GeoPoint{Lat: lats[i], Lng: lngs[i]}
	}
	return points, nil
}

func splitFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		out = append(out, f)
	}
	return out, nil
}
