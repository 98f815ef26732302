package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeolocationZipsCoordinateLists(t *testing.T) {
	biz := Business{
		Latitude:  "40.71, 40.80",
		Longitude: "-74.00, -73.95",
	}
	points, err := biz.Geolocation()
	require.NoError(t, err)
	assert.Equal(t, []GeoPoint{
		{Lat: 40.71, Lng: -74.00},
		{Lat: 40.80, Lng: -73.95},
	}, points)
}

func TestGeolocationTruncatesToShorterList(t *testing.T) {
	biz := Business{Latitude: "40.71, 40.80, 40.90", Longitude: "-74.00"}
	points, err := biz.Geolocation()
	require.NoError(t, err)
	assert.Equal(t, []GeoPoint{{Lat: 40.71, Lng: -74.00}}, points)
}

func TestGeolocationEmptyColumns(t *testing.T) {
	points, err := (&Business{}).Geolocation()
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestGeolocationRejectsGarbage(t *testing.T) {
	_, err := (&Business{Latitude: "north-ish", Longitude: "-74"}).Geolocation()
	require.Error(t, err)
}

func TestSettingsFallsBackToKeepEverything(t *testing.T) {
	biz := Business{UploadSettings: map[string]PlatformSettings{
		"shopify": {IncludeTags: []string{"sale"}},
	}}

	s := biz.Settings("etsy")
	assert.Empty(t, s.IncludeTags)
	assert.NotNil(t, s.IncludeTags)
	assert.NotNil(t, s.ExcludeTags)
	assert.NotNil(t, s.DepartmentMapping)

	assert.Equal(t, []string{"sale"}, biz.Settings("shopify").IncludeTags)
}
