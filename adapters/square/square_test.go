package square

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/localmart/catalog-sync/adapters/base"
	"github.com/localmart/catalog-sync/models"
)

func siteHandler(t *testing.T, items []map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "json", r.URL.Query().Get("format"))
		switch r.URL.Path {
		case "/":
			json.NewEncoder(w).Encode(map[string]any{
				"websiteSettings": map[string]any{
					"storeSettings": map[string]any{
						"continueShoppingLinkUrl": "/shop",
					},
				},
			})
		case "/shop":
			json.NewEncoder(w).Encode(map[string]any{"items": items})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
}

func item(title string, tags []string, cents ...int) map[string]any {
	variants := make([]map[string]any, len(cents))
	for i, c := range cents {
		variants[i] = map[string]any{
			"price": c,
			"attributes": map[string]string{
				"Size":  []string{"S", "M", "L"}[i%3],
				"Color": "Blue",
			},
		}
	}
	return map[string]any{
		"title":      title,
		"excerpt":    "<p>" + title + " blurb</p>",
		"urlId":      "u-" + title,
		"tags":       tags,
		"categories": []string{"Drinkware"},
		"variants":   variants,
		"items":      []map[string]any{{"assetUrl": "https://img.example.com/" + title + ".jpg"}},
	}
}

func newTestAdapter() *Adapter {
	return New(base.NewClient(nil), zap.NewNop().Sugar())
}

func TestFetchReadsCatalogPathFromSiteConfig(t *testing.T) {
	items := []map[string]any{
		item("Tumbler", []string{"new"}, 1850, 2200),
	}
	srv := httptest.NewServer(siteHandler(t, items))
	defer srv.Close()

	biz := &models.Business{
		ID:            8,
		Name:          "Bean Bar",
		Homepages:     models.Homepages{Square: srv.URL},
		NextProductID: 12,
		UploadSettings: map[string]models.PlatformSettings{
			"square": {DepartmentMapping: []models.DepartmentMapping{
				{Key: "drinkware", Departments: []string{"Kitchen"}},
			}},
		},
	}

	products, err := newTestAdapter().Fetch(context.Background(), biz)
	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]

	assert.Equal(t, "12", p.ID)
	assert.Equal(t, "Tumbler", p.Name)
	assert.Equal(t, "Tumbler blurb", p.Description)
	assert.Equal(t, []string{"Kitchen"}, p.Departments)
	assert.Equal(t, []string{"drinkware", "new"}, p.Tags)
	// Minor units divided down to dollars.
	assert.Equal(t, [2]float64{18.5, 22}, p.PriceRange)
	// Attribute values joined in sorted key order (Color before Size).
	assert.Equal(t, []string{"Blue, S", "Blue, M"}, p.VariantTags)
	assert.Equal(t, srv.URL+"/shop/u-Tumbler", p.Link)
	require.Len(t, p.VariantImages, 2)
	assert.Equal(t, "https://img.example.com/Tumbler.jpg", p.VariantImages[0])
}

func TestFetchMissingTagsPassStandardFilter(t *testing.T) {
	// An item with no tags still passes an empty include list, and still
	// fails a non-empty one.
	bare := item("Plain", nil, 500)
	srv := httptest.NewServer(siteHandler(t, []map[string]any{bare}))
	defer srv.Close()

	biz := &models.Business{Homepages: models.Homepages{Square: srv.URL}}
	products, err := newTestAdapter().Fetch(context.Background(), biz)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	biz.UploadSettings = map[string]models.PlatformSettings{
		"square": {IncludeTags: []string{"featured"}},
	}
	products, err = newTestAdapter().Fetch(context.Background(), biz)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetchErrorsWhenSiteConfigHasNoCatalogPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"websiteSettings": map[string]any{}})
	}))
	defer srv.Close()

	biz := &models.Business{Homepages: models.Homepages{Square: srv.URL}}
	_, err := newTestAdapter().Fetch(context.Background(), biz)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog path")
}

func TestFetchErrorsOnSiteConfigFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	biz := &models.Business{Homepages: models.Homepages{Square: srv.URL}}
	_, err := newTestAdapter().Fetch(context.Background(), biz)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchSkipsItemsWithoutAssetsOrVariants(t *testing.T) {
	noAssets := item("bare", nil, 500)
	noAssets["items"] = []map[string]any{}
	noVariants := item("empty", nil)
	srv := httptest.NewServer(siteHandler(t, []map[string]any{noAssets, noVariants}))
	defer srv.Close()

	biz := &models.Business{Homepages: models.Homepages{Square: srv.URL}}
	products, err := newTestAdapter().Fetch(context.Background(), biz)
	require.NoError(t, err)
	assert.Empty(t, products)
}
