// Package square syncs a Squarespace/Square Online storefront. The shop's
// catalog path is not fixed: a site-configuration document is fetched first
// and the catalog sub-path read from its store settings, then the whole
// catalog arrives as a single JSON document. Prices are expressed in minor
// currency units.
package square

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/localmart/catalog-sync/adapters/base"
	"github.com/localmart/catalog-sync/filter"
	"github.com/localmart/catalog-sync/models"
	"github.com/localmart/catalog-sync/textutil"
)

const platform = "square"

type siteConfig struct {
	WebsiteSettings struct {
		StoreSettings struct {
			ContinueShoppingLinkURL string `json:"continueShoppingLinkUrl"`
		} `json:"storeSettings"`
	} `json:"websiteSettings"`
}

type catalog struct {
	Items []rawItem `json:"items"`
}

type rawItem struct {
	Title      string       `json:"title"`
	Excerpt    string       `json:"excerpt"`
	URLID      string       `json:"urlId"`
	Tags       []string     `json:"tags"`
	Categories []string     `json:"categories"`
	Variants   []rawVariant `json:"variants"`
	Items      []rawAsset   `json:"items"`
}

type rawVariant struct {
	Price      json.Number       `json:"price"`
	Attributes map[string]string `json:"attributes"`
}

type rawAsset struct {
	AssetURL string `json:"assetUrl"`
}

// Adapter fetches the catalog in two unthrottled calls: the site
// configuration, then the catalog document it points at.
type Adapter struct {
	client *base.Client
	log    *zap.SugaredLogger
}

func New(client *base.Client, log *zap.SugaredLogger) *Adapter {
	return &Adapter{client: client, log: log}
}

func (a *Adapter) Platform() string { return platform }

func (a *Adapter) Homepage(biz *models.Business) string { return biz.Homepages.Square }

func (a *Adapter) Fetch(ctx context.Context, biz *models.Business) ([]models.Product, error) {
	homepage := a.Homepage(biz)
	a.log.Infow("square fetch", "business", biz.Name, "homepage", homepage)

	rules := filter.New(biz.Settings(platform))
	geo, err := biz.Geolocation()
	if err != nil {
		return nil, fmt.Errorf("geolocation: %w", err)
	}

	var site siteConfig
	status, err := a.client.GetJSON(ctx, homepage, url.Values{"format": {"json"}}, &site)
	if err != nil {
		return nil, fmt.Errorf("site configuration: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("site configuration: status %d", status)
	}
	shopPath := site.WebsiteSettings.StoreSettings.ContinueShoppingLinkURL
	if shopPath == "" {
		return nil, fmt.Errorf("site configuration: no catalog path")
	}

	var cat catalog
	catURL := textutil.JoinPath(homepage, shopPath)
	status, err = a.client.GetJSON(ctx, catURL, url.Values{"format": {"json"}}, &cat)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("catalog: status %d", status)
	}

	nextID := biz.NextProductID
	var products []models.Product
	for _, raw := range cat.Items {
		p, err := a.normalize(raw, homepage, shopPath, rules, geo, nextID, biz.ID)
		if err != nil {
			return products, fmt.Errorf("item %q: %w", raw.URLID, err)
		}
		if p == nil {
			continue
		}
		products = append(products, *p)
		nextID++
	}
	return products, nil
}

func (a *Adapter) normalize(raw rawItem, homepage, shopPath string, rules *filter.Rules, geo []models.GeoPoint, id, businessID int64) (*models.Product, error) {
	if !rules.Keep(raw.Tags) {
		return nil, nil
	}
	if len(raw.Items) == 0 || len(raw.Variants) == 0 {
		return nil, nil
	}

	tags := make([]string, 0, len(raw.Categories)+len(raw.Tags))
	for _, c := range raw.Categories {
		tags = append(tags, textutil.NormalizeTag(c))
	}
	for _, t := range raw.Tags {
		tags = append(tags, textutil.NormalizeTag(t))
	}

	var priceRange [2]float64
	variantTags := make([]string, len(raw.Variants))
	for i, v := range raw.Variants {
		cents, err := v.Price.Float64()
		if err != nil {
			return nil, fmt.Errorf("variant price %q: %w", v.Price, err)
		}
		price := cents / 100
		if i == 0 {
			priceRange = [2]float64{price, price}
		} else {
			if price < priceRange[0] {
				priceRange[0] = price
			}
			if price > priceRange[1] {
				priceRange[1] = price
			}
		}
		variantTags[i] = attributeTag(v.Attributes)
	}

	variantImages := make([]string, len(raw.Variants))
	for i := range variantImages {
		variantImages[i] = raw.Items[0].AssetURL
	}

	return &models.Product{
		ID:            strconv.FormatInt(id, 10),
		BusinessID:    businessID,
		Name:          textutil.Unescape(raw.Title),
		Description:   textutil.StripHTML(raw.Excerpt),
		Departments:   rules.Departments(raw.Categories),
		Tags:          tags,
		PriceRange:    priceRange,
		Geolocation:   geo,
		VariantTags:   variantTags,
		VariantImages: variantImages,
		Link:          textutil.JoinPath(homepage, shopPath, raw.URLID),
	}, nil
}

// attributeTag concatenates a variant's attribute values. Attribute maps
// carry no order, so keys are sorted for a stable description.
func attributeTag(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, attrs[k])
	}
	return strings.Join(values, ", ")
}
