// Package etsy syncs an Etsy shop through the v2 open API. Listing pages
// only carry ids and tags, so each kept listing needs a detail call (for
// title, images and variations) and an inventory call (for per-offering,
// multi-currency pricing); all three call kinds are throttled
// independently.
package etsy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/localmart/catalog-sync/adapters/base"
	"github.com/localmart/catalog-sync/filter"
	"github.com/localmart/catalog-sync/models"
	"github.com/localmart/catalog-sync/textutil"
)

const (
	platform       = "etsy"
	DefaultBaseURL = "https://openapi.etsy.com/v2"
)

type listingsPage struct {
	Results []listingRef `json:"results"`
}

type listingRef struct {
	ListingID int64    `json:"listing_id"`
	Tags      []string `json:"tags"`
}

type detailResponse struct {
	Results []listingDetail `json:"results"`
}

type listingDetail struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	TaxonomyPath []string    `json:"taxonomy_path"`
	URL          string      `json:"url"`
	Price        json.Number `json:"price"`
	MainImage    *mainImage  `json:"MainImage"`
	Variations   []variation `json:"Variations"`
}

type mainImage struct {
	URL570xN string `json:"url_570xN"`
	URLFull  string `json:"url_fullxfull"`
}

type variation struct {
	Options []variationOption `json:"options"`
}

type variationOption struct {
	FormattedValue string `json:"formatted_value"`
}

type inventoryResponse struct {
	Results inventoryResults `json:"results"`
}

type inventoryResults struct {
	Products []inventoryProduct `json:"products"`
}

type inventoryProduct struct {
	Offerings []offering `json:"offerings"`
}

type offering struct {
	Price offeringPrice `json:"price"`
}

type offeringPrice struct {
	CurrencyFormattedRaw string           `json:"currency_formatted_raw"`
	OriginalCurrencyCode string           `json:"original_currency_code"`
	BeforeConversion     *convertedAmount `json:"before_conversion"`
}

type convertedAmount struct {
	CurrencyFormattedRaw string `json:"currency_formatted_raw"`
}

// Adapter fetches one shop's active listings. BaseURL is overridable for
// tests.
type Adapter struct {
	client  *base.Client
	apiKey  string
	baseURL string
	log     *zap.SugaredLogger
}

func New(client *base.Client, apiKey string, log *zap.SugaredLogger) *Adapter {
	return &Adapter{client: client, apiKey: apiKey, baseURL: DefaultBaseURL, log: log}
}

// WithBaseURL points the adapter at a different API host.
func (a *Adapter) WithBaseURL(u string) *Adapter {
	a.baseURL = strings.TrimRight(u, "/")
	return a
}

func (a *Adapter) Platform() string { return platform }

func (a *Adapter) Homepage(biz *models.Business) string { return biz.Homepages.Etsy }

func (a *Adapter) Fetch(ctx context.Context, biz *models.Business) ([]models.Product, error) {
	homepage := a.Homepage(biz)
	a.log.Infow("etsy fetch", "business", biz.Name, "homepage", homepage)

	rules := filter.New(biz.Settings(platform))
	geo, err := biz.Geolocation()
	if err != nil {
		return nil, fmt.Errorf("geolocation: %w", err)
	}

	// The shop id is the last path segment of the shop homepage.
	sections := strings.Split(strings.TrimRight(homepage, "/"), "/")
	shopID := sections[len(sections)-1]

	nextID := biz.NextProductID
	var products []models.Product
	exhausted := false

	for page := 1; !exhausted; page++ {
		var listings listingsPage
		listURL := fmt.Sprintf("%s/shops/%s/listings/active", a.baseURL, url.PathEscape(shopID))
		status, err := a.client.GetJSON(ctx, listURL, url.Values{
			"api_key": {a.apiKey},
			"page":    {strconv.Itoa(page)},
		}, &listings)
		if err != nil {
			return products, fmt.Errorf("page %d: %w", page, err)
		}
		if status != http.StatusOK {
			a.log.Warnw("failed to retrieve page", "page", page, "status", status)
			break
		}
		if len(listings.Results) == 0 {
			break
		}

		for _, ref := range listings.Results {
			tags := nonEmptyTags(ref.Tags)
			if !rules.Keep(tags) {
				continue
			}

			p, stop, err := a.fetchListing(ctx, ref.ListingID, tags, geo, nextID, biz.ID)
			if err != nil {
				return products, fmt.Errorf("listing %d: %w", ref.ListingID, err)
			}
			if stop {
				// A failed inventory call ends pagination after the
				// current page finishes.
				exhausted = true
			}
			if p == nil {
				continue
			}
			products = append(products, *p)
			nextID++
		}
		a.log.Infow("retrieved page", "page", page)
	}
	return products, nil
}

// fetchListing runs the detail and inventory calls for one listing. A nil
// product means the listing is skipped; stop=true means the inventory call
// failed and pagination should not continue past the current page.
func (a *Adapter) fetchListing(ctx context.Context, listingID int64, tags []string, geo []models.GeoPoint, id, businessID int64) (p *models.Product, stop bool, err error) {
	var detail detailResponse
	detailURL := fmt.Sprintf("%s/listings/%d", a.baseURL, listingID)
	status, err := a.client.GetJSON(ctx, detailURL, url.Values{
		"api_key":  {a.apiKey},
		"includes": {"MainImage,Variations"},
	}, &detail)
	if err != nil {
		return nil, false, err
	}
	if status != http.StatusOK {
		return nil, false, fmt.Errorf("detail call: status %d", status)
	}
	if len(detail.Results) == 0 {
		return nil, false, fmt.Errorf("detail call: empty results")
	}
	d := detail.Results[0]

	if d.MainImage == nil {
		return nil, false, nil
	}
	image := d.MainImage.URL570xN
	if image == "" {
		image = d.MainImage.URLFull
	}
	if image == "" {
		return nil, false, nil
	}

	variantTags := make([]string, 0, len(d.Variations))
	for _, v := range d.Variations {
		for _, opt := range v.Options {
			variantTags = append(variantTags, textutil.Unescape(opt.FormattedValue))
		}
	}
	if len(variantTags) == 0 {
		variantTags = []string{""}
	}
	variantImages := make([]string, len(variantTags))
	for i := range variantImages {
		variantImages[i] = image
	}

	anchor, err := d.Price.Float64()
	if err != nil {
		return nil, false, fmt.Errorf("listing price %q: %w", d.Price, err)
	}
	priceRange := [2]float64{anchor, anchor}

	var inventory inventoryResponse
	invURL := fmt.Sprintf("%s/listings/%d/inventory", a.baseURL, listingID)
	status, err = a.client.GetJSON(ctx, invURL, url.Values{"api_key": {a.apiKey}}, &inventory)
	if err != nil {
		return nil, false, err
	}
	if status != http.StatusOK {
		a.log.Warnw("failed to retrieve inventory", "listing", listingID, "status", status)
		return nil, true, nil
	}

	for _, ip := range inventory.Results.Products {
		for _, off := range ip.Offerings {
			raw := off.Price.CurrencyFormattedRaw
			if off.Price.OriginalCurrencyCode != "USD" && off.Price.BeforeConversion != nil {
				raw = off.Price.BeforeConversion.CurrencyFormattedRaw
			}
			price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, false, fmt.Errorf("offering price %q: %w", raw, err)
			}
			if price < priceRange[0] {
				priceRange[0] = price
			}
			if price > priceRange[1] {
				priceRange[1] = price
			}
		}
	}

	departments := make([]string, 0, len(d.TaxonomyPath))
	for _, tp := range d.TaxonomyPath {
		if dept := textutil.Unescape(tp); dept != "" {
			departments = append(departments, dept)
		}
	}

	return &models.Product{
		ID:            strconv.FormatInt(id, 10),
		BusinessID:    businessID,
		Name:          textutil.Unescape(d.Title),
		Description:   textutil.StripHTML(d.Description),
		Departments:   departments,
		Tags:          tags,
		PriceRange:    priceRange,
		Geolocation:   geo,
		VariantTags:   variantTags,
		VariantImages: variantImages,
		Link:          strings.TrimSpace(d.URL),
	}, false, nil
}

func nonEmptyTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if n := textutil.NormalizeTag(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
