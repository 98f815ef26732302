// Package shopify syncs a Shopify storefront through its public product
// feed at {homepage}/collections/all/products.json.
package shopify

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

const platform = "shopify"

type feedPage struct {
	Products []rawProduct `json:"products"`
}

type rawProduct struct {
	Title       string       `json:"title"`
	Handle      string       `json:"handle"`
	BodyHTML    string       `json:"body_html"`
	ProductType string       `json:"product_type"`
	Tags        []string     `json:"tags"`
	Images      []rawImage   `json:"images"`
	Variants    []rawVariant `json:"variants"`
}

type rawImage struct {
	Src string `json:"src"`
}

type rawVariant struct {
	Title string      `json:"title"`
	Price json.Number `json:"price"`
}

// Adapter paginates a shop's public JSON feed one page at a time.
type Adapter struct {
	client *base.Client
	log    *zap.SugaredLogger
}

func New(client *base.Client, log *zap.SugaredLogger) *Adapter {
	return &Adapter{client: client, log: log}
}

func (a *Adapter) Platform() string { return platform }

func (a *Adapter) Homepage(biz *models.Business) string { return biz.Homepages.Shopify }

// Fetch walks the feed until a page returns no products or a non-200
// status; either one ends the pass without retrying.
func (a *Adapter) Fetch(ctx context.Context, biz *models.Business) ([]models.Product, error) {
	homepage := a.Homepage(biz)
	a.log.Infow("shopify fetch", "business", biz.Name, "homepage", homepage)

	rules := filter.New(biz.Settings(platform))
	geo, err := biz.Geolocation()
	if err != nil {
		return nil, fmt.Errorf("geolocation: %w", err)
	}

	feedURL := textutil.JoinPath(homepage, "collections/all/products.json")
	nextID := biz.NextProductID
	var products []models.Product

	for page := 1; ; page++ {
		var feed feedPage
		status, err := a.client.GetJSON(ctx, feedURL, url.Values{"page": {strconv.Itoa(page)}}, &feed)
		if err != nil {
			return products, fmt.Errorf("page %d: %w", page, err)
		}
		if status != http.StatusOK {
			a.log.Warnw("failed to retrieve page", "page", page, "status", status)
			break
		}
		if len(feed.Products) == 0 {
			break
		}

		for _, raw := range feed.Products {
			p, err := a.normalize(raw, homepage, rules, geo, nextID, biz.ID)
			if err != nil {
				return products, fmt.Errorf("listing %q: %w", raw.Handle, err)
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

// normalize converts one raw listing, returning nil when the listing is
// filtered out or has nothing purchasable to show.
func (a *Adapter) normalize(raw rawProduct, homepage string, rules *filter.Rules, geo []models.GeoPoint, id, businessID int64) (*models.Product, error) {
	if !rules.Keep(raw.Tags) {
		return nil, nil
	}
	if len(raw.Images) == 0 || len(raw.Variants) == 0 {
		return nil, nil
	}

	types := strings.Split(raw.ProductType, ",")
	tags := make([]string, 0, len(types)+len(raw.Tags))
	for _, t := range types {
		tags = append(tags, textutil.NormalizeTag(t))
	}
	for _, t := range raw.Tags {
		tags = append(tags, textutil.NormalizeTag(t))
	}

	priceRange, err := variantPriceRange(raw.Variants)
	if err != nil {
		return nil, err
	}

	// Each variant shows the first listing image, served at feed size.
	image := strings.ReplaceAll(raw.Images[0].Src, ".jpg", "_400x.jpg")
	variantImages := make([]string, len(raw.Variants))
	variantTags := make([]string, len(raw.Variants))
	for i, v := range raw.Variants {
		variantImages[i] = image
		variantTags[i] = textutil.NormalizeTag(v.Title)
	}

	return &models.Product{
		ID:            strconv.FormatInt(id, 10),
		BusinessID:    businessID,
		Name:          textutil.Unescape(raw.Title),
		Description:   textutil.StripHTML(raw.BodyHTML),
		Departments:   rules.Departments(types),
		Tags:          tags,
		PriceRange:    priceRange,
		Geolocation:   geo,
		VariantTags:   variantTags,
		VariantImages: variantImages,
		Link:          textutil.JoinPath(homepage, "products", raw.Handle),
	}, nil
}

func variantPriceRange(variants []rawVariant) ([2]float64, error) {
	var r [2]float64
	for i, v := range variants {
		price, err := v.Price.Float64()
		if err != nil {
			return r, fmt.Errorf("variant price %q: %w", v.Price, err)
		}
		if i == 0 {
			r = [2]float64{price, price}
			continue
		}
		if price < r[0] {
			r[0] = price
		}
		if price > r[1] {
			r[1] = price
		}
	}
	return r, nil
}
