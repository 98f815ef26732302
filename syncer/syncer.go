// Package syncer orchestrates one full sync pass: for every business it
// purges the previous catalog from the index, the CDN and the store, fetches
// the current catalog from the business's storefront platform, and persists
// the replacement. A failing business never aborts the rest of the run.
package syncer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/localmart/catalog-sync/adapters"
	"github.com/localmart/catalog-sync/alert"
	"github.com/localmart/catalog-sync/models"
	"github.com/localmart/catalog-sync/search"
)

// Store is the relational slice the orchestrator needs.
type Store interface {
	Businesses(ctx context.Context) ([]models.Business, error)
	ProductIDs(ctx context.Context, businessID int64) ([]string, error)
	DeleteProducts(ctx context.Context, businessID int64) error
	InsertProduct(ctx context.Context, businessID int64, id, name, preview string) error
	SetNextProductID(ctx context.Context, businessID, next int64) error
}

// Index is the search index slice the orchestrator needs.
type Index interface {
	DeleteObjects(ids []string) error
	Save(doc search.Document) error
}

// MediaPurger clears a business's CDN namespace before re-upload.
type MediaPurger interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Uploader pushes a product's variant images to the CDN.
type Uploader interface {
	UploadVariants(ctx context.Context, p *models.Product) ([]string, error)
}

// Archiver stores the finished pass's product set. Optional.
type Archiver interface {
	Archive(ctx context.Context, businessID int64, products []models.Product) error
}

// Syncer runs sync passes over the business roster.
type Syncer struct {
	store    Store
	index    Index
	media    MediaPurger
	uploader Uploader
	notifier alert.Notifier
	archiver Archiver
	adapters *adapters.Set

	// keepPartial persists whatever a failed fetch collected instead of
	// discarding it and leaving the purged catalog empty.
	keepPartial bool
	log         *zap.SugaredLogger
}

type Options struct {
	Store       Store
	Index       Index
	Media       MediaPurger
	Uploader    Uploader
	Notifier    alert.Notifier
	Archiver    Archiver
	Adapters    *adapters.Set
	KeepPartial bool
	Log         *zap.SugaredLogger
}

func New(opts Options) *Syncer {
	return &Syncer{
		store:       opts.Store,
		index:       opts.Index,
		media:       opts.Media,
		uploader:    opts.Uploader,
		notifier:    opts.Notifier,
		archiver:    opts.Archiver,
		adapters:    opts.Adapters,
		keepPartial: opts.KeepPartial,
		log:         opts.Log,
	}
}

// Run syncs every business once. Per-business failures are reported and
// logged; Run only errors when the roster itself cannot be loaded.
func (s *Syncer) Run(ctx context.Context) error {
	businesses, err := s.store.Businesses(ctx)
	if err != nil {
		return fmt.Errorf("load businesses: %w", err)
	}

	for _, biz := range businesses {
		if err := s.syncBusiness(ctx, biz); err != nil {
			s.log.Errorw("business sync failed", "business", biz.Name, "err", err)
		}
	}
	return nil
}

func (s *Syncer) syncBusiness(ctx context.Context, biz models.Business) error {
	adapter := s.adapters.ForBusiness(&biz)
	if adapter == nil {
		s.log.Infow("no storefront configured, skipping", "business", biz.Name)
		return nil
	}

	s.log.Infow("syncing business", "business", biz.Name, "platform", adapter.Platform())

	if err := s.purge(ctx, biz.ID); err != nil {
		return err
	}

	products, fetchErr := adapter.Fetch(ctx, &biz)
	if fetchErr != nil {
		s.notify("error", fetchErr.Error(), adapter.Platform(), map[string]string{
			"business":           biz.Name,
			"business_id":        strconv.FormatInt(biz.ID, 10),
			"products_collected": strconv.Itoa(len(products)),
		})
		if !s.keepPartial {
			return fmt.Errorf("fetch %s: %w", biz.Name, fetchErr)
		}
		s.log.Warnw("keeping partial catalog", "business", biz.Name, "products", len(products))
	}

	for i := range products {
		if err := s.persist(ctx, &biz, &products[i]); err != nil {
			return fmt.Errorf("persist %s: %w", products[i].ID, err)
		}
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, biz.ID, products); err != nil {
			s.log.Errorw("snapshot archive failed", "business", biz.Name, "err", err)
		}
	}

	next := biz.NextProductID + int64(len(products))
	if err := s.store.SetNextProductID(ctx, biz.ID, next); err != nil {
		return err
	}

	s.log.Infow("business synced", "business", biz.Name, "products", len(products))
	return nil
}

// purge removes every trace of the previous pass so the new catalog fully
// replaces it: index documents, CDN assets, then product rows.
func (s *Syncer) purge(ctx context.Context, businessID int64) error {
	ids, err := s.store.ProductIDs(ctx, businessID)
	if err != nil {
		return err
	}

	objectIDs := make([]string, len(ids))
	for i, id := range ids {
		objectIDs[i] = fmt.Sprintf("%d_%s", businessID, id)
	}
	if err := s.index.DeleteObjects(objectIDs); err != nil {
		return err
	}

	if err := s.media.DeleteByPrefix(ctx, fmt.Sprintf("%d/", businessID)); err != nil {
		return err
	}

	return s.store.DeleteProducts(ctx, businessID)
}

func (s *Syncer) persist(ctx context.Context, biz *models.Business, p *models.Product) error {
	cdnURLs, err := s.uploader.UploadVariants(ctx, p)
	if err != nil {
		return err
	}

	preview := ""
	if len(cdnURLs) > 0 {
		preview = cdnURLs[0]
	}
	if err := s.store.InsertProduct(ctx, biz.ID, p.ID, p.Name, preview); err != nil {
		return err
	}

	return s.index.Save(BuildDocument(biz, p, cdnURLs))
}

// BuildDocument assembles the index document for one product, with the
// CDN urls substituted for the platform image urls.
func BuildDocument(biz *models.Business, p *models.Product, cdnURLs []string) search.Document {
	return search.Document{
		ObjectID:          fmt.Sprintf("%d_%s", biz.ID, p.ID),
		Geoloc:            p.Geolocation,
		Name:              p.Name,
		Business:          biz.Name,
		Description:       p.Description,
		DescriptionLength: utf8.RuneCountInString(p.Description),
		Departments:       p.Departments,
		Link:              p.Link,
		PriceRange:        p.PriceRange,
		Tags:              p.Tags,
		TagsLength:        utf8.RuneCountInString(strings.Join(p.Tags, "")),
		VariantImages:     cdnURLs,
		VariantTags:       p.VariantTags,
	}
}

func (s *Syncer) notify(level, message, source string, params map[string]string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Post(level, message, source, params)
}
