// Package media uploads a product's variant images to the CDN, reusing one
// upload when several variants share a source image.
package media

import (
	"context"
	"fmt"

	"github.com/localmart/catalog-sync/models"
	"github.com/localmart/catalog-sync/throttle"
)

// CDN is the slice of the media CDN the uploader needs.
type CDN interface {
	Upload(ctx context.Context, sourceURL, publicID string) (string, error)
}

// Uploader deduplicates and uploads variant images. The dedup cache lives
// for a single product within a single pass; nothing persists across runs.
type Uploader struct {
	cdn      CDN
	throttle *throttle.Throttle
}

func NewUploader(cdn CDN, t *throttle.Throttle) *Uploader {
	return &Uploader{cdn: cdn, throttle: t}
}

// UploadVariants uploads each distinct source URL of the product once,
// under the key {business_id}/{product_id}/{variant_index} of its first
// occurrence, and returns the CDN URLs aligned with VariantImages.
func (u *Uploader) UploadVariants(ctx context.Context, p *models.Product) ([]string, error) {
	urls := make([]string, 0, len(p.VariantImages))
	uploaded := make(map[string]string, len(p.VariantImages))

	for i, source := range p.VariantImages {
		if cdnURL, ok := uploaded[source]; ok {
			urls = append(urls, cdnURL)
			continue
		}

		u.throttle.Wait()
		publicID := fmt.Sprintf("%d/%s/%d", p.BusinessID, p.ID, i)
		cdnURL, err := u.cdn.Upload(ctx, source, publicID)
		if err != nil {
			return nil, err
		}
		urls = append(urls, cdnURL)
		uploaded[source] = cdnURL
	}
	return urls, nil
}
