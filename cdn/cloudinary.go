// Package cdn wraps the Cloudinary media CDN: webp-transcoding uploads
// under deterministic public ids and prefix-scoped purges.
package cdn

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary is the media CDN client.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// New initializes the client from a cloudinary:// credential URL.
func New(cloudinaryURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

// Upload transcodes the source image to webp under the given public id,
// overwriting any prior asset at that id, and returns the secure URL.
func (c *Cloudinary) Upload(ctx context.Context, sourceURL, publicID string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, sourceURL, uploader.UploadParams{
		PublicID:       publicID,
		Format:         "webp",
		Overwrite:      api.Bool(true),
		UniqueFilename: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", publicID, resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// DeleteByPrefix removes every asset under a business's namespace prefix.
func (c *Cloudinary) DeleteByPrefix(ctx context.Context, prefix string) error {
	_, err := c.cld.Admin.DeleteAssetsByPrefix(ctx, admin.DeleteAssetsByPrefixParams{
		Prefix: api.CldAPIArray{prefix},
	})
	if err != nil {
		return fmt.Errorf("delete prefix %s: %w", prefix, err)
	}
	return nil
}
