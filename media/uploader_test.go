package media

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localmart/catalog-sync/models"
)

type fakeCDN struct {
	calls []string
}

func (f *fakeCDN) Upload(_ context.Context, sourceURL, publicID string) (string, error) {
	f.calls = append(f.calls, sourceURL)
	return fmt.Sprintf("https://cdn.example.com/%s.webp", publicID), nil
}

func TestUploadVariantsDeduplicates(t *testing.T) {
	cdn := &fakeCDN{}
	up := NewUploader(cdn, nil)

	p := &models.Product{
		ID:         "7",
		BusinessID: 3,
		VariantImages: []string{
			"https://img.example.com/a.jpg",
			"https://img.example.com/a.jpg",
			"https://img.example.com/b.jpg",
			"https://img.example.com/a.jpg",
		},
		VariantTags: []string{"s", "m", "l", "xl"},
	}

	urls, err := up.UploadVariants(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, urls, 4)

	// One upload per distinct source URL.
	assert.Equal(t, []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"}, cdn.calls)

	// The shared upload appears at every position holding that source, keyed
	// by its first occurrence index.
	assert.Equal(t, "https://cdn.example.com/3/7/0.webp", urls[0])
	assert.Equal(t, urls[0], urls[1])
	assert.Equal(t, urls[0], urls[3])
	assert.Equal(t, "https://cdn.example.com/3/7/2.webp", urls[2])
}

func TestUploadVariantsEmpty(t *testing.T) {
	cdn := &fakeCDN{}
	up := NewUploader(cdn, nil)

	urls, err := up.UploadVariants(context.Background(), &models.Product{ID: "1", BusinessID: 1})
	require.NoError(t, err)
	assert.Empty(t, urls)
	assert.Empty(t, cdn.calls)
}
