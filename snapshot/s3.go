// Package snapshot archives the full product set of a completed sync pass
// to S3, one JSON object per pass.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/localmart/catalog-sync/models"
)

// Archiver writes pass snapshots under snapshots/{business_id}/{timestamp}.json.
type Archiver struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

func New(ctx context.Context, region, bucket string) (*Archiver, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Archiver{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		now:    time.Now,
	}, nil
}

// Archive uploads the products of one finished pass. The key embeds the
// pass completion time so consecutive passes never overwrite each other.
func (a *Archiver) Archive(ctx context.Context, businessID int64, products []models.Product) error {
	body, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("snapshots/%d/%s.json", businessID, a.now().UTC().Format(time.RFC3339))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w", key, err)
	}
	return nil
}
