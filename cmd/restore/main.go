// Command restore rebuilds a business's product rows from the documents
// still present in the search index. Recovery tool for when the products
// table was purged but a pass never finished repopulating it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/localmart/catalog-sync/config"
	"github.com/localmart/catalog-sync/search"
	"github.com/localmart/catalog-sync/store"
)

func main() {
	businessID := flag.Int64("business-id", 0, "business whose rows to rebuild")
	lowID := flag.Int64("low-id", 0, "first product id to restore")
	count := flag.Int("count", 0, "number of consecutive product ids to restore")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if *businessID <= 0 || *count <= 0 {
		log.Fatal("both -business-id and -count must be positive")
	}

	if err := run(context.Background(), log, *businessID, *lowID, *count); err != nil {
		log.Fatalw("restore failed", "err", err)
	}
}

func run(ctx context.Context, log *zap.SugaredLogger, businessID, lowID int64, count int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	index := search.New(cfg.AlgoliaAppID, cfg.AlgoliaAPIKey, cfg.AlgoliaIndex)

	ids := make([]string, count)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d_%d", businessID, lowID+int64(i))
	}

	docs, err := index.Get(ids)
	if err != nil {
		return err
	}

	restored := 0
	for i, doc := range docs {
		if doc.ObjectID == "" {
			log.Warnw("document missing from index", "object_id", ids[i])
			continue
		}
		preview := ""
		if len(doc.VariantImages) > 0 {
			preview = doc.VariantImages[0]
		}
		id := fmt.Sprintf("%d", lowID+int64(i))
		written, err := db.RestoreProduct(ctx, businessID, id, doc.Name, preview)
		if err != nil {
			return err
		}
		if !written {
			log.Infow("row already present", "id", id)
			continue
		}
		restored++
	}

	log.Infow("restore complete", "business_id", businessID, "restored", restored)
	return nil
}
