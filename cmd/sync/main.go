// Command sync runs one full catalog sync pass over every business and
// exits. Scheduling (cron, overlap locking) lives outside this binary.
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/localmart/catalog-sync/adapters"
	"github.com/localmart/catalog-sync/adapters/base"
	"github.com/localmart/catalog-sync/adapters/etsy"
	"github.com/localmart/catalog-sync/adapters/shopify"
	"github.com/localmart/catalog-sync/adapters/square"
	"github.com/localmart/catalog-sync/alert"
	"github.com/localmart/catalog-sync/cdn"
	"github.com/localmart/catalog-sync/config"
	"github.com/localmart/catalog-sync/media"
	"github.com/localmart/catalog-sync/search"
	"github.com/localmart/catalog-sync/snapshot"
	"github.com/localmart/catalog-sync/store"
	"github.com/localmart/catalog-sync/syncer"
	"github.com/localmart/catalog-sync/throttle"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := run(context.Background(), log); err != nil {
		log.Fatalw("sync run failed", "err", err)
	}
}

func run(ctx context.Context, log *zap.SugaredLogger) error {
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

	cloudinary, err := cdn.New(cfg.CloudinaryURL)
	if err != nil {
		return err
	}

	var notifiers alert.Multi
	if cfg.AlertCollectorURL != "" {
		notifiers = append(notifiers, alert.NewCollector(cfg.AlertCollectorURL, log))
	}
	if cfg.SendGridAPIKey != "" {
		notifiers = append(notifiers, alert.NewEmail(
			cfg.SendGridAPIKey, cfg.AlertFromName, cfg.AlertFromEmail, cfg.AlertToEmail, log))
	}

	var archiver syncer.Archiver
	if cfg.SnapshotBucket != "" {
		a, err := snapshot.New(ctx, cfg.AWSRegion, cfg.SnapshotBucket)
		if err != nil {
			return err
		}
		archiver = a
	}

	pageClient := base.NewClient(throttle.New(throttle.ListingPage))
	apiClient := base.NewClient(throttle.New(throttle.APICall))
	directClient := base.NewClient(nil)

	set := &adapters.Set{Adapters: []adapters.Adapter{
		shopify.New(pageClient, log),
		etsy.New(apiClient, cfg.EtsyAPIKey, log),
		square.New(directClient, log),
	}}

	sy := syncer.New(syncer.Options{
		Store:       db,
		Index:       index,
		Media:       cloudinary,
		Uploader:    media.NewUploader(cloudinary, throttle.New(throttle.Upload)),
		Notifier:    notifiers,
		Archiver:    archiver,
		Adapters:    set,
		KeepPartial: cfg.KeepPartialCatalog,
		Log:         log,
	})

	return sy.Run(ctx)
}
