// Package config loads runtime settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	AlgoliaAppID  string
	AlgoliaAPIKey string
	AlgoliaIndex  string

	CloudinaryURL string

	EtsyAPIKey string

	// AlertCollectorURL is the HTTP collector endpoint for failure events.
	// Empty disables the collector sink.
	AlertCollectorURL string

	// SendGrid settings for failure emails. Empty API key disables email.
	SendGridAPIKey string
	AlertFromName  string
	AlertFromEmail string
	AlertToEmail   string

	// SnapshotBucket enables the S3 pass archive when set.
	SnapshotBucket string
	AWSRegion      string

	// KeepPartialCatalog persists what a failed fetch collected instead of
	// discarding it. Defaults to true.
	KeepPartialCatalog bool
}

// Load reads the configuration. A missing .env file is not an error; the
// required keys just have to be present in the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		AlgoliaAppID:       os.Getenv("ALGOLIASEARCH_APPLICATION_ID"),
		AlgoliaAPIKey:      os.Getenv("ALGOLIASEARCH_API_KEY"),
		AlgoliaIndex:       os.Getenv("ALGOLIASEARCH_INDEX"),
		CloudinaryURL:      os.Getenv("CLOUDINARY_URL"),
		EtsyAPIKey:         os.Getenv("ETSY_API_KEY"),
		AlertCollectorURL:  os.Getenv("ALERT_COLLECTOR_URL"),
		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		AlertFromName:      os.Getenv("ALERT_FROM_NAME"),
		AlertFromEmail:     os.Getenv("ALERT_FROM_EMAIL"),
		AlertToEmail:       os.Getenv("ALERT_TO_EMAIL"),
		SnapshotBucket:     os.Getenv("SNAPSHOT_BUCKET"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		KeepPartialCatalog: true,
	}

	if v := os.Getenv("KEEP_PARTIAL_CATALOG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("KEEP_PARTIAL_CATALOG: %w", err)
		}
		cfg.KeepPartialCatalog = b
	}

	for key, val := range map[string]string{
		"DATABASE_URL":                 cfg.DatabaseURL,
		"ALGOLIASEARCH_APPLICATION_ID": cfg.AlgoliaAppID,
		"ALGOLIASEARCH_API_KEY":        cfg.AlgoliaAPIKey,
		"ALGOLIASEARCH_INDEX":          cfg.AlgoliaIndex,
		"CLOUDINARY_URL":               cfg.CloudinaryURL,
	} {
		if val == "" {
			return nil, fmt.Errorf("%s is not set", key)
		}
	}

	return cfg, nil
}
