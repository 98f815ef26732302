// Package store wraps the Postgres tables the sync reads and writes: the
// businesses roster and the per-business product rows.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localmart/catalog-sync/models"
)

// Postgres is the relational store client.
type Postgres struct {
	pool *pgxpool.Pool
}

// Open connects a pool to the given DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

// Businesses loads every business row. The homepages and upload_settings
// JSON columns may be stored HTML-entity-escaped, so both are unescaped
// before unmarshalling, and setting defaults are applied here once.
func (p *Postgres) Businesses(ctx context.Context) ([]models.Business, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, next_product_id, homepages, latitude, longitude, upload_settings FROM businesses`)
	if err != nil {
		return nil, fmt.Errorf("select businesses: %w", err)
	}
	defer rows.Close()

	var out []models.Business
	for rows.Next() {
		var (
			biz          models.Business
			homepagesRaw string
			settingsRaw  string
		)
		if err := rows.Scan(&biz.ID, &biz.Name, &biz.NextProductID, &homepagesRaw, &biz.Latitude, &biz.Longitude, &settingsRaw); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		if err := json.Unmarshal([]byte(html.UnescapeString(homepagesRaw)), &biz.Homepages); err != nil {
			return nil, fmt.Errorf("business %d homepages: %w", biz.ID, err)
		}
		if err := json.Unmarshal([]byte(html.UnescapeString(settingsRaw)), &biz.UploadSettings); err != nil {
			return nil, fmt.Errorf("business %d upload_settings: %w", biz.ID, err)
		}
		for platform, s := range biz.UploadSettings {
			s.Normalize()
			biz.UploadSettings[platform] = s
		}
		out = append(out, biz)
	}
	return out, rows.Err()
}

// ProductIDs returns the product ids currently stored for a business.
func (p *Postgres) ProductIDs(ctx context.Context, businessID int64) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT id FROM products WHERE business_id=$1`, businessID)
	if err != nil {
		return nil, fmt.Errorf("select product ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteProducts removes every product row of a business.
func (p *Postgres) DeleteProducts(ctx context.Context, businessID int64) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM products WHERE business_id=$1`, businessID); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	return nil
}

// InsertProduct writes one product row with its preview image.
func (p *Postgres) InsertProduct(ctx context.Context, businessID int64, id, name, preview string) error {
	if _, err := p.pool.Exec(ctx,
		`INSERT INTO products (business_id, id, name, preview) VALUES ($1, $2, $3, $4)`,
		businessID, id, name, preview); err != nil {
		return fmt.Errorf("insert product %s: %w", id, err)
	}
	return nil
}

// RestoreProduct writes one product row, leaving any existing row in
// place. Used by the emergency restore path.
func (p *Postgres) RestoreProduct(ctx context.Context, businessID int64, id, name, preview string) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO products (business_id, id, name, preview) VALUES ($1, $2, $3, $4)
		 ON CONFLICT DO NOTHING`,
		businessID, id, name, preview)
	if err != nil {
		return false, fmt.Errorf("restore product %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetNextProductID advances a business's product id counter.
func (p *Postgres) SetNextProductID(ctx context.Context, businessID, next int64) error {
	if _, err := p.pool.Exec(ctx,
		`UPDATE businesses SET next_product_id=$1 WHERE id=$2`, next, businessID); err != nil {
		return fmt.Errorf("update next_product_id: %w", err)
	}
	return nil
}
