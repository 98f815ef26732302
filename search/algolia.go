// Package search wraps the Algolia product index. Documents always carry
// an externally supplied object id of the form {business_id}_{product_id};
// auto-generated ids are disabled on every save.
package search

import (
	"fmt"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"github.com/localmart/catalog-sync/models"
)

// Document is the index schema for one product. The *_length fields feed
// relevance ranking downstream.
type Document struct {
	ObjectID          string             `json:"objectID"`
	Geoloc            []models.GeoPoint  `json:"_geoloc"`
	Name              string             `json:"name"`
	Business          string             `json:"business"`
	Description       string             `json:"description"`
	DescriptionLength int                `json:"description_length"`
	Departments       []string           `json:"departments"`
	Link              string             `json:"link"`
	PriceRange        [2]float64         `json:"price_range"`
	Tags              []string           `json:"tags"`
	TagsLength        int                `json:"tags_length"`
	VariantImages     []string           `json:"variant_images"`
	VariantTags       []string           `json:"variant_tags"`
}

// Index is the Algolia-backed product index client.
type Index struct {
	index *search.Index
}

// New initializes the index client from application credentials.
func New(appID, apiKey, indexName string) *Index {
	client := search.NewClient(appID, apiKey)
	return &Index{index: client.InitIndex(indexName)}
}

// DeleteObjects removes the given object ids from the index.
func (i *Index) DeleteObjects(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := i.index.DeleteObjects(ids); err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	return nil
}

// Save upserts one document under its own object id.
func (i *Index) Save(doc Document) error {
	if _, err := i.index.SaveObject(doc, opt.AutoGenerateObjectIDIfNotExist(false)); err != nil {
		return fmt.Errorf("save object %s: %w", doc.ObjectID, err)
	}
	return nil
}

// Get fetches documents by object id. Missing ids come back as zero-valued
// documents with an empty ObjectID, matching the index's sparse responses.
func (i *Index) Get(ids []string) ([]Document, error) {
	docs := make([]Document, len(ids))
	if err := i.index.GetObjects(ids, &docs); err != nil {
		return nil, fmt.Errorf("get objects: %w", err)
	}
	return docs, nil
}
