package application

import (
	"context"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// CatalogReader answers public reads. It serves the live copy once the feed
// has delivered a snapshot and falls back to a one-shot fetch before that,
// or when no feed is running.
type CatalogReader struct {
	feed    *CatalogFeed
	catalog *CatalogService
}

// NewCatalogReader creates a CatalogReader. feed may be nil.
func NewCatalogReader(feed *CatalogFeed, catalog *CatalogService) *CatalogReader {
	return &CatalogReader{feed: feed, catalog: catalog}
}

// Records returns the current collection.
func (r *CatalogReader) Records(ctx context.Context) ([]model.ServiceRecord, error) {
	if r.feed != nil {
		if state := r.feed.State(); state.Loaded {
			return state.Records, nil
		}
	}
	return r.catalog.Fetch(ctx)
}

// Find returns the record with id. The boolean is false when no such record
// exists.
func (r *CatalogReader) Find(ctx context.Context, id string) (model.ServiceRecord, bool, error) {
	if r.feed != nil && r.feed.State().Loaded {
		rec, ok := r.feed.Find(id)
		return rec, ok, nil
	}

	records, err := r.catalog.Fetch(ctx)
	if err != nil {
		return model.ServiceRecord{}, false, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, true, nil
		}
	}
	return model.ServiceRecord{}, false, nil
}

// Live reports whether reads are served from a loaded feed, and the last
// subscription error if any.
func (r *CatalogReader) Live() (bool, error) {
	if r.feed == nil {
		return false, nil
	}
	state := r.feed.State()
	return state.Loaded, state.Err
}

// Feed returns the underlying feed, or nil.
func (r *CatalogReader) Feed() *CatalogFeed {
	return r.feed
}
