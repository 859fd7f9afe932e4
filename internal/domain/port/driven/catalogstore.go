package driven

import (
	"context"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// CatalogEvent is one delivery on a catalog subscription. Records is always
// the full current collection, never a delta. Err is set when the
// subscription lost contact with the store; Records is nil in that case and
// consumers should keep their previous copy.
type CatalogEvent struct {
	Records []model.ServiceRecord
	Err     error
}

// CatalogStore defines the driven port for the remote tree-structured store
// that owns service records. Paths are slash-separated collection paths such
// as "services"; a record lives at path/id.
//
// Collections are projected into a slice with ID set from the record key.
// No ordering is guaranteed across calls.
//
// Write methods read the caller's session from ctx via
// model.SessionFromContext and forward its token when the store needs one.
type CatalogStore interface {
	// Subscribe registers a live listener on path. The first event carries
	// the current collection; another event follows every mutation. The
	// returned function disposes the subscription: it is idempotent, stops
	// further deliveries and closes the channel. Cancelling ctx has the same
	// effect.
	Subscribe(ctx context.Context, path string) (<-chan CatalogEvent, func(), error)

	// FetchOnce reads the collection at path. An absent path yields an empty
	// slice. Transport or auth failures wrap model.ErrStoreUnavailable.
	FetchOnce(ctx context.Context, path string) ([]model.ServiceRecord, error)

	// Create appends record under a store-generated key and returns it.
	// record.ID is ignored. Denials wrap model.ErrWriteDenied, transport
	// failures model.ErrStoreUnavailable.
	Create(ctx context.Context, path string, record model.ServiceRecord) (string, error)

	// Update merges the editable fields of record into the record at
	// path/id. Existence is not pre-checked; what happens for a missing id
	// is up to the store.
	Update(ctx context.Context, path, id string, record model.ServiceRecord) error

	// Remove deletes the record at path/id. Removing a missing id succeeds.
	Remove(ctx context.Context, path, id string) error
}
