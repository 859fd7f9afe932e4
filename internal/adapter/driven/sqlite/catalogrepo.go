package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techxplorers/portfolio/internal/adapter/driven/wire"
	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CatalogStore = (*CatalogRepo)(nil)

// CatalogRepo is a local CatalogStore. Each record is one row keyed by
// (collection, id) holding the same JSON payload the remote store keeps.
// Subscriptions are served in process: after every committed write the
// collection is re-read and pushed to its subscribers.
type CatalogRepo struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time

	// publishMu orders snapshot reads with their delivery so a subscriber
	// never receives an older collection after a newer one.
	publishMu sync.Mutex

	mu   sync.Mutex
	subs map[string]map[*subscription]struct{}
}

// NewCatalogRepo creates a CatalogRepo backed by the given DB.
func NewCatalogRepo(db *DB, logger *slog.Logger) *CatalogRepo {
	return &CatalogRepo{
		db:     db,
		logger: logger,
		now:    time.Now,
		subs:   make(map[string]map[*subscription]struct{}),
	}
}

// FetchOnce reads every record in collection.
func (r *CatalogRepo) FetchOnce(ctx context.Context, collection string) ([]model.ServiceRecord, error) {
	const query = `SELECT id, payload FROM catalog_nodes WHERE collection = ? ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, unavailable("fetch "+collection, err)
	}
	defer rows.Close()

	records := []model.ServiceRecord{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, unavailable("scan "+collection, err)
		}
		record, err := wire.DecodeRecord(id, []byte(payload))
		if err != nil {
			r.logger.Warn("skipping undecodable record", "collection", collection, "id", id, "error", err)
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate "+collection, err)
	}

	return records, nil
}

// Create inserts record under a new time-ordered UUID.
func (r *CatalogRepo) Create(ctx context.Context, collection string, record model.ServiceRecord) (string, error) {
	key, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	id := key.String()

	payload, err := wire.Encode(record)
	if err != nil {
		return "", err
	}

	const query = `INSERT INTO catalog_nodes (collection, id, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	now := formatTime(r.now())
	if _, err := r.db.Writer.ExecContext(ctx, query, collection, id, string(payload), now, now); err != nil {
		return "", unavailable("insert into "+collection, err)
	}

	r.publish(context.WithoutCancel(ctx), collection)
	return id, nil
}

// Update merges the fields of record into the stored payload of id. Keys in
// the stored payload that record does not carry are kept. A missing id
// reports model.ErrNotFound.
func (r *CatalogRepo) Update(ctx context.Context, collection, id string, record model.ServiceRecord) error {
	patch, err := wire.Encode(record)
	if err != nil {
		return err
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin update", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored string
	err = tx.QueryRowContext(ctx,
		`SELECT payload FROM catalog_nodes WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update %s/%s: %w", collection, id, model.ErrNotFound)
	}
	if err != nil {
		return unavailable("read "+collection+"/"+id, err)
	}

	merged, err := mergePayload([]byte(stored), patch)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE catalog_nodes SET payload = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(merged), formatTime(r.now()), collection, id,
	); err != nil {
		return unavailable("update "+collection+"/"+id, err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit update", err)
	}

	r.publish(context.WithoutCancel(ctx), collection)
	return nil
}

// Remove deletes id from collection. Deleting a missing id succeeds and
// does not notify subscribers.
func (r *CatalogRepo) Remove(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM catalog_nodes WHERE collection = ? AND id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, collection, id)
	if err != nil {
		return unavailable("remove "+collection+"/"+id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows > 0 {
		r.publish(context.WithoutCancel(ctx), collection)
	}
	return nil
}

// Subscribe registers a listener on collection and delivers the current
// contents immediately. A subscriber that falls behind only ever sees the
// newest collection; intermediate ones are dropped.
func (r *CatalogRepo) Subscribe(ctx context.Context, collection string) (<-chan driven.CatalogEvent, func(), error) {
	sub := &subscription{
		ch:   make(chan driven.CatalogEvent, 1),
		done: make(chan struct{}),
	}

	r.publishMu.Lock()
	records, err := r.FetchOnce(ctx, collection)
	if err != nil {
		r.publishMu.Unlock()
		return nil, nil, fmt.Errorf("subscribe %s: %w", collection, err)
	}
	sub.deliver(driven.CatalogEvent{Records: records})

	r.mu.Lock()
	if r.subs[collection] == nil {
		r.subs[collection] = make(map[*subscription]struct{})
	}
	r.subs[collection][sub] = struct{}{}
	r.mu.Unlock()
	r.publishMu.Unlock()

	dispose := func() {
		r.mu.Lock()
		delete(r.subs[collection], sub)
		r.mu.Unlock()
		sub.close()
	}

	go func() {
		select {
		case <-ctx.Done():
			dispose()
		case <-sub.done:
		}
	}()

	return sub.ch, dispose, nil
}

// Subscribers returns the number of live subscriptions on collection.
func (r *CatalogRepo) Subscribers(collection string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[collection])
}

func (r *CatalogRepo) publish(ctx context.Context, collection string) {
	r.publishMu.Lock()
	defer r.publishMu.Unlock()

	r.mu.Lock()
	targets := make([]*subscription, 0, len(r.subs[collection]))
	for s := range r.subs[collection] {
		targets = append(targets, s)
	}
	r.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	ev := driven.CatalogEvent{}
	records, err := r.FetchOnce(ctx, collection)
	if err != nil {
		r.logger.Error("catalog snapshot failed", "collection", collection, "error", err)
		ev.Err = err
	} else {
		ev.Records = records
	}

	for _, s := range targets {
		s.deliver(ev)
	}
}

type subscription struct {
	mu     sync.Mutex
	ch     chan driven.CatalogEvent
	done   chan struct{}
	closed bool
	once   sync.Once
}

// deliver replaces any undelivered event with ev.
func (s *subscription) deliver(ev driven.CatalogEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- ev
}

func (s *subscription) close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		close(s.done)
		s.mu.Unlock()
	})
}

// mergePayload overlays the top-level keys of patch onto stored.
func mergePayload(stored, patch []byte) ([]byte, error) {
	base := map[string]json.RawMessage{}
	if err := json.Unmarshal(stored, &base); err != nil {
		return nil, fmt.Errorf("decode stored payload: %w", err)
	}
	overlay := map[string]json.RawMessage{}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}
