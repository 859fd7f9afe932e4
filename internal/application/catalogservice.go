// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// ServicesPath is the store collection holding service records.
const ServicesPath = "services"

// CatalogService gates every catalog operation. Reads are open; writes
// require a session in the context and a valid record, and both checks
// happen before the store is contacted.
type CatalogService struct {
	store  driven.CatalogStore
	path   string
	policy model.CategoryPolicy
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService over the services collection.
func NewCatalogService(store driven.CatalogStore, policy model.CategoryPolicy, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		path:   ServicesPath,
		policy: policy,
		logger: logger,
	}
}

// Policy returns the unknown-category policy the service validates with.
func (s *CatalogService) Policy() model.CategoryPolicy {
	return s.policy
}

// Fetch performs a one-shot read of the whole collection.
func (s *CatalogService) Fetch(ctx context.Context) ([]model.ServiceRecord, error) {
	records, err := s.store.FetchOnce(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("fetch services: %w", err)
	}
	return records, nil
}

// Subscribe opens a live subscription on the collection.
func (s *CatalogService) Subscribe(ctx context.Context) (<-chan driven.CatalogEvent, func(), error) {
	return s.store.Subscribe(ctx, s.path)
}

// Create validates form and appends a new record. It returns the
// store-assigned id.
func (s *CatalogService) Create(ctx context.Context, form model.ServiceForm) (string, error) {
	if err := requireSession(ctx); err != nil {
		return "", fmt.Errorf("create service: %w", err)
	}

	record, err := NormalizeForSave(form, s.policy)
	if err != nil {
		return "", fmt.Errorf("create service: %w", err)
	}

	id, err := s.store.Create(ctx, s.path, record)
	if err != nil {
		return "", fmt.Errorf("create service: %w", err)
	}

	s.logger.Info("service created", "id", id, "title", model.PlainTitle(record.Title))
	return id, nil
}

// Update replaces the editable fields of the record with the given id. The
// id is preserved.
func (s *CatalogService) Update(ctx context.Context, id string, form model.ServiceForm) error {
	if err := requireSession(ctx); err != nil {
		return fmt.Errorf("update service %q: %w", id, err)
	}
	if id == "" {
		return fmt.Errorf("update service: %w", model.ErrNotFound)
	}

	record, err := NormalizeForSave(form, s.policy)
	if err != nil {
		return fmt.Errorf("update service %q: %w", id, err)
	}
	record.ID = id

	if err := s.store.Update(ctx, s.path, id, record); err != nil {
		return fmt.Errorf("update service %q: %w", id, err)
	}

	s.logger.Info("service updated", "id", id)
	return nil
}

// Remove deletes the record with the given id. Removing an id that no longer
// exists succeeds.
func (s *CatalogService) Remove(ctx context.Context, id string) error {
	if err := requireSession(ctx); err != nil {
		return fmt.Errorf("remove service %q: %w", id, err)
	}
	if id == "" {
		return nil
	}

	if err := s.store.Remove(ctx, s.path, id); err != nil {
		return fmt.Errorf("remove service %q: %w", id, err)
	}

	s.logger.Info("service removed", "id", id)
	return nil
}

// SeedReport describes the outcome of a seed batch.
type SeedReport struct {
	Attempted int
	Created   int
	IDs       []string
}

// SeedBatch creates records one at a time in order. It is not transactional:
// when a create fails the batch stops, records created so far stay in the
// store, and the returned error wraps model.ErrPartialBatch together with the
// cause. The report is meaningful in both cases.
func (s *CatalogService) SeedBatch(ctx context.Context, records []model.ServiceRecord) (SeedReport, error) {
	report := SeedReport{Attempted: len(records)}

	if err := requireSession(ctx); err != nil {
		return report, fmt.Errorf("seed services: %w", err)
	}

	for i, record := range records {
		if err := ValidateRecord(record, s.policy); err != nil {
			return report, s.partial(report, i, err)
		}
		record.ID = ""

		id, err := s.store.Create(ctx, s.path, record)
		if err != nil {
			return report, s.partial(report, i, err)
		}
		report.Created++
		report.IDs = append(report.IDs, id)
	}

	s.logger.Info("services seeded", "created", report.Created)
	return report, nil
}

func (s *CatalogService) partial(report SeedReport, index int, cause error) error {
	s.logger.Error("seed batch stopped",
		"created", report.Created,
		"attempted", report.Attempted,
		"failed_index", index,
		"error", cause,
	)
	return fmt.Errorf("seed services: %d of %d created: %w", report.Created, report.Attempted,
		errors.Join(model.ErrPartialBatch, cause))
}

// requireSession refuses writes when ctx carries no live session.
func requireSession(ctx context.Context) error {
	if _, ok := model.SessionFromContext(ctx); !ok {
		return model.ErrWriteDenied
	}
	return nil
}
