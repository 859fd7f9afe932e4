package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// ErrConfirmationRequired is returned when a destructive or bulk action is
// attempted without explicit confirmation.
var ErrConfirmationRequired = errors.New("confirmation required")

// EditorMode is the state of the dashboard form.
type EditorMode int

const (
	// EditorIdle means the form creates a new record.
	EditorIdle EditorMode = iota
	// EditorEditing means the form updates an existing record.
	EditorEditing
)

// DefaultForm is the form shown when nothing is being edited.
func DefaultForm() model.ServiceForm {
	return model.ServiceForm{
		Category: string(model.CategoryIdentity),
		Icon:     model.DefaultIconName,
	}
}

// Editor drives the dashboard form. It holds only form state: the list of
// records always comes from the store subscription, so the editor never
// patches results into a local list.
type Editor struct {
	catalog   *CatalogService
	mode      EditorMode
	editingID string
	form      model.ServiceForm
}

// NewEditor returns an idle editor with the default form.
func NewEditor(catalog *CatalogService) *Editor {
	return &Editor{catalog: catalog, form: DefaultForm()}
}

// Mode returns the current state.
func (e *Editor) Mode() EditorMode { return e.mode }

// EditingID returns the id being edited, or "" when idle.
func (e *Editor) EditingID() string { return e.editingID }

// Form returns the current form values.
func (e *Editor) Form() model.ServiceForm { return e.form }

// Begin switches to editing record, loading its values into the form.
func (e *Editor) Begin(record model.ServiceRecord) {
	e.mode = EditorEditing
	e.editingID = record.ID
	e.form = DenormalizeForEdit(record)
}

// Cancel returns to idle with the default form.
func (e *Editor) Cancel() {
	e.mode = EditorIdle
	e.editingID = ""
	e.form = DefaultForm()
}

// Submit creates a record when idle and updates the edited record
// otherwise. On success the editor resets to idle. On failure it keeps its
// state and the submitted values so the operator can correct them.
func (e *Editor) Submit(ctx context.Context, form model.ServiceForm) error {
	e.form = form

	var err error
	if e.mode == EditorEditing {
		err = e.catalog.Update(ctx, e.editingID, form)
	} else {
		_, err = e.catalog.Create(ctx, form)
	}
	if err != nil {
		return err
	}

	e.Cancel()
	return nil
}

// Remove deletes the record with id once the operator has confirmed.
// Removing the record being edited returns the editor to idle.
func (e *Editor) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("remove service %q: %w", id, ErrConfirmationRequired)
	}
	if err := e.catalog.Remove(ctx, id); err != nil {
		return err
	}
	if e.mode == EditorEditing && e.editingID == id {
		e.Cancel()
	}
	return nil
}

// Seed writes the built-in default catalog once the operator has confirmed.
func (e *Editor) Seed(ctx context.Context, confirmed bool) (SeedReport, error) {
	if !confirmed {
		return SeedReport{}, fmt.Errorf("seed services: %w", ErrConfirmationRequired)
	}

	records, err := DefaultServices()
	if err != nil {
		return SeedReport{}, err
	}
	return e.catalog.SeedBatch(ctx, records)
}
