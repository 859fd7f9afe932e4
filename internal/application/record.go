package application

import (
	"strings"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// NormalizeForSave converts an edit form into the stored record shape.
// Feature text is split on commas, trimmed and filtered for empty entries; a
// form that already carries FeatureList passes it through unchanged, so
// normalizing twice yields the same list. Title and description are required
// after trimming regardless of the highlight flag. Category handling follows
// policy.
func NormalizeForSave(form model.ServiceForm, policy model.CategoryPolicy) (model.ServiceRecord, error) {
	var features []string
	if form.FeatureList != nil {
		features = append([]string{}, form.FeatureList...)
	} else {
		features = model.SplitFeatures(form.Features)
	}

	record := model.ServiceRecord{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Price:       strings.TrimSpace(form.Price),
		Category:    model.Category(strings.TrimSpace(form.Category)),
		Features:    features,
		Icon:        strings.TrimSpace(form.Icon),
		Highlight:   form.Highlight,
		ImagePath:   strings.TrimSpace(form.ImagePath),
	}

	if err := ValidateRecord(record, policy); err != nil {
		return model.ServiceRecord{}, err
	}

	return record, nil
}

// DenormalizeForEdit converts a stored record into edit-form fields, joining
// the feature list back into comma-separated text.
func DenormalizeForEdit(record model.ServiceRecord) model.ServiceForm {
	return model.ServiceForm{
		Title:       record.Title,
		Description: record.Description,
		Price:       record.Price,
		Category:    string(record.Category),
		Features:    model.JoinFeatures(record.Features),
		Icon:        record.Icon,
		Highlight:   record.Highlight,
		ImagePath:   record.ImagePath,
	}
}

// ValidateRecord checks the required fields of a record. It returns a
// *model.ValidationError naming every failing field, or nil.
func ValidateRecord(record model.ServiceRecord, policy model.CategoryPolicy) error {
	verr := &model.ValidationError{}

	if strings.TrimSpace(record.Title) == "" {
		verr.Add("title", "title is required")
	}
	if strings.TrimSpace(record.Description) == "" {
		verr.Add("description", "description is required")
	}

	switch {
	case record.Category == "":
		verr.Add("category", "category is required")
	case !record.Category.Valid() && policy != model.CategoryPolicyOther:
		verr.Add("category", "category must be identity or engineering")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
