package model

import "strings"

// Category partitions the catalog into display sections. The set is closed.
type Category string

const (
	CategoryIdentity    Category = "identity"
	CategoryEngineering Category = "engineering"

	// CategoryOther is never stored. It labels the display bucket for records
	// whose category is not recognized when CategoryPolicyOther is active.
	CategoryOther Category = "other"
)

// Categories returns the recognized categories in display order.
func Categories() []Category {
	return []Category{CategoryIdentity, CategoryEngineering}
}

// Valid reports whether c is one of the recognized categories.
func (c Category) Valid() bool {
	return c == CategoryIdentity || c == CategoryEngineering
}

// Label returns the human-readable section heading for the category.
func (c Category) Label() string {
	switch c {
	case CategoryIdentity:
		return "Professional Identity"
	case CategoryEngineering:
		return "Engineering"
	default:
		return "Other Services"
	}
}

// CategoryPolicy decides what happens to records whose category is not
// recognized.
type CategoryPolicy string

const (
	// CategoryPolicyReject fails writes with a ValidationError and omits
	// unrecognized records from grouped views.
	CategoryPolicyReject CategoryPolicy = "reject"
	// CategoryPolicyOther accepts the write and groups such records under
	// an "Other" section.
	CategoryPolicyOther CategoryPolicy = "other"
)

// ParseCategoryPolicy converts a configuration string to a CategoryPolicy.
func ParseCategoryPolicy(s string) (CategoryPolicy, bool) {
	switch CategoryPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryPolicyReject:
		return CategoryPolicyReject, true
	case CategoryPolicyOther:
		return CategoryPolicyOther, true
	default:
		return "", false
	}
}

// ServiceRecord is a single catalog entry. ID is assigned by the store on
// creation and is opaque to every other layer. Empty Price or ImagePath means
// the value is absent.
type ServiceRecord struct {
	ID          string
	Title       string
	Description string
	Price       string
	Category    Category
	Features    []string
	Icon        string
	Highlight   bool
	ImagePath   string
}

// HasPrice reports whether a price should be shown.
func (r ServiceRecord) HasPrice() bool {
	return r.Price != ""
}

// HasImage reports whether the record names an image. Whether the image is
// displayable depends on the asset registry.
func (r ServiceRecord) HasImage() bool {
	return r.ImagePath != ""
}

// TitleSegments splits the title on its line-break markers.
func (r ServiceRecord) TitleSegments() []TitleSegment {
	return SplitTitle(r.Title)
}

// ServiceForm is the edit-form representation of a ServiceRecord. Features is
// the comma-separated text typed by the operator; FeatureList is set instead
// when the caller already holds a list.
type ServiceForm struct {
	Title       string
	Description string
	Price       string
	Category    string
	Features    string
	FeatureList []string
	Icon        string
	Highlight   bool
	ImagePath   string
}

// SplitFeatures splits comma-separated feature text into a trimmed list with
// empty entries removed. It always returns a non-nil slice.
func SplitFeatures(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinFeatures renders a feature list as the comma-separated text shown in
// the edit form.
func JoinFeatures(features []string) string {
	return strings.Join(features, ", ")
}
