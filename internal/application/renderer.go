package application

import (
	"sort"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// Layout selects how the catalog is arranged on the page.
type Layout int

const (
	// LayoutGrouped arranges records into one section per category.
	LayoutGrouped Layout = iota
	// LayoutFlat shows every record in a single untitled section.
	LayoutFlat
)

// CardVariant selects the visual style of a card. It never changes which
// records are shown.
type CardVariant int

const (
	CardStandard CardVariant = iota
	CardHighlight
)

// AssetResolver maps a record's image path to a displayable URL.
type AssetResolver interface {
	Resolve(path string) (string, bool)
}

// RenderConfig describes one rendering of the catalog. The public pages are
// different configurations of the same renderer.
type RenderConfig struct {
	Layout       Layout
	RequireImage bool
	Policy       model.CategoryPolicy
}

// Preset render configurations for the public pages.
var (
	GroupedTextConfig = RenderConfig{Layout: LayoutGrouped}
	GalleryConfig     = RenderConfig{Layout: LayoutFlat, RequireImage: true}
	FlatTextConfig    = RenderConfig{Layout: LayoutFlat}
)

// Card is one display-ready service.
type Card struct {
	Record   model.ServiceRecord
	Segments []model.TitleSegment
	Icon     model.Icon
	ImageURL string
	Variant  CardVariant
}

// Section is a titled group of cards. Flat layouts produce one section with
// an empty Label.
type Section struct {
	Category model.Category
	Label    string
	Cards    []Card
}

// CatalogView is the renderer output. Skipped counts records left out of the
// view (missing image, or unknown category in a grouped view under the
// reject policy).
type CatalogView struct {
	Sections []Section
	Total    int
	Skipped  int
}

// Empty reports whether the view has nothing to show.
func (v CatalogView) Empty() bool {
	return v.Total == 0
}

// Find returns the card for id if it is part of the view.
func (v CatalogView) Find(id string) (Card, bool) {
	for _, s := range v.Sections {
		for _, c := range s.Cards {
			if c.Record.ID == id {
				return c, true
			}
		}
	}
	return Card{}, false
}

// Render turns records into a view. Records are ordered by id, which follows
// insertion order for store-generated keys. assets may be nil when the
// configuration does not require images.
func Render(records []model.ServiceRecord, assets AssetResolver, cfg RenderConfig) CatalogView {
	sorted := append([]model.ServiceRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var view CatalogView
	cards := make([]Card, 0, len(sorted))
	for _, r := range sorted {
		card := newCard(r, assets)
		if cfg.RequireImage && card.ImageURL == "" {
			view.Skipped++
			continue
		}
		cards = append(cards, card)
	}

	if cfg.Layout == LayoutFlat {
		if len(cards) > 0 {
			view.Sections = []Section{{Cards: cards}}
		}
		view.Total = len(cards)
		return view
	}

	buckets := make(map[model.Category][]Card)
	for _, c := range cards {
		cat := c.Record.Category
		if !cat.Valid() {
			if cfg.Policy != model.CategoryPolicyOther {
				view.Skipped++
				continue
			}
			cat = model.CategoryOther
		}
		buckets[cat] = append(buckets[cat], c)
	}

	order := append(model.Categories(), model.CategoryOther)
	for _, cat := range order {
		if len(buckets[cat]) == 0 {
			continue
		}
		view.Sections = append(view.Sections, Section{
			Category: cat,
			Label:    cat.Label(),
			Cards:    buckets[cat],
		})
		view.Total += len(buckets[cat])
	}
	return view
}

func newCard(r model.ServiceRecord, assets AssetResolver) Card {
	card := Card{
		Record:   r,
		Segments: r.TitleSegments(),
		Icon:     model.ResolveIcon(r.Icon),
	}
	if r.Highlight {
		card.Variant = CardHighlight
	}
	if r.HasImage() && assets != nil {
		if url, ok := assets.Resolve(r.ImagePath); ok {
			card.ImageURL = url
		}
	}
	return card
}

// Selection tracks the record shown in the detail view. The zero value has
// nothing selected.
type Selection struct {
	id string
}

// Open selects id, replacing any previous selection.
func (s *Selection) Open(id string) { s.id = id }

// Close clears the selection.
func (s *Selection) Close() { s.id = "" }

// Selected returns the selected id, or "" when nothing is open.
func (s Selection) Selected() string { return s.id }

// Resolve returns the selected card from view. A selection whose record has
// since disappeared resolves to nothing.
func (s Selection) Resolve(view CatalogView) (Card, bool) {
	if s.id == "" {
		return Card{}, false
	}
	return view.Find(s.id)
}
