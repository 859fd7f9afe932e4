package web

import (
	"errors"
	"fmt"
	"net/url"
	"path"

	vm "github.com/techxplorers/portfolio/internal/adapter/driving/web/viewmodel"
	"github.com/techxplorers/portfolio/internal/application"
	"github.com/techxplorers/portfolio/internal/domain/model"
)

// detailPath returns the URL that opens the detail modal for id on the page
// at basePath.
func detailPath(basePath, id string) string {
	return basePath + "?" + url.Values{"service": {id}}.Encode()
}

// toCardViewModel converts a rendered card into its presentation form.
func toCardViewModel(card application.Card, whatsApp, basePath string) vm.CardViewModel {
	r := card.Record

	lines := make([]string, 0, len(card.Segments))
	for _, seg := range card.Segments {
		if !seg.Break {
			lines = append(lines, seg.Text)
		}
	}

	features := r.Features
	if features == nil {
		features = []string{}
	}

	return vm.CardViewModel{
		ID:              r.ID,
		Title:           model.PlainTitle(r.Title),
		TitleLines:      lines,
		DescriptionHTML: RenderMarkdown(r.Description),
		Price:           r.Price,
		CategoryLabel:   r.Category.Label(),
		Features:        features,
		IconName:        card.Icon.Name(),
		IconGlyph:       card.Icon.Glyph(),
		ImageURL:        card.ImageURL,
		Highlight:       card.Variant == application.CardHighlight,
		DetailPath:      detailPath(basePath, r.ID),
		EnquiryURL:      application.ServiceEnquiryLink(whatsApp, r),
	}
}

// toSectionViewModels converts every section of view.
func toSectionViewModels(view application.CatalogView, whatsApp, basePath string) []vm.SectionViewModel {
	sections := make([]vm.SectionViewModel, 0, len(view.Sections))
	for _, s := range view.Sections {
		cards := make([]vm.CardViewModel, 0, len(s.Cards))
		for _, c := range s.Cards {
			cards = append(cards, toCardViewModel(c, whatsApp, basePath))
		}
		sections = append(sections, vm.SectionViewModel{Label: s.Label, Cards: cards})
	}
	return sections
}

// toShowcase builds the landing carousel from every registered image.
func toShowcase(names []string, resolve application.AssetResolver, whatsApp string) []vm.ShowcaseImage {
	slides := make([]vm.ShowcaseImage, 0, len(names))
	for _, name := range names {
		u, ok := resolve.Resolve(name)
		if !ok {
			continue
		}
		i := len(slides)
		slides = append(slides, vm.ShowcaseImage{
			URL:        u,
			Alt:        fmt.Sprintf("Gallery image %d", i+1),
			Position:   fmt.Sprintf("%02d", i+1),
			EnquiryURL: application.ShowcaseEnquiryLink(whatsApp, i),
		})
	}
	return slides
}

// toServiceFormViewModel renders the editor's form. images lists the
// registered asset filenames offered in the image picker.
func toServiceFormViewModel(editor *application.Editor, images []string, errs map[string]string) vm.ServiceFormViewModel {
	form := editor.Form()

	out := vm.ServiceFormViewModel{
		Heading:     "Add New Service",
		Action:      "/admin/services",
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		Features:    form.Features,
		Highlight:   form.Highlight,
		Errors:      errs,
		CancelPath:  "/admin",
	}
	if editor.Mode() == application.EditorEditing {
		out.Heading = "Edit Service"
		out.Action = "/admin/services/" + url.PathEscape(editor.EditingID())
		out.Editing = true
	}

	for _, c := range model.Categories() {
		out.Categories = append(out.Categories, vm.Option{
			Value:    string(c),
			Label:    c.Label(),
			Selected: string(c) == form.Category,
		})
	}
	if cat := model.Category(form.Category); cat != "" && !cat.Valid() {
		out.Categories = append(out.Categories, vm.Option{
			Value:    form.Category,
			Label:    form.Category + " (unrecognized)",
			Selected: true,
		})
	}

	selected := model.ResolveIcon(form.Icon)
	for _, icon := range model.SelectableIcons() {
		out.Icons = append(out.Icons, vm.IconOption{
			Name:     icon.Name(),
			Glyph:    icon.Glyph(),
			Selected: icon == selected,
		})
	}
	// Unknown stored names stay selectable so an edit does not rewrite them.
	if selected == model.IconFallback && form.Icon != "" {
		out.Icons = append(out.Icons, vm.IconOption{
			Name:     form.Icon,
			Glyph:    model.IconFallback.Glyph(),
			Selected: true,
		})
	}

	out.Images = append(out.Images, vm.Option{Value: "", Label: "No image", Selected: form.ImagePath == ""})
	known := false
	for _, name := range images {
		match := name == form.ImagePath
		known = known || match
		out.Images = append(out.Images, vm.Option{Value: name, Label: name, Selected: match})
	}
	if form.ImagePath != "" && !known {
		out.Images = append(out.Images, vm.Option{
			Value:    form.ImagePath,
			Label:    path.Base(form.ImagePath) + " (missing)",
			Selected: true,
		})
	}

	return out
}

// toAdminRows lists records in id order for the dashboard table.
func toAdminRows(records []model.ServiceRecord, resolve application.AssetResolver, editingID string) []vm.AdminRow {
	view := application.Render(records, resolve, application.FlatTextConfig)

	rows := make([]vm.AdminRow, 0, view.Total)
	for _, s := range view.Sections {
		for _, c := range s.Cards {
			r := c.Record
			rows = append(rows, vm.AdminRow{
				ID:            r.ID,
				Title:         model.PlainTitle(r.Title),
				CategoryLabel: r.Category.Label(),
				Price:         r.Price,
				IconGlyph:     c.Icon.Glyph(),
				Highlight:     r.Highlight,
				HasImage:      c.ImageURL != "",
				Editing:       r.ID == editingID,
				EditPath:      "/admin?" + url.Values{"edit": {r.ID}}.Encode(),
				DeletePath:    "/admin/services/" + url.PathEscape(r.ID) + "/delete",
			})
		}
	}
	return rows
}

// validationErrors extracts per-field messages from err, if it carries any.
func validationErrors(err error) map[string]string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
