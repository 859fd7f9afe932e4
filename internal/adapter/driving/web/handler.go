// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"

	"github.com/techxplorers/portfolio/internal/adapter/driving/web/templates"
	"github.com/techxplorers/portfolio/internal/adapter/driving/web/templates/pages"
	vm "github.com/techxplorers/portfolio/internal/adapter/driving/web/viewmodel"
	"github.com/techxplorers/portfolio/internal/application"
	"github.com/techxplorers/portfolio/internal/assets"
	"github.com/techxplorers/portfolio/internal/domain/model"
)

// Options carries the presentation settings of the web adapter.
type Options struct {
	// WhatsAppNumber receives every enquiry link. Empty hides the links.
	WhatsAppNumber string
	// CookieKey signs the browser session cookie. It must be 32 or 64 bytes.
	CookieKey []byte
	// CookieSecure marks cookies Secure; enable when served over HTTPS.
	CookieSecure bool
}

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	reader   *application.CatalogReader
	catalog  *application.CatalogService
	gate     *application.SessionGate
	assets   *assets.Registry
	cookies  *sessions.CookieStore
	whatsApp string
	secure   bool
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. registry may
// be nil when no images are bundled.
func NewHandler(
	reader *application.CatalogReader,
	catalog *application.CatalogService,
	gate *application.SessionGate,
	registry *assets.Registry,
	opts Options,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		reader:   reader,
		catalog:  catalog,
		gate:     gate,
		assets:   registry,
		cookies:  newCookieStore(opts.CookieKey, opts.CookieSecure),
		whatsApp: opts.WhatsAppNumber,
		secure:   opts.CookieSecure,
		logger:   logger,
	}
}

// catalogView describes one public catalog page.
type catalogView struct {
	key      string
	variant  string
	heading  string
	title    string
	basePath string
	config   application.RenderConfig
}

var (
	servicesView = catalogView{"services", "grouped", "Our Services.", "Services", "/", application.GroupedTextConfig}
	galleryView  = catalogView{"gallery", "gallery", "Gallery.", "Gallery", "/gallery", application.GalleryConfig}
	listView     = catalogView{"list", "list", "All Services.", "All Services", "/list", application.FlatTextConfig}
)

// Services renders the landing page: showcase, grouped catalog and referral
// banner.
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	h.renderCatalog(w, r, servicesView)
}

// Gallery renders only services whose image is bundled.
func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	h.renderCatalog(w, r, galleryView)
}

// List renders every service as text cards without grouping.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.renderCatalog(w, r, listView)
}

func (h *Handler) renderCatalog(w http.ResponseWriter, r *http.Request, cv catalogView) {
	nav := h.nav(w, r, cv.key)
	page := vm.CatalogPage{
		Heading:     cv.heading,
		Variant:     cv.variant,
		RetryPath:   r.URL.RequestURI(),
		ClosePath:   cv.basePath,
		ReferralURL: nav.ReferralURL,
	}

	records, err := h.reader.Records(r.Context())
	if err != nil {
		h.logger.Warn("catalog unavailable", "path", r.URL.Path, "error", err)
		page.Unavailable = true
		h.render(w, r, http.StatusServiceUnavailable, cv.title, nav, pages.CatalogPage(page))
		return
	}

	cfg := cv.config
	cfg.Policy = h.catalog.Policy()
	view := application.Render(records, h.assets, cfg)

	page.Sections = toSectionViewModels(view, h.whatsApp, cv.basePath)
	page.Empty = view.Empty()
	if cv.variant == "grouped" {
		page.Showcase = toShowcase(h.assets.Names(), h.assets, h.whatsApp)
	}

	var sel application.Selection
	if id := r.URL.Query().Get("service"); id != "" {
		sel.Open(id)
	}
	if card, ok := sel.Resolve(view); ok {
		detail := toCardViewModel(card, h.whatsApp, cv.basePath)
		page.Detail = &detail
	}

	h.render(w, r, http.StatusOK, cv.title, nav, pages.CatalogPage(page))
}

// LoginPage renders the sign-in form. Signed-in operators go straight to the
// dashboard.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.operator(r) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	nav := h.nav(w, r, "login")
	h.render(w, r, http.StatusOK, "Login", nav, pages.LoginPage(vm.LoginPage{CSRFToken: nav.CSRFToken}))
}

// Login exchanges the submitted credentials for a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	session, err := h.gate.Login(r.Context(), email, password)
	if err != nil {
		msg := "Failed to log in."
		var authErr *model.AuthError
		if errors.As(err, &authErr) {
			msg = "Failed to log in: " + authErr.Reason
		} else {
			h.logger.Error("login failed", "error", err)
		}

		nav := h.nav(w, r, "login")
		page := vm.LoginPage{Email: email, Error: msg, CSRFToken: nav.CSRFToken}
		h.render(w, r, http.StatusUnauthorized, "Login", nav, pages.LoginPage(page))
		return
	}

	if err := h.startSession(w, r, session); err != nil {
		h.logger.Error("failed to save session cookie", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout ends the operator session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := h.endSession(w, r)
	if err := h.gate.Logout(r.Context(), sid); err != nil {
		h.logger.Error("failed to end session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Admin renders the dashboard. ?edit={id} loads that service into the form.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	editor := application.NewEditor(h.catalog)
	var alerts []vm.Alert

	if id := r.URL.Query().Get("edit"); id != "" {
		record, ok, err := h.reader.Find(r.Context(), id)
		switch {
		case err != nil:
			alerts = append(alerts, vm.Alert{Kind: alertError, Message: "The catalog store is unavailable. Try again shortly."})
		case !ok:
			alerts = append(alerts, vm.Alert{Kind: alertError, Message: "That service no longer exists."})
		default:
			editor.Begin(record)
		}
	}

	h.renderAdmin(w, r, http.StatusOK, editor, alerts, nil)
}

// CreateService adds a service from the dashboard form.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, application.NewEditor(h.catalog))
}

// UpdateService saves the dashboard form over the service in the path.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	editor := application.NewEditor(h.catalog)

	record, ok, err := h.reader.Find(r.Context(), id)
	if err != nil || !ok {
		// The store decides what updating an unknown id means.
		record = model.ServiceRecord{ID: id}
	}
	editor.Begin(record)

	h.submit(w, r, editor)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, editor *application.Editor) {
	if err := editor.Submit(r.Context(), formFromRequest(r)); err != nil {
		status, msg := writeFailure(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to save service", "error", err)
		}
		h.renderAdmin(w, r, status, editor, []vm.Alert{{Kind: alertError, Message: msg}}, validationErrors(err))
		return
	}

	h.flash(w, r, alertSuccess, "Service saved.")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ConfirmDelete asks before removing a service.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	title := id
	if record, ok, err := h.reader.Find(r.Context(), id); err == nil && ok {
		title = model.PlainTitle(record.Title)
	}

	nav := h.nav(w, r, "admin")
	h.render(w, r, http.StatusOK, "Delete service", nav, pages.ConfirmPage(vm.ConfirmPage{
		Heading:    "Delete service",
		Message:    fmt.Sprintf("Are you sure you want to delete %q? This cannot be undone.", title),
		Action:     r.URL.Path,
		Submit:     "Delete",
		CancelPath: "/admin",
		CSRFToken:  nav.CSRFToken,
		Danger:     true,
	}))
}

// DeleteService removes a service once confirmed.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	editor := application.NewEditor(h.catalog)

	err := editor.Remove(r.Context(), id, confirmed(r))
	switch {
	case errors.Is(err, application.ErrConfirmationRequired):
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return
	case err != nil:
		status, msg := writeFailure(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to delete service", "id", id, "error", err)
		}
		h.flash(w, r, alertError, msg)
	default:
		h.flash(w, r, alertSuccess, "Service deleted.")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ConfirmSeed asks before writing the default catalog.
func (h *Handler) ConfirmSeed(w http.ResponseWriter, r *http.Request) {
	n := 0
	if defaults, err := application.DefaultServices(); err == nil {
		n = len(defaults)
	}

	nav := h.nav(w, r, "admin")
	h.render(w, r, http.StatusOK, "Seed data", nav, pages.ConfirmPage(vm.ConfirmPage{
		Heading:    "Seed data",
		Message:    fmt.Sprintf("This will add %d default services to the catalog. Existing services are kept. Continue?", n),
		Action:     "/admin/seed",
		Submit:     "Seed",
		CancelPath: "/admin",
		CSRFToken:  nav.CSRFToken,
	}))
}

// Seed writes the default catalog once confirmed.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	editor := application.NewEditor(h.catalog)

	report, err := editor.Seed(r.Context(), confirmed(r))
	switch {
	case errors.Is(err, application.ErrConfirmationRequired):
		http.Redirect(w, r, "/admin/seed", http.StatusSeeOther)
		return
	case errors.Is(err, model.ErrPartialBatch):
		h.flash(w, r, alertError, fmt.Sprintf("Seeding stopped: %d of %d services created.", report.Created, report.Attempted))
	case err != nil:
		_, msg := writeFailure(err)
		h.logger.Error("failed to seed services", "error", err)
		h.flash(w, r, alertError, "Failed to seed database: "+msg)
	default:
		h.flash(w, r, alertSuccess, fmt.Sprintf("Database seeded: %d services created.", report.Created))
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) renderAdmin(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	editor *application.Editor,
	alerts []vm.Alert,
	fieldErrs map[string]string,
) {
	for _, f := range h.takeFlashes(w, r) {
		kind, msg, _ := strings.Cut(f, "|")
		alerts = append(alerts, vm.Alert{Kind: kind, Message: msg})
	}

	nav := h.nav(w, r, "admin")
	live, _ := h.reader.Live()
	page := vm.AdminPage{
		Alerts:    alerts,
		Form:      toServiceFormViewModel(editor, h.assets.Names(), fieldErrs),
		Live:      live,
		SeedPath:  "/admin/seed",
		CSRFToken: nav.CSRFToken,
	}

	records, err := h.reader.Records(r.Context())
	if err != nil {
		h.logger.Warn("catalog unavailable", "path", r.URL.Path, "error", err)
		page.Unavailable = true
	} else {
		page.Rows = toAdminRows(records, h.assets, editor.EditingID())
	}

	h.render(w, r, status, "Admin", nav, pages.AdminPage(page))
}

// nav builds the page chrome. It issues the CSRF cookie, so it must run
// before the response is written.
func (h *Handler) nav(w http.ResponseWriter, r *http.Request, active string) vm.Nav {
	nav := vm.Nav{
		Active:      active,
		CSRFToken:   csrfToken(w, r, h.secure),
		QueryURL:    application.EnquiryLink(h.whatsApp, application.GeneralQueryTemplate),
		ReferralURL: application.EnquiryLink(h.whatsApp, application.ReferralTemplate),
	}
	if s, ok := model.SessionFromContext(r.Context()); ok {
		nav.SignedIn, nav.OperatorEmail = true, s.Email
	} else if s := h.operator(r); s != nil {
		nav.SignedIn, nav.OperatorEmail = true, s.Email
	}
	return nav
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, nav vm.Nav, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(title, nav, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
	}
}

// formFromRequest reads the dashboard form fields.
func formFromRequest(r *http.Request) model.ServiceForm {
	return model.ServiceForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Category:    r.FormValue("category"),
		Features:    r.FormValue("features"),
		Icon:        r.FormValue("icon"),
		Highlight:   r.FormValue("highlight") == "true",
		ImagePath:   r.FormValue("image_path"),
	}
}

func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

// writeFailure maps a write error to a status code and a message for the
// operator.
func writeFailure(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusUnprocessableEntity, "Please fix the highlighted fields."
	case errors.Is(err, model.ErrWriteDenied):
		return http.StatusForbidden, "The store refused the change. Sign in again and retry."
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "That service no longer exists."
	case errors.Is(err, model.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "The catalog store is unavailable. Try again shortly."
	default:
		return http.StatusInternalServerError, "Error saving service."
	}
}
