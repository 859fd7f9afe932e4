// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// Nav holds the data shared by every page chrome: active tab, session state
// and the always-visible contact links.
type Nav struct {
	Active        string // "services", "gallery", "list", "admin" or "login"
	SignedIn      bool
	OperatorEmail string
	CSRFToken     string
	QueryURL      string // general WhatsApp query, empty when no number is configured
	ReferralURL   string
}

// CardViewModel holds presentation-ready data for one service card.
type CardViewModel struct {
	ID              string
	Title           string   // plain title, for alt text and aria labels
	TitleLines      []string // title split on its line-break markers
	DescriptionHTML string   // sanitized markdown
	Price           string
	CategoryLabel   string
	Features        []string
	IconName        string
	IconGlyph       string // inner SVG markup, compile-time constant
	ImageURL        string
	Highlight       bool
	DetailPath      string
	EnquiryURL      string
}

// SectionViewModel is a titled group of cards. Label is empty for flat
// layouts.
type SectionViewModel struct {
	Label string
	Cards []CardViewModel
}

// ShowcaseImage is one slide of the landing-page image carousel.
type ShowcaseImage struct {
	URL        string
	Alt        string
	Position   string // two-digit 1-based position
	EnquiryURL string
}

// CatalogPage holds everything a public catalog page renders.
type CatalogPage struct {
	Heading     string
	Variant     string // "grouped", "gallery" or "list"
	Sections    []SectionViewModel
	Showcase    []ShowcaseImage
	Empty       bool
	Unavailable bool
	RetryPath   string
	Detail      *CardViewModel
	ClosePath   string
	ReferralURL string
}

// LoginPage holds the login form state.
type LoginPage struct {
	Email     string
	Error     string
	CSRFToken string
}

// Alert is a dismissable banner on the admin dashboard.
type Alert struct {
	Kind    string // "error" or "success"
	Message string
}

// Option is one entry of a select control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// IconOption is one entry of the icon picker.
type IconOption struct {
	Name     string
	Glyph    string
	Selected bool
}

// ServiceFormViewModel holds the add/edit form state, including the
// operator's last input when a save failed.
type ServiceFormViewModel struct {
	Heading     string
	Action      string
	Editing     bool
	Title       string
	Description string
	Price       string
	Features    string
	Highlight   bool
	Categories  []Option
	Icons       []IconOption
	Images      []Option
	Errors      map[string]string
	CancelPath  string
}

// AdminRow is one service in the dashboard table.
type AdminRow struct {
	ID            string
	Title         string
	CategoryLabel string
	Price         string
	IconGlyph     string
	Highlight     bool
	HasImage      bool
	Editing       bool
	EditPath      string
	DeletePath    string
}

// AdminPage holds the dashboard state.
type AdminPage struct {
	Alerts      []Alert
	Form        ServiceFormViewModel
	Rows        []AdminRow
	Live        bool
	Unavailable bool
	SeedPath    string
	CSRFToken   string
}

// ConfirmPage asks the operator to confirm a destructive or bulk action.
type ConfirmPage struct {
	Heading    string
	Message    string
	Action     string
	Submit     string
	CancelPath string
	CSRFToken  string
	Danger     bool
}
