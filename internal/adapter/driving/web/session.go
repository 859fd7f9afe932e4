package web

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

const (
	cookieName   = "portfolio_session"
	sidKey       = "sid"
	alertKey     = "alert"
	alertSuccess = "success"
	alertError   = "error"
)

// newCookieStore returns the signed cookie store that carries the session id
// and one-shot alerts between redirects.
func newCookieStore(key []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// cookie returns the browser session. A cookie that fails signature checks
// is replaced by a fresh one.
func (h *Handler) cookie(r *http.Request) *sessions.Session {
	s, err := h.cookies.Get(r, cookieName)
	if err != nil {
		h.logger.Debug("discarding unreadable session cookie", "error", err)
	}
	return s
}

// operator resolves the signed-in operator for r, or nil.
func (h *Handler) operator(r *http.Request) *model.Session {
	sid, _ := h.cookie(r).Values[sidKey].(string)
	if sid == "" {
		return nil
	}
	s, err := h.gate.Current(r.Context(), sid)
	if err != nil {
		h.logger.Error("failed to resolve session", "error", err)
		return nil
	}
	return s
}

// startSession binds a new operator session to the browser.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, s model.Session) error {
	c := h.cookie(r)
	c.Values[sidKey] = s.ID
	c.Options = h.optionsUntil(s.ExpiresAt)
	return c.Save(r, w)
}

// endSession drops the session id from the browser and returns it.
func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) string {
	c := h.cookie(r)
	sid, _ := c.Values[sidKey].(string)
	delete(c.Values, sidKey)
	opts := *h.cookies.Options
	opts.MaxAge = -1
	c.Options = &opts
	if err := c.Save(r, w); err != nil {
		h.logger.Warn("failed to clear session cookie", "error", err)
	}
	return sid
}

func (h *Handler) optionsUntil(expiresAt time.Time) *sessions.Options {
	opts := *h.cookies.Options
	if !expiresAt.IsZero() {
		opts.MaxAge = int(time.Until(expiresAt).Seconds())
	}
	return &opts
}

// flash queues an alert shown on the next dashboard render.
func (h *Handler) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	c := h.cookie(r)
	c.AddFlash(kind+"|"+message, alertKey)
	if err := c.Save(r, w); err != nil {
		h.logger.Warn("failed to save alert", "error", err)
	}
}

// takeFlashes returns and clears queued alerts. The caller must still write
// the response headers after this call.
func (h *Handler) takeFlashes(w http.ResponseWriter, r *http.Request) []string {
	c := h.cookie(r)
	raw := c.Flashes(alertKey)
	if len(raw) == 0 {
		return nil
	}
	if err := c.Save(r, w); err != nil {
		h.logger.Warn("failed to clear alerts", "error", err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// requireSession redirects to the login page unless an operator is signed
// in. The session is placed on the request context for the store.
func (h *Handler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.operator(r)
		if s == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(model.ContextWithSession(r.Context(), s)))
	}
}
