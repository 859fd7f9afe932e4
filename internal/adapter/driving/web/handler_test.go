package web_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techxplorers/portfolio/internal/adapter/driving/web"
	"github.com/techxplorers/portfolio/internal/application"
	"github.com/techxplorers/portfolio/internal/assets"
	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// --- Mock implementations ---

type memoryCatalog struct {
	mu        sync.Mutex
	records   map[string]model.ServiceRecord
	next      int
	fetchErr  error
	failAfter int
	created   int
}

func newMemoryCatalog(records ...model.ServiceRecord) *memoryCatalog {
	m := &memoryCatalog{records: make(map[string]model.ServiceRecord)}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

func (m *memoryCatalog) Subscribe(context.Context, string) (<-chan driven.CatalogEvent, func(), error) {
	return nil, nil, fmt.Errorf("subscribe: %w", model.ErrStoreUnavailable)
}

func (m *memoryCatalog) FetchOnce(context.Context, string) ([]model.ServiceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]model.ServiceRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryCatalog) Create(_ context.Context, _ string, r model.ServiceRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && m.created >= m.failAfter {
		return "", fmt.Errorf("create: %w", model.ErrStoreUnavailable)
	}
	m.next++
	m.created++
	r.ID = fmt.Sprintf("-N%03d", m.next)
	m.records[r.ID] = r
	return r.ID, nil
}

func (m *memoryCatalog) Update(_ context.Context, _, id string, r model.ServiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("update %s: %w", id, model.ErrNotFound)
	}
	r.ID = id
	m.records[id] = r
	return nil
}

func (m *memoryCatalog) Remove(_ context.Context, _, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *memoryCatalog) get(id string) (model.ServiceRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	return r, ok
}

func (m *memoryCatalog) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type memorySessions struct {
	mu sync.Mutex
	m  map[string]model.Session
}

func (s *memorySessions) Save(_ context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[session.ID] = session
	return nil
}

func (s *memorySessions) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.m[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *memorySessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func (s *memorySessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeAuth struct{}

func (fakeAuth) Name() string { return "fake" }

func (fakeAuth) SignIn(_ context.Context, email, password string) (model.Identity, error) {
	if email != "ops@example.com" || password != "secret" {
		return model.Identity{}, &model.AuthError{Reason: "invalid email or password"}
	}
	return model.Identity{UID: "ops", Email: email, Token: "tok"}, nil
}

// --- Test helpers ---

type harness struct {
	t       *testing.T
	server  *httptest.Server
	client  *http.Client
	catalog *memoryCatalog
}

func fixture() []model.ServiceRecord {
	return []model.ServiceRecord{
		{
			ID:          "-N1",
			Title:       "THE SMART \n RESUME.",
			Description: "We reinvent your resume.",
			Price:       "$30",
			Category:    model.CategoryIdentity,
			Features:    []string{"ATS Friendly", "Modern Layout"},
			Icon:        "FileText",
			ImagePath:   "smart-resume.svg",
		},
		{
			ID:          "-N2",
			Title:       "Software<br>Development.",
			Description: "Custom **scalable** apps.",
			Category:    model.CategoryEngineering,
			Features:    []string{"Mobile First"},
			Icon:        "Terminal",
			Highlight:   true,
		},
	}
}

func newHarness(t *testing.T, catalog *memoryCatalog) *harness {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	svc := application.NewCatalogService(catalog, model.CategoryPolicyReject, logger)
	gate := application.NewSessionGate(fakeAuth{}, &memorySessions{m: map[string]model.Session{}}, time.Hour, logger)
	registry, err := assets.Scan(web.StaticFS, web.AssetsDir, web.AssetsURLPrefix)
	require.NoError(t, err)

	h := web.NewHandler(application.NewCatalogReader(nil, svc), svc, gate, registry, web.Options{
		WhatsAppNumber: "9618108329",
		CookieKey:      []byte("0123456789abcdef0123456789abcdef"),
	}, logger)

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, h)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &harness{t: t, server: server, client: client, catalog: catalog}
}

func (h *harness) get(path string) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.Get(h.server.URL + path)
	require.NoError(h.t, err)
	return resp, readBody(h.t, resp)
}

func (h *harness) post(path string, form url.Values) (*http.Response, string) {
	h.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf_token") == "" {
		form.Set("csrf_token", h.csrf())
	}
	resp, err := h.client.PostForm(h.server.URL+path, form)
	require.NoError(h.t, err)
	return resp, readBody(h.t, resp)
}

// csrf returns the token cookie, fetching a page first if none is set yet.
func (h *harness) csrf() string {
	h.t.Helper()
	u, _ := url.Parse(h.server.URL)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	h.get("/login")
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	h.t.Fatal("no csrf cookie issued")
	return ""
}

func (h *harness) login() {
	h.t.Helper()
	resp, _ := h.post("/login", url.Values{"email": {"ops@example.com"}, "password": {"secret"}})
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(h.t, "/admin", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func validServiceForm() url.Values {
	return url.Values{
		"title":       {"Exam<br>Support."},
		"description": {"Certification prep."},
		"price":       {"Custom"},
		"category":    {"engineering"},
		"features":    {"PMP, AWS , ,CISSP"},
		"icon":        {"Award"},
		"highlight":   {"true"},
	}
}

// --- Tests ---

func TestServicesPage(t *testing.T) {
	h := newHarness(t, newMemoryCatalog(fixture()...))

	resp, body := h.get("/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Professional Identity")
	assert.Contains(t, body, "Engineering")
	assert.Less(t, strings.Index(body, "Professional Identity"), strings.Index(body, ">Engineering<"))
	assert.Contains(t, body, "THE SMART<br>RESUME.")
	assert.Contains(t, body, "Software<br>Development.")
	assert.Contains(t, body, "<strong>scalable</strong>")
	assert.Contains(t, body, "card card-highlight")
	assert.Contains(t, body, "https://wa.me/9618108329?text=Hi%2C%20I%27m%20interested%20in%20THE%20SMART%20RESUME.")
	assert.Contains(t, body, "data-showcase")
	assert.Contains(t, body, "/static/assets/smart-resume.svg")
	assert.Contains(t, body, "Refer a Project")
	assert.NotContains(t, body, `role="dialog"`)
}

func TestServicesPage_Empty(t *testing.T) {
	h := newHarness(t, newMemoryCatalog())

	resp, body := h.get("/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No services yet")
}

func TestServicesPage_StoreUnavailable(t *testing.T) {
	catalog := newMemoryCatalog()
	catalog.fetchErr = fmt.Errorf("fetch: %w", model.ErrStoreUnavailable)
	h := newHarness(t, catalog)

	resp, body := h.get("/list")

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "Something went wrong")
	assert.Contains(t, body, `href="/list"`)
}

func TestDetailModal(t *testing.T) {
	h := newHarness(t, newMemoryCatalog(fixture()...))

	_, body := h.get("/?service=-N2")
	assert.Contains(t, body, `role="dialog"`)
	assert.Contains(t, body, `aria-label="Software Development."`)

	_, body = h.get("/?service=-N9")
	assert.NotContains(t, body, `role="dialog"`, "unknown id opens nothing")
}

func TestGalleryPage_OnlyResolvableImages(t *testing.T) {
	records := fixture()
	records[1].ImagePath = "missing.png"
	h := newHarness(t, newMemoryCatalog(records...))

	resp, body := h.get("/gallery")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "service--N1")
	assert.NotContains(t, body, "service--N2")

	_, body = h.get("/list")
	assert.Contains(t, body, "service--N2", "text views keep records with missing images")
}

func TestAdmin_RequiresSession(t *testing.T) {
	h := newHarness(t, newMemoryCatalog())

	for _, path := range []string{"/admin", "/admin/seed", "/admin/services/-N1/delete"} {
		resp, _ := h.get(path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp, _ := h.post("/admin/services", validServiceForm())
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 0, h.catalog.len(), "nothing persisted without a session")
}

func TestPost_RequiresCSRF(t *testing.T) {
	h := newHarness(t, newMemoryCatalog())

	form := url.Values{"email": {"ops@example.com"}, "password": {"secret"}, "csrf_token": {"forged"}}
	h.csrf()
	resp, _ := h.post("/login", form)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	valid := url.Values{"email": {"ops@example.com"}, "password": {"secret"}, "csrf_token": {h.csrf()}}
	req, err := http.NewRequest(http.MethodPost, h.server.URL+"/login", strings.NewReader(valid.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example")
	resp, err = h.client.Do(req)
	require.NoError(t, err)
	readBody(t, resp)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "cross-origin posts fail even with a valid token")
}

func TestLogin(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		h := newHarness(t, newMemoryCatalog())

		resp, body := h.post("/login", url.Values{"email": {"ops@example.com"}, "password": {"nope"}})

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Failed to log in: invalid email or password")
		assert.Contains(t, body, `value="ops@example.com"`)
	})

	t.Run("success then logout", func(t *testing.T) {
		h := newHarness(t, newMemoryCatalog())
		h.login()

		resp, body := h.get("/admin")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Admin Dashboard")
		assert.Contains(t, body, "Add New Service")

		resp, _ = h.get("/login")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "signed-in operators skip the form")

		resp, _ = h.post("/logout", nil)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

		resp, _ = h.get("/admin")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	})
}

func TestCreateService(t *testing.T) {
	h := newHarness(t, newMemoryCatalog())
	h.login()

	resp, _ := h.post("/admin/services", validServiceForm())
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	rec, ok := h.catalog.get("-N001")
	require.True(t, ok)
	assert.Equal(t, []string{"PMP", "AWS", "CISSP"}, rec.Features)
	assert.True(t, rec.Highlight)

	_, body := h.get("/admin")
	assert.Contains(t, body, "Service saved.")
	assert.Contains(t, body, "Exam Support.")

	_, body = h.get("/admin")
	assert.NotContains(t, body, "Service saved.", "alerts show once")
}

func TestCreateService_ValidationKeepsInput(t *testing.T) {
	h := newHarness(t, newMemoryCatalog())
	h.login()

	form := validServiceForm()
	form.Set("title", "   ")
	resp, body := h.post("/admin/services", form)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "title is required")
	assert.Contains(t, body, "Certification prep.")
	assert.Equal(t, 0, h.catalog.len())
}

func TestUpdateService(t *testing.T) {
	h := newHarness(t, newMemoryCatalog(fixture()...))
	h.login()

	_, body := h.get("/admin?edit=-N1")
	assert.Contains(t, body, "Edit Service")
	assert.Contains(t, body, `action="/admin/services/-N1"`)
	assert.Contains(t, body, `value="ATS Friendly, Modern Layout"`)

	form := validServiceForm()
	resp, _ := h.post("/admin/services/-N1", form)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	rec, _ := h.catalog.get("-N1")
	assert.Equal(t, "Exam<br>Support.", rec.Title)
	assert.Equal(t, model.CategoryEngineering, rec.Category)
}

func TestUpdateService_Missing(t *testing.T) {
	h := newHarness(t, newMemoryCatalog())
	h.login()

	resp, body := h.post("/admin/services/-N9", validServiceForm())

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "That service no longer exists.")
}

func TestDeleteService(t *testing.T) {
	h := newHarness(t, newMemoryCatalog(fixture()...))
	h.login()

	_, body := h.get("/admin/services/-N1/delete")
	assert.Contains(t, body, "THE SMART RESUME.")

	resp, _ := h.post("/admin/services/-N1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/services/-N1/delete", resp.Header.Get("Location"), "unconfirmed delete asks again")
	_, ok := h.catalog.get("-N1")
	assert.True(t, ok)

	resp, _ = h.post("/admin/services/-N1/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
	_, ok = h.catalog.get("-N1")
	assert.False(t, ok)

	resp, _ = h.post("/admin/services/-N1/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, "/admin", resp.Header.Get("Location"), "removing twice succeeds")

	_, body = h.get("/admin")
	assert.Contains(t, body, "Service deleted.")
}

func TestSeed(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		h := newHarness(t, newMemoryCatalog())
		h.login()

		_, body := h.get("/admin/seed")
		assert.Contains(t, body, "add 6 default services")

		resp, _ := h.post("/admin/seed", url.Values{"confirm": {"yes"}})
		assert.Equal(t, "/admin", resp.Header.Get("Location"))
		assert.Equal(t, 6, h.catalog.len())

		_, body = h.get("/admin")
		assert.Contains(t, body, "Database seeded: 6 services created.")
	})

	t.Run("partial", func(t *testing.T) {
		catalog := newMemoryCatalog()
		catalog.failAfter = 3
		h := newHarness(t, catalog)
		h.login()

		h.post("/admin/seed", url.Values{"confirm": {"yes"}})
		assert.Equal(t, 3, h.catalog.len())

		_, body := h.get("/admin")
		assert.Contains(t, body, "Seeding stopped: 3 of 6 services created.")
	})
}

func TestStaticAndEvents(t *testing.T) {
	h := newHarness(t, newMemoryCatalog())

	resp, body := h.get("/static/css/site.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ".card")

	resp, _ = h.get("/events")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "no feed, no stream")
}
