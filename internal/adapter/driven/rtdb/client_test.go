package rtdb_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techxplorers/portfolio/internal/adapter/driven/rtdb"
	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

const validToken = "good-token"

// fakeDB emulates the subset of the REST API the adapter uses: a single
// "services" collection, push ids, token-gated writes and a stream that
// sends the full collection on connect and a child put per write.
type fakeDB struct {
	mu       sync.Mutex
	services map[string]json.RawMessage
	nextID   int
	streams  []chan string
	readCode int
}

func newFakeDB() *fakeDB {
	return &fakeDB{services: map[string]json.RawMessage{}}
}

func (f *fakeDB) broadcastLocked(event string) {
	for _, s := range f.streams {
		select {
		case s <- event:
		default:
		}
	}
}

func (f *fakeDB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(strings.Trim(r.URL.Path, "/"), ".json")
	parts := strings.Split(path, "/")
	if parts[0] != "services" {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet && r.URL.Query().Get("auth") != validToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error": "Permission denied"}`)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.Header.Get("Accept") == "text/event-stream":
		f.serveStream(w, r)
	case r.Method == http.MethodGet:
		f.mu.Lock()
		code := f.readCode
		body, _ := json.Marshal(f.services)
		if len(f.services) == 0 {
			body = []byte("null")
		}
		f.mu.Unlock()
		if code != 0 {
			w.WriteHeader(code)
			_, _ = io.WriteString(w, `{"error": "Permission denied"}`)
			return
		}
		_, _ = w.Write(body)
	case r.Method == http.MethodPost && len(parts) == 1:
		raw, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.nextID++
		id := fmt.Sprintf("-N%04d", f.nextID)
		f.services[id] = raw
		f.broadcastLocked(fmt.Sprintf(`{"path": "/%s", "data": %s}`, id, raw))
		f.mu.Unlock()
		_, _ = fmt.Fprintf(w, `{"name": %q}`, id)
	case r.Method == http.MethodPatch && len(parts) == 2:
		raw, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		merged := map[string]json.RawMessage{}
		_ = json.Unmarshal(f.services[parts[1]], &merged)
		patch := map[string]json.RawMessage{}
		_ = json.Unmarshal(raw, &patch)
		for k, v := range patch {
			merged[k] = v
		}
		f.services[parts[1]], _ = json.Marshal(merged)
		f.mu.Unlock()
		_, _ = w.Write(raw)
	case r.Method == http.MethodDelete && len(parts) == 2:
		f.mu.Lock()
		delete(f.services, parts[1])
		f.broadcastLocked(fmt.Sprintf(`{"path": "/%s", "data": null}`, parts[1]))
		f.mu.Unlock()
		_, _ = io.WriteString(w, "null")
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (f *fakeDB) serveStream(w http.ResponseWriter, r *http.Request) {
	flusher := w.(http.Flusher)
	events := make(chan string, 16)

	f.mu.Lock()
	initial, _ := json.Marshal(f.services)
	f.streams = append(f.streams, events)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "text/event-stream")
	_, _ = fmt.Fprintf(w, "event: put\ndata: {\"path\": \"/\", \"data\": %s}\n\n", initial)
	_, _ = io.WriteString(w, "event: keep-alive\ndata: null\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-events:
			_, _ = fmt.Fprintf(w, "event: put\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func newTestClient(t *testing.T, handler http.Handler) *rtdb.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := rtdb.NewClientWithHTTPClient(server.Client(), server.URL, 20*time.Millisecond, slog.Default())
	require.NoError(t, err)
	return client
}

func authed() context.Context {
	return model.ContextWithSession(context.Background(), &model.Session{ID: "s", Token: validToken})
}

func record(title string) model.ServiceRecord {
	return model.ServiceRecord{
		Title:       title,
		Description: "d",
		Category:    model.CategoryIdentity,
		Features:    []string{"A", "B"},
		Icon:        "Star",
	}
}

func nextEvent(t *testing.T, ch <-chan driven.CatalogEvent) driven.CatalogEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "stream closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream event")
		return driven.CatalogEvent{}
	}
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := rtdb.NewClient("not a url", slog.Default())
	assert.Error(t, err)

	_, err = rtdb.NewClient("ftp://example.com", slog.Default())
	assert.Error(t, err)

	_, err = rtdb.NewClient("https://demo.firebaseio.com/", slog.Default())
	assert.NoError(t, err)
}

func TestFetchOnce_EmptyIsNotAnError(t *testing.T) {
	client := newTestClient(t, newFakeDB())

	records, err := client.FetchOnce(context.Background(), "services")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreateUpdateRemove(t *testing.T) {
	db := newFakeDB()
	client := newTestClient(t, db)
	ctx := authed()

	id, err := client.Create(ctx, "services", record("First"))
	require.NoError(t, err)
	assert.Equal(t, "-N0001", id)

	updated := record("Renamed")
	updated.Features = []string{"C"}
	require.NoError(t, client.Update(ctx, "services", id, updated))

	records, err := client.FetchOnce(ctx, "services")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, "Renamed", records[0].Title)
	assert.Equal(t, []string{"C"}, records[0].Features)

	require.NoError(t, client.Remove(ctx, "services", id))
	require.NoError(t, client.Remove(ctx, "services", id), "double remove succeeds")

	records, err = client.FetchOnce(ctx, "services")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWritesWithoutTokenAreDenied(t *testing.T) {
	client := newTestClient(t, newFakeDB())
	ctx := context.Background()

	_, err := client.Create(ctx, "services", record("x"))
	assert.ErrorIs(t, err, model.ErrWriteDenied)
	assert.Contains(t, err.Error(), "Permission denied")

	assert.ErrorIs(t, client.Update(ctx, "services", "-N1", record("x")), model.ErrWriteDenied)
	assert.ErrorIs(t, client.Remove(ctx, "services", "-N1"), model.ErrWriteDenied)
}

func TestReadDeniedIsUnavailable(t *testing.T) {
	db := newFakeDB()
	db.readCode = http.StatusUnauthorized
	client := newTestClient(t, db)

	_, err := client.FetchOnce(context.Background(), "services")

	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, model.ErrWriteDenied)
}

func TestUnreachableIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	client, err := rtdb.NewClientWithHTTPClient(http.DefaultClient, base, time.Millisecond, slog.Default())
	require.NoError(t, err)

	_, err = client.FetchOnce(context.Background(), "services")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)

	_, err = client.Create(authed(), "services", record("x"))
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestSubscribe_InitialAndChanges(t *testing.T) {
	db := newFakeDB()
	client := newTestClient(t, db)
	ctx := authed()

	firstID, err := client.Create(ctx, "services", record("Existing"))
	require.NoError(t, err)

	events, dispose, err := client.Subscribe(context.Background(), "services")
	require.NoError(t, err)
	defer dispose()

	initial := nextEvent(t, events)
	require.NoError(t, initial.Err)
	require.Len(t, initial.Records, 1)
	assert.Equal(t, []string{"A", "B"}, initial.Records[0].Features)

	secondID, err := client.Create(ctx, "services", record("Added"))
	require.NoError(t, err)
	ev := nextEvent(t, events)
	require.Len(t, ev.Records, 2, "full collection after a child put")
	assert.Equal(t, secondID, ev.Records[1].ID)

	require.NoError(t, client.Remove(ctx, "services", firstID))
	ev = nextEvent(t, events)
	require.Len(t, ev.Records, 1)
	assert.Equal(t, secondID, ev.Records[0].ID)
}

func TestSubscribe_DisposeClosesChannel(t *testing.T) {
	client := newTestClient(t, newFakeDB())

	events, dispose, err := client.Subscribe(context.Background(), "services")
	require.NoError(t, err)
	nextEvent(t, events)

	dispose()
	dispose()

	_, ok := <-events
	assert.False(t, ok)
}

func TestSubscribe_ReportsErrorsAndReconnects(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()

		w.Header().Set("Content-Type", "text/event-stream")
		if n == 1 {
			_, _ = io.WriteString(w, "event: cancel\ndata: null\n\n")
			return
		}
		_, _ = io.WriteString(w, `event: put`+"\n"+`data: {"path": "/", "data": {"-N1": {"title": "t", "description": "d", "category": "identity", "features": "x, y"}}}`+"\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})
	client := newTestClient(t, handler)

	events, dispose, err := client.Subscribe(context.Background(), "services")
	require.NoError(t, err)
	defer dispose()

	first := nextEvent(t, events)
	assert.ErrorIs(t, first.Err, model.ErrStoreUnavailable)

	second := nextEvent(t, events)
	require.NoError(t, second.Err)
	require.Len(t, second.Records, 1)
	assert.Equal(t, []string{"x", "y"}, second.Records[0].Features, "legacy string features normalized")
}

func TestSubscribe_PatchEvent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, `event: put`+"\n"+`data: {"path": "/", "data": {"-N1": {"title": "old", "description": "d", "category": "identity", "features": ["a"]}}}`+"\n\n")
		_, _ = io.WriteString(w, `event: patch`+"\n"+`data: {"path": "/-N1", "data": {"title": "new", "features": ["b", "c"]}}`+"\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})
	client := newTestClient(t, handler)

	events, dispose, err := client.Subscribe(context.Background(), "services")
	require.NoError(t, err)
	defer dispose()

	require.Eventually(t, func() bool {
		select {
		case ev := <-events:
			return len(ev.Records) == 1 && ev.Records[0].Title == "new" &&
				assert.ObjectsAreEqual([]string{"b", "c"}, ev.Records[0].Features)
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribe_RequiresPath(t *testing.T) {
	client := newTestClient(t, newFakeDB())

	_, _, err := client.Subscribe(context.Background(), "/")

	assert.Error(t, err)
}
