package application_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// --- Mock implementations ---

// memoryStore is an in-memory driven.CatalogStore. failAfter > 0 makes every
// Create after that many successful creates fail.
type memoryStore struct {
	mu          sync.Mutex
	records     map[string]model.ServiceRecord
	nextID      int
	failAfter   int
	created     int
	createCalls int
	fetchErr    error
	writeErr    error
	subs        []chan driven.CatalogEvent
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]model.ServiceRecord)}
}

func (m *memoryStore) snapshotLocked() []model.ServiceRecord {
	out := make([]model.ServiceRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryStore) publishLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		ch <- driven.CatalogEvent{Records: snap}
	}
}

func (m *memoryStore) Subscribe(_ context.Context, _ string) (<-chan driven.CatalogEvent, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan driven.CatalogEvent, 16)
	ch <- driven.CatalogEvent{Records: m.snapshotLocked()}
	m.subs = append(m.subs, ch)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, sub := range m.subs {
				if sub == ch {
					m.subs = append(m.subs[:i], m.subs[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}, nil
}

// push delivers an arbitrary event to every subscriber.
func (m *memoryStore) push(ev driven.CatalogEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		ch <- ev
	}
}

func (m *memoryStore) FetchOnce(_ context.Context, _ string) ([]model.ServiceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.snapshotLocked(), nil
}

func (m *memoryStore) Create(_ context.Context, _ string, record model.ServiceRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.writeErr != nil {
		return "", m.writeErr
	}
	if m.failAfter > 0 && m.created >= m.failAfter {
		return "", fmt.Errorf("push: %w", model.ErrStoreUnavailable)
	}

	m.nextID++
	id := fmt.Sprintf("-N%04d", m.nextID)
	record.ID = id
	m.records[id] = record
	m.created++
	m.publishLocked()
	return id, nil
}

func (m *memoryStore) Update(_ context.Context, _ string, id string, record model.ServiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	record.ID = id
	m.records[id] = record
	m.publishLocked()
	return nil
}

func (m *memoryStore) Remove(_ context.Context, _ string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.records, id)
	m.publishLocked()
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// mockAuthProvider accepts exactly one email/password pair.
type mockAuthProvider struct {
	email     string
	password  string
	expiresIn time.Duration
	err       error
	calls     int
}

func (m *mockAuthProvider) SignIn(_ context.Context, email, password string) (model.Identity, error) {
	m.calls++
	if m.err != nil {
		return model.Identity{}, m.err
	}
	if email != m.email || password != m.password {
		return model.Identity{}, &model.AuthError{Reason: "invalid email or password"}
	}
	return model.Identity{UID: "uid-1", Email: email, Token: "id-token", ExpiresIn: m.expiresIn}, nil
}

func (m *mockAuthProvider) Name() string { return "mock" }

// memorySessionStore is an in-memory driven.SessionStore.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	gets     int
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]model.Session)}
}

func (m *memorySessionStore) Save(_ context.Context, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// --- Test helpers ---

func authedContext() context.Context {
	return model.ContextWithSession(context.Background(), &model.Session{ID: "sess-1", Email: "ops@example.com"})
}
