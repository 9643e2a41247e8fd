package memstore

// Package memstore provides an in-memory session store used in development
// mode and in tests. It implements the same change-notification contract as
// the Redis store so guard behavior can be exercised without infrastructure.

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	"github.com/mtnd/patrimoine-gateway/internal/ports"
)

// Store is an in-memory SessionStore with watcher fan-out.
// Records are held serialized, so a corrupted entry behaves exactly like the
// production store: treated as absent, never as a decode error.
type Store struct {
	mu       sync.Mutex
	records  map[string][]byte
	sessions map[string]string
	watchers map[int]chan ports.StoreEvent
	nextID   int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		records:  make(map[string][]byte),
		sessions: make(map[string]string),
		watchers: make(map[int]chan ports.StoreEvent),
	}
}

func (s *Store) Save(_ context.Context, rec domainauth.UserRecord) error {
	if rec.ID == "" {
		return errors.New("record ID cannot be empty")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records[rec.ID] = data
	s.sessions[rec.ID] = rec.OdooSessionID
	s.mu.Unlock()

	s.notify(rec.ID, ports.StoreEventSaved)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (domainauth.UserRecord, error) {
	if id == "" {
		return domainauth.UserRecord{}, ErrNotFound
	}

	s.mu.Lock()
	data, ok := s.records[id]
	s.mu.Unlock()
	if !ok {
		return domainauth.UserRecord{}, ErrNotFound
	}

	var rec domainauth.UserRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.ID == "" {
		s.mu.Lock()
		delete(s.records, id)
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.UserRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.records, id)
	delete(s.sessions, id)
	s.mu.Unlock()

	s.notify(id, ports.StoreEventCleared)
	return nil
}

// Watch returns a channel of store change events. The channel closes when ctx
// is done.
func (s *Store) Watch(ctx context.Context) (<-chan ports.StoreEvent, error) {
	ch := make(chan ports.StoreEvent, 16)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Corrupt overwrites a stored record with garbage bytes. Test hook for the
// malformed-is-absent law.
func (s *Store) Corrupt(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; ok {
		s.records[id] = []byte("{not json")
	}
}

func (s *Store) notify(id string, kind ports.StoreEventKind) {
	ev := ports.StoreEvent{SessionID: id, Kind: kind, At: time.Now().UTC()}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- ev:
		default:
			// Slow watchers drop events; they reconcile on the next read.
		}
	}
}

// ErrNotFound is returned when a session record is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
