package redis

// Package redis provides the Redis-backed session store for the gateway.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	"github.com/mtnd/patrimoine-gateway/internal/ports"
	"github.com/redis/go-redis/v9"
)

const (
	// userKeyPrefix and sessionIDKeyPrefix are the two fixed storage keys,
	// scoped per gateway session. The record lives under odoo_user:<id>, the
	// raw backend session id under odoo_session_id:<id>.
	userKeyPrefix      = "odoo_user:"
	sessionIDKeyPrefix = "odoo_session_id:"

	// changeChannel carries store change notifications so other gateway
	// instances (the cross-tab analog) can refresh their view.
	changeChannel = "patrimoine:session_changes"
)

// SessionStore is a Redis-based session store for production use.
// Entries expire via TTL; a malformed stored record is treated as absent,
// never surfaced as a decode error.
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSessionStore creates a Redis session store. A non-positive ttl stores
// records without expiry; backend-driven invalidation then remains the only
// way a session ends, matching the reactive-expiry model.
func NewSessionStore(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, rec domainauth.UserRecord) error {
	if rec.ID == "" {
		return errors.New("record ID cannot be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal user record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKeyPrefix+rec.ID, data, s.expiry())
	pipe.Set(ctx, sessionIDKeyPrefix+rec.ID, rec.OdooSessionID, s.expiry())
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist user record: %w", err)
	}

	s.publish(ctx, rec.ID, ports.StoreEventSaved)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.UserRecord, error) {
	if id == "" {
		return domainauth.UserRecord{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, userKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.UserRecord{}, ErrNotFound
		}
		return domainauth.UserRecord{}, fmt.Errorf("redis get: %w", err)
	}

	var rec domainauth.UserRecord
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil || rec.ID == "" {
		// Malformed records are treated as absence. Drop the corrupt keys so
		// the next read is cheap.
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.UserRecord{}, fmt.Errorf("cleanup malformed record: %w", deleteErr)
		}
		return domainauth.UserRecord{}, ErrNotFound
	}

	return rec, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}

	if err := s.client.Del(ctx, userKeyPrefix+id, sessionIDKeyPrefix+id).Err(); err != nil {
		return err
	}
	s.publish(ctx, id, ports.StoreEventCleared)
	return nil
}

// Watch subscribes to store change events published by any gateway instance.
// The channel closes when ctx is done. Delivery is best-effort and eventually
// consistent; last write to the store wins.
func (s *SessionStore) Watch(ctx context.Context) (<-chan ports.StoreEvent, error) {
	sub := s.client.Subscribe(ctx, changeChannel)
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		if closeErr := sub.Close(); closeErr != nil {
			return nil, errors.Join(err, fmt.Errorf("close subscription: %w", closeErr))
		}
		return nil, fmt.Errorf("subscribe session changes: %w", err)
	}

	out := make(chan ports.StoreEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev ports.StoreEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *SessionStore) publish(ctx context.Context, id string, kind ports.StoreEventKind) {
	payload, err := json.Marshal(ports.StoreEvent{SessionID: id, Kind: kind, At: time.Now().UTC()})
	if err != nil {
		return
	}
	// Notification failures never fail the write; watchers reconcile on the
	// next read.
	s.client.Publish(ctx, changeChannel, payload)
}

func (s *SessionStore) expiry() time.Duration {
	if s.ttl > 0 {
		return s.ttl
	}
	return 0
}

// ErrNotFound is returned when a session record is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
