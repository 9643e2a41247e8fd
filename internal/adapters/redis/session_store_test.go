package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	"github.com/mtnd/patrimoine-gateway/internal/ports"
	"github.com/mtnd/patrimoine-gateway/internal/testutil"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()

	dept := 3
	deptName := "Objets Trouvés"
	rec := domainauth.UserRecord{
		ID:              "sid-1",
		UserID:          42,
		Name:            "Jean Dupont",
		Username:        "jdupont",
		OdooSessionID:   "backend-1",
		Role:            domainauth.RoleManager,
		IsAdmin:         false,
		IsIntranetAdmin: false,
		DepartmentID:    &dept,
		DepartmentName:  &deptName,
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// Both fixed keys exist, scoped by the gateway session id.
	assert.Positive(t, client.Exists(ctx, "odoo_user:sid-1").Val())
	assert.Equal(t, "backend-1", client.Get(ctx, "odoo_session_id:sid-1").Val())
}

func TestSessionStore_GetMissing(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client, time.Minute)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()

	rec := domainauth.UserRecord{ID: "sid-1", UserID: 1, OdooSessionID: "backend-1", Role: domainauth.RoleUser}
	require.NoError(t, store.Save(ctx, rec))
	require.NoError(t, store.Delete(ctx, "sid-1"))

	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, client.Exists(ctx, "odoo_user:sid-1").Val())
	assert.Zero(t, client.Exists(ctx, "odoo_session_id:sid-1").Val())
}

func TestSessionStore_MalformedRecordReadsAsAbsent(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "odoo_user:sid-1", "{not json", 0).Err())

	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Corrupt keys were cleaned up.
	assert.Zero(t, client.Exists(ctx, "odoo_user:sid-1").Val())
}

func TestSessionStore_WatchObservesChanges(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	store := NewSessionStore(client, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	rec := domainauth.UserRecord{ID: "sid-1", UserID: 1, Role: domainauth.RoleUser}
	require.NoError(t, store.Save(ctx, rec))

	select {
	case ev := <-events:
		assert.Equal(t, "sid-1", ev.SessionID)
		assert.Equal(t, ports.StoreEventSaved, ev.Kind)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for saved event")
	}

	require.NoError(t, store.Delete(ctx, "sid-1"))

	select {
	case ev := <-events:
		assert.Equal(t, ports.StoreEventCleared, ev.Kind)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for cleared event")
	}
}
