package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtnd/patrimoine-gateway/internal/domain/model"
	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
)

type stubAuditLister struct {
	lastQuery model.LoginAuditQuery
	entries   []model.LoginAuditEntry
	err       error
}

func (s *stubAuditLister) List(_ context.Context, q model.LoginAuditQuery) ([]model.LoginAuditEntry, error) {
	s.lastQuery = q
	return s.entries, s.err
}

func TestAuditHandlers_List(t *testing.T) {
	lister := &stubAuditLister{
		entries: []model.LoginAuditEntry{{Username: "jdupont", Event: "login"}},
	}
	h := &AuditHandlers{Repo: lister}

	req := httptest.NewRequest(http.MethodGet, "/gateway/audit/logins?username=jdupont&event=login&limit=10&offset=5", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jdupont", lister.lastQuery.Username)
	assert.Equal(t, "login", lister.lastQuery.Event)
	assert.Equal(t, 10, lister.lastQuery.Limit)
	assert.Equal(t, 5, lister.lastQuery.Offset)

	var body struct {
		Entries []model.LoginAuditEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "jdupont", body.Entries[0].Username)
}

func TestAuditHandlers_List_EmptyIsNotNull(t *testing.T) {
	h := &AuditHandlers{Repo: &stubAuditLister{}}

	req := httptest.NewRequest(http.MethodGet, "/gateway/audit/logins", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"entries":[]`)
}

func TestAuditHandlers_List_InvalidQuery(t *testing.T) {
	h := &AuditHandlers{Repo: &stubAuditLister{err: apperrors.Validation("unknown event kind")}}

	req := httptest.NewRequest(http.MethodGet, "/gateway/audit/logins?event=bogus", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
