package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mtnd/patrimoine-gateway/internal/domain/model"
)

// AuditLister lists persisted auth lifecycle events.
type AuditLister interface {
	List(ctx context.Context, q model.LoginAuditQuery) ([]model.LoginAuditEntry, error)
}

// AuditHandlers provides HTTP handlers for the login audit trail.
type AuditHandlers struct {
	Repo AuditLister
}

// List handles the audit listing endpoint.
// GET /gateway/audit/logins?username=&event=&limit=&offset=.
func (h *AuditHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := model.LoginAuditQuery{
		Username: r.URL.Query().Get("username"),
		Event:    r.URL.Query().Get("event"),
		Limit:    intQuery(r, "limit"),
		Offset:   intQuery(r, "offset"),
	}

	entries, err := h.Repo.List(r.Context(), q)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if entries == nil {
		entries = []model.LoginAuditEntry{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func intQuery(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
