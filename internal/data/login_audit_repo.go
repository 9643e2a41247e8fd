package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/mtnd/patrimoine-gateway/internal/data/pgxutil"
	"github.com/mtnd/patrimoine-gateway/internal/domain/model"
	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
	"github.com/mtnd/patrimoine-gateway/internal/ports"
)

// LoginAuditRepo persists auth lifecycle events.
type LoginAuditRepo struct {
	DB *sql.DB
}

// NewLoginAuditRepo creates a new login audit repository.
func NewLoginAuditRepo(db *sql.DB) *LoginAuditRepo {
	return &LoginAuditRepo{DB: db}
}

const loginAuditColumns = `id, user_id, username, role, event, remote_addr, detail, created_at`

// Record inserts one audit entry.
func (r *LoginAuditRepo) Record(ctx context.Context, ev ports.LoginEvent) error {
	if strings.TrimSpace(ev.Username) == "" {
		return errors.New("username is required")
	}
	if ev.Kind == "" {
		return errors.New("event kind is required")
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO login_audit (user_id, username, role, event, remote_addr, detail)
			VALUES ($1, $2, $3, $4, $5, $6)`

		_, execErr := conn.Exec(ctx, query,
			nullableInt(ev.UserID), ev.Username, nullableString(string(ev.Role)),
			string(ev.Kind), nullableString(ev.RemoteAddr), nullableString(ev.Detail))
		return execErr
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// List returns audit entries newest first, filtered and paged by q.
func (r *LoginAuditRepo) List(ctx context.Context, q model.LoginAuditQuery) ([]model.LoginAuditEntry, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid audit query")
	}

	var entries []model.LoginAuditEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var (
			conds []string
			args  []any
		)
		if q.Username != "" {
			args = append(args, q.Username)
			conds = append(conds, fmt.Sprintf("username = $%d", len(args)))
		}
		if q.Event != "" {
			args = append(args, q.Event)
			conds = append(conds, fmt.Sprintf("event = $%d", len(args)))
		}

		query := `SELECT ` + loginAuditColumns + ` FROM login_audit`
		if len(conds) > 0 {
			query += " WHERE " + strings.Join(conds, " AND ")
		}
		args = append(args, q.Limit)
		query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
		args = append(args, q.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))

		rows, queryErr := conn.Query(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		collected, collectErr := pgx.CollectRows(rows, pgx.RowToStructByName[model.LoginAuditEntry])
		if collectErr != nil {
			return collectErr
		}
		entries = collected
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}

	return entries, nil
}

func nullableInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
