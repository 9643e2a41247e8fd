package auth

// Package auth contains domain-level types for the Odoo session and role
// resolution flow. It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdminPatrimoine Role = "admin_patrimoine"
	RoleAdminIntranet   Role = "admin_intranet"
	RoleDirector        Role = "director"
	RoleManager         Role = "manager"
	RoleAgent           Role = "agent"
	RoleUser            Role = "user"
)

// Raw role strings as emitted by the backend profile endpoint. The plain
// "admin" group collapses into admin_patrimoine during normalization and never
// appears as a resolved Role.
const (
	rawAdmin           = "admin"
	rawAdminPatrimoine = "admin_patrimoine"
	rawAdminIntranet   = "admin_intranet"
	rawDirector        = "director"
	rawManager         = "manager"
	rawAgent           = "agent"
)

// Credentials carry a login attempt. Transient: used once and discarded,
// never persisted and never logged.
type Credentials struct {
	Login    string
	Password string
}

// SessionHandle is the pair issued by a successful backend authenticate call.
type SessionHandle struct {
	SessionID string
	UserID    int
}

// Profile is the authenticated user's profile as returned by the backend
// "current user" endpoint. Roles is the raw, unnormalized role-string list.
type Profile struct {
	UserID         int
	DisplayName    string
	Username       string
	DepartmentID   *int
	DepartmentName *string
	Roles          []string
}

// UserRecord is the normalized, persisted representation of the authenticated
// user. ID is the gateway session identifier used as the storage key; the
// backend-issued session id travels in OdooSessionID.
type UserRecord struct {
	ID              string  `json:"id"`
	UserID          int     `json:"user_id"`
	Name            string  `json:"name"`
	Username        string  `json:"username"`
	OdooSessionID   string  `json:"session_id"`
	Role            Role    `json:"role"`
	IsAdmin         bool    `json:"is_admin"`
	IsIntranetAdmin bool    `json:"is_intranet_admin"`
	DepartmentID    *int    `json:"department_id"`
	DepartmentName  *string `json:"department_name"`
}

// Handle reconstructs the backend session handle embedded in the record.
func (u UserRecord) Handle() SessionHandle {
	return SessionHandle{SessionID: u.OdooSessionID, UserID: u.UserID}
}
