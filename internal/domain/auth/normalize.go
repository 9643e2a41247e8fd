package auth

// RoleProfile is the result of collapsing a raw role-string list into a single
// primary role plus the two capability flags derived from it.
type RoleProfile struct {
	Role            Role `json:"role"`
	IsAdmin         bool `json:"is_admin"`
	IsIntranetAdmin bool `json:"is_intranet_admin"`
}

// Normalize reduces a raw role list to a single primary role using a fixed
// precedence order (first match wins):
//
//	admin | admin_patrimoine > admin_intranet > director > manager > agent > user
//
// IsAdmin and IsIntranetAdmin are computed from the raw set independently of
// which branch selected Role, so an account carrying both "admin" and
// "admin_intranet" resolves to admin_patrimoine with both flags set.
// Pure: no I/O, same input always yields the same output.
func Normalize(roles []string) RoleProfile {
	has := func(want string) bool {
		for _, r := range roles {
			if r == want {
				return true
			}
		}
		return false
	}

	p := RoleProfile{
		IsAdmin:         has(rawAdmin) || has(rawAdminPatrimoine),
		IsIntranetAdmin: has(rawAdminIntranet),
	}

	switch {
	case p.IsAdmin:
		p.Role = RoleAdminPatrimoine
	case p.IsIntranetAdmin:
		p.Role = RoleAdminIntranet
	case has(rawDirector):
		p.Role = RoleDirector
	case has(rawManager):
		p.Role = RoleManager
	case has(rawAgent):
		p.Role = RoleAgent
	default:
		p.Role = RoleUser
	}

	return p
}
