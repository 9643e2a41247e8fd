package auth

import (
	"sort"
	"strings"
)

// PolicyRule maps a path prefix to the set of roles allowed past the guard.
type PolicyRule struct {
	Prefix  string
	Allowed []Role
}

// RoutePolicy is the static, build-time allow-list consulted on every
// protected navigation. Lookups use longest-prefix matching so that
// /admin/demandes inherits the /admin rule unless a more specific one exists.
type RoutePolicy struct {
	rules []PolicyRule
}

// NewRoutePolicy builds a policy from rules. Rules are sorted by descending
// prefix length once at construction; the policy is read-only afterwards.
func NewRoutePolicy(rules []PolicyRule) *RoutePolicy {
	sorted := make([]PolicyRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &RoutePolicy{rules: sorted}
}

// Lookup returns the allowed roles for path and whether any rule matched.
// No match means the path is not protected by this policy.
func (p *RoutePolicy) Lookup(path string) ([]Role, bool) {
	for _, r := range p.rules {
		if matchPrefix(path, r.Prefix) {
			return r.Allowed, true
		}
	}
	return nil, false
}

// Allows reports whether role may view path. Unmatched paths are allowed;
// callers decide separately which paths are public.
func (p *RoutePolicy) Allows(path string, role Role) bool {
	allowed, ok := p.Lookup(path)
	if !ok {
		return true
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// matchPrefix matches on path-segment boundaries: /admin matches /admin and
// /admin/pertes but not /administration.
func matchPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/' || strings.HasSuffix(prefix, "/")
}

// DefaultRoutePolicy is the gateway's shipped policy, mirroring the intranet's
// route table: /admin is patrimoine-admin only, /director is shared with
// admins, agent-level pages admit every operational role, and the intranet
// administration area is reserved for intranet admins.
func DefaultRoutePolicy() *RoutePolicy {
	every := []Role{RoleAgent, RoleManager, RoleDirector, RoleAdminPatrimoine}
	return NewRoutePolicy([]PolicyRule{
		{Prefix: "/admin", Allowed: []Role{RoleAdminPatrimoine}},
		{Prefix: "/director", Allowed: []Role{RoleDirector, RoleAdminPatrimoine}},
		{Prefix: "/agent", Allowed: every},
		{Prefix: "/declaration-pertes", Allowed: every},
		{Prefix: "/intranet/admin", Allowed: []Role{RoleAdminIntranet, RoleAdminPatrimoine}},
		{Prefix: "/intranet", Allowed: append([]Role{RoleAdminIntranet, RoleUser}, every...)},
	})
}
