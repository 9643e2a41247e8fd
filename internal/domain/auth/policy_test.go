package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutePolicy_LongestPrefixWins(t *testing.T) {
	policy := DefaultRoutePolicy()

	allowed, ok := policy.Lookup("/intranet/admin/utilisateurs")
	require.True(t, ok)
	assert.ElementsMatch(t, []Role{RoleAdminIntranet, RoleAdminPatrimoine}, allowed)

	allowed, ok = policy.Lookup("/intranet/annuaire")
	require.True(t, ok)
	assert.Contains(t, allowed, RoleUser)
}

func TestRoutePolicy_SegmentBoundaries(t *testing.T) {
	policy := DefaultRoutePolicy()

	_, ok := policy.Lookup("/administration")
	assert.False(t, ok, "/administration must not inherit the /admin rule")

	_, ok = policy.Lookup("/admin")
	assert.True(t, ok)

	_, ok = policy.Lookup("/admin/demandes")
	assert.True(t, ok)
}

func TestRoutePolicy_Allows(t *testing.T) {
	policy := DefaultRoutePolicy()

	tests := []struct {
		name string
		path string
		role Role
		want bool
	}{
		{"admin area admits patrimoine admin", "/admin", RoleAdminPatrimoine, true},
		{"admin area rejects director", "/admin", RoleDirector, false},
		{"admin area rejects intranet admin", "/admin", RoleAdminIntranet, false},
		{"director area admits director", "/director", RoleDirector, true},
		{"director area admits patrimoine admin", "/director/rapports", RoleAdminPatrimoine, true},
		{"director area rejects agent", "/director", RoleAgent, false},
		{"agent area admits manager", "/agent", RoleManager, true},
		{"loss declaration admits agent", "/declaration-pertes", RoleAgent, true},
		{"loss declaration rejects plain user", "/declaration-pertes", RoleUser, false},
		{"intranet admin area rejects plain user", "/intranet/admin", RoleUser, false},
		{"unmatched path is allowed", "/public/contact", RoleUser, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Allows(tt.path, tt.role))
		})
	}
}

func TestNewRoutePolicy_DoesNotMutateInput(t *testing.T) {
	rules := []PolicyRule{
		{Prefix: "/a", Allowed: []Role{RoleUser}},
		{Prefix: "/a/b/c", Allowed: []Role{RoleAdminPatrimoine}},
	}

	policy := NewRoutePolicy(rules)

	assert.Equal(t, "/a", rules[0].Prefix)

	allowed, ok := policy.Lookup("/a/b/c/d")
	require.True(t, ok)
	assert.Equal(t, []Role{RoleAdminPatrimoine}, allowed)
}
