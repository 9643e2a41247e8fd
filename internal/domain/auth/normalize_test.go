package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  RoleProfile
	}{
		{
			name:  "admin wins over everything",
			roles: []string{"agent", "director", "admin"},
			want:  RoleProfile{Role: RoleAdminPatrimoine, IsAdmin: true},
		},
		{
			name:  "admin_patrimoine is equivalent to admin",
			roles: []string{"admin_patrimoine", "manager"},
			want:  RoleProfile{Role: RoleAdminPatrimoine, IsAdmin: true},
		},
		{
			name:  "intranet admin below patrimoine admin",
			roles: []string{"admin_intranet", "director"},
			want:  RoleProfile{Role: RoleAdminIntranet, IsIntranetAdmin: true},
		},
		{
			name:  "director above manager and agent",
			roles: []string{"agent", "manager", "director"},
			want:  RoleProfile{Role: RoleDirector},
		},
		{
			name:  "manager above agent",
			roles: []string{"agent", "manager"},
			want:  RoleProfile{Role: RoleManager},
		},
		{
			name:  "agent alone",
			roles: []string{"agent"},
			want:  RoleProfile{Role: RoleAgent},
		},
		{
			name:  "unknown roles collapse to user",
			roles: []string{"portal", "employee"},
			want:  RoleProfile{Role: RoleUser},
		},
		{
			name:  "empty list collapses to user",
			roles: nil,
			want:  RoleProfile{Role: RoleUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.roles))
		})
	}
}

func TestNormalize_FlagsIndependentOfBranch(t *testing.T) {
	// Both admin flavors present: the primary role comes from the patrimoine
	// branch, but the intranet flag must still be set.
	got := Normalize([]string{"admin", "admin_intranet"})

	assert.Equal(t, RoleAdminPatrimoine, got.Role)
	assert.True(t, got.IsAdmin)
	assert.True(t, got.IsIntranetAdmin)
}

func TestNormalize_OrderInsensitive(t *testing.T) {
	a := Normalize([]string{"agent", "admin", "director"})
	b := Normalize([]string{"admin", "director", "agent"})
	c := Normalize([]string{"director", "agent", "admin"})

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestNormalize_Idempotent(t *testing.T) {
	roles := []string{"manager", "agent"}

	first := Normalize(roles)
	second := Normalize(roles)

	assert.Equal(t, first, second)
	// Input must not be mutated.
	assert.Equal(t, []string{"manager", "agent"}, roles)
}
