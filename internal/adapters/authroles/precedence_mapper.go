package authroles

import (
	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
)

// PrecedenceMapper implements the RoleMapper port with the fixed precedence
// order defined in the auth domain. It exists as an adapter so tests and
// alternative deployments can swap the mapping without touching the service.
type PrecedenceMapper struct{}

func (PrecedenceMapper) Map(roles []string) domainauth.RoleProfile {
	return domainauth.Normalize(roles)
}
