package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginAuditQuery_Normalize(t *testing.T) {
	q := LoginAuditQuery{Username: "  jdupont ", Event: " login ", Limit: -1, Offset: -3}
	q.Normalize()

	assert.Equal(t, "jdupont", q.Username)
	assert.Equal(t, "login", q.Event)
	assert.Equal(t, 50, q.Limit)
	assert.Equal(t, 0, q.Offset)

	q = LoginAuditQuery{Limit: 10000}
	q.Normalize()
	assert.Equal(t, 500, q.Limit)
}

func TestLoginAuditQuery_Validate(t *testing.T) {
	for _, event := range []string{"", "login", "login_failed", "logout", "session_expired"} {
		q := LoginAuditQuery{Event: event}
		assert.NoError(t, q.Validate(), "event %q", event)
	}

	q := LoginAuditQuery{Event: "password_reset"}
	assert.Error(t, q.Validate())
}
