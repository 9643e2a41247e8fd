package httpx

// GatewaySessionCookie is the cookie carrying the gateway session id.
const GatewaySessionCookie = "session_id"

const (
	loginPath        = "/login"
	unauthorizedPath = "/unauthorized"
)
