package odoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{BaseURL: baseURL, Database: "odoo17_2"})
	require.NoError(t, err)
	return client
}

func TestClient_Authenticate_Success(t *testing.T) {
	var captured struct {
		JSONRPC string `json:"jsonrpc"`
		Params  struct {
			DB       string `json:"db"`
			Login    string `json:"login"`
			Password string `json:"password"`
		} `json:"params"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/web/session/authenticate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"uid":42,"session_id":"sess-abc","username":"jdupont"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	handle, err := client.Authenticate(context.Background(), domainauth.Credentials{
		Login:    "jdupont",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "2.0", captured.JSONRPC)
	assert.Equal(t, "odoo17_2", captured.Params.DB)
	assert.Equal(t, "jdupont", captured.Params.Login)
	assert.Equal(t, "secret", captured.Params.Password)

	assert.Equal(t, domainauth.SessionHandle{SessionID: "sess-abc", UserID: 42}, handle)
}

func TestClient_Authenticate_SessionIDFromCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "cookie-sess"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"uid":7}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	handle, err := client.Authenticate(context.Background(), domainauth.Credentials{Login: "a", Password: "b"})
	require.NoError(t, err)
	assert.Equal(t, "cookie-sess", handle.SessionID)
	assert.Equal(t, 7, handle.UserID)
}

func TestClient_Authenticate_BackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"Odoo Server Error","data":{"message":"Access Denied"}}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Authenticate(context.Background(), domainauth.Credentials{Login: "a", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthenticationFailed(err))
	assert.Contains(t, err.Error(), "Access Denied")
}

func TestClient_Authenticate_MissingUID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Odoo answers a wrong-database login with a false/null result.
		_, _ = w.Write([]byte(`{"result":null}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Authenticate(context.Background(), domainauth.Credentials{Login: "a", Password: "b"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthenticationFailed(err))
	assert.Contains(t, err.Error(), "missing user id")
}

func TestClient_Authenticate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Authenticate(context.Background(), domainauth.Credentials{Login: "a", Password: "b"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthenticationFailed(err))
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestClient_FetchProfile_Flat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/me", r.URL.Path)
		cookie, err := r.Cookie(SessionCookieName)
		require.NoError(t, err)
		require.Equal(t, "sess-abc", cookie.Value)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"uid": 42,
			"name": "Jean Dupont",
			"username": "jdupont",
			"roles": ["agent", "manager"],
			"department_id": 3,
			"department_name": "Objets Trouvés"
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	profile, err := client.FetchProfile(context.Background(), domainauth.SessionHandle{SessionID: "sess-abc", UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, 42, profile.UserID)
	assert.Equal(t, "Jean Dupont", profile.DisplayName)
	assert.Equal(t, "jdupont", profile.Username)
	assert.Equal(t, []string{"agent", "manager"}, profile.Roles)
	require.NotNil(t, profile.DepartmentID)
	assert.Equal(t, 3, *profile.DepartmentID)
	require.NotNil(t, profile.DepartmentName)
	assert.Equal(t, "Objets Trouvés", *profile.DepartmentName)
}

func TestClient_FetchProfile_ResultWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"uid":9,"name":"Wrapped","username":"wrapped","roles":[]}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	profile, err := client.FetchProfile(context.Background(), domainauth.SessionHandle{SessionID: "s", UserID: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, profile.UserID)
	assert.Equal(t, "Wrapped", profile.DisplayName)
}

func TestClient_FetchProfile_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.FetchProfile(context.Background(), domainauth.SessionHandle{SessionID: "s", UserID: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsProfileFetchFailed(err))
}

func TestClient_FetchProfile_MissingUID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"No UID"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.FetchProfile(context.Background(), domainauth.SessionHandle{SessionID: "s", UserID: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsProfileFetchFailed(err))
}

func TestClient_Destroy(t *testing.T) {
	destroyed := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/web/session/destroy", r.URL.Path)
		cookie, err := r.Cookie(SessionCookieName)
		require.NoError(t, err)
		require.Equal(t, "sess-abc", cookie.Value)
		destroyed = true
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	require.NoError(t, client.Destroy(context.Background(), domainauth.SessionHandle{SessionID: "sess-abc"}))
	assert.True(t, destroyed)
}

func TestClient_Destroy_NoSession(t *testing.T) {
	client := newTestClient(t, "http://localhost:1") // never dialed

	assert.NoError(t, client.Destroy(context.Background(), domainauth.SessionHandle{}))
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(ClientConfig{Database: "db"})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{BaseURL: "http://localhost:8069"})
	assert.Error(t, err)
}
