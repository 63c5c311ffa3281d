// internal/common/auth/keycloak_test.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recruiting-backoffice/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// fakeRealm serves the token endpoint plus a handful of admin routes.
func fakeRealm(t *testing.T) (*httptest.Server, *KeycloakClient) {
	mux := http.NewServeMux()

	mux.HandleFunc("/realms/test/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok-1", ExpiresIn: 300})
	})

	mux.HandleFunc("/admin/realms/test/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]User{
			{ID: "u1", Username: "admin1", Email: "admin@example.com", Enabled: true},
			{ID: "u2", Username: "hr1", Email: "hr@example.com", Enabled: true},
		})
	})

	mux.HandleFunc("/admin/realms/test/users/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, NewKeycloakClient(srv.URL, "test", "client", "secret")
}

// ==========================
// Core Functionality Tests
// ==========================

func TestKeycloakClient_ListUsers(t *testing.T) {
	_, client := fakeRealm(t)

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin1", users[0].Username)
	assert.Equal(t, "hr@example.com", users[1].Email)
}

func TestKeycloakClient_GetUser_NotFound(t *testing.T) {
	_, client := fakeRealm(t)

	_, err := client.GetUser(context.Background(), "missing")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, "USER_NOT_FOUND", string(stdErr.Code))
}

func TestKeycloakClient_TokenReusedUntilExpiry(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/test/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok-1", ExpiresIn: 300})
	})
	mux.HandleFunc("/admin/realms/test/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]User{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewKeycloakClient(srv.URL, "test", "client", "secret")

	_, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	_, err = client.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}
