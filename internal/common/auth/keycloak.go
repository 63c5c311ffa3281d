// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recruiting-backoffice/internal/common/errors"
	commonhttp "recruiting-backoffice/internal/common/http"
)

// KeycloakClient provides methods to interact with Keycloak for user
// administration via the admin REST API.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *commonhttp.Client
	accessToken  string
	tokenExpiry  time.Time
}

// User represents a user in Keycloak.
type User struct {
	ID            string `json:"id,omitempty"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username"`
	Enabled       bool   `json:"enabled"`
	EmailVerified bool   `json:"emailVerified"`
}

// Group represents a realm group.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// UserUpdate carries the mutable fields of a user record. Nil pointers
// leave the corresponding field untouched.
type UserUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// TokenResponse holds the response from Keycloak's token endpoint.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	RefreshToken     string `json:"refresh_token"`
	Scope            string `json:"scope"`
}

// NewKeycloakClient creates a new instance of KeycloakClient.
func NewKeycloakClient(baseURL, realm, clientID, clientSecret string) *KeycloakClient {
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   commonhttp.NewClient(30 * time.Second),
	}
}

// getAccessToken fetches a new access token using the client credentials flow.
// It caches the token until expiry.
func (k *KeycloakClient) getAccessToken(ctx context.Context) error {
	if k.tokenExpiry.After(time.Now()) && k.accessToken != "" {
		return nil
	}

	tokenURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", k.baseURL, k.realm)

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequest("POST", tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to execute token request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return fmt.Errorf("keycloak token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp TokenResponse
	if err := commonhttp.DecodeJSON(resp, &tokenResp); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	k.accessToken = tokenResp.AccessToken
	k.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return nil
}

// adminRequest performs an authenticated admin API call and returns the
// response. The caller owns the body.
func (k *KeycloakClient) adminRequest(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	if err := k.getAccessToken(ctx); err != nil {
		return nil, &errors.StandardError{
			Code:      "KEYCLOAK_AUTH_ERROR",
			Message:   "Failed to authenticate with Keycloak",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now().UTC(),
		}
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, &errors.StandardError{
				Code:      "SERIALIZATION_ERROR",
				Message:   "Failed to serialize request payload",
				Details:   err.Error(),
				Retryable: false,
				Timestamp: time.Now().UTC(),
			}
		}
		body = strings.NewReader(string(jsonData))
	}

	reqURL := fmt.Sprintf("%s/admin/realms/%s%s", k.baseURL, k.realm, path)

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "HTTP_REQUEST_ERROR",
			Message:   "Failed to create HTTP request",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+k.accessToken)

	resp, err := k.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "NETWORK_ERROR",
			Message:   "Failed to send request to Keycloak",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now().UTC(),
		}
	}

	return resp, nil
}

// apiError converts a non-success admin API response into a
// StandardError. It consumes and closes the body.
func (k *KeycloakClient) apiError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return &errors.StandardError{
		Code:      "KEYCLOAK_API_ERROR",
		Message:   fmt.Sprintf("Keycloak API error during %s", operation),
		Details:   fmt.Sprintf("status: %d, body: %s", resp.StatusCode, string(body)),
		Retryable: k.isTransientHTTPError(resp.StatusCode),
		Timestamp: time.Now().UTC(),
	}
}

// decodeBody decodes a success response body into dst and closes it.
func decodeBody(what string, resp *http.Response, dst interface{}) error {
	if err := commonhttp.DecodeJSON(resp, dst); err != nil {
		return &errors.StandardError{
			Code:      "DESERIALIZATION_ERROR",
			Message:   "Failed to decode " + what,
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}
	return nil
}

// ListUsers returns every user in the realm.
func (k *KeycloakClient) ListUsers(ctx context.Context) ([]User, error) {
	resp, err := k.adminRequest(ctx, "GET", "/users?max=1000", nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, k.apiError("user listing", resp)
	}

	var users []User
	if err := decodeBody("user list", resp, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser retrieves a user by their unique ID.
func (k *KeycloakClient) GetUser(ctx context.Context, userID string) (*User, error) {
	resp, err := k.adminRequest(ctx, "GET", "/users/"+userID, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, &errors.StandardError{
			Code:      "USER_NOT_FOUND",
			Message:   "User not found",
			Details:   fmt.Sprintf("No user found with id: %s", userID),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, k.apiError("user retrieval", resp)
	}

	var user User
	if err := decodeBody("user details", resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// ListGroups returns every top-level realm group.
func (k *KeycloakClient) ListGroups(ctx context.Context) ([]Group, error) {
	resp, err := k.adminRequest(ctx, "GET", "/groups", nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, k.apiError("group listing", resp)
	}

	var groups []Group
	if err := decodeBody("group list", resp, &groups); err != nil {
		return nil, err
	}

	return groups, nil
}

// GetUserGroups returns the groups a user belongs to.
func (k *KeycloakClient) GetUserGroups(ctx context.Context, userID string) ([]Group, error) {
	resp, err := k.adminRequest(ctx, "GET", "/users/"+userID+"/groups", nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, k.apiError("group lookup", resp)
	}

	var groups []Group
	if err := decodeBody("group list", resp, &groups); err != nil {
		return nil, err
	}

	return groups, nil
}

// UpdateUser applies a partial update to a user record. Keycloak's
// update endpoint replaces the representation, so the current record is
// fetched first and the supplied fields are merged into it.
func (k *KeycloakClient) UpdateUser(ctx context.Context, userID string, update UserUpdate) (*User, error) {
	user, err := k.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Enabled != nil {
		user.Enabled = *update.Enabled
	}

	resp, err := k.adminRequest(ctx, "PUT", "/users/"+userID, user)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusNoContent {
		return nil, k.apiError("user update", resp)
	}
	resp.Body.Close()

	return user, nil
}

// AddUserToGroup adds a user to a realm group.
func (k *KeycloakClient) AddUserToGroup(ctx context.Context, userID, groupID string) error {
	resp, err := k.adminRequest(ctx, "PUT", "/users/"+userID+"/groups/"+groupID, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusNoContent {
		return k.apiError("group assignment", resp)
	}
	resp.Body.Close()
	return nil
}

// RemoveUserFromGroup removes a user from a realm group.
func (k *KeycloakClient) RemoveUserFromGroup(ctx context.Context, userID, groupID string) error {
	resp, err := k.adminRequest(ctx, "DELETE", "/users/"+userID+"/groups/"+groupID, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusNoContent {
		return k.apiError("group removal", resp)
	}
	resp.Body.Close()
	return nil
}

// DeleteUser deletes a user by their unique ID.
func (k *KeycloakClient) DeleteUser(ctx context.Context, userID string) error {
	resp, err := k.adminRequest(ctx, "DELETE", "/users/"+userID, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return &errors.StandardError{
			Code:      "USER_NOT_FOUND",
			Message:   "User not found",
			Details:   fmt.Sprintf("No user found with id: %s", userID),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}
	if resp.StatusCode != http.StatusNoContent {
		return k.apiError("user deletion", resp)
	}
	resp.Body.Close()

	return nil
}

// isTransientHTTPError returns true if the HTTP status code indicates a potentially transient error.
func (k *KeycloakClient) isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
