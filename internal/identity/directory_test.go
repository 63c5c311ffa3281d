// internal/identity/directory_test.go
package identity

import (
	"context"
	"testing"
	"time"

	"recruiting-backoffice/internal/common/auth"
	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type mockKeycloak struct {
	users       []auth.User
	groups      map[string][]auth.Group
	realmGroups []auth.Group
	listCalls   int
	added       []string
	removed     []string
}

func (m *mockKeycloak) ListUsers(ctx context.Context) ([]auth.User, error) {
	m.listCalls++
	return m.users, nil
}

func (m *mockKeycloak) GetUser(ctx context.Context, userID string) (*auth.User, error) {
	for i := range m.users {
		if m.users[i].ID == userID {
			return &m.users[i], nil
		}
	}
	return nil, assert.AnError
}

func (m *mockKeycloak) ListGroups(ctx context.Context) ([]auth.Group, error) {
	return m.realmGroups, nil
}

func (m *mockKeycloak) GetUserGroups(ctx context.Context, userID string) ([]auth.Group, error) {
	return m.groups[userID], nil
}

func (m *mockKeycloak) AddUserToGroup(ctx context.Context, userID, groupID string) error {
	m.added = append(m.added, userID+":"+groupID)
	m.groups[userID] = append(m.groups[userID], auth.Group{ID: groupID, Name: groupName(m.realmGroups, groupID)})
	return nil
}

func (m *mockKeycloak) RemoveUserFromGroup(ctx context.Context, userID, groupID string) error {
	m.removed = append(m.removed, userID+":"+groupID)
	var kept []auth.Group
	for _, g := range m.groups[userID] {
		if g.ID != groupID {
			kept = append(kept, g)
		}
	}
	m.groups[userID] = kept
	return nil
}

func groupName(groups []auth.Group, id string) string {
	for _, g := range groups {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}

func (m *mockKeycloak) UpdateUser(ctx context.Context, userID string, update auth.UserUpdate) (*auth.User, error) {
	return m.GetUser(ctx, userID)
}

func (m *mockKeycloak) DeleteUser(ctx context.Context, userID string) error {
	return nil
}

func testDirectory(t *testing.T) (*Directory, *mockKeycloak) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	kc := &mockKeycloak{
		users: []auth.User{
			{ID: "u1", Username: "admin1", Email: "admin@example.com", Enabled: true},
			{ID: "u2", Username: "hr1", Email: "hr@example.com", FirstName: "Harper", LastName: "Reed", Enabled: true},
			{ID: "u3", Username: "plain", Email: "user@example.com", Enabled: true},
			{ID: "u4", Username: "disabled-hr", Email: "off@example.com", Enabled: false},
		},
		groups: map[string][]auth.Group{
			"u1": {{ID: "g1", Name: "admins"}},
			"u2": {{ID: "g2", Name: "hr"}},
			"u4": {{ID: "g2", Name: "hr"}},
		},
		realmGroups: []auth.Group{
			{ID: "g1", Name: "admins"},
			{ID: "g2", Name: "hr"},
		},
	}

	return NewDirectory(kc, cache, time.Minute, logger.NewNoOpLogger()), kc
}

// ==========================
// Core Functionality Tests
// ==========================

func TestDirectory_RoleMapping(t *testing.T) {
	dir, _ := testDirectory(t)

	users, err := dir.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 4)

	byID := map[string]models.Role{}
	for _, u := range users {
		byID[u.ID] = u.Role
	}

	assert.Equal(t, models.RoleAdmin, byID["u1"])
	assert.Equal(t, models.RoleHR, byID["u2"])
	assert.Equal(t, models.RoleUser, byID["u3"])
}

func TestDirectory_ListUsers_UsesCache(t *testing.T) {
	dir, kc := testDirectory(t)

	_, err := dir.ListUsers(context.Background())
	require.NoError(t, err)
	_, err = dir.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, kc.listCalls)
}

func TestDirectory_ListUsers_CacheDownFallsThrough(t *testing.T) {
	cache, mock := redismock.NewClientMock()
	t.Cleanup(func() { cache.Close() })
	mock.ExpectGet(directoryCacheKey).SetErr(assert.AnError)
	mock.Regexp().ExpectSet(directoryCacheKey, `.*`, time.Minute).SetErr(assert.AnError)

	kc := &mockKeycloak{
		users:  []auth.User{{ID: "u1", Username: "admin1", Email: "admin@example.com", Enabled: true}},
		groups: map[string][]auth.Group{"u1": {{ID: "g1", Name: "admins"}}},
	}
	dir := NewDirectory(kc, cache, time.Minute, logger.NewNoOpLogger())

	users, err := dir.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectory_NotificationRecipients(t *testing.T) {
	dir, _ := testDirectory(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		includeHR    bool
		includeAdmin bool
		exclude      string
		want         []string
	}{
		{
			name:      "hr only, disabled users skipped",
			includeHR: true,
			want:      []string{"Harper Reed <hr@example.com>"},
		},
		{
			name:         "hr and admin",
			includeHR:    true,
			includeAdmin: true,
			want:         []string{"admin1 <admin@example.com>", "Harper Reed <hr@example.com>"},
		},
		{
			name:         "owner excluded",
			includeHR:    true,
			includeAdmin: true,
			exclude:      "hr@example.com",
			want:         []string{"admin1 <admin@example.com>"},
		},
		{
			name: "no flags, nobody",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dir.NotificationRecipients(ctx, tt.includeHR, tt.includeAdmin, tt.exclude)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestDirectory_SetRole_SwapsGroupMembership(t *testing.T) {
	dir, kc := testDirectory(t)
	ctx := context.Background()

	user, err := dir.SetRole(ctx, "u2", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, []string{"u2:g2"}, kc.removed)
	assert.Equal(t, []string{"u2:g1"}, kc.added)
}

func TestDirectory_SetRole_UserMeansNoRoleGroups(t *testing.T) {
	dir, kc := testDirectory(t)

	user, err := dir.SetRole(context.Background(), "u1", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, []string{"u1:g1"}, kc.removed)
	assert.Empty(t, kc.added)
}

func TestDirectory_SetRole_AlreadyInTargetGroup(t *testing.T) {
	dir, kc := testDirectory(t)

	user, err := dir.SetRole(context.Background(), "u2", models.RoleHR)
	require.NoError(t, err)
	assert.Equal(t, models.RoleHR, user.Role)
	assert.Empty(t, kc.removed)
	assert.Empty(t, kc.added)
}

func TestDirectory_UpdateInvalidatesCache(t *testing.T) {
	dir, kc := testDirectory(t)
	ctx := context.Background()

	_, err := dir.ListUsers(ctx)
	require.NoError(t, err)

	enabled := false
	_, err = dir.UpdateUser(ctx, "u2", auth.UserUpdate{Enabled: &enabled})
	require.NoError(t, err)

	_, err = dir.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, kc.listCalls)
}
