// internal/identity/directory.go
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recruiting-backoffice/internal/common/auth"
	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/models"

	"github.com/redis/go-redis/v9"
)

const directoryCacheKey = "identity:directory"

// KeycloakAPI abstracts the admin client for mocking.
type KeycloakAPI interface {
	ListUsers(ctx context.Context) ([]auth.User, error)
	GetUser(ctx context.Context, userID string) (*auth.User, error)
	ListGroups(ctx context.Context) ([]auth.Group, error)
	GetUserGroups(ctx context.Context, userID string) ([]auth.Group, error)
	UpdateUser(ctx context.Context, userID string, update auth.UserUpdate) (*auth.User, error)
	AddUserToGroup(ctx context.Context, userID, groupID string) error
	RemoveUserFromGroup(ctx context.Context, userID, groupID string) error
	DeleteUser(ctx context.Context, userID string) error
}

// Directory exposes the back-office user list with roles resolved from
// Keycloak group membership. Group names are translated to the Role
// enum here and nowhere else.
type Directory struct {
	keycloak KeycloakAPI
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewDirectory(keycloak KeycloakAPI, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *Directory {
	return &Directory{
		keycloak: keycloak,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "directory"}),
	}
}

// roleFromGroups maps group membership to the strongest role present.
func roleFromGroups(groups []auth.Group) models.Role {
	role := models.RoleUser
	for _, g := range groups {
		switch strings.ToLower(g.Name) {
		case "admins", "admin":
			return models.RoleAdmin
		case "hr", "recruiters":
			role = models.RoleHR
		}
	}
	return role
}

func toUser(u *auth.User, groups []auth.Group) *models.User {
	return &models.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Enabled:   u.Enabled,
		Role:      roleFromGroups(groups),
	}
}

// ListUsers returns every directory user with their resolved role. The
// listing is cached in Redis for cacheTTL to keep notification fan-out
// from hammering Keycloak; cache failures fall through to a live fetch.
func (d *Directory) ListUsers(ctx context.Context) ([]*models.User, error) {
	if cached, err := d.cache.Get(ctx, directoryCacheKey).Result(); err == nil {
		var users []*models.User
		if err := json.Unmarshal([]byte(cached), &users); err == nil {
			return users, nil
		}
	}

	raw, err := d.keycloak.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(raw))
	for i := range raw {
		groups, err := d.keycloak.GetUserGroups(ctx, raw[i].ID)
		if err != nil {
			d.logger.Warn("group lookup failed, defaulting role", map[string]interface{}{
				"userId": raw[i].ID,
				"error":  err,
			})
			groups = nil
		}
		users = append(users, toUser(&raw[i], groups))
	}

	if payload, err := json.Marshal(users); err == nil {
		if err := d.cache.Set(ctx, directoryCacheKey, payload, d.cacheTTL).Err(); err != nil {
			d.logger.Warn("directory cache write failed", map[string]interface{}{
				"error": err,
			})
		}
	}

	return users, nil
}

// GetUser returns one directory user with their resolved role.
func (d *Directory) GetUser(ctx context.Context, id string) (*models.User, error) {
	raw, err := d.keycloak.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	groups, err := d.keycloak.GetUserGroups(ctx, id)
	if err != nil {
		d.logger.Warn("group lookup failed, defaulting role", map[string]interface{}{
			"userId": id,
			"error":  err,
		})
		groups = nil
	}

	return toUser(raw, groups), nil
}

// UpdateUser applies a partial update and invalidates the cached
// listing.
func (d *Directory) UpdateUser(ctx context.Context, id string, update auth.UserUpdate) (*models.User, error) {
	if _, err := d.keycloak.UpdateUser(ctx, id, update); err != nil {
		return nil, err
	}
	d.invalidate(ctx)
	return d.GetUser(ctx, id)
}

// roleGroup reports whether a group name carries a role.
func roleGroup(name string) bool {
	switch strings.ToLower(name) {
	case "admins", "admin", "hr", "recruiters":
		return true
	}
	return false
}

// SetRole moves a user between the role-bearing realm groups so their
// resolved role matches the target. RoleUser means membership in no
// role group.
func (d *Directory) SetRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	current, err := d.keycloak.GetUserGroups(ctx, id)
	if err != nil {
		return nil, err
	}

	var target *auth.Group
	if role != models.RoleUser {
		groups, err := d.keycloak.ListGroups(ctx)
		if err != nil {
			return nil, err
		}
		for i := range groups {
			if roleFromGroups(groups[i : i+1]) == role {
				target = &groups[i]
				break
			}
		}
		if target == nil {
			return nil, stderrors.NewNotFoundError("group for role", string(role))
		}
	}

	for _, g := range current {
		if !roleGroup(g.Name) {
			continue
		}
		if target != nil && g.ID == target.ID {
			target = nil
			continue
		}
		if err := d.keycloak.RemoveUserFromGroup(ctx, id, g.ID); err != nil {
			return nil, err
		}
	}
	if target != nil {
		if err := d.keycloak.AddUserToGroup(ctx, id, target.ID); err != nil {
			return nil, err
		}
	}

	d.invalidate(ctx)
	return d.GetUser(ctx, id)
}

// DeleteUser removes a directory user and invalidates the cached
// listing.
func (d *Directory) DeleteUser(ctx context.Context, id string) error {
	if err := d.keycloak.DeleteUser(ctx, id); err != nil {
		return err
	}
	d.invalidate(ctx)
	return nil
}

// NotificationRecipients returns the addresses of enabled HR and admin
// users per the notify flags, excluding the given address, in
// name-address form ("Jane Doe <jane@example.com>"). Used by the
// application fan-out.
func (d *Directory) NotificationRecipients(ctx context.Context, includeHR, includeAdmin bool, excludeEmail string) ([]string, error) {
	users, err := d.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var recipients []string
	for _, u := range users {
		if !u.Enabled || u.Email == "" {
			continue
		}
		if strings.EqualFold(u.Email, excludeEmail) {
			continue
		}
		if (includeHR && u.Role == models.RoleHR) || (includeAdmin && u.Role == models.RoleAdmin) {
			recipients = append(recipients, fmt.Sprintf("%s <%s>", u.DisplayName(), u.Email))
		}
	}
	return recipients, nil
}

func (d *Directory) invalidate(ctx context.Context) {
	if err := d.cache.Del(ctx, directoryCacheKey).Err(); err != nil {
		d.logger.Warn("directory cache invalidation failed", map[string]interface{}{
			"error": err,
		})
	}
}
