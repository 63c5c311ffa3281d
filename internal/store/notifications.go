// internal/store/notifications.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"recruiting-backoffice/internal/common/logger"
	"recruiting-backoffice/internal/models"
)

// NotificationStore persists the in-app activity feed.
type NotificationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewNotificationStore(db *sql.DB, log logger.Logger) *NotificationStore {
	return &NotificationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "notifications"}),
	}
}

// Create inserts a new activity-feed record.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, type, title, message, link, related_id, read, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.Type, n.Title, n.Message, n.Link, n.RelatedID, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns activity-feed records, newest first.
func (s *NotificationStore) List(ctx context.Context) ([]*models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, message, link, related_id, read, created_at
		FROM notifications
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.Type, &n.Title, &n.Message,
			&n.Link, &n.RelatedID, &n.Read, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkRead flags a notification as read.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark read rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
