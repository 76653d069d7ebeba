package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

// PostgresNotificationRepository implements NotificationRepository using PostgreSQL.
type PostgresNotificationRepository struct {
	db Querier
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository.
func NewPostgresNotificationRepository(db Querier) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// GetByID returns the notification or (nil, nil) when absent.
func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, message, is_read, created_at FROM notifications WHERE id = $1`, id).
		Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	return &n, nil
}

// ListByUserPaged returns one page of the user's notifications, newest first.
func (r *PostgresNotificationRepository) ListByUserPaged(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.Notification], error) {
	page = page.Normalize()

	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, message, is_read, created_at FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, page), nil
}

// Create inserts a new notification.
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.UserID, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// MarkRead sets the read flag.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// Delete removes the notification row.
func (r *PostgresNotificationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// DeleteByUser removes every notification owned by the user.
func (r *PostgresNotificationRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete notifications by user: %w", err)
	}
	return nil
}
