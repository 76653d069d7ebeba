package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

// PostgresUserRepository implements UserRepository using PostgreSQL.
type PostgresUserRepository struct {
	db Querier
}

// NewPostgresUserRepository creates a new PostgresUserRepository.
func NewPostgresUserRepository(db Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, name, email, email_notify, role, created_at, updated_at`

// GetByID returns the user or (nil, nil) when absent.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.EmailNotify, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// ListPaged returns one page of all users.
func (r *PostgresUserRepository) ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.User], error) {
	page = page.Normalize()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY name LIMIT $1 OFFSET $2`, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	items, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, page), nil
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.EmailNotify, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a new user.
func (r *PostgresUserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, email_notify, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.EmailNotify, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update writes the user's mutable fields.
func (r *PostgresUserRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET name = $2, email = $3, email_notify = $4, role = $5, updated_at = $6
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.EmailNotify, u.Role, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes the user row.
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// SubscriptionExists reports whether the subscription edge is present.
func (r *PostgresUserRepository) SubscriptionExists(ctx context.Context, subscriberID, authorID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_subscriptions WHERE subscriber_id = $1 AND author_id = $2)`,
		subscriberID, authorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return exists, nil
}

// AddSubscription inserts the subscription edge.
func (r *PostgresUserRepository) AddSubscription(ctx context.Context, subscriberID, authorID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_subscriptions (subscriber_id, author_id, created_at) VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`,
		subscriberID, authorID)
	if err != nil {
		return fmt.Errorf("add subscription: %w", err)
	}
	return nil
}

// RemoveSubscription deletes the subscription edge.
func (r *PostgresUserRepository) RemoveSubscription(ctx context.Context, subscriberID, authorID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM user_subscriptions WHERE subscriber_id = $1 AND author_id = $2`, subscriberID, authorID)
	if err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}

// RemoveSubscriptionsByUser deletes every edge the user is party to, in
// either direction. Because the edge is stored once, this clears both the
// user's subscriptions and their followers without touching a counterpart
// collection.
func (r *PostgresUserRepository) RemoveSubscriptionsByUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM user_subscriptions WHERE subscriber_id = $1 OR author_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("remove subscriptions by user: %w", err)
	}
	return nil
}

// ListFollowers returns the users subscribed to the author.
func (r *PostgresUserRepository) ListFollowers(ctx context.Context, authorID string) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.email, u.email_notify, u.role, u.created_at, u.updated_at
		FROM users u
		JOIN user_subscriptions s ON s.subscriber_id = u.id
		WHERE s.author_id = $1
		ORDER BY u.name`, authorID)
	if err != nil {
		return nil, fmt.Errorf("query followers: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListSubscribedAuthorIDs returns the ids of every author the user follows.
func (r *PostgresUserRepository) ListSubscribedAuthorIDs(ctx context.Context, subscriberID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT author_id FROM user_subscriptions WHERE subscriber_id = $1`, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan author id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
