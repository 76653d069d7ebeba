package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

// PostgresTagRepository implements TagRepository using PostgreSQL.
type PostgresTagRepository struct {
	db Querier
}

// NewPostgresTagRepository creates a new PostgresTagRepository.
func NewPostgresTagRepository(db Querier) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

// GetByID returns the tag or (nil, nil) when absent.
func (r *PostgresTagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	var t domain.Tag
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan tag: %w", err)
	}
	return &t, nil
}

// GetByName returns the tag with the exact name, or (nil, nil) when absent.
func (r *PostgresTagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	var t domain.Tag
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM tags WHERE name = $1 LIMIT 1`, name).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan tag by name: %w", err)
	}
	return &t, nil
}

// ListPaged returns one page of all tags.
func (r *PostgresTagRepository) ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Tag], error) {
	page = page.Normalize()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tags`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM tags ORDER BY name LIMIT $1 OFFSET $2`, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	items, err := collectTags(rows)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, page), nil
}

// ListByPost returns every tag attached to the post.
func (r *PostgresTagRepository) ListByPost(ctx context.Context, postID string) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.created_at FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name`, postID)
	if err != nil {
		return nil, fmt.Errorf("query tags by post: %w", err)
	}
	defer rows.Close()
	return collectTags(rows)
}

// ListPostIDs returns the ids of every post referencing the tag.
func (r *PostgresTagRepository) ListPostIDs(ctx context.Context, tagID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT post_id FROM post_tags WHERE tag_id = $1`, tagID)
	if err != nil {
		return nil, fmt.Errorf("query posts by tag: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectTags(rows pgx.Rows) ([]domain.Tag, error) {
	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Create inserts a new tag.
func (r *PostgresTagRepository) Create(ctx context.Context, t *domain.Tag) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tags (id, name, created_at) VALUES ($1, $2, $3)`, t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// Delete removes the tag row.
func (r *PostgresTagRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// DetachAllPosts removes every post attachment of the tag.
func (r *PostgresTagRepository) DetachAllPosts(ctx context.Context, tagID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_tags WHERE tag_id = $1`, tagID); err != nil {
		return fmt.Errorf("detach all posts: %w", err)
	}
	return nil
}
