package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

// PostgresCommentRepository implements CommentRepository using PostgreSQL.
type PostgresCommentRepository struct {
	db Querier
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository.
func NewPostgresCommentRepository(db Querier) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

const commentColumns = `id, post_id, author_id, parent_id, body, status, created_at`

// GetByID returns the comment or (nil, nil) when absent.
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id).
		Scan(&c.ID, &c.PostID, &c.AuthorID, &c.ParentID, &c.Body, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &c, nil
}

// ListApprovedByPost returns one page of approved top-level comments.
// Replies are loaded separately through ListReplies.
func (r *PostgresCommentRepository) ListApprovedByPost(ctx context.Context, postID string, page domain.PageRequest) (*domain.Page[domain.Comment], error) {
	page = page.Normalize()

	var total int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM comments WHERE post_id = $1 AND parent_id IS NULL AND status = 'approved'`, postID).
		Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1 AND parent_id IS NULL AND status = 'approved'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, postID, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	items, err := collectComments(rows)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, page), nil
}

// ListByPost returns every comment of the post, replies included.
func (r *PostgresCommentRepository) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments by post: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

// ListReplies returns the direct children of a comment.
func (r *PostgresCommentRepository) ListReplies(ctx context.Context, parentID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE parent_id = $1 ORDER BY created_at`, parentID)
	if err != nil {
		return nil, fmt.Errorf("query replies: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

// ListByAuthor returns every comment written by the author.
func (r *PostgresCommentRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE author_id = $1 ORDER BY created_at`, authorID)
	if err != nil {
		return nil, fmt.Errorf("query comments by author: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

func collectComments(rows pgx.Rows) ([]domain.Comment, error) {
	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.ParentID, &c.Body, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Create inserts a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO comments (id, post_id, author_id, parent_id, body, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.PostID, c.AuthorID, c.ParentID, c.Body, c.Status, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// UpdateStatus writes the moderation status and the refreshed timestamp.
func (r *PostgresCommentRepository) UpdateStatus(ctx context.Context, id string, status domain.CommentStatus, createdAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE comments SET status = $2, created_at = $3 WHERE id = $1`, id, status, createdAt)
	if err != nil {
		return fmt.Errorf("update comment status: %w", err)
	}
	return nil
}

// Delete removes the comment row. Absent rows are a no-op.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
