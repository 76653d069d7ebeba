package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

// PostgresPostRepository implements PostRepository using PostgreSQL.
type PostgresPostRepository struct {
	db Querier
}

// NewPostgresPostRepository creates a new PostgresPostRepository.
func NewPostgresPostRepository(db Querier) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

const postColumns = `p.id, p.title, p.content, p.author_id, p.podcast_id, p.status, p.published_at, p.views,
	(SELECT count(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
	p.created_at, p.updated_at`

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.PodcastID, &p.Status,
		&p.PublishedAt, &p.Views, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}

// GetByID returns the post or (nil, nil) when absent.
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id)
	return scanPost(row)
}

// GetByPodcastID returns the one post referencing the podcast, if any.
func (r *PostgresPostRepository) GetByPodcastID(ctx context.Context, podcastID string) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.podcast_id = $1`, podcastID)
	return scanPost(row)
}

// ListFeed returns one page of the selected feed, filtered and ordered.
func (r *PostgresPostRepository) ListFeed(ctx context.Context, filter domain.PostFilter, feed domain.FeedType, requesterID string) (*domain.Page[domain.Post], error) {
	page := filter.PageRequest.Normalize()

	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch feed {
	case domain.FeedPublished:
		where = append(where, "p.status = 'published'", "p.author_id = "+arg(requesterID))
	case domain.FeedScheduled:
		where = append(where, "p.status = 'scheduled'", "p.author_id = "+arg(requesterID))
	case domain.FeedDraft:
		where = append(where, "p.status = 'draft'", "p.author_id = "+arg(requesterID))
	case domain.FeedRecommended:
		where = append(where, "p.status = 'published'",
			"p.author_id IN (SELECT s.author_id FROM user_subscriptions s WHERE s.subscriber_id = "+arg(requesterID)+")")
	default: // FeedAll
		where = append(where, "p.status = 'published'")
	}

	if filter.Date != "" {
		if date, err := time.Parse("2006-01-02", filter.Date); err == nil {
			where = append(where, "p.published_at::date = "+arg(date))
		}
	}
	if filter.Author != "" {
		where = append(where, "p.author_id IN (SELECT u.id FROM users u WHERE u.name = "+arg(filter.Author)+")")
	}
	if filter.Content != "" {
		where = append(where, "p.content ILIKE "+arg("%"+filter.Content+"%"))
	}
	if filter.Tags != "" {
		var names []string
		for _, t := range strings.FieldsFunc(filter.Tags, func(r rune) bool {
			return r == '#' || r == ',' || r == ' '
		}) {
			if t = strings.TrimSpace(t); t != "" {
				names = append(names, t)
			}
		}
		if len(names) > 0 {
			where = append(where,
				"EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.name = ANY("+arg(names)+"))")
		}
	}
	if filter.DurationMin != nil {
		// Podcast length match with a five minute tolerance.
		secs := *filter.DurationMin * 60
		where = append(where,
			"p.podcast_id IN (SELECT pc.id FROM podcasts pc WHERE pc.duration BETWEEN "+arg(secs-300)+" AND "+arg(secs+300)+")")
	}

	orderBy := "p.published_at DESC NULLS LAST"
	switch filter.SortBy {
	case domain.SortDateAsc:
		orderBy = "p.published_at ASC NULLS LAST"
	case domain.SortLikesAsc:
		orderBy = "like_count ASC"
	case domain.SortLikesDesc:
		orderBy = "like_count DESC"
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM posts p WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count feed: %w", err)
	}

	query := "SELECT " + postColumns + " FROM posts p WHERE " + cond +
		" ORDER BY " + orderBy +
		" LIMIT " + arg(page.PageSize) + " OFFSET " + arg(page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	items, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, page), nil
}

// ListScheduledDue returns scheduled posts whose publish timestamp has elapsed.
func (r *PostgresPostRepository) ListScheduledDue(ctx context.Context, now time.Time) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.status = 'scheduled' AND p.published_at <= $1`, now)
	if err != nil {
		return nil, fmt.Errorf("query scheduled posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListByAuthor returns every post owned by the author.
func (r *PostgresPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.author_id = $1 ORDER BY p.created_at`, authorID)
	if err != nil {
		return nil, fmt.Errorf("query posts by author: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]domain.Post, error) {
	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.PodcastID, &p.Status,
			&p.PublishedAt, &p.Views, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Create inserts a new post.
func (r *PostgresPostRepository) Create(ctx context.Context, p *domain.Post) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO posts (id, title, content, author_id, podcast_id, status, published_at, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Title, p.Content, p.AuthorID, p.PodcastID, p.Status, p.PublishedAt, p.Views, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// Update writes the post's mutable fields.
func (r *PostgresPostRepository) Update(ctx context.Context, p *domain.Post) error {
	_, err := r.db.Exec(ctx, `
		UPDATE posts SET title = $2, content = $3, podcast_id = $4, status = $5, published_at = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Title, p.Content, p.PodcastID, p.Status, p.PublishedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes the post row. Absent rows are a no-op.
func (r *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter atomically and returns the new value.
func (r *PostgresPostRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	err := r.db.QueryRow(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// ClearPodcastRef detaches the podcast from whichever post references it.
func (r *PostgresPostRepository) ClearPodcastRef(ctx context.Context, podcastID string) error {
	if _, err := r.db.Exec(ctx, `UPDATE posts SET podcast_id = NULL WHERE podcast_id = $1`, podcastID); err != nil {
		return fmt.Errorf("clear podcast ref: %w", err)
	}
	return nil
}

// ReplaceTags rewrites the post's tag attachments.
func (r *PostgresPostRepository) ReplaceTags(ctx context.Context, postID string, tagIDs []string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("detach tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, tagID); err != nil {
			return fmt.Errorf("attach tag: %w", err)
		}
	}
	return nil
}

// DetachAllTags removes every tag attachment of the post.
func (r *PostgresPostRepository) DetachAllTags(ctx context.Context, postID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("detach all tags: %w", err)
	}
	return nil
}

// LikeExists reports whether the like edge is present.
func (r *PostgresPostRepository) LikeExists(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM post_likes WHERE user_id = $1 AND post_id = $2)`, userID, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}

// AddLike inserts the like edge.
func (r *PostgresPostRepository) AddLike(ctx context.Context, userID, postID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO post_likes (user_id, post_id, created_at) VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`,
		userID, postID)
	if err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

// RemoveLike deletes the like edge.
func (r *PostgresPostRepository) RemoveLike(ctx context.Context, userID, postID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}
	return nil
}

// RemoveLikesByPost deletes every like edge of the post.
func (r *PostgresPostRepository) RemoveLikesByPost(ctx context.Context, postID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("remove likes by post: %w", err)
	}
	return nil
}

// RemoveLikesByUser deletes every like edge the user is party to.
func (r *PostgresPostRepository) RemoveLikesByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_likes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("remove likes by user: %w", err)
	}
	return nil
}

// CountLikes returns the number of like edges on the post.
func (r *PostgresPostRepository) CountLikes(ctx context.Context, postID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
