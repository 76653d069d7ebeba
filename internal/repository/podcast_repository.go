package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

// PostgresPodcastRepository implements PodcastRepository using PostgreSQL.
type PostgresPodcastRepository struct {
	db Querier
}

// NewPostgresPodcastRepository creates a new PostgresPodcastRepository.
func NewPostgresPodcastRepository(db Querier) *PostgresPodcastRepository {
	return &PostgresPodcastRepository{db: db}
}

const podcastColumns = `id, title, audio_file, transcript, cover_image, duration, bitrate, episode_number, listen_count, created_at`

// GetByID returns the podcast or (nil, nil) when absent.
func (r *PostgresPodcastRepository) GetByID(ctx context.Context, id string) (*domain.Podcast, error) {
	var p domain.Podcast
	err := r.db.QueryRow(ctx, `SELECT `+podcastColumns+` FROM podcasts WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.AudioFile, &p.Transcript, &p.CoverImage,
			&p.Duration, &p.Bitrate, &p.EpisodeNumber, &p.ListenCount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan podcast: %w", err)
	}
	return &p, nil
}

// Create inserts a new podcast.
func (r *PostgresPodcastRepository) Create(ctx context.Context, p *domain.Podcast) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO podcasts (id, title, audio_file, transcript, cover_image, duration, bitrate, episode_number, listen_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Title, p.AudioFile, p.Transcript, p.CoverImage,
		p.Duration, p.Bitrate, p.EpisodeNumber, p.ListenCount, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert podcast: %w", err)
	}
	return nil
}

// Update writes the podcast's mutable fields.
func (r *PostgresPodcastRepository) Update(ctx context.Context, p *domain.Podcast) error {
	_, err := r.db.Exec(ctx, `
		UPDATE podcasts SET title = $2, audio_file = $3, transcript = $4, cover_image = $5,
			duration = $6, bitrate = $7, episode_number = $8
		WHERE id = $1`,
		p.ID, p.Title, p.AudioFile, p.Transcript, p.CoverImage, p.Duration, p.Bitrate, p.EpisodeNumber)
	if err != nil {
		return fmt.Errorf("update podcast: %w", err)
	}
	return nil
}

// Delete removes the podcast row.
func (r *PostgresPodcastRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM podcasts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete podcast: %w", err)
	}
	return nil
}

// IncrementListens bumps the listen counter atomically and returns the new value.
func (r *PostgresPodcastRepository) IncrementListens(ctx context.Context, id string) (int, error) {
	var listens int
	err := r.db.QueryRow(ctx,
		`UPDATE podcasts SET listen_count = listen_count + 1 WHERE id = $1 RETURNING listen_count`, id).
		Scan(&listens)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("increment listens: %w", err)
	}
	return listens, nil
}
