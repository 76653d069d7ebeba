package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositories binds every repository to the given querier.
func NewRepositories(q Querier) Repositories {
	return Repositories{
		Posts:         NewPostgresPostRepository(q),
		Comments:      NewPostgresCommentRepository(q),
		Tags:          NewPostgresTagRepository(q),
		Users:         NewPostgresUserRepository(q),
		Notifications: NewPostgresNotificationRepository(q),
		Podcasts:      NewPostgresPodcastRepository(q),
	}
}

// PgxUnitOfWork implements UnitOfWork on a pgx connection pool. Each Do call
// is one transaction; the commit is the single flush of the operation.
type PgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPgxUnitOfWork creates a new PgxUnitOfWork.
func NewPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{pool: pool}
}

// Do runs fn inside a transaction, rolling back on error.
func (u *PgxUnitOfWork) Do(ctx context.Context, fn func(r Repositories) error) error {
	// Abort before any write when the caller is already cancelled. Once the
	// transaction has begun the work runs to completion; commit or rollback
	// keeps the cascade state whole either way.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("unit of work: %w", err)
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos returns repositories bound to the pool for autocommit reads.
func (u *PgxUnitOfWork) Repos() Repositories {
	return NewRepositories(u.pool)
}
