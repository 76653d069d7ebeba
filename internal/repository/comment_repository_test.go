package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
)

func newComment(postID, authorID string, parentID *string, at time.Time) *domain.Comment {
	return &domain.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		ParentID:  parentID,
		Body:      "a comment",
		Status:    domain.CommentStatusPending,
		CreatedAt: at,
	}
}

func TestPostgresCommentRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	comments := repository.NewPostgresCommentRepository(testDB.Pool)
	posts := repository.NewPostgresPostRepository(testDB.Pool)
	users := repository.NewPostgresUserRepository(testDB.Pool)
	ctx := context.Background()

	t.Run("approved listing excludes pending and replies", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		author := newUser("Author")
		require.NoError(t, users.Create(ctx, author))
		p := newPost(author.ID, "post", domain.PostStatusPublished)
		require.NoError(t, posts.Create(ctx, p))

		now := time.Now().UTC().Truncate(time.Microsecond)
		approved := newComment(p.ID, author.ID, nil, now.Add(-2*time.Minute))
		approved.Status = domain.CommentStatusApproved
		pending := newComment(p.ID, author.ID, nil, now.Add(-time.Minute))
		reply := newComment(p.ID, author.ID, &approved.ID, now)
		reply.Status = domain.CommentStatusApproved
		for _, c := range []*domain.Comment{approved, pending, reply} {
			require.NoError(t, comments.Create(ctx, c))
		}

		page, err := comments.ListApprovedByPost(ctx, p.ID, domain.PageRequest{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, approved.ID, page.Items[0].ID)
	})

	t.Run("replies are keyed on parent", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		author := newUser("Author")
		require.NoError(t, users.Create(ctx, author))
		p := newPost(author.ID, "post", domain.PostStatusPublished)
		require.NoError(t, posts.Create(ctx, p))

		now := time.Now().UTC().Truncate(time.Microsecond)
		root := newComment(p.ID, author.ID, nil, now)
		r1 := newComment(p.ID, author.ID, &root.ID, now.Add(time.Second))
		r2 := newComment(p.ID, author.ID, &root.ID, now.Add(2*time.Second))
		for _, c := range []*domain.Comment{root, r1, r2} {
			require.NoError(t, comments.Create(ctx, c))
		}

		got, err := comments.ListReplies(ctx, root.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, r1.ID, got[0].ID)
		assert.Equal(t, r2.ID, got[1].ID)

		got, err = comments.ListReplies(ctx, r1.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("update status refreshes the timestamp", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		author := newUser("Author")
		require.NoError(t, users.Create(ctx, author))
		p := newPost(author.ID, "post", domain.PostStatusPublished)
		require.NoError(t, posts.Create(ctx, p))

		c := newComment(p.ID, author.ID, nil, time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond))
		require.NoError(t, comments.Create(ctx, c))

		approvedAt := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, comments.UpdateStatus(ctx, c.ID, domain.CommentStatusApproved, approvedAt))

		got, err := comments.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CommentStatusApproved, got.Status)
		assert.True(t, got.CreatedAt.Equal(approvedAt))
	})

	t.Run("delete leaves siblings alone", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		author := newUser("Author")
		require.NoError(t, users.Create(ctx, author))
		p := newPost(author.ID, "post", domain.PostStatusPublished)
		require.NoError(t, posts.Create(ctx, p))

		now := time.Now().UTC().Truncate(time.Microsecond)
		c1 := newComment(p.ID, author.ID, nil, now)
		c2 := newComment(p.ID, author.ID, nil, now)
		require.NoError(t, comments.Create(ctx, c1))
		require.NoError(t, comments.Create(ctx, c2))

		require.NoError(t, comments.Delete(ctx, c1.ID))

		got, err := comments.GetByID(ctx, c1.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
		got, err = comments.GetByID(ctx, c2.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}
