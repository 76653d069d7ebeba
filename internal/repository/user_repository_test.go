package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
)

func TestPostgresUserRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	repo := repository.NewPostgresUserRepository(testDB.Pool)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		u := newUser("Jo")
		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.Name, got.Name)
		assert.Equal(t, u.Email, got.Email)
		assert.Equal(t, domain.RoleAuthor, got.Role)
	})

	t.Run("get absent returns nil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("update", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		u := newUser("Jo")
		require.NoError(t, repo.Create(ctx, u))

		u.Name = "Joanne"
		u.Role = domain.RoleAdministrator
		u.EmailNotify = true
		require.NoError(t, repo.Update(ctx, u))

		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Joanne", got.Name)
		assert.Equal(t, domain.RoleAdministrator, got.Role)
		assert.True(t, got.EmailNotify)
	})

	t.Run("list paged", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		for i := 0; i < 7; i++ {
			require.NoError(t, repo.Create(ctx, newUser("User")))
		}

		page, err := repo.ListPaged(ctx, domain.PageRequest{Page: 1, PageSize: 5})
		require.NoError(t, err)
		assert.Len(t, page.Items, 5)
		assert.Equal(t, 7, page.TotalCount)

		page, err = repo.ListPaged(ctx, domain.PageRequest{Page: 2, PageSize: 5})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("subscription edge lifecycle", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		sub := newUser("Sub")
		author := newUser("Author")
		require.NoError(t, repo.Create(ctx, sub))
		require.NoError(t, repo.Create(ctx, author))

		exists, err := repo.SubscriptionExists(ctx, sub.ID, author.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, repo.AddSubscription(ctx, sub.ID, author.ID))

		exists, err = repo.SubscriptionExists(ctx, sub.ID, author.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		// The edge is directional: the reverse does not exist.
		exists, err = repo.SubscriptionExists(ctx, author.ID, sub.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		followers, err := repo.ListFollowers(ctx, author.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, sub.ID, followers[0].ID)

		authorIDs, err := repo.ListSubscribedAuthorIDs(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{author.ID}, authorIDs)

		require.NoError(t, repo.RemoveSubscription(ctx, sub.ID, author.ID))
		exists, err = repo.SubscriptionExists(ctx, sub.ID, author.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("self subscription is rejected by the schema", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		u := newUser("Loner")
		require.NoError(t, repo.Create(ctx, u))

		err := repo.AddSubscription(ctx, u.ID, u.ID)
		assert.Error(t, err)
	})

	t.Run("remove subscriptions by user clears both directions", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		a := newUser("A")
		b := newUser("B")
		c := newUser("C")
		for _, u := range []*domain.User{a, b, c} {
			require.NoError(t, repo.Create(ctx, u))
		}
		require.NoError(t, repo.AddSubscription(ctx, a.ID, b.ID))
		require.NoError(t, repo.AddSubscription(ctx, b.ID, a.ID))
		require.NoError(t, repo.AddSubscription(ctx, b.ID, c.ID))

		require.NoError(t, repo.RemoveSubscriptionsByUser(ctx, a.ID))

		exists, err := repo.SubscriptionExists(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.False(t, exists)
		exists, err = repo.SubscriptionExists(ctx, b.ID, a.ID)
		require.NoError(t, err)
		assert.False(t, exists)
		exists, err = repo.SubscriptionExists(ctx, b.ID, c.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("delete", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		u := newUser("Gone")
		require.NoError(t, repo.Create(ctx, u))
		require.NoError(t, repo.Delete(ctx, u.ID))

		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
