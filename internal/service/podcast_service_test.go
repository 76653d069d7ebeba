package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/validator"
)

func newPodcastServiceForTest() (*PodcastService, *fakeUnitOfWork) {
	uow := newFakeUnitOfWork()
	return NewPodcastService(uow, validator.NewValidator(), NewCleanupGraph()), uow
}

func seedPodcast(s *fakeStore, id string) *domain.Podcast {
	p := &domain.Podcast{ID: id, Title: "episode-" + id, AudioFile: id + ".mp3", EpisodeNumber: 1}
	s.podcasts[id] = p
	return p
}

func TestPodcastCreateAndGet(t *testing.T) {
	svc, uow := newPodcastServiceForTest()

	p, err := svc.Create(context.Background(), &domain.CreatePodcastInput{
		Title:     "pilot",
		AudioFile: "pilot.mp3",
		Duration:  1800,
	})
	require.NoError(t, err)
	assert.Contains(t, uow.store.podcasts, p.ID)

	got, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "pilot", got.Title)
}

func TestPodcastUpdate_OwnershipFollowsPost(t *testing.T) {
	svc, uow := newPodcastServiceForTest()
	ctx := context.Background()
	author := seedUser(uow.store, "author", domain.RoleAuthor)
	stranger := seedUser(uow.store, "stranger", domain.RoleAuthor)
	admin := seedUser(uow.store, "admin", domain.RoleAdministrator)
	pc := seedPodcast(uow.store, "pc1")
	post := seedPost(uow.store, "p1", author.ID, domain.PostStatusPublished)
	post.PodcastID = &pc.ID

	in := &domain.UpdatePodcastInput{Title: "renamed", EpisodeNumber: 2}

	_, err := svc.Update(ctx, pc.ID, in, stranger.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = svc.Update(ctx, pc.ID, in, admin.ID)
	require.NoError(t, err)
	_, err = svc.Update(ctx, pc.ID, in, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", uow.store.podcasts[pc.ID].Title)
}

func TestPodcastUpdate_UnownedIsOpen(t *testing.T) {
	svc, uow := newPodcastServiceForTest()
	anyone := seedUser(uow.store, "anyone", domain.RoleAuthor)
	pc := seedPodcast(uow.store, "pc1")

	_, err := svc.Update(context.Background(), pc.ID, &domain.UpdatePodcastInput{Title: "t", EpisodeNumber: 1}, anyone.ID)
	require.NoError(t, err)
}

func TestPodcastDelete_PostSurvives(t *testing.T) {
	svc, uow := newPodcastServiceForTest()
	author := seedUser(uow.store, "author", domain.RoleAuthor)
	pc := seedPodcast(uow.store, "pc1")
	post := seedPost(uow.store, "p1", author.ID, domain.PostStatusPublished)
	post.PodcastID = &pc.ID

	require.NoError(t, svc.Delete(context.Background(), pc.ID, author.ID))

	assert.NotContains(t, uow.store.podcasts, pc.ID)
	assert.Contains(t, uow.store.posts, post.ID)
	assert.Nil(t, uow.store.posts[post.ID].PodcastID)
}

func TestPodcastIncrementListens(t *testing.T) {
	svc, uow := newPodcastServiceForTest()
	seedPodcast(uow.store, "pc1")

	n, err := svc.IncrementListens(context.Background(), "pc1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, uow.store.podcasts["pc1"].ListenCount)

	_, err = svc.IncrementListens(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
