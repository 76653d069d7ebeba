package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/logger"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/metrics"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/validator"
)

// PostPublishedEvent is the payload of a post.published event.
type PostPublishedEvent struct {
	PostID      string    `json:"post_id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// PostService drives posts through the draft -> scheduled -> published
// lifecycle, attaches tags, and fans out notifications on publication.
type PostService struct {
	uow       repository.UnitOfWork
	validator *validator.Validator
	tags      TagResolver
	notifier  Notifier
	cleanup   *CleanupGraph
	cache     FeedCache
	events    EventPublisher
}

// NewPostService creates a PostService. cache and events may be nil; both are
// best-effort collaborators.
func NewPostService(
	uow repository.UnitOfWork,
	v *validator.Validator,
	tags TagResolver,
	notifier Notifier,
	cleanup *CleanupGraph,
	cache FeedCache,
	events EventPublisher,
) *PostService {
	return &PostService{
		uow:       uow,
		validator: v,
		tags:      tags,
		notifier:  notifier,
		cleanup:   cleanup,
		cache:     cache,
		events:    events,
	}
}

// applyStatus applies the publish intent to the post and reports whether the
// outcome is published. Re-applying publish to an already-published post
// refreshes the timestamp and re-notifies; callers intending no notification
// must not re-apply it.
func applyStatus(p *domain.Post, desired string, now time.Time) bool {
	if desired == domain.StatusPublish {
		if p.PublishedAt == nil || !p.PublishedAt.After(now) {
			p.Status = domain.PostStatusPublished
			t := now
			p.PublishedAt = &t
			return true
		}
		p.Status = domain.PostStatusScheduled
		return false
	}
	p.Status = domain.PostStatusDraft
	return false
}

// ListFeed sweeps due scheduled posts, then returns one page of the selected
// feed. The unfiltered first page of the public feed is served from cache
// when one is configured.
func (s *PostService) ListFeed(ctx context.Context, filter domain.PostFilter, feed domain.FeedType, requesterID string) (*domain.Page[domain.Post], error) {
	if feed == "" {
		feed = domain.FeedAll
	}
	if !domain.IsValidFeedType(feed) {
		return nil, fmt.Errorf("invalid feed type %q", feed)
	}

	// Due scheduled posts become visible the moment anyone lists a feed,
	// not only when the background sweep fires. Sweep failures are logged
	// and do not break the listing.
	if _, err := s.PublishDue(ctx); err != nil {
		logger.Warn("scheduled publish sweep failed", "error", err)
	}

	filter.PageRequest = filter.PageRequest.Normalize()
	cacheable := s.cache != nil &&
		feed == domain.FeedAll &&
		filter.IsEmpty() &&
		filter.SortBy == "" &&
		filter.Page == 1 &&
		filter.PageSize == domain.DefaultPageSize

	if cacheable {
		page, err := s.cache.GetFrontPage(ctx)
		if err != nil {
			logger.Warn("feed cache get failed", "error", err)
		} else if page != nil {
			metrics.RecordFeedCache("hit")
			return page, nil
		}
		metrics.RecordFeedCache("miss")
	}

	page, err := s.uow.Repos().Posts.ListFeed(ctx, filter, feed, requesterID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetFrontPage(ctx, page); err != nil {
			logger.Warn("feed cache set failed", "error", err)
		}
	}
	return page, nil
}

// PublishDue flips every scheduled post whose publish timestamp has elapsed
// to published and fans out the publication notifications. Returns the number
// of posts published.
func (s *PostService) PublishDue(ctx context.Context) (int, error) {
	var published []domain.Post
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		published = published[:0]
		due, err := r.Posts.ListScheduledDue(ctx, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("list due posts: %w", err)
		}
		for i := range due {
			p := &due[i]
			p.Status = domain.PostStatusPublished
			p.UpdatedAt = time.Now().UTC()
			if err := r.Posts.Update(ctx, p); err != nil {
				return fmt.Errorf("publish post %s: %w", p.ID, err)
			}
			if err := s.notifier.PostPublished(ctx, r, p); err != nil {
				return err
			}
			published = append(published, *p)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(published) > 0 {
		metrics.ScheduledPublishesTotal.Add(float64(len(published)))
		s.invalidateFeed(ctx)
		for i := range published {
			p := &published[i]
			s.emit(SubjectPostPublished, PostPublishedEvent{
				PostID:      p.ID,
				AuthorID:    p.AuthorID,
				Title:       p.Title,
				PublishedAt: derefTime(p.PublishedAt),
			})
		}
	}
	return len(published), nil
}

// GetByID increments the view counter as an observable side effect of the
// read, then returns the post with its tags. Concurrent increments are
// atomic at the storage layer.
func (s *PostService) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	repos := s.uow.Repos()
	p, err := repos.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	views, err := repos.Posts.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if views > 0 {
		p.Views = views
	}

	tags, err := repos.Tags.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

// Create builds a new post for the author, resolves its tag string, applies
// the status rule, and fans out notifications when the outcome is published.
// A nonexistent podcast reference is silently cleared.
func (s *PostService) Create(ctx context.Context, in *domain.CreatePostInput, authorID, desiredStatus string) (*domain.Post, error) {
	if err := s.validator.ValidateCreatePost(in); err != nil {
		metrics.ObserveOperation("post", "create", "invalid")
		return nil, err
	}

	// Resolution runs in its own unit of work on purpose: tags persist
	// even when the create below fails.
	tags, err := s.tags.ResolveFromString(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    authorID,
		PodcastID:   in.PodcastID,
		PublishedAt: in.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	published := applyStatus(post, desiredStatus, now)

	err = s.uow.Do(ctx, func(r repository.Repositories) error {
		author, err := r.Users.GetByID(ctx, authorID)
		if err != nil {
			return err
		}
		if author == nil {
			return fmt.Errorf("author %s: %w", authorID, domain.ErrNotFound)
		}

		if post.PodcastID != nil {
			pc, err := r.Podcasts.GetByID(ctx, *post.PodcastID)
			if err != nil {
				return err
			}
			if pc == nil {
				post.PodcastID = nil
			}
		}

		if err := r.Posts.Create(ctx, post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if err := r.Posts.ReplaceTags(ctx, post.ID, tagIDs(tags)); err != nil {
			return fmt.Errorf("attach tags: %w", err)
		}
		if published {
			return s.notifier.PostPublished(ctx, r, post)
		}
		return nil
	})
	if err != nil {
		metrics.ObserveOperation("post", "create", "error")
		return nil, err
	}

	post.Tags = tags
	metrics.ObserveOperation("post", "create", "success")
	s.invalidateFeed(ctx)
	if published {
		s.emit(SubjectPostPublished, PostPublishedEvent{
			PostID:      post.ID,
			AuthorID:    post.AuthorID,
			Title:       post.Title,
			PublishedAt: derefTime(post.PublishedAt),
		})
	}
	return post, nil
}

// Update edits a post. Only the author or an administrator may do so. Tags
// are re-resolved from the tag string; the status rule applies only when a
// desired status was explicitly supplied.
func (s *PostService) Update(ctx context.Context, id string, in *domain.UpdatePostInput, requesterID string, desiredStatus *string) (*domain.Post, error) {
	if err := s.validator.ValidateUpdatePost(in); err != nil {
		metrics.ObserveOperation("post", "update", "invalid")
		return nil, err
	}

	tags, err := s.tags.ResolveFromString(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	var (
		post      *domain.Post
		published bool
	)
	err = s.uow.Do(ctx, func(r repository.Repositories) error {
		p, err := r.Posts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		if err := s.authorizePost(ctx, r, p, requesterID); err != nil {
			return err
		}

		now := time.Now().UTC()
		p.Title = in.Title
		p.Content = in.Content
		p.PodcastID = in.PodcastID
		if in.PublishedAt != nil {
			p.PublishedAt = in.PublishedAt
		}
		if p.PodcastID != nil {
			pc, err := r.Podcasts.GetByID(ctx, *p.PodcastID)
			if err != nil {
				return err
			}
			if pc == nil {
				p.PodcastID = nil
			}
		}
		if desiredStatus != nil {
			published = applyStatus(p, *desiredStatus, now)
		}
		p.UpdatedAt = now

		if err := r.Posts.Update(ctx, p); err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if err := r.Posts.ReplaceTags(ctx, p.ID, tagIDs(tags)); err != nil {
			return fmt.Errorf("attach tags: %w", err)
		}
		if published {
			if err := s.notifier.PostPublished(ctx, r, p); err != nil {
				return err
			}
		}
		post = p
		return nil
	})
	if err != nil {
		metrics.ObserveOperation("post", "update", "error")
		return nil, err
	}

	post.Tags = tags
	metrics.ObserveOperation("post", "update", "success")
	s.invalidateFeed(ctx)
	if published {
		s.emit(SubjectPostPublished, PostPublishedEvent{
			PostID:      post.ID,
			AuthorID:    post.AuthorID,
			Title:       post.Title,
			PublishedAt: derefTime(post.PublishedAt),
		})
	}
	return post, nil
}

// Delete runs the post's cascade cleanup, then removes the post. Only the
// author or an administrator may do so.
func (s *PostService) Delete(ctx context.Context, id, requesterID string) error {
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		p, err := r.Posts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		if err := s.authorizePost(ctx, r, p, requesterID); err != nil {
			return err
		}
		if err := s.cleanup.Cleanup(ctx, r, domain.KindPost, id); err != nil {
			return err
		}
		return r.Posts.Delete(ctx, id)
	})
	if err != nil {
		metrics.ObserveOperation("post", "delete", "error")
		return err
	}
	metrics.ObserveOperation("post", "delete", "success")
	s.invalidateFeed(ctx)
	return nil
}

// authorizePost allows the post's author or an administrator.
func (s *PostService) authorizePost(ctx context.Context, r repository.Repositories, p *domain.Post, requesterID string) error {
	if p.AuthorID == requesterID {
		return nil
	}
	requester, err := r.Users.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	if requester == nil || !requester.IsAdministrator() {
		return fmt.Errorf("post %s: %w", p.ID, domain.ErrForbidden)
	}
	return nil
}

func (s *PostService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFrontPage(ctx); err != nil {
		logger.Warn("feed cache invalidation failed", "error", err)
	}
}

// emit publishes a best-effort domain event. Failures are logged and never
// affect the triggering operation.
func (s *PostService) emit(subject string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, payload); err != nil {
		logger.Warn("event publish failed", "subject", subject, "error", err)
		metrics.RecordEvent(subject, "failure")
		return
	}
	metrics.RecordEvent(subject, "success")
}

func tagIDs(tags []domain.Tag) []string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
