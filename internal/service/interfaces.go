package service

import (
	"context"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
)

// Mailer sends notification emails. Sends are fire-and-forget from the
// engine's perspective: failures are logged and swallowed, never propagated.
type Mailer interface {
	Send(to, subject, body string) error
}

// EventPublisher publishes best-effort domain events. Failures never affect
// the triggering operation.
type EventPublisher interface {
	Publish(subject string, payload any) error
}

// Event subjects published by the engine.
const (
	SubjectPostPublished = "post.published"
	SubjectPostLiked     = "post.liked"
)

// FeedCache caches the first page of the unfiltered public feed. GetFrontPage
// returns (nil, nil) on a miss.
type FeedCache interface {
	GetFrontPage(ctx context.Context) (*domain.Page[domain.Post], error)
	SetFrontPage(ctx context.Context, page *domain.Page[domain.Post]) error
	InvalidateFrontPage(ctx context.Context) error
}

// Notifier is the notification fan-out consumed by the other services. Every
// method runs inside the caller's unit of work through r, so the notification
// records commit together with the triggering mutation. Missing recipients
// are no-ops.
type Notifier interface {
	// PostPublished notifies every follower of the post's author plus the
	// author, one notification each.
	PostPublished(ctx context.Context, r repository.Repositories, post *domain.Post) error
	// NewSubscriber notifies the author about a new subscriber.
	NewSubscriber(ctx context.Context, r repository.Repositories, subscriber, author *domain.User) error
	// NewLike notifies the post's author about a new like.
	NewLike(ctx context.Context, r repository.Repositories, liker *domain.User, post *domain.Post) error
	// NewComment notifies the post's author about a new comment.
	NewComment(ctx context.Context, r repository.Repositories, comment *domain.Comment, post *domain.Post) error
}

// TagResolver resolves free tag text into persisted tag entities.
type TagResolver interface {
	// ResolveFromString runs in its own unit of work: resolved tags persist
	// even when the surrounding operation later fails.
	ResolveFromString(ctx context.Context, raw string) ([]domain.Tag, error)
}

// PostServiceInterface defines the post lifecycle operations.
// Used for dependency injection and mocking in tests.
type PostServiceInterface interface {
	// ListFeed sweeps due scheduled posts, then returns a page of the feed.
	ListFeed(ctx context.Context, filter domain.PostFilter, feed domain.FeedType, requesterID string) (*domain.Page[domain.Post], error)
	// PublishDue flips every due scheduled post to published and fans out
	// notifications. Returns the number of posts published.
	PublishDue(ctx context.Context) (int, error)
	// GetByID increments the view counter, then returns the post.
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	// Create builds a new post, resolving tags and applying the status rule.
	Create(ctx context.Context, in *domain.CreatePostInput, authorID, desiredStatus string) (*domain.Post, error)
	// Update edits a post; the status rule applies only when desiredStatus
	// is non-nil.
	Update(ctx context.Context, id string, in *domain.UpdatePostInput, requesterID string, desiredStatus *string) (*domain.Post, error)
	// Delete cascades, then removes the post.
	Delete(ctx context.Context, id, requesterID string) error
}

// CommentServiceInterface defines the comment tree operations.
// Used for dependency injection and mocking in tests.
type CommentServiceInterface interface {
	// ListByPost returns approved top-level comments of a post, paged.
	ListByPost(ctx context.Context, postID string, page domain.PageRequest) (*domain.Page[domain.Comment], error)
	// ListReplies returns the direct replies of a comment.
	ListReplies(ctx context.Context, commentID string) ([]domain.Comment, error)
	// GetByID retrieves a comment.
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	// Create adds a pending comment and notifies the post's author.
	Create(ctx context.Context, in *domain.CreateCommentInput, authorID string) (*domain.Comment, error)
	// Publish moves a comment from pending to approved.
	Publish(ctx context.Context, id, requesterID string) error
	// Delete removes a comment and its reply subtree.
	Delete(ctx context.Context, id, requesterID string) error
}

// UserServiceInterface defines the social-graph toggles and user lifecycle.
// Used for dependency injection and mocking in tests.
type UserServiceInterface interface {
	// ToggleSubscription flips the subscription edge and reports the
	// resulting state: "subscribed" or "unsubscribed".
	ToggleSubscription(ctx context.Context, subscriberID, authorID string) (string, error)
	// ToggleLike flips the like edge and reports the resulting state:
	// "liked" or "unliked".
	ToggleLike(ctx context.Context, userID, postID string) (string, error)
	// GetByID retrieves a user.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// ListPaged returns a page of users.
	ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.User], error)
	// Update edits the caller's own profile.
	Update(ctx context.Context, id string, in *domain.UpdateUserInput, requesterID string) (*domain.User, error)
	// UpdateRole changes a user's role; administrators only.
	UpdateRole(ctx context.Context, id string, role domain.UserRole, requesterID string) error
	// Delete removes a user and cascades over everything the user owns.
	Delete(ctx context.Context, id, requesterID string) error
}

// TagServiceInterface defines tag resolution and lifecycle.
// Used for dependency injection and mocking in tests.
type TagServiceInterface interface {
	TagResolver
	// GetByID retrieves a tag.
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
	// ListPaged returns a page of tags.
	ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Tag], error)
	// Create adds a tag, reusing an existing one with the same name.
	Create(ctx context.Context, name string) (*domain.Tag, error)
	// Delete detaches the tag from every post, then removes it.
	Delete(ctx context.Context, id, requesterID string) error
}

// NotificationServiceInterface defines the notification lifecycle exposed to
// the request layer. Fan-out happens through the Notifier interface instead.
type NotificationServiceInterface interface {
	// ListByUser returns a page of the user's notifications.
	ListByUser(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.Notification], error)
	// GetByID retrieves a notification.
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	// MarkRead marks a notification read; recipient only.
	MarkRead(ctx context.Context, id, requesterID string) error
	// Delete removes a notification; recipient or administrator.
	Delete(ctx context.Context, id, requesterID string) error
}

// PodcastServiceInterface defines the podcast episode lifecycle.
// Used for dependency injection and mocking in tests.
type PodcastServiceInterface interface {
	// GetByID retrieves a podcast.
	GetByID(ctx context.Context, id string) (*domain.Podcast, error)
	// Create adds a podcast episode.
	Create(ctx context.Context, in *domain.CreatePodcastInput) (*domain.Podcast, error)
	// Update edits a podcast; the owning post's author or an administrator.
	Update(ctx context.Context, id string, in *domain.UpdatePodcastInput, requesterID string) (*domain.Podcast, error)
	// Delete clears the owning post's reference, then removes the podcast.
	Delete(ctx context.Context, id, requesterID string) error
	// IncrementListens bumps the listen counter and returns the new value.
	IncrementListens(ctx context.Context, id string) (int, error)
}
