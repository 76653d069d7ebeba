package repository

import (
	"context"
	"time"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

// Lookup methods return (nil, nil) when the entity is absent; the service
// layer decides whether absence is a NotFound error or a cascade no-op.

// PostRepository defines data access for posts, their tag attachments, and
// the like edges.
type PostRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	GetByPodcastID(ctx context.Context, podcastID string) (*domain.Post, error)
	ListFeed(ctx context.Context, filter domain.PostFilter, feed domain.FeedType, requesterID string) (*domain.Page[domain.Post], error)
	ListScheduledDue(ctx context.Context, now time.Time) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
	Create(ctx context.Context, p *domain.Post) error
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int, error)
	ClearPodcastRef(ctx context.Context, podcastID string) error
	ReplaceTags(ctx context.Context, postID string, tagIDs []string) error
	DetachAllTags(ctx context.Context, postID string) error

	LikeExists(ctx context.Context, userID, postID string) (bool, error)
	AddLike(ctx context.Context, userID, postID string) error
	RemoveLike(ctx context.Context, userID, postID string) error
	RemoveLikesByPost(ctx context.Context, postID string) error
	RemoveLikesByUser(ctx context.Context, userID string) error
	CountLikes(ctx context.Context, postID string) (int, error)
}

// CommentRepository defines data access for the flat comment table. The reply
// tree is derived through ListReplies, keyed on parent_id.
type CommentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListApprovedByPost(ctx context.Context, postID string, page domain.PageRequest) (*domain.Page[domain.Comment], error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	ListReplies(ctx context.Context, parentID string) ([]domain.Comment, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) error
	UpdateStatus(ctx context.Context, id string, status domain.CommentStatus, createdAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// TagRepository defines data access for tags and the post/tag edge.
type TagRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Tag], error)
	ListByPost(ctx context.Context, postID string) ([]domain.Tag, error)
	ListPostIDs(ctx context.Context, tagID string) ([]string, error)
	Create(ctx context.Context, t *domain.Tag) error
	Delete(ctx context.Context, id string) error
	DetachAllPosts(ctx context.Context, tagID string) error
}

// UserRepository defines data access for users and the subscription edges.
// Subscription rows are stored once; both directions of an edge are views
// over the same row.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.User], error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error

	SubscriptionExists(ctx context.Context, subscriberID, authorID string) (bool, error)
	AddSubscription(ctx context.Context, subscriberID, authorID string) error
	RemoveSubscription(ctx context.Context, subscriberID, authorID string) error
	RemoveSubscriptionsByUser(ctx context.Context, userID string) error
	ListFollowers(ctx context.Context, authorID string) ([]domain.User, error)
	ListSubscribedAuthorIDs(ctx context.Context, subscriberID string) ([]string, error)
}

// NotificationRepository defines data access for notification records.
type NotificationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUserPaged(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.Notification], error)
	Create(ctx context.Context, n *domain.Notification) error
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// PodcastRepository defines data access for podcast episodes.
type PodcastRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Podcast, error)
	Create(ctx context.Context, p *domain.Podcast) error
	Update(ctx context.Context, p *domain.Podcast) error
	Delete(ctx context.Context, id string) error
	IncrementListens(ctx context.Context, id string) (int, error)
}

// Repositories bundles every repository bound to the same querier, so one
// unit of work sees a consistent view.
type Repositories struct {
	Posts         PostRepository
	Comments      CommentRepository
	Tags          TagRepository
	Users         UserRepository
	Notifications NotificationRepository
	Podcasts      PodcastRepository
}

// UnitOfWork runs engine operations against storage. Do executes fn inside a
// single transaction: every write fn performs is committed together or not at
// all. Repos returns autocommit repositories for plain reads.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repositories) error) error
	Repos() Repositories
}
