package domain

import "time"

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
)

// ValidPostStatuses contains all valid post statuses.
var ValidPostStatuses = []PostStatus{PostStatusDraft, PostStatusScheduled, PostStatusPublished}

// IsValidPostStatus checks if a status is valid.
func IsValidPostStatus(status PostStatus) bool {
	for _, s := range ValidPostStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// StatusPublish is the publish intent accepted by post create/update. Any
// other value (or none) results in a draft.
const StatusPublish = "publish"

// Post represents a blog post, optionally backed by a podcast episode.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AuthorID    string     `json:"author_id"`
	PodcastID   *string    `json:"podcast_id,omitempty"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int        `json:"views"`
	LikeCount   int        `json:"like_count"`
	Tags        []Tag      `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FeedType selects which posts a feed listing returns.
type FeedType string

const (
	// FeedAll is every published post, any author.
	FeedAll FeedType = "all"
	// FeedPublished is the requester's own published posts.
	FeedPublished FeedType = "published"
	// FeedScheduled is the requester's own scheduled posts.
	FeedScheduled FeedType = "scheduled"
	// FeedDraft is the requester's own drafts.
	FeedDraft FeedType = "draft"
	// FeedRecommended is published posts whose author the requester
	// subscribes to.
	FeedRecommended FeedType = "recommended"
)

// IsValidFeedType checks if a feed type is valid.
func IsValidFeedType(feed FeedType) bool {
	switch feed {
	case FeedAll, FeedPublished, FeedScheduled, FeedDraft, FeedRecommended:
		return true
	}
	return false
}

// PostSort values accepted by PostFilter.SortBy.
const (
	SortDateAsc   = "date_asc"
	SortDateDesc  = "date_desc"
	SortLikesAsc  = "likes_asc"
	SortLikesDesc = "likes_desc"
)

// PostFilter narrows and orders a feed listing.
type PostFilter struct {
	PageRequest

	Date        string // match the publish date (YYYY-MM-DD)
	Author      string // match the author's name
	Content     string // substring match on post content
	Tags        string // tag names, same separators as tag resolution
	DurationMin *int   // podcast duration in minutes, +-5 minute tolerance

	SortBy string
}

// IsEmpty reports whether the filter applies no narrowing beyond paging.
func (f PostFilter) IsEmpty() bool {
	return f.Date == "" && f.Author == "" && f.Content == "" && f.Tags == "" && f.DurationMin == nil
}
