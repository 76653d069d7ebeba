package domain

import "time"

// CreatePostInput carries a new post's fields. Tags is free text resolved
// into tag entities by the tag service.
type CreatePostInput struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Tags        string     `json:"tags"`
	PodcastID   *string    `json:"podcast_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// UpdatePostInput carries the mutable fields of a post.
type UpdatePostInput struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Tags        string     `json:"tags"`
	PodcastID   *string    `json:"podcast_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// CreateCommentInput carries a new comment. A nonexistent parent demotes the
// comment to top-level instead of failing.
type CreateCommentInput struct {
	PostID   string  `json:"post_id"`
	ParentID *string `json:"parent_id,omitempty"`
	Body     string  `json:"body"`
}

// CreatePodcastInput carries a new podcast episode's metadata.
type CreatePodcastInput struct {
	Title         string  `json:"title"`
	AudioFile     string  `json:"audio_file"`
	Transcript    *string `json:"transcript,omitempty"`
	CoverImage    *string `json:"cover_image,omitempty"`
	Duration      int     `json:"duration"`
	Bitrate       int     `json:"bitrate"`
	EpisodeNumber int     `json:"episode_number"`
}

// UpdatePodcastInput carries the mutable fields of a podcast.
type UpdatePodcastInput struct {
	Title         string  `json:"title"`
	Transcript    *string `json:"transcript,omitempty"`
	CoverImage    *string `json:"cover_image,omitempty"`
	EpisodeNumber int     `json:"episode_number"`
}

// UpdateUserInput carries the self-editable fields of a user profile.
type UpdateUserInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	EmailNotify bool   `json:"email_notify"`
}
