package domain

import "time"

// Podcast represents a podcast episode. A podcast is referenced by at most
// one post and is never user-facing except through that post.
type Podcast struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AudioFile     string    `json:"audio_file"`
	Transcript    *string   `json:"transcript,omitempty"`
	CoverImage    *string   `json:"cover_image,omitempty"`
	Duration      int       `json:"duration"` // seconds
	Bitrate       int       `json:"bitrate"`
	EpisodeNumber int       `json:"episode_number"`
	ListenCount   int       `json:"listen_count"`
	CreatedAt     time.Time `json:"created_at"`
}
