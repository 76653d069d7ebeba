package validator

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

const (
	maxTitleLength   = 200
	maxContentLength = 50000
	maxCommentWords  = 500
)

// Validator provides validation methods for mutation inputs.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCreatePost validates a CreatePostInput.
func (v *Validator) ValidateCreatePost(in *domain.CreatePostInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title,
			validation.Required.Error("title_required"),
			validation.Length(1, maxTitleLength).Error("title_too_long"),
		),
		validation.Field(&in.Content,
			validation.Length(0, maxContentLength).Error("content_too_long"),
		),
		validation.Field(&in.PodcastID,
			is.UUID.Error("invalid_podcast_id"),
		),
	)
}

// ValidateUpdatePost validates an UpdatePostInput.
func (v *Validator) ValidateUpdatePost(in *domain.UpdatePostInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title,
			validation.Required.Error("title_required"),
			validation.Length(1, maxTitleLength).Error("title_too_long"),
		),
		validation.Field(&in.Content,
			validation.Length(0, maxContentLength).Error("content_too_long"),
		),
		validation.Field(&in.PodcastID,
			is.UUID.Error("invalid_podcast_id"),
		),
	)
}

// ValidateCreateComment validates a CreateCommentInput.
func (v *Validator) ValidateCreateComment(in *domain.CreateCommentInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.PostID,
			validation.Required.Error("post_id_required"),
			is.UUID.Error("invalid_post_id"),
		),
		validation.Field(&in.Body,
			validation.Required.Error("body_required"),
			validation.By(wordCountRule(maxCommentWords)),
		),
	)
}

// ValidateCreatePodcast validates a CreatePodcastInput.
func (v *Validator) ValidateCreatePodcast(in *domain.CreatePodcastInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title,
			validation.Required.Error("title_required"),
			validation.Length(1, maxTitleLength).Error("title_too_long"),
		),
		validation.Field(&in.AudioFile,
			validation.Required.Error("audio_file_required"),
		),
		validation.Field(&in.Duration,
			validation.Min(0).Error("invalid_duration"),
		),
		validation.Field(&in.EpisodeNumber,
			validation.Min(0).Error("invalid_episode_number"),
		),
	)
}

// ValidateUpdateUser validates an UpdateUserInput.
func (v *Validator) ValidateUpdateUser(in *domain.UpdateUserInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name,
			validation.Required.Error("name_required"),
		),
		validation.Field(&in.Email,
			validation.Required.Error("email_required"),
			is.Email.Error("invalid_email_format"),
		),
	)
}

// wordCountRule creates a validation rule for max word count.
func wordCountRule(maxWords int) validation.RuleFunc {
	return func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		wordCount := len(strings.Fields(strings.TrimSpace(s)))
		if wordCount > maxWords {
			return validation.NewError("body_too_long", "body exceeds maximum word count")
		}
		return nil
	}
}
