package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/metrics"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/validator"
)

// PodcastService owns the podcast episode lifecycle. A podcast is never
// user-facing except through its owning post, so mutations are gated on that
// post's author once one exists.
type PodcastService struct {
	uow       repository.UnitOfWork
	validator *validator.Validator
	cleanup   *CleanupGraph
}

// NewPodcastService creates a PodcastService.
func NewPodcastService(uow repository.UnitOfWork, v *validator.Validator, cleanup *CleanupGraph) *PodcastService {
	return &PodcastService{uow: uow, validator: v, cleanup: cleanup}
}

// GetByID retrieves a podcast.
func (s *PodcastService) GetByID(ctx context.Context, id string) (*domain.Podcast, error) {
	p, err := s.uow.Repos().Podcasts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("podcast %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// Create adds a podcast episode. The episode is attached to a post through
// the post surface afterwards.
func (s *PodcastService) Create(ctx context.Context, in *domain.CreatePodcastInput) (*domain.Podcast, error) {
	if err := s.validator.ValidateCreatePodcast(in); err != nil {
		metrics.ObserveOperation("podcast", "create", "invalid")
		return nil, err
	}

	podcast := &domain.Podcast{
		ID:            uuid.NewString(),
		Title:         in.Title,
		AudioFile:     in.AudioFile,
		Transcript:    in.Transcript,
		CoverImage:    in.CoverImage,
		Duration:      in.Duration,
		Bitrate:       in.Bitrate,
		EpisodeNumber: in.EpisodeNumber,
		CreatedAt:     time.Now().UTC(),
	}
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		return r.Podcasts.Create(ctx, podcast)
	})
	if err != nil {
		metrics.ObserveOperation("podcast", "create", "error")
		return nil, err
	}
	metrics.ObserveOperation("podcast", "create", "success")
	return podcast, nil
}

// Update edits a podcast's metadata. When a post references the podcast,
// only that post's author or an administrator may edit; an unattached
// podcast is freely editable.
func (s *PodcastService) Update(ctx context.Context, id string, in *domain.UpdatePodcastInput, requesterID string) (*domain.Podcast, error) {
	var podcast *domain.Podcast
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		p, err := r.Podcasts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("podcast %s: %w", id, domain.ErrNotFound)
		}
		if err := s.authorize(ctx, r, id, requesterID); err != nil {
			return err
		}
		p.Title = in.Title
		p.Transcript = in.Transcript
		p.CoverImage = in.CoverImage
		p.EpisodeNumber = in.EpisodeNumber
		if err := r.Podcasts.Update(ctx, p); err != nil {
			return fmt.Errorf("update podcast: %w", err)
		}
		podcast = p
		return nil
	})
	if err != nil {
		metrics.ObserveOperation("podcast", "update", "error")
		return nil, err
	}
	metrics.ObserveOperation("podcast", "update", "success")
	return podcast, nil
}

// Delete clears the owning post's podcast reference, then removes the
// podcast. The post itself survives.
func (s *PodcastService) Delete(ctx context.Context, id, requesterID string) error {
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		p, err := r.Podcasts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("podcast %s: %w", id, domain.ErrNotFound)
		}
		if err := s.authorize(ctx, r, id, requesterID); err != nil {
			return err
		}
		if err := s.cleanup.Cleanup(ctx, r, domain.KindPodcast, id); err != nil {
			return err
		}
		return r.Podcasts.Delete(ctx, id)
	})
	if err != nil {
		metrics.ObserveOperation("podcast", "delete", "error")
		return err
	}
	metrics.ObserveOperation("podcast", "delete", "success")
	return nil
}

// IncrementListens bumps the listen counter atomically and returns the new
// value.
func (s *PodcastService) IncrementListens(ctx context.Context, id string) (int, error) {
	listens, err := s.uow.Repos().Podcasts.IncrementListens(ctx, id)
	if err != nil {
		return 0, err
	}
	if listens == 0 {
		return 0, fmt.Errorf("podcast %s: %w", id, domain.ErrNotFound)
	}
	return listens, nil
}

func (s *PodcastService) authorize(ctx context.Context, r repository.Repositories, podcastID, requesterID string) error {
	post, err := r.Posts.GetByPodcastID(ctx, podcastID)
	if err != nil {
		return err
	}
	if post == nil || post.AuthorID == requesterID {
		return nil
	}
	requester, err := r.Users.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	if requester == nil || !requester.IsAdministrator() {
		return fmt.Errorf("podcast %s: %w", podcastID, domain.ErrForbidden)
	}
	return nil
}
