package service

import (
	"context"
	"fmt"
	"time"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/logger"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/metrics"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/validator"
)

// Toggle outcomes reported to the caller.
const (
	ToggleSubscribed   = "subscribed"
	ToggleUnsubscribed = "unsubscribed"
	ToggleLiked        = "liked"
	ToggleUnliked      = "unliked"
)

// PostLikedEvent is the payload of a post.liked event.
type PostLikedEvent struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
}

// UserService owns the social-graph toggles and the user lifecycle. Each
// toggle runs its existence check and mutation in one unit of work, so a
// like or subscription edge is either fully present or fully absent.
type UserService struct {
	uow       repository.UnitOfWork
	validator *validator.Validator
	notifier  Notifier
	cleanup   *CleanupGraph
	cache     FeedCache
	events    EventPublisher
}

// NewUserService creates a UserService. cache and events may be nil.
func NewUserService(
	uow repository.UnitOfWork,
	v *validator.Validator,
	notifier Notifier,
	cleanup *CleanupGraph,
	cache FeedCache,
	events EventPublisher,
) *UserService {
	return &UserService{
		uow:       uow,
		validator: v,
		notifier:  notifier,
		cleanup:   cleanup,
		cache:     cache,
		events:    events,
	}
}

// ToggleSubscription flips the subscription edge between subscriber and
// author. Subscribing notifies the author; unsubscribing is silent.
// Self-subscription is forbidden regardless of prior state.
func (s *UserService) ToggleSubscription(ctx context.Context, subscriberID, authorID string) (string, error) {
	if subscriberID == authorID {
		metrics.ObserveOperation("subscription", "toggle", "forbidden")
		return "", fmt.Errorf("self-subscription: %w", domain.ErrForbidden)
	}

	var outcome string
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		subscriber, err := r.Users.GetByID(ctx, subscriberID)
		if err != nil {
			return err
		}
		if subscriber == nil {
			return fmt.Errorf("user %s: %w", subscriberID, domain.ErrNotFound)
		}
		author, err := r.Users.GetByID(ctx, authorID)
		if err != nil {
			return err
		}
		if author == nil {
			return fmt.Errorf("user %s: %w", authorID, domain.ErrNotFound)
		}

		exists, err := r.Users.SubscriptionExists(ctx, subscriberID, authorID)
		if err != nil {
			return err
		}
		if exists {
			outcome = ToggleUnsubscribed
			return r.Users.RemoveSubscription(ctx, subscriberID, authorID)
		}
		outcome = ToggleSubscribed
		if err := r.Users.AddSubscription(ctx, subscriberID, authorID); err != nil {
			return err
		}
		return s.notifier.NewSubscriber(ctx, r, subscriber, author)
	})
	if err != nil {
		metrics.ObserveOperation("subscription", "toggle", "error")
		return "", err
	}
	metrics.ObserveOperation("subscription", "toggle", outcome)
	return outcome, nil
}

// ToggleLike flips the like edge between user and post. Liking notifies the
// post's author; unliking is silent.
func (s *UserService) ToggleLike(ctx context.Context, userID, postID string) (string, error) {
	var outcome string
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		post, err := r.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
		}

		exists, err := r.Posts.LikeExists(ctx, userID, postID)
		if err != nil {
			return err
		}
		if exists {
			outcome = ToggleUnliked
			return r.Posts.RemoveLike(ctx, userID, postID)
		}
		outcome = ToggleLiked
		if err := r.Posts.AddLike(ctx, userID, postID); err != nil {
			return err
		}
		return s.notifier.NewLike(ctx, r, user, post)
	})
	if err != nil {
		metrics.ObserveOperation("like", "toggle", "error")
		return "", err
	}
	metrics.ObserveOperation("like", "toggle", outcome)

	s.invalidateFeed(ctx)
	if outcome == ToggleLiked {
		s.emit(SubjectPostLiked, PostLikedEvent{PostID: postID, UserID: userID})
	}
	return outcome, nil
}

// GetByID retrieves a user.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.uow.Repos().Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

// ListPaged returns a page of users.
func (s *UserService) ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.User], error) {
	return s.uow.Repos().Users.ListPaged(ctx, page.Normalize())
}

// Update edits a user's profile. Users edit only themselves; role changes go
// through UpdateRole.
func (s *UserService) Update(ctx context.Context, id string, in *domain.UpdateUserInput, requesterID string) (*domain.User, error) {
	if requesterID != id {
		metrics.ObserveOperation("user", "update", "forbidden")
		return nil, fmt.Errorf("update user: %w", domain.ErrForbidden)
	}
	if err := s.validator.ValidateUpdateUser(in); err != nil {
		metrics.ObserveOperation("user", "update", "invalid")
		return nil, err
	}

	var user *domain.User
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		u, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		u.Name = in.Name
		u.Email = in.Email
		u.EmailNotify = in.EmailNotify
		u.UpdatedAt = time.Now().UTC()
		if err := r.Users.Update(ctx, u); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		metrics.ObserveOperation("user", "update", "error")
		return nil, err
	}
	metrics.ObserveOperation("user", "update", "success")
	return user, nil
}

// UpdateRole changes a user's role. Administrators only.
func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.UserRole, requesterID string) error {
	if !domain.IsValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	return s.uow.Do(ctx, func(r repository.Repositories) error {
		requester, err := r.Users.GetByID(ctx, requesterID)
		if err != nil {
			return err
		}
		if requester == nil || !requester.IsAdministrator() {
			return fmt.Errorf("update role: %w", domain.ErrForbidden)
		}
		u, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		u.Role = role
		u.UpdatedAt = time.Now().UTC()
		return r.Users.Update(ctx, u)
	})
}

// Delete removes a user and cascades over everything the user owns: posts,
// comments, likes, notifications, and subscription edges. Allowed for the
// user or an administrator.
func (s *UserService) Delete(ctx context.Context, id, requesterID string) error {
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		u, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		if requesterID != id {
			requester, err := r.Users.GetByID(ctx, requesterID)
			if err != nil {
				return err
			}
			if requester == nil || !requester.IsAdministrator() {
				return fmt.Errorf("delete user: %w", domain.ErrForbidden)
			}
		}
		if err := s.cleanup.Cleanup(ctx, r, domain.KindUser, id); err != nil {
			return err
		}
		return r.Users.Delete(ctx, id)
	})
	if err != nil {
		metrics.ObserveOperation("user", "delete", "error")
		return err
	}
	metrics.ObserveOperation("user", "delete", "success")
	s.invalidateFeed(ctx)
	return nil
}

func (s *UserService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFrontPage(ctx); err != nil {
		logger.Warn("feed cache invalidation failed", "error", err)
	}
}

// emit publishes a best-effort domain event.
func (s *UserService) emit(subject string, payload any) {
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
