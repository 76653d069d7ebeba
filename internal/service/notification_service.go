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
)

const emailSubject = "PodcastBlog notification"

// NotificationService creates notification records and sends the best-effort
// email side effect. It implements Notifier for the other services and the
// notification lifecycle for the request layer.
type NotificationService struct {
	uow     repository.UnitOfWork
	mailer  Mailer
	cleanup *CleanupGraph
}

// NewNotificationService creates a NotificationService. mailer may be nil, in
// which case only notification records are written.
func NewNotificationService(uow repository.UnitOfWork, mailer Mailer, cleanup *CleanupGraph) *NotificationService {
	return &NotificationService{uow: uow, mailer: mailer, cleanup: cleanup}
}

// notify persists one notification and attempts the email. A nil recipient is
// a no-op: fan-out targets may have been deleted concurrently. Email failures
// are logged and swallowed; they never roll back the notification record or
// the triggering operation.
func (s *NotificationService) notify(ctx context.Context, r repository.Repositories, user *domain.User, message, event string) error {
	if user == nil {
		return nil
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.Notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	metrics.RecordNotification(event)

	if s.mailer != nil && user.EmailNotify && user.Email != "" {
		if err := s.mailer.Send(user.Email, emailSubject, message); err != nil {
			logger.WithUserID(user.ID).Warn("notification email failed", "error", err)
			metrics.RecordEmail("failure")
		} else {
			metrics.RecordEmail("success")
		}
	}
	return nil
}

// PostPublished notifies every follower of the post's author, then the author.
func (s *NotificationService) PostPublished(ctx context.Context, r repository.Repositories, post *domain.Post) error {
	author, err := r.Users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return fmt.Errorf("get author: %w", err)
	}
	if author == nil {
		return nil
	}

	followers, err := r.Users.ListFollowers(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("list followers: %w", err)
	}
	for i := range followers {
		msg := fmt.Sprintf("%s published a new post: %q", author.Name, post.Title)
		if err := s.notify(ctx, r, &followers[i], msg, "post_published"); err != nil {
			return err
		}
	}

	msg := fmt.Sprintf("Your post %q has been published", post.Title)
	return s.notify(ctx, r, author, msg, "post_published")
}

// NewSubscriber notifies the author about a new subscriber.
func (s *NotificationService) NewSubscriber(ctx context.Context, r repository.Repositories, subscriber, author *domain.User) error {
	if subscriber == nil || author == nil {
		return nil
	}
	msg := fmt.Sprintf("%s subscribed to you", subscriber.Name)
	return s.notify(ctx, r, author, msg, "new_subscriber")
}

// NewLike notifies the post's author about a new like.
func (s *NotificationService) NewLike(ctx context.Context, r repository.Repositories, liker *domain.User, post *domain.Post) error {
	if liker == nil || post == nil {
		return nil
	}
	author, err := r.Users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return fmt.Errorf("get author: %w", err)
	}
	msg := fmt.Sprintf("%s liked your post %q", liker.Name, post.Title)
	return s.notify(ctx, r, author, msg, "new_like")
}

// NewComment notifies the post's author about a new comment.
func (s *NotificationService) NewComment(ctx context.Context, r repository.Repositories, comment *domain.Comment, post *domain.Post) error {
	if comment == nil || post == nil {
		return nil
	}
	author, err := r.Users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return fmt.Errorf("get author: %w", err)
	}
	msg := fmt.Sprintf("New comment on your post %q", post.Title)
	return s.notify(ctx, r, author, msg, "new_comment")
}

// ListByUser returns a page of the user's notifications, newest first.
func (s *NotificationService) ListByUser(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.Notification], error) {
	return s.uow.Repos().Notifications.ListByUserPaged(ctx, userID, page.Normalize())
}

// GetByID retrieves a notification.
func (s *NotificationService) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := s.uow.Repos().Notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return n, nil
}

// MarkRead marks a notification read. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, id, requesterID string) error {
	return s.uow.Do(ctx, func(r repository.Repositories) error {
		n, err := r.Notifications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
		}
		if n.UserID != requesterID {
			return fmt.Errorf("mark notification read: %w", domain.ErrForbidden)
		}
		return r.Notifications.MarkRead(ctx, id)
	})
}

// Delete removes a notification. Allowed for the recipient or an
// administrator.
func (s *NotificationService) Delete(ctx context.Context, id, requesterID string) error {
	return s.uow.Do(ctx, func(r repository.Repositories) error {
		n, err := r.Notifications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
		}
		if n.UserID != requesterID {
			requester, err := r.Users.GetByID(ctx, requesterID)
			if err != nil {
				return err
			}
			if requester == nil || !requester.IsAdministrator() {
				return fmt.Errorf("delete notification: %w", domain.ErrForbidden)
			}
		}
		if err := s.cleanup.Cleanup(ctx, r, domain.KindNotification, id); err != nil {
			return err
		}
		return r.Notifications.Delete(ctx, id)
	})
}
