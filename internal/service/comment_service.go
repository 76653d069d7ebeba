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

// CommentService manages the moderated comment tree of a post.
type CommentService struct {
	uow       repository.UnitOfWork
	validator *validator.Validator
	notifier  Notifier
	cleanup   *CleanupGraph
}

// NewCommentService creates a CommentService.
func NewCommentService(uow repository.UnitOfWork, v *validator.Validator, notifier Notifier, cleanup *CleanupGraph) *CommentService {
	return &CommentService{uow: uow, validator: v, notifier: notifier, cleanup: cleanup}
}

// ListByPost returns approved top-level comments of a post, paged. Replies
// are loaded separately through ListReplies.
func (s *CommentService) ListByPost(ctx context.Context, postID string, page domain.PageRequest) (*domain.Page[domain.Comment], error) {
	repos := s.uow.Repos()
	p, err := repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	return repos.Comments.ListApprovedByPost(ctx, postID, page.Normalize())
}

// ListReplies returns the direct replies of a comment.
func (s *CommentService) ListReplies(ctx context.Context, commentID string) ([]domain.Comment, error) {
	repos := s.uow.Repos()
	c, err := repos.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	return repos.Comments.ListReplies(ctx, commentID)
}

// GetByID retrieves a comment.
func (s *CommentService) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := s.uow.Repos().Comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// Create adds a comment in the pending state and notifies the post's author.
// A parent that does not exist demotes the comment to top-level instead of
// failing; a comment with a parent always belongs to its parent's post.
func (s *CommentService) Create(ctx context.Context, in *domain.CreateCommentInput, authorID string) (*domain.Comment, error) {
	if err := s.validator.ValidateCreateComment(in); err != nil {
		metrics.ObserveOperation("comment", "create", "invalid")
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.NewString(),
		PostID:    in.PostID,
		AuthorID:  authorID,
		ParentID:  in.ParentID,
		Body:      in.Body,
		Status:    domain.CommentStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		author, err := r.Users.GetByID(ctx, authorID)
		if err != nil {
			return err
		}
		if author == nil {
			return fmt.Errorf("user %s: %w", authorID, domain.ErrNotFound)
		}

		if comment.ParentID != nil {
			parent, err := r.Comments.GetByID(ctx, *comment.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				comment.ParentID = nil
			} else {
				comment.PostID = parent.PostID
			}
		}

		post, err := r.Posts.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			return fmt.Errorf("post %s: %w", comment.PostID, domain.ErrNotFound)
		}

		if err := r.Comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return s.notifier.NewComment(ctx, r, comment, post)
	})
	if err != nil {
		metrics.ObserveOperation("comment", "create", "error")
		return nil, err
	}
	metrics.ObserveOperation("comment", "create", "success")
	return comment, nil
}

// Publish moves a comment from pending to approved and refreshes its
// timestamp. Only the post's author may moderate.
func (s *CommentService) Publish(ctx context.Context, id, requesterID string) error {
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		c, err := r.Comments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		post, err := r.Posts.GetByID(ctx, c.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			return fmt.Errorf("post %s: %w", c.PostID, domain.ErrNotFound)
		}
		if post.AuthorID != requesterID {
			return fmt.Errorf("publish comment: %w", domain.ErrForbidden)
		}
		return r.Comments.UpdateStatus(ctx, id, domain.CommentStatusApproved, time.Now().UTC())
	})
	if err != nil {
		metrics.ObserveOperation("comment", "publish", "error")
		return err
	}
	metrics.ObserveOperation("comment", "publish", "success")
	return nil
}

// Delete removes a comment and its reply subtree, depth-first. Allowed for
// the comment's author, the post's author, or an administrator.
func (s *CommentService) Delete(ctx context.Context, id, requesterID string) error {
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		c, err := r.Comments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		if err := s.authorizeDelete(ctx, r, c, requesterID); err != nil {
			return err
		}
		if err := s.cleanup.Cleanup(ctx, r, domain.KindComment, id); err != nil {
			return err
		}
		return r.Comments.Delete(ctx, id)
	})
	if err != nil {
		metrics.ObserveOperation("comment", "delete", "error")
		return err
	}
	metrics.ObserveOperation("comment", "delete", "success")
	return nil
}

func (s *CommentService) authorizeDelete(ctx context.Context, r repository.Repositories, c *domain.Comment, requesterID string) error {
	if c.AuthorID == requesterID {
		return nil
	}
	post, err := r.Posts.GetByID(ctx, c.PostID)
	if err != nil {
		return err
	}
	if post != nil && post.AuthorID == requesterID {
		return nil
	}
	requester, err := r.Users.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	if requester == nil || !requester.IsAdministrator() {
		return fmt.Errorf("delete comment: %w", domain.ErrForbidden)
	}
	return nil
}
