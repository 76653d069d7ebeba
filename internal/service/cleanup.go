package service

import (
	"context"
	"fmt"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/metrics"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
)

// cleanupFunc removes the relationship edges of one entity and deletes its
// dependents, inside the caller's unit of work. The entity's own row is left
// for the caller to remove.
type cleanupFunc func(ctx context.Context, r repository.Repositories, id string) error

// CleanupGraph is the hand-rolled referential-integrity engine. The storage
// schema carries no ON DELETE cascades, so every delete runs the cleanup rule
// for its entity kind first; rules invoke each other through the dispatch
// table. The graph is acyclic per kind, so no cycle detection is needed.
//
// Lookups that find nothing during a cascade are no-ops, not errors: cascades
// are best-effort consistency maintenance, not primary operations.
type CleanupGraph struct {
	table map[domain.EntityKind]cleanupFunc
}

// NewCleanupGraph builds the dispatch table over the closed entity kind set.
func NewCleanupGraph() *CleanupGraph {
	g := &CleanupGraph{}
	g.table = map[domain.EntityKind]cleanupFunc{
		domain.KindComment:      g.cleanupComment,
		domain.KindNotification: g.cleanupNotification,
		domain.KindPodcast:      g.cleanupPodcast,
		domain.KindPost:         g.cleanupPost,
		domain.KindTag:          g.cleanupTag,
		domain.KindUser:         g.cleanupUser,
	}
	return g
}

// Cleanup runs the cleanup rule for kind on the entity with the given id.
func (g *CleanupGraph) Cleanup(ctx context.Context, r repository.Repositories, kind domain.EntityKind, id string) error {
	fn, ok := g.table[kind]
	if !ok {
		return fmt.Errorf("no cleanup rule for entity kind %q", kind)
	}
	metrics.RecordCascade(string(kind))
	return fn(ctx, r, id)
}

// cleanupComment deletes the reply subtree depth-first, leaves first, so no
// orphaned reply outlives its ancestor.
func (g *CleanupGraph) cleanupComment(ctx context.Context, r repository.Repositories, id string) error {
	replies, err := r.Comments.ListReplies(ctx, id)
	if err != nil {
		return fmt.Errorf("list replies of comment %s: %w", id, err)
	}
	for _, reply := range replies {
		if err := g.cleanupComment(ctx, r, reply.ID); err != nil {
			return err
		}
		if err := r.Comments.Delete(ctx, reply.ID); err != nil {
			return fmt.Errorf("delete reply %s: %w", reply.ID, err)
		}
	}
	return nil
}

// cleanupNotification has nothing to detach: the recipient reference is the
// only edge and it dies with the row.
func (g *CleanupGraph) cleanupNotification(ctx context.Context, r repository.Repositories, id string) error {
	return nil
}

// cleanupPodcast clears the owning post's podcast reference without deleting
// the post. An unreferenced podcast is a no-op.
func (g *CleanupGraph) cleanupPodcast(ctx context.Context, r repository.Repositories, id string) error {
	if err := r.Posts.ClearPodcastRef(ctx, id); err != nil {
		return fmt.Errorf("clear podcast ref %s: %w", id, err)
	}
	return nil
}

// cleanupPost detaches tags, deletes every comment on the post (with its
// replies), removes the like edges, and deletes the referenced podcast.
func (g *CleanupGraph) cleanupPost(ctx context.Context, r repository.Repositories, id string) error {
	if err := r.Posts.DetachAllTags(ctx, id); err != nil {
		return fmt.Errorf("detach tags of post %s: %w", id, err)
	}

	comments, err := r.Comments.ListByPost(ctx, id)
	if err != nil {
		return fmt.Errorf("list comments of post %s: %w", id, err)
	}
	for _, c := range comments {
		// Replies show up in the listing too; deleting one twice is a
		// harmless no-op.
		if err := g.cleanupComment(ctx, r, c.ID); err != nil {
			return err
		}
		if err := r.Comments.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("delete comment %s: %w", c.ID, err)
		}
	}

	if err := r.Posts.RemoveLikesByPost(ctx, id); err != nil {
		return fmt.Errorf("remove likes of post %s: %w", id, err)
	}

	post, err := r.Posts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get post %s: %w", id, err)
	}
	if post != nil && post.PodcastID != nil {
		if err := g.cleanupPodcast(ctx, r, *post.PodcastID); err != nil {
			return err
		}
		if err := r.Podcasts.Delete(ctx, *post.PodcastID); err != nil {
			return fmt.Errorf("delete podcast %s: %w", *post.PodcastID, err)
		}
	}
	return nil
}

// cleanupTag detaches the tag from every post. Tag deletion never deletes
// posts.
func (g *CleanupGraph) cleanupTag(ctx context.Context, r repository.Repositories, id string) error {
	if err := r.Tags.DetachAllPosts(ctx, id); err != nil {
		return fmt.Errorf("detach posts of tag %s: %w", id, err)
	}
	return nil
}

// cleanupUser removes everything the user owns. Posts go first so their own
// comment cascades run before the user-level comment pass, then comments,
// likes, notifications, and finally the subscription edges in bulk.
func (g *CleanupGraph) cleanupUser(ctx context.Context, r repository.Repositories, id string) error {
	posts, err := r.Posts.ListByAuthor(ctx, id)
	if err != nil {
		return fmt.Errorf("list posts of user %s: %w", id, err)
	}
	for _, p := range posts {
		if err := g.cleanupPost(ctx, r, p.ID); err != nil {
			return err
		}
		if err := r.Posts.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("delete post %s: %w", p.ID, err)
		}
	}

	comments, err := r.Comments.ListByAuthor(ctx, id)
	if err != nil {
		return fmt.Errorf("list comments of user %s: %w", id, err)
	}
	for _, c := range comments {
		// Some of these may already be gone via a post cascade above.
		if err := g.cleanupComment(ctx, r, c.ID); err != nil {
			return err
		}
		if err := r.Comments.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("delete comment %s: %w", c.ID, err)
		}
	}

	if err := r.Posts.RemoveLikesByUser(ctx, id); err != nil {
		return fmt.Errorf("remove likes of user %s: %w", id, err)
	}
	if err := r.Notifications.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("delete notifications of user %s: %w", id, err)
	}
	if err := r.Users.RemoveSubscriptionsByUser(ctx, id); err != nil {
		return fmt.Errorf("remove subscriptions of user %s: %w", id, err)
	}
	return nil
}
