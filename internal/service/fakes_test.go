package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
)

// fakeStore is an in-memory implementation of the repository interfaces. It
// mirrors the storage contract the services rely on: lookups return
// (nil, nil) when absent, deletes of absent rows are no-ops, and edges are
// single rows.
type fakeStore struct {
	posts         map[string]*domain.Post
	comments      map[string]*domain.Comment
	tags          map[string]*domain.Tag
	users         map[string]*domain.User
	notifications map[string]*domain.Notification
	podcasts      map[string]*domain.Podcast

	postTags map[string][]string     // post id -> tag ids
	likes    map[[2]string]struct{}  // {user id, post id}
	subs     map[[2]string]time.Time // {subscriber id, author id}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		posts:         make(map[string]*domain.Post),
		comments:      make(map[string]*domain.Comment),
		tags:          make(map[string]*domain.Tag),
		users:         make(map[string]*domain.User),
		notifications: make(map[string]*domain.Notification),
		podcasts:      make(map[string]*domain.Podcast),
		postTags:      make(map[string][]string),
		likes:         make(map[[2]string]struct{}),
		subs:          make(map[[2]string]time.Time),
	}
}

func (s *fakeStore) repos() repository.Repositories {
	return repository.Repositories{
		Posts:         &fakePostRepo{s},
		Comments:      &fakeCommentRepo{s},
		Tags:          &fakeTagRepo{s},
		Users:         &fakeUserRepo{s},
		Notifications: &fakeNotificationRepo{s},
		Podcasts:      &fakePodcastRepo{s},
	}
}

// fakeUnitOfWork runs the closure directly against the store. Transactional
// rollback is covered by the repository integration tests; service tests
// exercise the engine rules.
type fakeUnitOfWork struct {
	store *fakeStore
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{store: newFakeStore()}
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(r repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(u.store.repos())
}

func (u *fakeUnitOfWork) Repos() repository.Repositories {
	return u.store.repos()
}

func pageOf[T any](items []T, req domain.PageRequest) *domain.Page[T] {
	req = req.Normalize()
	total := len(items)
	start := req.Offset()
	if start > total {
		start = total
	}
	end := start + req.PageSize
	if end > total {
		end = total
	}
	return domain.NewPage(items[start:end], total, req)
}

type fakePostRepo struct{ s *fakeStore }

func (r *fakePostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) GetByPodcastID(ctx context.Context, podcastID string) (*domain.Post, error) {
	for _, p := range r.s.posts {
		if p.PodcastID != nil && *p.PodcastID == podcastID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) ListFeed(ctx context.Context, filter domain.PostFilter, feed domain.FeedType, requesterID string) (*domain.Page[domain.Post], error) {
	var items []domain.Post
	for _, p := range r.s.posts {
		switch feed {
		case domain.FeedAll:
			if p.Status != domain.PostStatusPublished {
				continue
			}
		case domain.FeedPublished:
			if p.Status != domain.PostStatusPublished || p.AuthorID != requesterID {
				continue
			}
		case domain.FeedScheduled:
			if p.Status != domain.PostStatusScheduled || p.AuthorID != requesterID {
				continue
			}
		case domain.FeedDraft:
			if p.Status != domain.PostStatusDraft || p.AuthorID != requesterID {
				continue
			}
		case domain.FeedRecommended:
			if p.Status != domain.PostStatusPublished {
				continue
			}
			if _, ok := r.s.subs[[2]string{requesterID, p.AuthorID}]; !ok {
				continue
			}
		}
		items = append(items, *p)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return pageOf(items, filter.PageRequest), nil
}

func (r *fakePostRepo) ListScheduledDue(ctx context.Context, now time.Time) ([]domain.Post, error) {
	var due []domain.Post
	for _, p := range r.s.posts {
		if p.Status == domain.PostStatusScheduled && p.PublishedAt != nil && !p.PublishedAt.After(now) {
			due = append(due, *p)
		}
	}
	return due, nil
}

func (r *fakePostRepo) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	var posts []domain.Post
	for _, p := range r.s.posts {
		if p.AuthorID == authorID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) Create(ctx context.Context, p *domain.Post) error {
	cp := *p
	r.s.posts[p.ID] = &cp
	return nil
}

func (r *fakePostRepo) Update(ctx context.Context, p *domain.Post) error {
	cp := *p
	r.s.posts[p.ID] = &cp
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id string) error {
	delete(r.s.posts, id)
	return nil
}

func (r *fakePostRepo) IncrementViews(ctx context.Context, id string) (int, error) {
	p, ok := r.s.posts[id]
	if !ok {
		return 0, nil
	}
	p.Views++
	return p.Views, nil
}

func (r *fakePostRepo) ClearPodcastRef(ctx context.Context, podcastID string) error {
	for _, p := range r.s.posts {
		if p.PodcastID != nil && *p.PodcastID == podcastID {
			p.PodcastID = nil
		}
	}
	return nil
}

func (r *fakePostRepo) ReplaceTags(ctx context.Context, postID string, tagIDs []string) error {
	r.s.postTags[postID] = append([]string(nil), tagIDs...)
	return nil
}

func (r *fakePostRepo) DetachAllTags(ctx context.Context, postID string) error {
	delete(r.s.postTags, postID)
	return nil
}

func (r *fakePostRepo) LikeExists(ctx context.Context, userID, postID string) (bool, error) {
	_, ok := r.s.likes[[2]string{userID, postID}]
	return ok, nil
}

func (r *fakePostRepo) AddLike(ctx context.Context, userID, postID string) error {
	r.s.likes[[2]string{userID, postID}] = struct{}{}
	return nil
}

func (r *fakePostRepo) RemoveLike(ctx context.Context, userID, postID string) error {
	delete(r.s.likes, [2]string{userID, postID})
	return nil
}

func (r *fakePostRepo) RemoveLikesByPost(ctx context.Context, postID string) error {
	for k := range r.s.likes {
		if k[1] == postID {
			delete(r.s.likes, k)
		}
	}
	return nil
}

func (r *fakePostRepo) RemoveLikesByUser(ctx context.Context, userID string) error {
	for k := range r.s.likes {
		if k[0] == userID {
			delete(r.s.likes, k)
		}
	}
	return nil
}

func (r *fakePostRepo) CountLikes(ctx context.Context, postID string) (int, error) {
	n := 0
	for k := range r.s.likes {
		if k[1] == postID {
			n++
		}
	}
	return n, nil
}

type fakeCommentRepo struct{ s *fakeStore }

func (r *fakeCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) ListApprovedByPost(ctx context.Context, postID string, page domain.PageRequest) (*domain.Page[domain.Comment], error) {
	var items []domain.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID && c.ParentID == nil && c.Status == domain.CommentStatusApproved {
			items = append(items, *c)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return pageOf(items, page), nil
}

func (r *fakeCommentRepo) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	var items []domain.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (r *fakeCommentRepo) ListReplies(ctx context.Context, parentID string) ([]domain.Comment, error) {
	var items []domain.Comment
	for _, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (r *fakeCommentRepo) ListByAuthor(ctx context.Context, authorID string) ([]domain.Comment, error) {
	var items []domain.Comment
	for _, c := range r.s.comments {
		if c.AuthorID == authorID {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (r *fakeCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	cp := *c
	r.s.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) UpdateStatus(ctx context.Context, id string, status domain.CommentStatus, createdAt time.Time) error {
	if c, ok := r.s.comments[id]; ok {
		c.Status = status
		c.CreatedAt = createdAt
	}
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	delete(r.s.comments, id)
	return nil
}

type fakeTagRepo struct{ s *fakeStore }

func (r *fakeTagRepo) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	t, ok := r.s.tags[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTagRepo) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	for _, t := range r.s.tags {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTagRepo) ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Tag], error) {
	var items []domain.Tag
	for _, t := range r.s.tags {
		items = append(items, *t)
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return pageOf(items, page), nil
}

func (r *fakeTagRepo) ListByPost(ctx context.Context, postID string) ([]domain.Tag, error) {
	var items []domain.Tag
	for _, id := range r.s.postTags[postID] {
		if t, ok := r.s.tags[id]; ok {
			items = append(items, *t)
		}
	}
	return items, nil
}

func (r *fakeTagRepo) ListPostIDs(ctx context.Context, tagID string) ([]string, error) {
	var ids []string
	for postID, tagIDs := range r.s.postTags {
		for _, id := range tagIDs {
			if id == tagID {
				ids = append(ids, postID)
			}
		}
	}
	return ids, nil
}

func (r *fakeTagRepo) Create(ctx context.Context, t *domain.Tag) error {
	cp := *t
	r.s.tags[t.ID] = &cp
	return nil
}

func (r *fakeTagRepo) Delete(ctx context.Context, id string) error {
	delete(r.s.tags, id)
	return nil
}

func (r *fakeTagRepo) DetachAllPosts(ctx context.Context, tagID string) error {
	for postID, tagIDs := range r.s.postTags {
		kept := tagIDs[:0]
		for _, id := range tagIDs {
			if id != tagID {
				kept = append(kept, id)
			}
		}
		r.s.postTags[postID] = kept
	}
	return nil
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.User], error) {
	var items []domain.User
	for _, u := range r.s.users {
		items = append(items, *u)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return pageOf(items, page), nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) SubscriptionExists(ctx context.Context, subscriberID, authorID string) (bool, error) {
	_, ok := r.s.subs[[2]string{subscriberID, authorID}]
	return ok, nil
}

func (r *fakeUserRepo) AddSubscription(ctx context.Context, subscriberID, authorID string) error {
	r.s.subs[[2]string{subscriberID, authorID}] = time.Now()
	return nil
}

func (r *fakeUserRepo) RemoveSubscription(ctx context.Context, subscriberID, authorID string) error {
	delete(r.s.subs, [2]string{subscriberID, authorID})
	return nil
}

func (r *fakeUserRepo) RemoveSubscriptionsByUser(ctx context.Context, userID string) error {
	for k := range r.s.subs {
		if k[0] == userID || k[1] == userID {
			delete(r.s.subs, k)
		}
	}
	return nil
}

func (r *fakeUserRepo) ListFollowers(ctx context.Context, authorID string) ([]domain.User, error) {
	var followers []domain.User
	for k := range r.s.subs {
		if k[1] == authorID {
			if u, ok := r.s.users[k[0]]; ok {
				followers = append(followers, *u)
			}
		}
	}
	sort.Slice(followers, func(i, j int) bool {
		return followers[i].ID < followers[j].ID
	})
	return followers, nil
}

func (r *fakeUserRepo) ListSubscribedAuthorIDs(ctx context.Context, subscriberID string) ([]string, error) {
	var ids []string
	for k := range r.s.subs {
		if k[0] == subscriberID {
			ids = append(ids, k[1])
		}
	}
	return ids, nil
}

type fakeNotificationRepo struct{ s *fakeStore }

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) ListByUserPaged(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.Notification], error) {
	var items []domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			items = append(items, *n)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return pageOf(items, page), nil
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	cp := *n
	r.s.notifications[n.ID] = &cp
	return nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	if n, ok := r.s.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id string) error {
	delete(r.s.notifications, id)
	return nil
}

func (r *fakeNotificationRepo) DeleteByUser(ctx context.Context, userID string) error {
	for id, n := range r.s.notifications {
		if n.UserID == userID {
			delete(r.s.notifications, id)
		}
	}
	return nil
}

type fakePodcastRepo struct{ s *fakeStore }

func (r *fakePodcastRepo) GetByID(ctx context.Context, id string) (*domain.Podcast, error) {
	p, ok := r.s.podcasts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePodcastRepo) Create(ctx context.Context, p *domain.Podcast) error {
	cp := *p
	r.s.podcasts[p.ID] = &cp
	return nil
}

func (r *fakePodcastRepo) Update(ctx context.Context, p *domain.Podcast) error {
	cp := *p
	r.s.podcasts[p.ID] = &cp
	return nil
}

func (r *fakePodcastRepo) Delete(ctx context.Context, id string) error {
	delete(r.s.podcasts, id)
	return nil
}

func (r *fakePodcastRepo) IncrementListens(ctx context.Context, id string) (int, error) {
	p, ok := r.s.podcasts[id]
	if !ok {
		return 0, nil
	}
	p.ListenCount++
	return p.ListenCount, nil
}

func seedUser(s *fakeStore, id string, role domain.UserRole) *domain.User {
	u := &domain.User{
		ID:        id,
		Name:      "user-" + id,
		Email:     id + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.users[id] = u
	return u
}

func seedPost(s *fakeStore, id, authorID string, status domain.PostStatus) *domain.Post {
	p := &domain.Post{
		ID:        id,
		Title:     "post-" + id,
		Content:   "content",
		AuthorID:  authorID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if status == domain.PostStatusPublished {
		t := time.Now().UTC().Add(-time.Hour)
		p.PublishedAt = &t
	}
	s.posts[id] = p
	return p
}

func seedComment(s *fakeStore, id, postID, authorID string, parentID *string) *domain.Comment {
	c := &domain.Comment{
		ID:        id,
		PostID:    postID,
		AuthorID:  authorID,
		ParentID:  parentID,
		Body:      "body-" + id,
		Status:    domain.CommentStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.comments[id] = c
	return c
}

// mockMailer records and optionally fails email sends.
type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// mockEventPublisher records published domain events.
type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(subject string, payload any) error {
	args := m.Called(subject, payload)
	return args.Error(0)
}
