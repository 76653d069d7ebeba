package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
)

// Hand-written testify mocks for the service interfaces the handler tests
// exercise.

type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) ListFeed(ctx context.Context, filter domain.PostFilter, feed domain.FeedType, requesterID string) (*domain.Page[domain.Post], error) {
	args := m.Called(ctx, filter, feed, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.Post]), args.Error(1)
}

func (m *mockPostService) PublishDue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockPostService) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostService) Create(ctx context.Context, in *domain.CreatePostInput, authorID, desiredStatus string) (*domain.Post, error) {
	args := m.Called(ctx, in, authorID, desiredStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostService) Update(ctx context.Context, id string, in *domain.UpdatePostInput, requesterID string, desiredStatus *string) (*domain.Post, error) {
	args := m.Called(ctx, id, in, requesterID, desiredStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostService) Delete(ctx context.Context, id, requesterID string) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) ToggleSubscription(ctx context.Context, subscriberID, authorID string) (string, error) {
	args := m.Called(ctx, subscriberID, authorID)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) ToggleLike(ctx context.Context, userID, postID string) (string, error) {
	args := m.Called(ctx, userID, postID)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserService) ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.User], error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.User]), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id string, in *domain.UpdateUserInput, requesterID string) (*domain.User, error) {
	args := m.Called(ctx, id, in, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserService) UpdateRole(ctx context.Context, id string, role domain.UserRole, requesterID string) error {
	args := m.Called(ctx, id, role, requesterID)
	return args.Error(0)
}

func (m *mockUserService) Delete(ctx context.Context, id, requesterID string) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}
