package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
)

// TagService resolves free tag text into deduplicated tag entities and owns
// the tag lifecycle.
type TagService struct {
	uow     repository.UnitOfWork
	cleanup *CleanupGraph
}

// NewTagService creates a TagService.
func NewTagService(uow repository.UnitOfWork, cleanup *CleanupGraph) *TagService {
	return &TagService{uow: uow, cleanup: cleanup}
}

func isTagSeparator(r rune) bool {
	switch r {
	case '#', ',', '.', ';':
		return true
	}
	return unicode.IsSpace(r)
}

// SplitTagNames splits raw tag text on '#', ',', '.', ';' and whitespace,
// trims, drops empties, and deduplicates case-insensitively preserving the
// first-seen casing and order.
func SplitTagNames(raw string) []string {
	fields := strings.FieldsFunc(raw, isTagSeparator)

	var names []string
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ResolveFromString resolves raw tag text into tag entities, reusing existing
// tags by exact name and persisting new ones immediately. Resolution runs in
// its own unit of work: a tag created here survives even if the surrounding
// operation is later rejected. Empty input yields an empty set, not an error.
func (s *TagService) ResolveFromString(ctx context.Context, raw string) ([]domain.Tag, error) {
	names := SplitTagNames(raw)
	if len(names) == 0 {
		return nil, nil
	}

	var tags []domain.Tag
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		tags = tags[:0]
		for _, name := range names {
			t, err := r.Tags.GetByName(ctx, name)
			if err != nil {
				return fmt.Errorf("get tag %q: %w", name, err)
			}
			if t == nil {
				t = &domain.Tag{
					ID:        uuid.NewString(),
					Name:      name,
					CreatedAt: time.Now().UTC(),
				}
				if err := r.Tags.Create(ctx, t); err != nil {
					return fmt.Errorf("create tag %q: %w", name, err)
				}
			}
			tags = append(tags, *t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// GetByID retrieves a tag.
func (s *TagService) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	t, err := s.uow.Repos().Tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// ListPaged returns a page of tags ordered by name.
func (s *TagService) ListPaged(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Tag], error) {
	return s.uow.Repos().Tags.ListPaged(ctx, page.Normalize())
}

// Create adds a single tag through the same reuse-or-create rule resolution
// uses, so the direct surface cannot mint duplicates either.
func (s *TagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	names := SplitTagNames(name)
	if len(names) != 1 {
		return nil, fmt.Errorf("invalid tag name %q", name)
	}
	tags, err := s.ResolveFromString(ctx, names[0])
	if err != nil {
		return nil, err
	}
	return &tags[0], nil
}

// Delete detaches the tag from every post, then removes it. Administrators
// only.
func (s *TagService) Delete(ctx context.Context, id, requesterID string) error {
	return s.uow.Do(ctx, func(r repository.Repositories) error {
		requester, err := r.Users.GetByID(ctx, requesterID)
		if err != nil {
			return err
		}
		if requester == nil || !requester.IsAdministrator() {
			return fmt.Errorf("delete tag: %w", domain.ErrForbidden)
		}
		t, err := r.Tags.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
		}
		if err := s.cleanup.Cleanup(ctx, r, domain.KindTag, id); err != nil {
			return err
		}
		return r.Tags.Delete(ctx, id)
	})
}
