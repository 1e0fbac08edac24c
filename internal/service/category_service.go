package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/access"
	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/repository"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/slug"
	"github.com/orchids/fitcourse/pkg/validator"
)

// Slug probing gives up after this many suffixes. Only pathological data
// gets anywhere near the cap.
const maxSlugAttempts = 100

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	gate         access.Gate
	log          *logger.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, gate access.Gate, log *logger.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		gate:         gate,
		log:          log,
	}
}

type CreateCategoryInput struct {
	Name        string
	Description string
	ParentID    *uuid.UUID
}

func (s *CategoryService) Create(ctx context.Context, user *domain.User, input CreateCategoryInput) (*domain.Category, error) {
	if err := s.gate.CanManage(user); err != nil {
		return nil, err
	}

	name := validator.SanitizeString(input.Name)
	if err := validator.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validator.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, domain.ErrInvalidParent
			}
			return nil, err
		}
		if parent.ProfessionalID != user.ID && !user.IsAdmin() {
			// Cross-owner parents look like they do not exist.
			return nil, domain.ErrInvalidParent
		}
	}

	base := slug.Generate(name)
	if base == "" {
		base = "category"
	}

	// The unique index is the arbiter: SlugExists cuts down collisions up
	// front, and a concurrent insert that slips past it surfaces as
	// ErrSlugTaken, which sends us around the loop again.
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := slug.WithSuffix(base, attempt)

		taken, err := s.categoryRepo.SlugExists(ctx, user.ID, input.ParentID, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		category, err := domain.NewCategory(user.ID, input.ParentID, name, candidate, input.Description)
		if err != nil {
			return nil, err
		}

		err = s.categoryRepo.Create(ctx, category)
		if err == nil {
			s.log.Info(ctx, "category created", map[string]interface{}{
				"category_id": category.ID,
				"owner_id":    category.ProfessionalID,
				"slug":        category.Slug,
			})
			return category, nil
		}
		if errors.Is(err, domain.ErrSlugTaken) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("could not find a free slug for %q: %w", base, domain.ErrSlugTaken)
}

type UpdateCategoryInput struct {
	Name        *string
	Description *string
	ParentID    *uuid.UUID
	// ClearParent promotes the category to a root. ParentID is ignored when
	// set.
	ClearParent bool
}

func (s *CategoryService) Update(ctx context.Context, user *domain.User, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	if err := s.gate.CanManage(user); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanWrite(user, category.ProfessionalID) {
		return nil, domain.ErrCategoryNotFound
	}

	if input.Name != nil {
		if err := category.Rename(validator.SanitizeString(*input.Name)); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if err := validator.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
		category.Description = validator.SanitizeString(*input.Description)
	}

	switch {
	case input.ClearParent:
		category.ParentID = nil
		category.ParentName = nil
	case input.ParentID != nil:
		if err := s.validateReparent(ctx, category, *input.ParentID); err != nil {
			return nil, err
		}
		parentID := *input.ParentID
		category.ParentID = &parentID
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return s.categoryRepo.GetByID(ctx, category.ID)
}

// validateReparent rejects parents that would cross owners or close a cycle.
func (s *CategoryService) validateReparent(ctx context.Context, category *domain.Category, parentID uuid.UUID) error {
	if parentID == category.ID {
		return domain.ErrCategoryCycle
	}

	parent, err := s.categoryRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.ErrInvalidParent
		}
		return err
	}
	if parent.ProfessionalID != category.ProfessionalID {
		return domain.ErrInvalidParent
	}

	siblings, err := s.categoryRepo.ListByOwner(ctx, category.ProfessionalID)
	if err != nil {
		return err
	}
	arena := make(map[uuid.UUID]*domain.Category, len(siblings))
	for _, c := range siblings {
		arena[c.ID] = c
	}

	// Moving a category under its own descendant would close a cycle.
	if domain.IsDescendant(arena, parent, category.ID) {
		return domain.ErrCategoryCycle
	}

	return nil
}

func (s *CategoryService) Delete(ctx context.Context, user *domain.User, id uuid.UUID) error {
	if err := s.gate.CanManage(user); err != nil {
		return err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanWrite(user, category.ProfessionalID) {
		return domain.ErrCategoryNotFound
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info(ctx, "category deleted", map[string]interface{}{
		"category_id": id,
		"owner_id":    category.ProfessionalID,
	})

	return nil
}

// Get returns a single category for management. Rows the user cannot write
// report not-found.
func (s *CategoryService) Get(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanWrite(user, category.ProfessionalID) {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// ListTree returns the caller's visible categories assembled as a forest.
// Students see the trees of every linked professional side by side.
func (s *CategoryService) ListTree(ctx context.Context, user *domain.User) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.ListByScope(ctx, access.ScopeFor(user))
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(categories), nil
}
