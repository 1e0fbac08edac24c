package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/orchids/fitcourse/internal/access"
	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateSubscription(_ context.Context, userID uuid.UUID, status domain.SubscriptionStatus, subscriptionID, customerID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SubscriptionStatus = status
	u.SubscriptionID = subscriptionID
	if customerID != nil {
		u.CustomerID = customerID
	}
	return nil
}

type fakeLinkageRepo struct {
	mu    sync.Mutex
	links []*domain.StudentLink
	users *fakeUserRepo
}

func newFakeLinkageRepo(users *fakeUserRepo) *fakeLinkageRepo {
	return &fakeLinkageRepo{users: users}
}

func (r *fakeLinkageRepo) Create(_ context.Context, link *domain.StudentLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.ProfessionalID == link.ProfessionalID && l.StudentID == link.StudentID {
			return domain.ErrAlreadyLinked
		}
	}
	copied := *link
	r.links = append(r.links, &copied)
	return nil
}

func (r *fakeLinkageRepo) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*domain.LinkedStudent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.LinkedStudent
	for _, l := range r.links {
		if l.ProfessionalID != professionalID {
			continue
		}
		email := ""
		if u, ok := r.users.users[l.StudentID]; ok {
			email = u.Email
		}
		out = append(out, &domain.LinkedStudent{
			LinkID:    l.ID,
			StudentID: l.StudentID,
			Email:     email,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}

func (r *fakeLinkageRepo) Delete(_ context.Context, professionalID, linkID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.links {
		if l.ID == linkID && l.ProfessionalID == professionalID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return nil
		}
	}
	return domain.ErrLinkageNotFound
}

func (r *fakeLinkageRepo) professionalsOf(studentID uuid.UUID) map[uuid.UUID]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uuid.UUID]bool{}
	for _, l := range r.links {
		if l.StudentID == studentID {
			out[l.ProfessionalID] = true
		}
	}
	return out
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*domain.Category
	links      *fakeLinkageRepo
}

func newFakeCategoryRepo(links *fakeLinkageRepo) *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[uuid.UUID]*domain.Category{}, links: links}
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.ProfessionalID == category.ProfessionalID && sameParent(c.ParentID, category.ParentID) && c.Slug == category.Slug {
			return domain.ErrSlugTaken
		}
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	copied := *c
	if c.ParentID != nil {
		if parent, ok := r.categories[*c.ParentID]; ok {
			name := parent.Name
			copied.ParentName = &name
		}
	}
	return &copied, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.categories[category.ID]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	for _, c := range r.categories {
		if c.ID != category.ID && c.ProfessionalID == category.ProfessionalID &&
			sameParent(c.ParentID, category.ParentID) && c.Slug == existing.Slug {
			return domain.ErrSlugTaken
		}
	}
	existing.Name = category.Name
	existing.Description = category.Description
	existing.ParentID = category.ParentID
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	// Cascade like the schema's self-referencing foreign key does.
	doomed := map[uuid.UUID]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, c := range r.categories {
			if c.ParentID != nil && doomed[*c.ParentID] && !doomed[c.ID] {
				doomed[c.ID] = true
				changed = true
			}
		}
	}
	for cid := range doomed {
		delete(r.categories, cid)
	}
	return nil
}

func (r *fakeCategoryRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Category
	for _, c := range r.categories {
		if c.ProfessionalID == ownerID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) ListByScope(ctx context.Context, scope access.Scope) ([]*domain.Category, error) {
	switch {
	case scope.All:
		r.mu.Lock()
		defer r.mu.Unlock()
		var out []*domain.Category
		for _, c := range r.categories {
			copied := *c
			out = append(out, &copied)
		}
		return out, nil
	case scope.OwnerID != nil:
		return r.ListByOwner(ctx, *scope.OwnerID)
	case scope.StudentID != nil:
		visible := r.links.professionalsOf(*scope.StudentID)
		r.mu.Lock()
		defer r.mu.Unlock()
		var out []*domain.Category
		for _, c := range r.categories {
			if visible[c.ProfessionalID] {
				copied := *c
				out = append(out, &copied)
			}
		}
		return out, nil
	default:
		return nil, nil
	}
}

func (r *fakeCategoryRepo) SlugExists(_ context.Context, ownerID uuid.UUID, parentID *uuid.UUID, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.ProfessionalID == ownerID && sameParent(c.ParentID, parentID) && c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*domain.Video
	links  *fakeLinkageRepo
}

func newFakeVideoRepo(links *fakeLinkageRepo) *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[uuid.UUID]*domain.Video{}, links: links}
}

func (r *fakeVideoRepo) Create(_ context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVideoRepo) inScope(v *domain.Video, scope access.Scope) bool {
	switch {
	case scope.All:
		return true
	case scope.OwnerID != nil:
		return v.ProfessionalID == *scope.OwnerID
	case scope.StudentID != nil:
		if !r.links.professionalsOf(*scope.StudentID)[v.ProfessionalID] {
			return false
		}
		return !scope.ActiveOnly || v.IsActive
	default:
		return false
	}
}

func (r *fakeVideoRepo) GetByIDScoped(_ context.Context, scope access.Scope, id uuid.UUID) (*domain.Video, error) {
	r.mu.Lock()
	v, ok := r.videos[id]
	r.mu.Unlock()
	if !ok || !r.inScope(v, scope) {
		return nil, domain.ErrVideoNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVideoRepo) List(_ context.Context, scope access.Scope, filter repository.VideoFilter) ([]*domain.Video, int, error) {
	r.mu.Lock()
	all := make([]*domain.Video, 0, len(r.videos))
	for _, v := range r.videos {
		all = append(all, v)
	}
	r.mu.Unlock()

	var matched []*domain.Video
	for _, v := range all {
		if !r.inScope(v, scope) {
			continue
		}
		if filter.CategoryID != nil {
			found := false
			for _, c := range v.Categories {
				if c.ID == *filter.CategoryID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(filter.Search)) {
			continue
		}
		copied := *v
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeVideoRepo) Update(_ context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[video.ID]; !ok {
		return domain.ErrVideoNotFound
	}
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return domain.ErrVideoNotFound
	}
	delete(r.videos, id)
	return nil
}
