package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchids/fitcourse/internal/access"
	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test", "error")
}

func activeProfessional() *domain.User {
	return &domain.User{
		ID:                 uuid.New(),
		Email:              "pro@example.com",
		Role:               domain.RoleProfessional,
		SubscriptionStatus: domain.SubscriptionActive,
	}
}

func studentUser() *domain.User {
	return &domain.User{
		ID:    uuid.New(),
		Email: "student@example.com",
		Role:  domain.RoleUser,
	}
}

func newCategoryFixture() (*CategoryService, *fakeCategoryRepo, *fakeLinkageRepo) {
	users := newFakeUserRepo()
	links := newFakeLinkageRepo(users)
	categories := newFakeCategoryRepo(links)
	svc := NewCategoryService(categories, access.DefaultGate, testLogger())
	return svc, categories, links
}

func TestCreateCategorySlugCollision(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	pro := activeProfessional()
	ctx := context.Background()

	first, err := svc.Create(ctx, pro, CreateCategoryInput{Name: "Legs"})
	require.NoError(t, err)
	assert.Equal(t, "legs", first.Slug)

	second, err := svc.Create(ctx, pro, CreateCategoryInput{Name: "Legs"})
	require.NoError(t, err)
	assert.Equal(t, "legs-1", second.Slug)

	third, err := svc.Create(ctx, pro, CreateCategoryInput{Name: "Legs"})
	require.NoError(t, err)
	assert.Equal(t, "legs-2", third.Slug)
}

func TestCreateCategorySlugScopedPerOwnerAndParent(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()
	proA := activeProfessional()
	proB := activeProfessional()
	proB.Email = "other@example.com"

	a, err := svc.Create(ctx, proA, CreateCategoryInput{Name: "Legs"})
	require.NoError(t, err)

	// Another owner gets the plain slug, not a suffix.
	b, err := svc.Create(ctx, proB, CreateCategoryInput{Name: "Legs"})
	require.NoError(t, err)
	assert.Equal(t, "legs", b.Slug)

	// Same owner, different tree level: plain slug again.
	child, err := svc.Create(ctx, proA, CreateCategoryInput{Name: "Legs", ParentID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, "legs", child.Slug)
}

func TestCreateCategoryGate(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()

	unpaid := activeProfessional()
	unpaid.SubscriptionStatus = domain.SubscriptionNone
	_, err := svc.Create(ctx, unpaid, CreateCategoryInput{Name: "Legs"})
	assert.ErrorIs(t, err, domain.ErrSubscriptionRequired)

	pastDue := activeProfessional()
	pastDue.SubscriptionStatus = domain.SubscriptionPastDue
	_, err = svc.Create(ctx, pastDue, CreateCategoryInput{Name: "Legs"})
	assert.ErrorIs(t, err, domain.ErrSubscriptionRequired)

	_, err = svc.Create(ctx, studentUser(), CreateCategoryInput{Name: "Legs"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateCategoryCrossOwnerParent(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()
	proA := activeProfessional()
	proB := activeProfessional()
	proB.Email = "other@example.com"

	parent, err := svc.Create(ctx, proA, CreateCategoryInput{Name: "Workouts"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, proB, CreateCategoryInput{Name: "Legs", ParentID: &parent.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidParent)
}

func TestUpdateCategoryOwnershipCollapsesToNotFound(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()
	proA := activeProfessional()
	proB := activeProfessional()
	proB.Email = "other@example.com"

	category, err := svc.Create(ctx, proA, CreateCategoryInput{Name: "Legs"})
	require.NoError(t, err)

	name := "Stolen"
	_, err = svc.Update(ctx, proB, category.ID, UpdateCategoryInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	err = svc.Delete(ctx, proB, category.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestUpdateCategoryReparentCycle(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()
	pro := activeProfessional()

	root, err := svc.Create(ctx, pro, CreateCategoryInput{Name: "Root"})
	require.NoError(t, err)
	mid, err := svc.Create(ctx, pro, CreateCategoryInput{Name: "Mid", ParentID: &root.ID})
	require.NoError(t, err)
	leaf, err := svc.Create(ctx, pro, CreateCategoryInput{Name: "Leaf", ParentID: &mid.ID})
	require.NoError(t, err)

	// Moving the root under its own grandchild closes a cycle.
	_, err = svc.Update(ctx, pro, root.ID, UpdateCategoryInput{ParentID: &leaf.ID})
	assert.ErrorIs(t, err, domain.ErrCategoryCycle)

	// Self-parent is a cycle too.
	_, err = svc.Update(ctx, pro, mid.ID, UpdateCategoryInput{ParentID: &mid.ID})
	assert.ErrorIs(t, err, domain.ErrCategoryCycle)

	// A legal move still works.
	_, err = svc.Update(ctx, pro, leaf.ID, UpdateCategoryInput{ParentID: &root.ID})
	assert.NoError(t, err)
}

func TestAdminBypassesGate(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()

	admin := &domain.User{ID: uuid.New(), Email: "admin@example.com", Role: domain.RoleAdmin}
	_, err := svc.Create(ctx, admin, CreateCategoryInput{Name: "Ops"})
	assert.NoError(t, err)
}

func TestListTreeVisibility(t *testing.T) {
	svc, _, links := newCategoryFixture()
	ctx := context.Background()

	proA := activeProfessional()
	proB := activeProfessional()
	proB.Email = "other@example.com"
	student := studentUser()

	_, err := svc.Create(ctx, proA, CreateCategoryInput{Name: "Visible"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, proB, CreateCategoryInput{Name: "Hidden"})
	require.NoError(t, err)

	require.NoError(t, links.Create(ctx, domain.NewStudentLink(proA.ID, student.ID)))

	tree, err := svc.ListTree(ctx, student)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Visible", tree[0].Name)

	// The professional sees only their own tree.
	tree, err = svc.ListTree(ctx, proB)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Hidden", tree[0].Name)
}

func TestListTreeNestsChildren(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()
	pro := activeProfessional()

	root, err := svc.Create(ctx, pro, CreateCategoryInput{Name: "Workouts"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, pro, CreateCategoryInput{Name: "Legs", ParentID: &root.ID})
	require.NoError(t, err)

	tree, err := svc.ListTree(ctx, pro)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Legs", tree[0].Children[0].Name)
}
