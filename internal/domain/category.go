package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	ParentID       *uuid.UUID
	Name           string
	Slug           string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// ParentName is populated by queries that join the parent row; it backs
	// DisplayName and is never persisted.
	ParentName *string
	// Children is populated when assembling the tree; never persisted.
	Children []*Category
}

func NewCategory(professionalID uuid.UUID, parentID *uuid.UUID, name, slug, description string) (*Category, error) {
	category := &Category{
		ID:             uuid.New(),
		ProfessionalID: professionalID,
		ParentID:       parentID,
		Name:           strings.TrimSpace(name),
		Slug:           slug,
		Description:    strings.TrimSpace(description),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if len(c.Name) > 100 {
		return ErrInvalidName
	}
	if c.Slug == "" {
		return ErrInvalidName
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return ErrCategoryCycle
	}
	return nil
}

// DisplayName prepends the immediate parent's name when present. Only one
// level is shown even for deeper trees.
func (c *Category) DisplayName() string {
	if c.ParentName != nil && *c.ParentName != "" {
		return *c.ParentName + " › " + c.Name
	}
	return c.Name
}

func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return ErrInvalidName
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}

// BuildTree assembles a flat category list into a forest of root nodes with
// nested children, ordered alphabetically by name at every level. The input
// is treated as an arena keyed by id; nodes whose parent is missing from the
// list are promoted to roots so a partial scope still yields a usable tree.
func BuildTree(categories []*Category) []*Category {
	byID := make(map[uuid.UUID]*Category, len(categories))
	for _, c := range categories {
		c.Children = nil
		byID[c.ID] = c
	}

	var roots []*Category
	for _, c := range categories {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Children = append(parent.Children, c)
				continue
			}
		}
		roots = append(roots, c)
	}

	var sortLevel func(nodes []*Category)
	sortLevel = func(nodes []*Category) {
		sort.Slice(nodes, func(i, j int) bool {
			return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
		})
		for _, n := range nodes {
			sortLevel(n.Children)
		}
	}
	sortLevel(roots)

	return roots
}

// IsDescendant walks the ancestor chain of candidate inside the given arena
// and reports whether ancestorID appears on it. The walk is bounded by the
// arena size so residual cyclic data cannot loop forever.
func IsDescendant(arena map[uuid.UUID]*Category, candidate *Category, ancestorID uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool, len(arena))
	current := candidate

	for current != nil && current.ParentID != nil {
		parentID := *current.ParentID
		if parentID == ancestorID {
			return true
		}
		if seen[parentID] {
			return false
		}
		seen[parentID] = true
		current = arena[parentID]
	}

	return false
}
