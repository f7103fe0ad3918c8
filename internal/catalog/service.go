package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/db/models"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

// CategoryNode is one entry of the nested category tree.
type CategoryNode struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Children []CategoryNode `json:"children"`
}

// PhoneModelDTO is one navigable device.
type PhoneModelDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// BrandGroup lists a brand's models in display order.
type BrandGroup struct {
	Brand  string          `json:"brand"`
	Models []PhoneModelDTO `json:"models"`
}

type catalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListPhoneModels(ctx context.Context) ([]models.PhoneModel, error)
}

// Service serves the navigation trees.
type Service interface {
	CategoryTree(ctx context.Context) ([]CategoryNode, error)
	PhoneModels(ctx context.Context) ([]BrandGroup, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds the catalog service.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CategoryTree(ctx context.Context) ([]CategoryNode, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return buildTree(rows), nil
}

func (s *service) PhoneModels(ctx context.Context) ([]BrandGroup, error) {
	rows, err := s.repo.ListPhoneModels(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list phone models")
	}
	groups := make([]BrandGroup, 0)
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.Brand]
		if !ok {
			i = len(groups)
			index[row.Brand] = i
			groups = append(groups, BrandGroup{Brand: row.Brand, Models: []PhoneModelDTO{}})
		}
		groups[i].Models = append(groups[i].Models, PhoneModelDTO{ID: row.ID, Name: row.Name, Slug: row.Slug})
	}
	return groups, nil
}

// buildTree nests rows under their parents, keeping the input order among
// siblings. Rows whose parent is missing are promoted to the root.
func buildTree(rows []models.Category) []CategoryNode {
	known := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		known[row.ID] = true
	}
	children := map[uuid.UUID][]models.Category{}
	var roots []models.Category
	for _, row := range rows {
		if row.ParentID == nil || !known[*row.ParentID] || *row.ParentID == row.ID {
			roots = append(roots, row)
			continue
		}
		children[*row.ParentID] = append(children[*row.ParentID], row)
	}

	visited := map[uuid.UUID]bool{}
	var build func(level []models.Category) []CategoryNode
	build = func(level []models.Category) []CategoryNode {
		nodes := make([]CategoryNode, 0, len(level))
		for _, row := range level {
			if visited[row.ID] {
				continue
			}
			visited[row.ID] = true
			nodes = append(nodes, CategoryNode{
				ID:       row.ID,
				Name:     row.Name,
				Slug:     row.Slug,
				Children: build(children[row.ID]),
			})
		}
		return nodes
	}
	return build(roots)
}
