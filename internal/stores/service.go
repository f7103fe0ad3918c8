package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

type storeRepository interface {
	List(ctx context.Context) ([]models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes store locations to the storefront and the repair wizard.
type Service interface {
	List(ctx context.Context) ([]StoreDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
}

type service struct {
	repo storeRepository
}

var errNoRepository = errors.New("store repository required")

func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, errNoRepository
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]StoreDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	out := make([]StoreDTO, len(rows))
	for i := range rows {
		out[i] = FromModel(&rows[i])
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	dto := FromModel(row)
	return &dto, nil
}
