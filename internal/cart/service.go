package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

// Service exposes the remote cart store.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*Snapshot, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Snapshot, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Snapshot, error)
}

type service struct {
	repo     ItemRepository
	tx       txRunner
	products productLoader
	accounts accountLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo ItemRepository, tx txRunner, products productLoader, accounts accountLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("wholesale account loader required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
		accounts: accounts,
	}, nil
}

// Get returns the priced cart for the user.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	tier, err := s.activeTier(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap := buildSnapshot(rows, tier)
	return &snap, nil
}

// AddItem merges into an existing line for the same product and caps the
// stored quantity at stock.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.StockQty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByUserAndProduct(ctx, userID, product.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
		if existing != nil {
			qty := min(existing.Quantity+input.Quantity, product.StockQty)
			if err := repo.UpdateQuantity(ctx, existing.ID, qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
			return nil
		}
		item := &models.CartItem{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: product.ID,
			Quantity:  min(input.Quantity, product.StockQty),
		}
		if _, err := repo.Create(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// UpdateItem sets the absolute quantity of a line.
func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	item, err := s.repo.FindByIDForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	if quantity > item.Product.StockQty {
		return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "only %d in stock", item.Product.StockQty).
			WithDetails(map[string]any{"available": item.Product.StockQty})
	}
	if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.Get(ctx, userID)
}

// RemoveItem deletes a line owned by the user.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	deleted, err := s.repo.Delete(ctx, itemID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.Get(ctx, userID)
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) activeTier(ctx context.Context, userID uuid.UUID) (*enums.WholesaleTier, error) {
	account, err := s.accounts.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wholesale account")
	}
	tier, ok := account.ActiveTier()
	if !ok {
		return nil, nil
	}
	return &tier, nil
}
