package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db"
	"github.com/repairdepot/storefront/pkg/db/models"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/logger"
	"github.com/repairdepot/storefront/pkg/pagination"
	storeredis "github.com/repairdepot/storefront/pkg/redis"
)

const (
	// AutocompleteLimit caps the suggestion list.
	AutocompleteLimit = 8
	// DefaultAutocompleteTTL applies when no TTL is configured.
	DefaultAutocompleteTTL = 60 * time.Second

	autocompleteScope = "autocomplete"
	skuUniqueKey      = "products_sku_key"
)

type suggestionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(scope string, parts ...string) string
}

// Service exposes catalog browsing and admin product management.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetBySKU(ctx context.Context, sku string) (*ProductDTO, error)
	Autocomplete(ctx context.Context, term string) ([]Suggestion, error)
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  *Repository
	cache suggestionCache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService builds the product service. cache may be nil to disable
// suggestion caching.
func NewService(repo *Repository, cache suggestionCache, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if ttl <= 0 {
		ttl = DefaultAutocompleteTTL
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, cache: cache, ttl: ttl, logg: logg}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	page, err := s.repo.List(ctx, listQuery{
		Search:          input.Search,
		CategorySlug:    input.CategorySlug,
		IncludeInactive: input.IncludeInactive,
		Pagination:      pagination.Params{Limit: input.Limit, Cursor: input.Cursor},
	})
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := &ListResult{Products: make([]ProductDTO, 0, len(page.Items)), NextCursor: page.NextCursor}
	for i := range page.Items {
		out.Products = append(out.Products, NewProductDTO(&page.Items[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetByID(ctx, id)
	return publicProduct(product, err)
}

func (s *service) GetBySKU(ctx context.Context, sku string) (*ProductDTO, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	product, err := s.repo.GetBySKU(ctx, sku)
	return publicProduct(product, err)
}

func publicProduct(product *models.Product, err error) (*ProductDTO, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

// Autocomplete serves suggestions from the cache when present. Cache
// failures fall through to the database.
func (s *service) Autocomplete(ctx context.Context, term string) ([]Suggestion, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []Suggestion{}, nil
	}

	var key string
	if s.cache != nil {
		key = s.cache.CacheKey(autocompleteScope, term)
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var cached []Suggestion
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		case !errors.Is(err, storeredis.Nil):
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "autocomplete cache read failed")
		}
	}

	rows, err := s.repo.Suggest(ctx, term, AutocompleteLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	out := make([]Suggestion, 0, len(rows))
	for _, row := range rows {
		out = append(out, Suggestion{ID: row.ID, SKU: row.SKU, Name: row.Name, Slug: row.Slug})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "autocomplete cache write failed")
			}
		}
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(input.Slug)
	if sku == "" || name == "" || slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku, name and slug are required")
	}
	if input.PriceCents < 0 || input.StockQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price and stock must be non-negative")
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := &models.Product{
		ID:           uuid.New(),
		SKU:          sku,
		Name:         name,
		Slug:         slug,
		Description:  strings.TrimSpace(input.Description),
		Brand:        strings.TrimSpace(input.Brand),
		CategoryID:   input.CategoryID,
		PhoneModelID: input.PhoneModelID,
		PriceCents:   input.PriceCents,
		StockQty:     input.StockQty,
		IsActive:     active,
		ImageURL:     input.ImageURL,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if isSKUConflict(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := NewProductDTO(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := applyUpdate(product, input); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if isSKUConflict(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := NewProductDTO(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// isSKUConflict matches the Postgres constraint or the sqlite column message.
func isSKUConflict(err error) bool {
	return db.IsUniqueViolation(err, skuUniqueKey) || db.IsUniqueViolation(err, "products.sku")
}

func applyUpdate(product *models.Product, input UpdateInput) error {
	if input.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*input.SKU))
		if sku == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		product.SKU = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty")
		}
		product.Slug = slug
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.CategoryID != nil {
		id := *input.CategoryID
		product.CategoryID = &id
	}
	if input.PhoneModelID != nil {
		id := *input.PhoneModelID
		product.PhoneModelID = &id
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
		}
		product.StockQty = *input.StockQty
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.ImageURL != nil {
		url := strings.TrimSpace(*input.ImageURL)
		if url == "" {
			product.ImageURL = nil
		} else {
			product.ImageURL = &url
		}
	}
	return nil
}
