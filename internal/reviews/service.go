package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

const (
	minRating     = 1
	maxRating     = 5
	minBodyLength = 10
	maxBodyLength = 5000
	maxTitle      = 120
	maxAuthor     = 80
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CreateInput is a submitted review.
type CreateInput struct {
	ProductID  uuid.UUID
	AuthorName string
	Rating     int
	Title      string
	Body       string
}

// ReviewDTO is one published review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListResult carries the reviews with their aggregate.
type ListResult struct {
	Reviews []ReviewDTO `json:"reviews"`
	Average float64     `json:"average"`
	Count   int         `json:"count"`
}

// FieldError names one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Service manages product reviews.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ReviewDTO, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) (*ListResult, error)
}

type service struct {
	repo     reviewRepository
	products productLoader
}

// NewService builds the review service.
func NewService(repo reviewRepository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// Validate normalizes the input and returns every field problem.
func Validate(input *CreateInput) []FieldError {
	input.AuthorName = strings.TrimSpace(input.AuthorName)
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)

	var errs []FieldError
	if input.ProductID == uuid.Nil {
		errs = append(errs, FieldError{Field: "product_id", Message: "product is required"})
	}
	if input.AuthorName == "" {
		errs = append(errs, FieldError{Field: "author_name", Message: "name is required"})
	} else if utf8.RuneCountInString(input.AuthorName) > maxAuthor {
		errs = append(errs, FieldError{Field: "author_name", Message: fmt.Sprintf("name must be at most %d characters", maxAuthor)})
	}
	if input.Rating < minRating || input.Rating > maxRating {
		errs = append(errs, FieldError{Field: "rating", Message: "rating must be between 1 and 5"})
	}
	if input.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if utf8.RuneCountInString(input.Title) > maxTitle {
		errs = append(errs, FieldError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", maxTitle)})
	}
	switch n := utf8.RuneCountInString(input.Body); {
	case n < minBodyLength:
		errs = append(errs, FieldError{Field: "body", Message: fmt.Sprintf("review must be at least %d characters", minBodyLength)})
	case n > maxBodyLength:
		errs = append(errs, FieldError{Field: "body", Message: fmt.Sprintf("review must be at most %d characters", maxBodyLength)})
	}
	return errs
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ReviewDTO, error) {
	if errs := Validate(&input); len(errs) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, errs[0].Message).WithDetails(errs)
	}
	if err := s.ensureProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	row := &models.Review{
		ID:         uuid.New(),
		ProductID:  input.ProductID,
		AuthorName: input.AuthorName,
		Rating:     input.Rating,
		Title:      input.Title,
		Body:       input.Body,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) ListForProduct(ctx context.Context, productID uuid.UUID) (*ListResult, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	out := &ListResult{Reviews: make([]ReviewDTO, 0, len(rows)), Count: len(rows)}
	total := 0
	for i := range rows {
		out.Reviews = append(out.Reviews, toDTO(&rows[i]))
		total += rows[i].Rating
	}
	if out.Count > 0 {
		out.Average = math.Round(float64(total)/float64(out.Count)*10) / 10
	}
	return out, nil
}

func (s *service) ensureProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func toDTO(r *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID,
		ProductID:  r.ProductID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Title:      r.Title,
		Body:       r.Body,
		CreatedAt:  r.CreatedAt,
	}
}
