package reviews

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/dbtest"
	"github.com/repairdepot/storefront/pkg/db/models"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

type stubProducts map[uuid.UUID]models.Product

func (s stubProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func newTestService(t *testing.T) (Service, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	svc, err := NewService(NewRepository(dbtest.Open(t)), stubProducts{id: {ID: id, IsActive: true}})
	require.NoError(t, err)
	return svc, id
}

func validInput(productID uuid.UUID, rating int) CreateInput {
	return CreateInput{
		ProductID:  productID,
		AuthorName: "Sam",
		Rating:     rating,
		Title:      "Works",
		Body:       "Fit perfectly on my phone.",
	}
}

func TestValidateCollectsFieldErrors(t *testing.T) {
	input := CreateInput{AuthorName: " ", Rating: 6, Body: "too short"}
	errs := Validate(&input)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"product_id", "author_name", "rating", "title", "body"}, fields)
}

func TestValidateBodyLengthCountsRunes(t *testing.T) {
	input := validInput(uuid.New(), 5)
	input.Body = strings.Repeat("é", 10)
	assert.Empty(t, Validate(&input))

	input.Body = "   " + strings.Repeat("a", 9) + "   "
	assert.Len(t, Validate(&input), 1, "surrounding whitespace does not count")
}

func TestCreateAndListAggregates(t *testing.T) {
	svc, productID := newTestService(t)
	ctx := context.Background()

	for _, rating := range []int{5, 4, 4} {
		_, err := svc.Create(ctx, validInput(productID, rating))
		require.NoError(t, err)
	}

	got, err := svc.ListForProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	assert.InDelta(t, 4.3, got.Average, 0.001)
	assert.Len(t, got.Reviews, 3)
}

func TestCreateRejectsInvalidRating(t *testing.T) {
	svc, productID := newTestService(t)
	for _, rating := range []int{0, 6} {
		_, err := svc.Create(context.Background(), validInput(productID, rating))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	}
}

func TestCreateRequiresKnownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), validInput(uuid.New(), 3))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListEmpty(t *testing.T) {
	svc, productID := newTestService(t)
	got, err := svc.ListForProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Zero(t, got.Count)
	assert.Zero(t, got.Average)
	assert.NotNil(t, got.Reviews)
}
