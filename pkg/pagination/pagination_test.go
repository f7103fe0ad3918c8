package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(10_000))
	assert.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2026, 3, 1, 12, 30, 0, 123, time.UTC), ID: uuid.New()}
	encoded := EncodeCursor(in)
	assert.NotContains(t, encoded, "=")

	out, err := ParseCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestParseCursorEdgeCases(t *testing.T) {
	got, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseCursor("%%%")
	assert.Error(t, err)

	_, err = ParseCursor(EncodeCursor(Cursor{})[:4])
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = ParseCursor("bm9wZQ")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestTrim(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	key := func(id uuid.UUID) Cursor { return Cursor{ID: id} }

	page := Trim(ids, 2, key)
	assert.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)
	c, err := ParseCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, ids[1], c.ID)

	page = Trim(ids[:2], 2, key)
	assert.Len(t, page.Items, 2)
	assert.Empty(t, page.NextCursor)
}
