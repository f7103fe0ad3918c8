package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/dbtest"
	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
)

func TestRepositoryLookupsAndPasswordUpdate(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := models.User{ID: uuid.New(), Email: "Casey@Example.com", Name: "Casey", Role: enums.RoleCustomer}
	require.NoError(t, conn.Create(&user).Error)

	found, err := repo.FindByEmail(ctx, " casey@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "$argon2id$v=19$stub"))
	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PasswordHash)
	assert.Equal(t, "$argon2id$v=19$stub", *reloaded.PasswordHash)

	err = repo.UpdatePasswordHash(ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
