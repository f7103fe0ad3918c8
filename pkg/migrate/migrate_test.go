package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestMigrationsCreateStorefrontTables(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var all strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		all.Write(data)
	}
	content := all.String()

	for _, table := range []string{
		"users", "categories", "phone_models", "products", "cart_items",
		"wholesale_accounts", "orders", "order_line_items", "stores",
		"repair_tickets", "warranty_claims", "reviews", "outbox_events",
	} {
		assert.Contains(t, content, "CREATE TABLE IF NOT EXISTS "+table+" (", "missing table %s", table)
		assert.Contains(t, content, "DROP TABLE IF EXISTS "+table+";", "missing down for %s", table)
	}
	assert.Contains(t, content, "CONSTRAINT cart_items_user_product_key UNIQUE (user_id, product_id)")
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, ValidateDir(dir), "empty dir has no migrations")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_only_up.sql"), []byte("-- +goose Up\n"), 0o644))
	err = ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing \"-- +goose Down\"")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Store Hours!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_store_hours.sql"))
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestCreateRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)

	path, err := createAt(dir, "add reviews index", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260402083000_add_reviews_index.sql"), path)

	_, err = createAt(dir, "Add  Reviews--Index", now)
	assert.ErrorContains(t, err, "already exists")
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("20260101000000_a.sql", "-- +goose Up\n-- +goose Down\n")
	write("20260101000000_b.sql", "-- +goose Up\n")
	write("Bad.sql", "")
	write("notes.txt", "ignored")

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.Contains(t, err.Error(), "duplicate migration version 20260101000000")
	assert.Contains(t, err.Error(), "invalid migration filename \"Bad.sql\"")
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("20260301090500")
	require.NoError(t, err)
	assert.Equal(t, int64(20260301090500), v)

	for _, bad := range []string{"", "2026", "2026030109050x", "202603010905001"} {
		_, err := ParseVersion(bad)
		assert.Error(t, err, bad)
	}
}
