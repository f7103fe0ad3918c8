// Package dbtest opens throwaway sqlite databases carrying the storefront
// schema so repositories can be exercised without Postgres.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT,
		role TEXT NOT NULL DEFAULT 'customer',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE categories (
		id TEXT PRIMARY KEY,
		parent_id TEXT,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE phone_models (
		id TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT '',
		category_id TEXT,
		phone_model_id TEXT,
		price_cents INTEGER NOT NULL,
		stock_qty INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		image_url TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE cart_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (user_id, product_id)
	)`,
	`CREATE TABLE wholesale_accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		business_name TEXT NOT NULL,
		tax_id TEXT NOT NULL,
		contact_email TEXT NOT NULL,
		phone TEXT NOT NULL,
		business_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		tier TEXT,
		decided_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		user_id TEXT,
		email TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'processing',
		carrier TEXT,
		tracking_number TEXT,
		total_cents INTEGER NOT NULL,
		placed_at DATETIME NOT NULL,
		shipped_at DATETIME,
		delivered_at DATETIME,
		cancelled_at DATETIME,
		estimated_delivery DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_line_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		product_id TEXT,
		sku TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price_cents INTEGER NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE repair_tickets (
		id TEXT PRIMARY KEY,
		ticket_number TEXT NOT NULL UNIQUE,
		device_brand TEXT NOT NULL,
		device_model TEXT NOT NULL,
		issue_category TEXT NOT NULL,
		issue_description TEXT NOT NULL,
		contact_name TEXT NOT NULL,
		contact_email TEXT NOT NULL,
		contact_phone TEXT NOT NULL,
		service_type TEXT NOT NULL,
		store_id TEXT,
		preferred_date DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'received',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE warranty_claims (
		id TEXT PRIMARY KEY,
		claim_number TEXT NOT NULL UNIQUE,
		order_id TEXT NOT NULL,
		order_number TEXT NOT NULL,
		email TEXT NOT NULL,
		product_sku TEXT NOT NULL,
		reason TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'submitted',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE reviews (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		author_name TEXT NOT NULL,
		rating INTEGER NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE stores (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		line1 TEXT NOT NULL,
		line2 TEXT,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		phone TEXT NOT NULL,
		hours TEXT NOT NULL DEFAULT '',
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE outbox_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at DATETIME,
		published_at DATETIME,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT
	)`,
}

// Open returns an isolated in-memory database with every storefront table.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}
