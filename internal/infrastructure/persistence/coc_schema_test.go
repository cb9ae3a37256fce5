package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// cocSchema mirrors migrations/postgres/000001 closely enough for SQLite,
// including the generated availability column and the quantity checks.
var cocSchema = []string{
	`CREATE TABLE coc_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		external_id VARCHAR(64) NOT NULL DEFAULT '',
		company_name VARCHAR(255) NOT NULL,
		material_name VARCHAR(100) NOT NULL,
		brand VARCHAR(255) NOT NULL DEFAULT '',
		product_type VARCHAR(255) NOT NULL DEFAULT '',
		lot_batch_no VARCHAR(255) NOT NULL,
		invoice_no VARCHAR(100) NOT NULL,
		invoice_qty DECIMAL(14,4) NOT NULL DEFAULT 0,
		received_qty DECIMAL(14,4) NOT NULL DEFAULT 0 CHECK (received_qty >= 0),
		consumed_qty DECIMAL(14,4) NOT NULL DEFAULT 0 CHECK (consumed_qty >= 0),
		available_qty DECIMAL(14,4) GENERATED ALWAYS AS (received_qty - consumed_qty) STORED,
		invoice_date DATE NOT NULL,
		entry_date DATE,
		username VARCHAR(100) NOT NULL DEFAULT '',
		coc_document_url VARCHAR(500) NOT NULL DEFAULT '',
		iqc_document_url VARCHAR(500) NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_synced_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		CHECK (consumed_qty <= received_qty),
		UNIQUE (company_name, material_name, lot_batch_no, invoice_no)
	)`,
	`CREATE TABLE production_records (
		id VARCHAR(36) PRIMARY KEY,
		company_name VARCHAR(255) NOT NULL,
		production_date DATE NOT NULL,
		day_production INTEGER NOT NULL DEFAULT 0,
		night_production INTEGER NOT NULL DEFAULT 0,
		lot_number VARCHAR(100) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE material_consumption (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		production_date DATE NOT NULL,
		company_name VARCHAR(255) NOT NULL DEFAULT '',
		material_name VARCHAR(100) NOT NULL,
		lot_id INTEGER NOT NULL REFERENCES coc_documents(id),
		lot_reference VARCHAR(400) NOT NULL DEFAULT '',
		production_lot VARCHAR(100) NOT NULL DEFAULT '',
		production_record_id VARCHAR(36) REFERENCES production_records(id),
		consumed_quantity DECIMAL(14,4) NOT NULL CHECK (consumed_quantity > 0),
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE companies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		company_name VARCHAR(255) NOT NULL UNIQUE,
		cells_per_module INTEGER NOT NULL DEFAULT 132,
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

// newCOCTestDB opens an in-memory SQLite database with the COC schema.
// A single connection keeps every statement on the same in-memory database.
func newCOCTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	for _, stmt := range cocSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// seedLot inserts an active lot and returns it reloaded from the store
func seedLot(t *testing.T, repo *GormLotRepository, material, batch, invoice string, received int64, invoiceDate string) *coc.MaterialLot {
	t.Helper()
	lot, err := coc.NewMaterialLot(coc.LotKey{
		CompanyName:  "Sunrise Modules",
		MaterialName: material,
		LotBatchNo:   batch,
		InvoiceNo:    invoice,
	}, decimal.NewFromInt(received), day(invoiceDate))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), lot))
	return lot
}

func seedCompany(t *testing.T, db *gorm.DB, name string, cells int) {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO companies (company_name, cells_per_module, created_at, updated_at) VALUES (?, ?, ?, ?)",
		name, cells, time.Now(), time.Now(),
	).Error)
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
