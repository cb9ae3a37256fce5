// Package integration runs the allocation engine against real PostgreSQL and
// Redis instances started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/infrastructure/config"
	"github.com/solarqc/coc-backend/internal/infrastructure/logger"
	"github.com/solarqc/coc-backend/internal/infrastructure/migration"
	"github.com/solarqc/coc-backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestDB is a migrated PostgreSQL database in its own container
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	t         *testing.T
}

// NewTestDB starts PostgreSQL, connects through persistence.NewDatabase and
// applies every postgres migration. The container is terminated on cleanup.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("coc_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	level := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		DBName:          "coc_test",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}, logger.NewGormLogger(zap.NewNop(), level))
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	runMigrations(t, sqlDB)

	return &TestDB{DB: db.DB, SqlDB: sqlDB, Container: container, t: t}
}

// CleanTables empties every ledger table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()
	err := tdb.DB.Exec(`TRUNCATE TABLE material_consumption, production_records, coc_documents, companies RESTART IDENTITY CASCADE`).Error
	require.NoError(tdb.t, err, "Failed to truncate tables")
}

// SeedLot inserts an active lot and returns it with its assigned ID
func (tdb *TestDB) SeedLot(company, material, batch, invoice string, qty int64, invoiceDate string) *coc.MaterialLot {
	tdb.t.Helper()

	date, err := time.Parse("2006-01-02", invoiceDate)
	require.NoError(tdb.t, err)
	lot, err := coc.NewMaterialLot(coc.LotKey{
		CompanyName:  company,
		MaterialName: material,
		LotBatchNo:   batch,
		InvoiceNo:    invoice,
	}, decimal.NewFromInt(qty), date)
	require.NoError(tdb.t, err)

	require.NoError(tdb.t, persistence.NewGormLotRepository(tdb.DB).Create(context.Background(), lot))
	require.NotZero(tdb.t, lot.ID)
	return lot
}

// SeedCompany registers a company with its cells per module
func (tdb *TestDB) SeedCompany(name string, cellsPerModule int) {
	tdb.t.Helper()
	err := tdb.DB.Exec(`INSERT INTO companies (company_name, cells_per_module) VALUES (?, ?)`, name, cellsPerModule).Error
	require.NoError(tdb.t, err)
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	root := findMigrationsRoot()
	require.NotEmpty(t, root, "Could not find migrations directory")

	m, err := migration.New(sqlDB, migration.DialectPostgres, root, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
}

// findMigrationsRoot walks up from this file to the repository's migrations/
func findMigrationsRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(filepath.Join(candidate, migration.DialectPostgres)); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
