// Package dbtest opens throwaway sqlite databases carrying the storefront schema.
package dbtest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PostgresDSNEnv names the variable that enables Postgres-backed tests.
const PostgresDSNEnv = "STOREFRONT_DB_DSN"

// OpenSQLite returns an isolated in-memory database with every storefront table.
// It holds a single connection, so statements never overlap.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	return openSQLite(t, dsn, 1)
}

// OpenSQLitePool returns a file-backed database in WAL mode served by conns
// connections, for tests whose writers must genuinely overlap.
func OpenSQLitePool(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.db")
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=10000", path)
	return openSQLite(t, dsn, conns)
}

func openSQLite(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

// OpenPostgres connects to the database named by STOREFRONT_DB_DSN or skips the test.
// The schema is expected to be migrated already.
func OpenPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", PostgresDSNEnv)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("postgres handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// MustCreateCategory inserts a category and returns its id.
func MustCreateCategory(t *testing.T, tx *gorm.DB, name string) int64 {
	t.Helper()
	category := &models.Category{Name: fmt.Sprintf("%s-%s", name, uuid.NewString()[:8])}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category.ID
}

// MustCreateProduct inserts a product priced at price under categoryID.
func MustCreateProduct(t *testing.T, tx *gorm.DB, categoryID int64, name, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		Color:      "Black",
		Stock:      10,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
