package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/sauce-pos/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductsMigrationDeclaresSauceEnum(t *testing.T) {
	assertContains(t, readMigration(t, "create_products_table"), []string{
		"CREATE TYPE sauce_type AS ENUM ('NONE', 'MILD', 'MEDIUM', 'HOT', 'PADTHAI')",
		"CREATE TABLE IF NOT EXISTS products",
		"sauce_type sauce_type NOT NULL DEFAULT 'NONE'",
		"DROP TYPE IF EXISTS sauce_type",
	})
}

func TestStockMigrationsGuardNegativeQuantities(t *testing.T) {
	assertContains(t, readMigration(t, "create_stores_and_store_stocks"), []string{
		"PRIMARY KEY (store_id, product_id)",
		"CONSTRAINT store_stocks_quantity_non_negative CHECK (quantity >= 0)",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS store_stocks",
	})
	assertContains(t, readMigration(t, "create_sauce_stocks"), []string{
		"CONSTRAINT sauce_stocks_quantity_non_negative CHECK (quantity >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_sauce_stocks_sauce_type",
	})
}

func TestSalesAndExpensesMigrations(t *testing.T) {
	assertContains(t, readMigration(t, "create_sales"), []string{
		"CREATE TABLE IF NOT EXISTS sale_lines",
		"FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE",
		"quantity integer NOT NULL CHECK (quantity > 0)",
	})
	assertContains(t, readMigration(t, "create_expenses"), []string{
		"CONSTRAINT expense_categories_name_key UNIQUE (name)",
		"FOREIGN KEY (category_id) REFERENCES expense_categories(id) ON DELETE RESTRICT",
	})
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "001_bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename error")
	}

	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20260101000000_no_down.sql"), []byte("-- +goose Up\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected missing down marker error")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Sale Notes!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_sale_notes.sql") {
		t.Fatalf("unexpected path %q", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := migrate.CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected error for empty sanitized name")
	}
}
