package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestOrdersMigrationContainsSnapshotColumns(t *testing.T) {
	content := readMigration(t, "*_create_orders_table.sql")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"order_items     jsonb NOT NULL",
		"address         jsonb NOT NULL",
		"status IN ('Pending', 'Shipped', 'Delivered', 'Cancelled')",
		"payment_method IN ('COD')",
		"cart_cleared_at timestamptz",
		"idx_orders_cart_pending",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAddressMigrationUsesLocationHierarchy(t *testing.T) {
	content := readMigration(t, "*_create_locations_and_addresses.sql")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS locations",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_locations_path",
		"pincode      text NOT NULL CHECK (pincode <> '')",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCartClaimMigrationAddsCheckoutColumns(t *testing.T) {
	content := readMigration(t, "*_add_checkout_claim_to_cart_lines.sql")
	for _, sub := range []string{
		"ADD COLUMN IF NOT EXISTS checkout_order_id   uuid",
		"ADD COLUMN IF NOT EXISTS checkout_claimed_at timestamptz",
		"idx_cart_lines_checkout_claim",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

	path, err := createAt(dir, "Add Order Notes!", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20250203040506_add_order_notes.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	if _, err := createAt(dir, "add order notes", now); err == nil {
		t.Fatal("expected duplicate migration error")
	}
	if _, err := createAt(dir, "!!!", now); err == nil {
		t.Fatal("expected error for empty sanitized name")
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected filename error")
	}

	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20250101000000_missing_down.sql"), []byte("-- +goose Up\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected missing marker error")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one migration for %s, got %v", pattern, matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
