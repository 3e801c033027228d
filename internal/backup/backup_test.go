package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/kv/sqlite"
)

// setupTestDB creates a migrated wellday database holding one value
func setupTestDB(t *testing.T, value string) string {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), constants.DefaultDBName)

	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Set(ctx, constants.PlanStorageKey, value); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close test database: %v", err)
	}
	return dbPath
}

func readValue(t *testing.T, dbPath string) string {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()
	v, ok, err := store.Get(ctx, constants.PlanStorageKey)
	if err != nil || !ok {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
	return v
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestCreateBackup(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t, "original")

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want dir %s", backupPath, mgr.GetBackupDir())
	}
	name := filepath.Base(backupPath)
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		t.Errorf("unexpected backup name %s", name)
	}
	if got := readValue(t, backupPath); got != "original" {
		t.Errorf("backup value = %q, want %q", got, "original")
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(context.Background()); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestCreateBackupRejectsForeignDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := NewManager(dbPath).CreateBackup(context.Background()); err == nil {
		t.Fatal("expected error for a database without kv_store")
	}
}

func TestBackupNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t, "v")
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 10, 9, 30, 15, 0, time.Local))

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.CreateBackup(ctx)
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		if seen[p] {
			t.Fatalf("duplicate backup path %s", p)
		}
		seen[p] = true
	}

	want := []string{"wellday-20240310-0930.db", "wellday-20240310-093015.db", "wellday-20240310-093015-1.db"}
	for _, name := range want {
		if !seen[filepath.Join(mgr.GetBackupDir(), name)] {
			t.Errorf("expected backup %s, got %v", name, seen)
		}
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t, "v")
	mgr := NewManager(dbPath)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}

	if err := os.MkdirAll(mgr.GetBackupDir(), 0o700); err != nil {
		t.Fatal(err)
	}
	files := []string{
		"wellday-20240101-1200.db",
		"wellday-20240102-1200.db",
		"wellday-20240102-120030.db",
		"wellday-20240102-120030-2.db",
		"wellday-notadate.db",
		"other-20240101-1200.db",
		"wellday-20240103-1200.txt",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), f), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	var names []string
	for _, b := range backups {
		names = append(names, filepath.Base(b.Path))
	}
	want := []string{
		"wellday-20240102-120030.db",
		"wellday-20240102-120030-2.db",
		"wellday-20240102-1200.db",
		"wellday-20240101-1200.db",
	}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("ListBackups() = %v, want %v", names, want)
	}
}

func TestRotateBackups(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t, "v")
	mgr := NewManager(dbPath)
	mgr.keep = 3

	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		mgr.now = fixedClock(start.AddDate(0, 0, i))
		if _, err := mgr.CreateBackup(ctx); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	if got := filepath.Base(backups[2].Path); got != "wellday-20240303-0800.db" {
		t.Errorf("oldest kept backup = %s, want wellday-20240303-0800.db", got)
	}
}

func TestRestoreBackup(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t, "before")
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, constants.PlanStorageKey, "after"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	mgr.now = fixedClock(time.Date(2024, 3, 10, 10, 0, 0, 0, time.Local))
	safety, err := mgr.RestoreBackup(ctx, backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the current database")
	}

	if got := readValue(t, dbPath); got != "before" {
		t.Errorf("restored value = %q, want %q", got, "before")
	}
	if got := readValue(t, safety); got != "after" {
		t.Errorf("safety backup value = %q, want %q", got, "after")
	}
}

func TestRestoreBackupRejectsInvalidFile(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t, "keep")
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "wellday-20240101-1200.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.RestoreBackup(ctx, bogus); err == nil {
		t.Fatal("expected error restoring an invalid backup")
	}
	if _, err := mgr.RestoreBackup(ctx, filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatal("expected error restoring a missing backup")
	}
	if got := readValue(t, dbPath); got != "keep" {
		t.Errorf("database changed after failed restore: %q", got)
	}
}
