package backups

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/wellday/internal/backup"
	"github.com/julianstephens/wellday/internal/cli/clitest"
	"github.com/julianstephens/wellday/internal/constants"
)

func TestBackupCreateAndList(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	env.Login(t)

	if err := (&BackupListCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("BackupListCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "No backups found.") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	env.Out.Reset()
	if err := (&BackupCreateCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "✓ Backup created: "+constants.BackupFilePrefix) {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	env.Out.Reset()
	if err := (&BackupListCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("BackupListCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "Available backups (1 total") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	a := env.Login(t)
	a.Plan.ToggleTask(a.Plan.Tasks()[0].ID)

	if err := (&BackupCreateCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}
	backups, err := backup.NewManager(env.Ctx.Config.Path).ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("ListBackups() = %v, %v", backups, err)
	}

	a.Plan.ResetDailyPlan()
	a.Session.Logout()

	env.Input("n\n")
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path)}).Run(env.Ctx); err != nil {
		t.Fatalf("declined restore error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("BackupRestoreCmd.Run() error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "Data restored successfully") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	restored, err := env.Ctx.App()
	if err != nil {
		t.Fatalf("App() after restore error = %v", err)
	}
	if !restored.Session.IsLoggedIn() {
		t.Error("restored session should be signed in")
	}
	if restored.Plan.Progress() != 20 {
		t.Errorf("restored progress = %d, want 20", restored.Plan.Progress())
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	if err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(env.Ctx); err == nil {
		t.Error("restoring a missing file should fail")
	}
}

func TestBackupsRequireSQLite(t *testing.T) {
	env := clitest.New(t, "2024-03-10")
	env.Ctx.Config.Backend = constants.BackendMemory

	if err := (&BackupCreateCmd{}).Run(env.Ctx); !errors.Is(err, ErrNotSQLite) {
		t.Errorf("BackupCreateCmd error = %v, want ErrNotSQLite", err)
	}
	if err := (&BackupListCmd{}).Run(env.Ctx); !errors.Is(err, ErrNotSQLite) {
		t.Errorf("BackupListCmd error = %v, want ErrNotSQLite", err)
	}
	if err := (&BackupRestoreCmd{BackupFile: "x.db", Yes: true}).Run(env.Ctx); !errors.Is(err, ErrNotSQLite) {
		t.Errorf("BackupRestoreCmd error = %v, want ErrNotSQLite", err)
	}
}
