package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/wellday/internal/backup"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/keyring"
	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/utils"
)

// schemaVersioner is implemented by the SQL backends
type schemaVersioner interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

type DoctorCmd struct{}

type doctor struct {
	ctx    *cli.Context
	failed bool
}

func (d *doctor) pass(name string) {
	d.ctx.Printf("✓ %s: OK\n", name)
}

func (d *doctor) fail(name string, err error) {
	d.ctx.Printf("❌ %s: FAIL\n   Error: %v\n", name, err)
	d.failed = true
}

func (d *doctor) warn(name string, err error) {
	d.ctx.Printf("⚠ %s: WARNING\n   %v\n", name, err)
}

func (d *doctor) skip(name, reason string) {
	d.ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
}

func (d *doctor) check(name string, err error) {
	if err != nil {
		d.fail(name, err)
		return
	}
	d.pass(name)
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()
	d := &doctor{ctx: ctx}

	d.check("Configuration", ctx.Config.Validate())
	d.check("Clock/timezone", checkClockTimezone(ctx.Config.Timezone))

	backend, release, err := ctx.Backend()
	if err != nil {
		d.fail("Backend reachable", err)
		d.skip("Schema version", "backend not reachable")
		d.skip("Stored data", "backend not reachable")
	} else {
		defer release()
		d.check("Backend reachable", checkBackendReachable(ctx.Context(), backend))

		if sv, ok := backend.(schemaVersioner); ok {
			d.check("Schema version", checkSchemaVersion(ctx.Context(), sv))
		} else {
			d.skip("Schema version", "backend has no schema")
		}
		d.check("Stored data", checkStoredData(ctx.Context(), backend))
	}

	if ctx.Config.Backend == constants.BackendSQLite {
		if err := checkBackupsPresent(ctx.Config.Path); err != nil {
			d.warn("Backups present", err)
		} else {
			d.pass("Backups present")
		}
	} else {
		d.skip("Backups present", "only the sqlite backend is backed up")
	}

	if err := checkLogDir(ctx.Config.Dir); err != nil {
		d.warn("Log directory", err)
	} else {
		d.pass("Log directory")
	}

	if ctx.Config.Backend == constants.BackendPostgres {
		d.check("OS keyring", checkKeyring(ctx.Config.Connection))
	} else {
		d.skip("OS keyring", "only used by the postgres backend")
	}

	ctx.Println()
	if d.failed {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkClockTimezone(timezone string) error {
	if !utils.ValidateTimezone(timezone) {
		return fmt.Errorf("invalid timezone %q", timezone)
	}
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkBackendReachable(ctx context.Context, backend kv.Backend) error {
	if _, _, err := backend.Get(ctx, constants.SessionStorageKey); err != nil {
		return fmt.Errorf("failed to read from %s: %w", kv.Describe(backend), err)
	}
	return nil
}

func checkSchemaVersion(ctx context.Context, sv schemaVersioner) error {
	current, latest, err := sv.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkStoredData(ctx context.Context, backend kv.Backend) error {
	st, err := loadStoredState(ctx, backend)
	if err != nil {
		return err
	}
	result := st.validate()
	return result.Err()
}

func checkBackupsPresent(dbPath string) error {
	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found, consider creating one with 'wellday backup create'")
	}
	return nil
}

func checkLogDir(configDir string) error {
	logDir := filepath.Join(configDir, constants.LogDir)
	info, err := os.Stat(logDir)
	if err != nil {
		return fmt.Errorf("log directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", logDir)
	}
	return nil
}

func checkKeyring(configured string) error {
	if _, err := keyring.ResolveConnectionString(configured); err != nil {
		return fmt.Errorf("no usable connection string: %w", err)
	}
	return nil
}
