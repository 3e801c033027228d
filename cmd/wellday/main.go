package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/cli/account"
	"github.com/julianstephens/wellday/internal/cli/backups"
	"github.com/julianstephens/wellday/internal/cli/checkins"
	"github.com/julianstephens/wellday/internal/cli/plans"
	"github.com/julianstephens/wellday/internal/cli/questionnaire"
	"github.com/julianstephens/wellday/internal/cli/system"
	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/errors"
	"github.com/julianstephens/wellday/internal/logger"
)

// CLI is the command-line grammar
type CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding config.yaml or config.toml." type:"path" default:"${config_dir}"`
	Backend   string `help:"Storage backend (sqlite, postgres, file, memory). Overrides the config file."`
	Path      string `help:"sqlite database file or file backend directory. Overrides the config file."`
	Timezone  string `help:"IANA timezone used to decide what day it is. Overrides the config file."`
	Debug     bool   `help:"Log debug output to stderr."`

	Tui     system.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Login   account.LoginCmd    `cmd:"" help:"Sign in with an email."`
	Logout  account.LogoutCmd   `cmd:"" help:"Sign out."`
	Whoami  account.WhoamiCmd   `cmd:"" help:"Show who is signed in."`
	Today   checkins.TodayCmd   `cmd:"" help:"Show today's overview."`
	Checkin checkins.CheckinCmd `cmd:"" help:"Record a daily check-in."`
	History checkins.HistoryCmd `cmd:"" help:"List recent check-ins."`

	Plan struct {
		Show   plans.PlanShowCmd   `cmd:"" help:"Show today's plan." default:"1"`
		Toggle plans.PlanToggleCmd `cmd:"" help:"Mark a task done or not done."`
		Reset  plans.PlanResetCmd  `cmd:"" help:"Start today's plan over."`
	} `cmd:"" help:"Manage the daily plan."`
	Questionnaire struct {
		Show   questionnaire.ShowCmd   `cmd:"" help:"Show questionnaire answers." default:"1"`
		Submit questionnaire.SubmitCmd `cmd:"" help:"Fill out the health questionnaire."`
	} `cmd:"" help:"Health questionnaire."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Status   system.StatusCmd   `cmd:"" help:"Show storage status."`
	Validate system.ValidateCmd `cmd:"" help:"Validate stored data."`
	Wipe     system.WipeCmd     `cmd:"" help:"Sign out and erase all data."`
	Diag     system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Config   system.ConfigCmd   `cmd:"" help:"Manage configuration and credentials."`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		errors.Fatal(err)
	}
}

// run parses args, loads the config and runs the selected command
func run(args []string, in io.Reader, out io.Writer) error {
	configDir, err := config.DefaultDir()
	if err != nil {
		return err
	}

	var c CLI
	parser, err := kong.New(&c,
		kong.Name(constants.AppName),
		kong.Description("Daily health check-ins, plan and history"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Writers(out, os.Stderr),
		kong.Vars{"version": constants.Version, "config_dir": configDir},
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.ConfigDir)
	if err != nil {
		return err
	}
	if err := c.applyFlags(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Level: cfg.LogLevel, ConfigDir: cfg.Dir}); err != nil {
		return err
	}
	logger.Debug("Loaded config", "source", cfg.Source, "backend", cfg.Backend)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.New(sigCtx, cfg)
	appCtx.In = in
	appCtx.Out = out

	runErr := kctx.Run(appCtx)
	// Pending writes are flushed even when the command failed
	if err := appCtx.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// applyFlags lets command-line flags win over the config file and environment
func (c *CLI) applyFlags(cfg *config.Config) error {
	if c.Backend != "" {
		cfg.SetBackend(c.Backend)
	}
	if c.Path != "" {
		p, err := config.ExpandPath(c.Path)
		if err != nil {
			return fmt.Errorf("invalid --path: %w", err)
		}
		cfg.SetPath(p)
	}
	if c.Timezone != "" {
		cfg.Timezone = c.Timezone
	}
	if c.Debug {
		cfg.Debug = true
	}
	return nil
}
