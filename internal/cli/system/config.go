package system

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/constants"
)

type ConfigCmd struct {
	Show            ConfigShowCmd            `cmd:"" help:"Show the effective configuration."`
	Init            ConfigInitCmd            `cmd:"" help:"Write the effective configuration to config.yaml."`
	SetConnection   ConfigSetConnectionCmd   `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
	ClearConnection ConfigClearConnectionCmd `cmd:"" help:"Remove the PostgreSQL connection string from the OS keyring."`
	Keyring         ConfigKeyringCmd         `cmd:"" help:"Check the OS keyring."`
}

type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(ctx *cli.Context) error {
	shown := *ctx.Config
	shown.Connection = maskPassword(shown.Connection)
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	source := ctx.Config.Source
	if source == "" {
		source = "defaults"
	}
	ctx.Printf("# source: %s\n", source)
	ctx.Print(string(data))
	return nil
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config.yaml."`
}

func (cmd *ConfigInitCmd) Run(ctx *cli.Context) error {
	path := filepath.Join(ctx.Config.Dir, constants.ConfigFileYAML)
	if _, err := os.Stat(path); err == nil && !cmd.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}
	written, err := config.Write(ctx.Config.Dir, ctx.Config)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Wrote configuration to %s\n", written)
	return nil
}
