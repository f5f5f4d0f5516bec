// Package cli implements the pagegrid command-line interface.
//
// Commands cover the whole editing surface: an interactive TUI editor,
// page management, layout export/import, deployment to a publish
// target, and an MCP stdio server that exposes every layout operation
// as a tool. The CLI is built on cobra; logging goes through
// charmbracelet/log and travels on the command context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pagegrid/internal/app"
	"pagegrid/internal/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
// Called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the pagegrid CLI and returns an error if any command
// fails.
func Execute() error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "pagegrid",
		Short:        "pagegrid is a 12-column page builder",
		Long:         `pagegrid manages pages laid out on a 12-column grid: edit layouts in the terminal, sync them with JSON files, drive them from AI agents over MCP, and publish them to a database.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("pagegrid %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/pagegrid/config.yaml)")

	loader := func() (*config.Config, error) {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		return config.Load(path)
	}

	root.AddCommand(newEditCmd(loader))
	root.AddCommand(newPagesCmd(loader))
	root.AddCommand(newExportCmd(loader))
	root.AddCommand(newImportCmd(loader))
	root.AddCommand(newPublishCmd(loader))
	root.AddCommand(newHistoryCmd(loader))
	root.AddCommand(newMCPCmd(loader))

	return root.ExecuteContext(context.Background())
}

// configLoader resolves the effective config for a command invocation.
type configLoader func() (*config.Config, error)

// openSession loads config and builds the service graph. The caller
// owns the returned session and must Close it.
func openSession(loader configLoader, opts ...app.Option) (*app.Session, *config.Config, error) {
	cfg, err := loader()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	session, err := app.New(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}
