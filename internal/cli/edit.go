package cli

import (
	"github.com/spf13/cobra"

	"pagegrid/internal/app"
	"pagegrid/internal/tui"
)

func newEditCmd(loader configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <page>",
		Short: "Open the interactive grid editor on a page",
		Long:  "Opens the terminal editor on the page named by id or slug. The file bridge and, when configured, the autosnapshot scheduler run for the duration of the session.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			emitter := tui.NewEmitter()
			session, cfg, err := openSession(loader, app.WithEmitter(emitter))
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.Start(cmd.Context()); err != nil {
				return err
			}
			logger.Debug("session started", "data_dir", cfg.DataDir, "export_dir", cfg.ExportDir)

			return tui.Run(session, emitter, args[0])
		},
	}
}
