package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPublishCmd(loader configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <page>",
		Short: "Validate a page's layout and deploy it to the publish target",
		Long:  "Validates the page layout, serializes it, and upserts it into the database configured under publish: in the config file. On success the page status moves to published.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := openSession(loader)
			if err != nil {
				return err
			}
			defer session.Close()

			if cfg.Publish == nil {
				return fmt.Errorf("no publish target configured; add a publish: section to the config file")
			}

			logger := loggerFromContext(cmd.Context())
			logger.Debug("publishing", "target", cfg.Publish.Driver, "host", cfg.Publish.Host)

			page, err := session.PublishPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s as /%s to %s\n", page.Name, page.Slug, cfg.Publish.Driver)
			return nil
		},
	}
}
