package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(loader configLoader) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "export [page]",
		Short: "Write page layouts to <slug>.json files in the export dir",
		Long:  "Writes the canonical block list of a page (or of every page with --all) to its JSON file under the export directory, where external tools can edit it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("pass a page or --all, not both")
			}
			session, cfg, err := openSession(loader)
			if err != nil {
				return err
			}
			defer session.Close()

			logger := loggerFromContext(cmd.Context())
			if all {
				if err := session.Bridge.ExportAll(); err != nil {
					return err
				}
				logger.Info("exported all pages", "dir", cfg.ExportDir)
				return nil
			}

			page, err := session.Pages.ResolvePage(args[0])
			if err != nil {
				return err
			}
			if err := session.Bridge.ExportPage(page); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.Bridge.PagePath(page))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "export every page")
	return cmd
}

func newImportCmd(loader configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "import <page> <file>",
		Short: "Replace a page's layout from a JSON block file",
		Long:  "Replaces the layout of a page with the block array in the given file. Legacy records without row, colSpan or colStart are migrated on the way in.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(loader)
			if err != nil {
				return err
			}
			defer session.Close()

			page, err := session.Pages.ResolvePage(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			if err := session.Layout.Import(cmd.Context(), page.ID, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "layout of /%s replaced\n", page.Slug)
			return nil
		},
	}
}
