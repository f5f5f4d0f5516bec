package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagegrid/internal/domain"
)

func newPagesCmd(loader configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Manage pages",
	}
	cmd.AddCommand(newPagesCreateCmd(loader))
	cmd.AddCommand(newPagesListCmd(loader))
	cmd.AddCommand(newPagesRenameCmd(loader))
	cmd.AddCommand(newPagesDeleteCmd(loader))
	return cmd
}

func newPagesCreateCmd(loader configLoader) *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a page seeded with one full-width placeholder row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(loader)
			if err != nil {
				return err
			}
			defer session.Close()

			page, err := session.CreatePage(cmd.Context(), args[0], slug)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (/%s) %s\n", page.Name, page.Slug, page.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the name when omitted)")
	return cmd
}

func newPagesListCmd(loader configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(loader)
			if err != nil {
				return err
			}
			defer session.Close()

			pages, err := session.Pages.ListPages()
			if err != nil {
				return err
			}
			if len(pages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pages yet; run `pagegrid pages create`")
				return nil
			}
			for _, p := range pages {
				marker := " "
				if p.Status == domain.PageStatusPublished {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s /%-24s %-24s %s\n", marker, p.Slug, p.Name, p.ID)
			}
			return nil
		},
	}
}

func newPagesRenameCmd(loader configLoader) *cobra.Command {
	var (
		name string
		slug string
	)

	cmd := &cobra.Command{
		Use:   "rename <page>",
		Short: "Rename a page and/or change its slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && slug == "" {
				return fmt.Errorf("nothing to change: pass --name and/or --slug")
			}
			session, _, err := openSession(loader)
			if err != nil {
				return err
			}
			defer session.Close()

			page, err := session.Pages.ResolvePage(args[0])
			if err != nil {
				return err
			}
			updated, err := session.Pages.RenamePage(cmd.Context(), page.ID, name, slug)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed to %s (/%s)\n", updated.Name, updated.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new page name")
	cmd.Flags().StringVar(&slug, "slug", "", "new URL slug")
	return cmd
}

func newPagesDeleteCmd(loader configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <page>",
		Short: "Delete a page with its blocks and history",
		Args:  cobra.ExactArgs(1),
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
			if err := session.Pages.DeletePage(cmd.Context(), page.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (/%s)\n", page.Name, page.Slug)
			return nil
		},
	}
}
