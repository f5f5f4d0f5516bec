package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(loader configLoader) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "history <page>",
		Short: "List a page's undo snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := openSession(loader)
			if err != nil {
				return err
			}
			defer session.Close()

			if clear {
				if err := session.ClearHistory(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			}

			snaps, err := session.History(args[0])
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no snapshots")
				return nil
			}
			for _, sn := range snaps {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-16s %s\n", sn.Seq, sn.Label, sn.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "drop all snapshots for the page")
	return cmd
}
