package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newResetCommand(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if !yes {
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Delete all %d logs?", s.Count())).
					Description("This cannot be undone.").
					Affirmative("Delete").
					Negative("Keep").
					Value(&yes).
					Run()
				if err != nil {
					return err
				}
			}
			if !yes {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted")
				return nil
			}

			n := s.Count()
			if err := s.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d logs\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
