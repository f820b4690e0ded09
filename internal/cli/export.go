package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/timechunk/internal/export"
)

func newExportCommand(opts *options) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every log as JSON or CSV",
		Long: `Export writes the full log, most recent first. JSON is an indented array of
{id, timestamp, duration, categoryId, categoryLabel, note}. Use --out - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}

			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			records := s.Logs()

			if out == "-" {
				if format == "csv" {
					return export.WriteCSV(cmd.OutOrStdout(), records)
				}
				return export.WriteJSON(cmd.OutOrStdout(), records)
			}

			path := out
			if format == "csv" {
				if path == "" {
					path = export.DefaultCSVName
				}
				err = export.ToCSV(records, path)
			} else {
				if path == "" {
					path = export.DefaultJSONName
				}
				err = export.ToJSON(records, path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default time_logs.json or time_logs.csv, - for stdout)")
	return cmd
}
