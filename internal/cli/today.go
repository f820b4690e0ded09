package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/timechunk/internal/engine"
	"github.com/sadopc/timechunk/internal/store"
)

func newTodayCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Summarize today's logged time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			printToday(cmd.OutOrStdout(), s, s.LoadSettings())
			return nil
		},
	}
}

func printToday(w io.Writer, s *store.Store, cfg store.DaySettings) {
	t := now()
	sum := store.Aggregate(s.Today(t))

	fmt.Fprintf(w, "Today, %s: %s logged\n", t.Format("Mon Jan 2"), formatMinutes(sum.TotalMinutes))
	if len(sum.Breakdown) == 0 {
		fmt.Fprintln(w, "  No logs today")
	}
	for _, c := range sum.Breakdown {
		fmt.Fprintf(w, "  %-20s %8s %4d%%  (%d)\n",
			c.Label, formatMinutes(c.Minutes), share(c.Minutes, sum.TotalMinutes), c.Count)
	}

	fmt.Fprintf(w, "Day %02d:00-%02d:00: %.0f%% complete\n",
		cfg.DayStartHour, cfg.DayEndHour, engine.DayProgress(t, cfg.DayStartHour, cfg.DayEndHour))

	if last, ok := s.Latest(); ok {
		fmt.Fprintf(w, "Last log %s, %s\n", last.Timestamp.Format("Jan 2 15:04"), humanize.RelTime(last.Timestamp, t, "ago", "from now"))
	}
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func share(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(part)/float64(total)*100 + 0.5)
}
