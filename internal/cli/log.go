package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sadopc/timechunk/internal/engine"
	"github.com/sadopc/timechunk/internal/store"
)

type logFlags struct {
	start, end string
	category   string
	custom     string
	note       string
}

func newLogCommand(opts *options) *cobra.Command {
	var f logFlags

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a block of time between two clock times today",
		Example: `  timechunk log --start 09:00 --end 09:45 --category meeting
  timechunk log --start 23:30 --end 00:15 --custom "Side project" --note "auth flow"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := logBlock(s, f)
			if err != nil && rec.ID == "" {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s · %s (%s to %s)\n",
				formatMinutes(rec.Duration), rec.CategoryLabel, strings.TrimSpace(f.start), strings.TrimSpace(f.end))
			return err
		},
	}

	cmd.Flags().StringVar(&f.start, "start", "", "start time, HH:MM")
	cmd.Flags().StringVar(&f.end, "end", "", "end time, HH:MM (earlier than start means past midnight)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id: "+categoryIDs())
	cmd.Flags().StringVar(&f.custom, "custom", "", "custom category label")
	cmd.Flags().StringVarP(&f.note, "note", "n", "", "optional note")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagsMutuallyExclusive("category", "custom")
	return cmd
}

// logBlock runs the Record-mode backfill and commit path. A record that was
// kept in memory only is returned together with store.ErrNotDurable.
func logBlock(s *store.Store, f logFlags) (store.TimeBlockRecord, error) {
	e := engine.New(engine.Options{
		Store:    s,
		Settings: s.LoadSettings(),
		Clock:    engine.ClockFunc(now),
		Mode:     engine.ModeRecord,
	})
	if _, err := e.Backfill(f.start, f.end); err != nil {
		return store.TimeBlockRecord{}, err
	}

	req := engine.CommitRequest{Note: f.note}
	switch {
	case f.custom != "":
		req.Custom = true
		req.CustomLabel = f.custom
	case f.category != "":
		c, ok := store.CategoryByID(f.category)
		if !ok {
			return store.TimeBlockRecord{}, fmt.Errorf("unknown category %q (want one of %s)", f.category, categoryIDs())
		}
		req.Category = &c
	default:
		c, err := pickCategory()
		if err != nil {
			return store.TimeBlockRecord{}, err
		}
		req.Category = &c
	}
	return e.Commit(req)
}

func pickCategory() (store.Category, error) {
	cats := store.DefaultCategories()
	opts := make([]huh.Option[string], len(cats))
	for i, c := range cats {
		opts[i] = huh.NewOption(fmt.Sprintf("%s %s", c.Icon, c.Label), c.ID)
	}

	var id string
	err := huh.NewSelect[string]().
		Title("Category").
		Options(opts...).
		Value(&id).
		Run()
	if err != nil {
		return store.Category{}, err
	}
	c, _ := store.CategoryByID(id)
	return c, nil
}

func categoryIDs() string {
	var ids []string
	for _, c := range store.DefaultCategories() {
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, ", ")
}
