package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/timechunk/internal/config"
	"github.com/sadopc/timechunk/internal/engine"
	"github.com/sadopc/timechunk/internal/notify"
	"github.com/sadopc/timechunk/internal/store"
	"github.com/sadopc/timechunk/internal/tui"
)

// now is the wall clock used by every command; tests replace it.
var now = time.Now

type options struct {
	configPath string
	dbPath     string

	cfg     config.Config
	logFile io.Closer
	warning string
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "timechunk",
		Short: "Track your day in focus sessions, stopwatches and periodic check-ins",
		Long: `timechunk is a terminal time tracker. Run it without arguments to open the
timer; use the subcommands to log, summarize, export or reset your records.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logFile != nil {
				opts.logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/timechunk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database file (overrides db_path)")

	rootCmd.AddCommand(newTodayCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newResetCommand(opts))
	rootCmd.AddCommand(newLogCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load reads the config file and routes the standard logger. The TUI owns
// the terminal, so logs go to log_file or nowhere.
func (o *options) load() error {
	path := o.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
		path = p
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	o.cfg = cfg

	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(cfg.LogFile, "timechunk")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	o.logFile = f
	return nil
}

// openStore opens the database. An unreadable or corrupt database is
// reported and the command continues with an empty log.
func (o *options) openStore(cmd *cobra.Command) (*store.Store, error) {
	s, err := store.Open(o.cfg.DBPath)
	if s == nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	o.warning = ""
	if err != nil {
		log.Printf("open store: %v", err)
		o.warning = err.Error()
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; starting with an empty log\n", err)
	}
	return s, nil
}

func (o *options) notifier() notify.Notifier {
	if !o.cfg.NotificationsEnabled() {
		return notify.Disabled()
	}
	return notify.NewDesktop(notify.NewTerminal(os.Stderr))
}

func runTUI(cmd *cobra.Command, opts *options) error {
	s, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	e := engine.New(engine.Options{
		Store:    s,
		Settings: s.LoadSettings(),
		Clock:    engine.ClockFunc(now),
		Notifier: opts.notifier(),
	})

	app := tui.NewApp(e, s)
	if opts.warning != "" {
		app = app.WithStatus("Starting with an empty log: "+opts.warning, true)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
