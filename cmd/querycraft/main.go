package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/querycraft/internal/audit"
	"github.com/sadopc/querycraft/internal/config"
	"github.com/sadopc/querycraft/internal/export"
	"github.com/sadopc/querycraft/internal/history"
	"github.com/sadopc/querycraft/internal/logging"
	"github.com/sadopc/querycraft/internal/source"
	"github.com/sadopc/querycraft/internal/tui"

	// Register introspection sources
	_ "github.com/sadopc/querycraft/internal/source/duckdb"
	_ "github.com/sadopc/querycraft/internal/source/mysql"
	_ "github.com/sadopc/querycraft/internal/source/postgres"
	_ "github.com/sadopc/querycraft/internal/source/sqlite"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFlag  string
		schemaFlag  string
		dsnFlag     string
		adapterFlag string
		sourceFlag  string
		stateFlag   string
	)

	rootCmd := &cobra.Command{
		Use:   "querycraft",
		Short: "A terminal visual SQL query builder",
		Long: `querycraft builds SELECT, INSERT, UPDATE and DELETE statements from a
schema, either CREATE TABLE text or a live PostgreSQL, MySQL, SQLite or
DuckDB database.

Examples:
  querycraft --schema ./schema.sql              # Build against DDL
  querycraft --dsn ./app.db                     # Introspect a SQLite file
  querycraft --source prod                      # Saved source from the config
  querycraft --schema ./schema.sql --state q.yaml`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(configFlag)

			logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Directory, io.Discard)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not set up logging: %v\n", err)
				logger = nil
			}

			opts := tui.Options{
				Config:  cfg,
				Logger:  logger,
				Adapter: adapterFlag,
				DSN:     dsnFlag,
			}

			if sourceFlag != "" {
				src, ok := cfg.Source(sourceFlag)
				if !ok {
					return fmt.Errorf("no saved source named %q", sourceFlag)
				}
				opts.Adapter = src.Adapter
				opts.DSN = src.BuildDSN()
			}

			if opts.DSN != "" {
				name := opts.Adapter
				if name == "" {
					name = source.Detect(opts.DSN)
				}
				if name == "" {
					return fmt.Errorf("%w: cannot detect adapter from DSN, pass --adapter", source.ErrUnknownAdapter)
				}
				if _, err := source.Lookup(name); err != nil {
					return err
				}
				opts.Adapter = name
			}

			if schemaFlag != "" {
				text, err := os.ReadFile(schemaFlag)
				if err != nil {
					return fmt.Errorf("reading schema: %w", err)
				}
				opts.SchemaText = string(text)
				opts.SchemaName = filepath.Base(schemaFlag)
			}

			if stateFlag != "" {
				st, err := export.LoadState(stateFlag)
				if err != nil {
					return err
				}
				opts.State = &st
			}

			hist := openHistory(cfg)
			if hist != nil {
				defer hist.Close()
			}
			opts.History = hist

			auditLog := openAudit(cfg)
			if auditLog != nil {
				defer auditLog.Close()
			}
			opts.Audit = auditLog

			p := tea.NewProgram(tui.New(opts), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running application: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path")
	rootCmd.Flags().StringVarP(&schemaFlag, "schema", "s", "", "CREATE TABLE file to build against")
	rootCmd.Flags().StringVarP(&dsnFlag, "dsn", "d", "", "Database to introspect")
	rootCmd.Flags().StringVarP(&adapterFlag, "adapter", "a", "", "Database adapter (postgres, mysql, sqlite, duckdb)")
	rootCmd.Flags().StringVar(&sourceFlag, "source", "", "Saved source from the config to introspect")
	rootCmd.Flags().StringVar(&stateFlag, "state", "", "Saved query state to restore")
	rootCmd.MarkFlagsMutuallyExclusive("dsn", "source")

	rootCmd.AddCommand(
		newParseCmd(),
		newERDCmd(),
		newGenerateCmd(&configFlag),
		newIntrospectCmd(&configFlag),
		newHistoryCmd(&configFlag),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig reads path, or the default location when path is empty. A
// broken config file is reported and replaced by the defaults.
func loadConfig(path string) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	return cfg
}

// cliLogger returns the logger for subcommands, which may also write to
// stderr. It never fails; a broken log directory falls back to stderr only.
func cliLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Directory, os.Stderr)
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.Log.Level)}))
	}
	return logger
}

func openHistory(cfg *config.Config) *history.History {
	if !cfg.History.Enabled {
		return nil
	}
	hist, err := history.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history: %v\n", err)
		return nil
	}
	return hist
}

func openAudit(cfg *config.Config) *audit.Logger {
	if !cfg.Audit.Enabled {
		return nil
	}
	auditPath := config.ExpandHome(cfg.Audit.Path)
	if auditPath == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open audit log: %v\n", err)
			return nil
		}
		auditPath = filepath.Join(dir, "audit.jsonl")
	}
	auditLog, err := audit.New(auditPath, cfg.Audit.MaxSizeMB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open audit log: %v\n", err)
		return nil
	}
	return auditLog
}
