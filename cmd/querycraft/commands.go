package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/querycraft/internal/audit"
	"github.com/sadopc/querycraft/internal/erd"
	"github.com/sadopc/querycraft/internal/export"
	"github.com/sadopc/querycraft/internal/history"
	"github.com/sadopc/querycraft/internal/schema"
	"github.com/sadopc/querycraft/internal/source"
	"github.com/sadopc/querycraft/internal/sqlgen"
	"github.com/sadopc/querycraft/internal/tui"
)

const introspectTimeout = 30 * time.Second

func readSchema(path string) (*schema.Catalog, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return schema.Load(string(text)), nil
}

func newParseCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the tables and relationships found in a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := readSchema(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(cat); err != nil {
					return fmt.Errorf("encoding schema: %w", err)
				}
				return enc.Close()
			}
			printCatalog(out, cat)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the catalog as YAML")
	return cmd
}

func printCatalog(w io.Writer, cat *schema.Catalog) {
	if len(cat.Tables) == 0 {
		fmt.Fprintln(w, "No tables found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range cat.Tables {
		fmt.Fprintf(tw, "%s\n", t.Name)
		for _, c := range t.Columns {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.Name, c.Type, columnFlags(c))
		}
	}
	tw.Flush()

	if len(cat.Relationships) > 0 {
		fmt.Fprintln(w, "\nRelationships:")
		for _, r := range cat.Relationships {
			fmt.Fprintf(w, "  %s.%s -> %s.%s\n", r.FromTable, r.FromColumn, r.ToTable, r.ToColumn)
		}
	}
}

func columnFlags(c schema.Column) string {
	var flags []string
	if c.IsPrimaryKey {
		flags = append(flags, "PK")
	}
	if c.IsNotNull {
		flags = append(flags, "NOT NULL")
	}
	if c.IsUnique {
		flags = append(flags, "UNIQUE")
	}
	return strings.Join(flags, " ")
}

func newERDCmd() *cobra.Command {
	var mermaid bool

	cmd := &cobra.Command{
		Use:   "erd <file>",
		Short: "Print the entity-relationship layout of a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := readSchema(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if mermaid {
				fmt.Fprint(out, erd.Mermaid(cat.Tables, cat.Relationships))
				return nil
			}

			pos := erd.Layout(cat.Tables)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, t := range cat.Tables {
				p := pos[t.Name]
				related := strings.Join(erd.Related(t.Name, cat.Relationships), ", ")
				fmt.Fprintf(tw, "%s\t(%g, %g)\t%s\n", t.Name, p.X, p.Y, related)
			}
			tw.Flush()
			for _, e := range erd.Edges(cat.Tables, cat.Relationships, pos) {
				fmt.Fprintf(out, "%s -> %s  %s  %s\n",
					e.Relationship.FromTable, e.Relationship.ToTable, e.Label, e.Path())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mermaid, "mermaid", false, "Print a Mermaid erDiagram")
	return cmd
}

func newGenerateCmd(configFlag *string) *cobra.Command {
	var (
		stateFlag string
		noFormat  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the SQL for a saved query state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configFlag)
			st, err := export.LoadState(stateFlag)
			if err != nil {
				return err
			}
			gen := sqlgen.New(sqlgen.Options{
				Format:            cfg.Format.Enabled && !noFormat,
				UppercaseKeywords: cfg.Format.UppercaseKeywords,
				MaxLineWidth:      cfg.Format.MaxLineWidth,
			}, cliLogger(cfg))
			fmt.Fprintln(cmd.OutOrStdout(), gen.Generate(st))
			return nil
		},
	}
	cmd.Flags().StringVar(&stateFlag, "state", "", "Saved query state (YAML)")
	cmd.Flags().BoolVar(&noFormat, "no-format", false, "Skip pretty-printing")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newIntrospectCmd(configFlag *string) *cobra.Command {
	var (
		adapterFlag string
		sourceFlag  string
		asYAML      bool
	)

	cmd := &cobra.Command{
		Use:   "introspect [dsn]",
		Short: "Print the schema of a live database as CREATE TABLE statements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configFlag)
			logger := cliLogger(cfg)

			var dsn string
			if len(args) > 0 {
				dsn = args[0]
			}
			name := adapterFlag
			if sourceFlag != "" {
				src, ok := cfg.Source(sourceFlag)
				if !ok {
					return fmt.Errorf("no saved source named %q", sourceFlag)
				}
				name = src.Adapter
				dsn = src.BuildDSN()
			}
			if dsn == "" {
				return fmt.Errorf("pass a DSN or --source")
			}

			auditLog := openAudit(cfg)
			if auditLog != nil {
				defer auditLog.Close()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), introspectTimeout)
			defer cancel()

			entry := audit.Entry{Action: audit.ActionIntrospect, Adapter: name, DSN: dsn}
			cat, err := source.Introspect(ctx, name, dsn)
			if err != nil {
				entry.Error = err.Error()
				auditLog.Log(entry)
				return err
			}
			auditLog.Log(entry)
			logger.Debug("introspected schema", "adapter", name, "dsn", audit.SanitizeDSN(dsn), "tables", len(cat.Tables))

			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(cat); err != nil {
					return fmt.Errorf("encoding schema: %w", err)
				}
				return enc.Close()
			}
			fmt.Fprint(out, schema.DDL(cat))
			return nil
		},
	}
	cmd.Flags().StringVarP(&adapterFlag, "adapter", "a", "", "Database adapter (detected from the DSN when empty)")
	cmd.Flags().StringVar(&sourceFlag, "source", "", "Saved source from the config")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the catalog as YAML")
	return cmd
}

func newHistoryCmd(configFlag *string) *cobra.Command {
	var (
		searchFlag string
		limitFlag  int
		clearFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear previously exported statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*configFlag)
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the config")
			}
			hist, err := history.New()
			if err != nil {
				return err
			}
			defer hist.Close()

			out := cmd.OutOrStdout()
			if clearFlag {
				if err := hist.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "History cleared.")
				return nil
			}

			var entries []history.Entry
			if searchFlag != "" {
				entries, err = hist.Search("%"+searchFlag+"%", limitFlag)
			} else {
				entries, err = hist.Recent(limitFlag)
			}
			if err != nil {
				return err
			}
			printHistory(out, entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&searchFlag, "search", "", "Only statements containing this text")
	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum number of entries")
	cmd.Flags().BoolVar(&clearFlag, "clear", false, "Delete all entries")
	return cmd
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history entries.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "-- %s  %s\n%s\n\n", e.QueryType, tui.RelativeTime(e.CreatedAt), strings.TrimSpace(e.Query))
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "querycraft %s (commit: %s, built: %s)\n", version, commit, date)
			fmt.Fprintln(out, "\nSupported adapters:")
			for _, name := range source.Names() {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		},
	}
}
