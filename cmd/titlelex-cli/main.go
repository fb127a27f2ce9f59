// Package main provides the titlelex CLI entrypoint.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/titlelex/titlelex/internal/batch"
	"github.com/titlelex/titlelex/internal/config"
	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/patterns"
	"github.com/titlelex/titlelex/internal/pipeline"
	"github.com/titlelex/titlelex/internal/storage"
	"github.com/titlelex/titlelex/internal/telemetry"
)

var (
	cfgFile    string
	outputJSON bool
	noColor    bool
	traceFlag  bool

	cfg    *config.Config
	logger *observability.Logger
	ui     *UI
)

var rootCmd = &cobra.Command{
	Use:   "titlelex-cli",
	Short: "titlelex CLI for parsing market-research report titles",
	Long: `titlelex-cli parses market-research report titles into structured
fields: date range, report-type phrase, geographic regions, and residual
topic.

Use this tool to:
- Parse a single title or a whole corpus of titles
- Curate the pattern library (list, quarantine, restore, export, import)
- Run pattern-store migrations

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logFormat := "console"
		if outputJSON {
			logFormat = "json"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       cfg.Observability.LogLevel,
			Format:      logFormat,
			ServiceName: "titlelex-cli",
		})

		ui = NewUI(outputJSON, noColor || !IsTerminal())

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newPatternsCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newParseCmd creates the parse subcommand.
func newParseCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a single title",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}

			ctx := cmd.Context()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			lib, err := loadLibrary(ctx, db)
			if err != nil {
				return err
			}

			repo := storage.NewPatternRepository(db)
			writer := telemetry.NewWriter(logger, repo, telemetry.DefaultConfig())
			defer writer.Stop()

			pipe := pipeline.New(lib, logger, writer, pipeline.Options{StageTimeout: cfg.Pipeline.StageTimeout})

			if traceFlag {
				trace, err := pipe.Trace(ctx, title)
				if err != nil {
					return fmt.Errorf("trace title: %w", err)
				}
				return printJSON(trace)
			}

			out, err := pipe.Run(ctx, title)
			if err != nil {
				return fmt.Errorf("parse title: %w", err)
			}

			if outputJSON {
				return printJSON(out)
			}

			printOutput(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "title to parse")
	cmd.Flags().BoolVar(&traceFlag, "trace", false, "include every stage's before/after title and confidence")
	return cmd
}

// newBatchCmd creates the batch subcommand.
func newBatchCmd() *cobra.Command {
	var (
		input       string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Parse every title in a newline-delimited file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("--input is required")
			}

			titles, err := readLines(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			ctx := cmd.Context()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			lib, err := loadLibrary(ctx, db)
			if err != nil {
				return err
			}

			if concurrency <= 0 {
				concurrency = cfg.Pipeline.MaxConcurrentBatch
			}

			repo := storage.NewPatternRepository(db)
			writer := telemetry.NewWriter(logger, repo, telemetry.DefaultConfig())
			defer writer.Stop()

			pipe := pipeline.New(lib, logger, writer, pipeline.Options{StageTimeout: cfg.Pipeline.StageTimeout})
			runner := batch.NewRunner(pipe, logger, concurrency)

			bar := ui.ProgressBar("parsing", len(titles))
			results, err := runner.Run(ctx, titles, func(done, total int) {
				_ = bar.Set(done)
			})
			if err != nil {
				return fmt.Errorf("batch run: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				for _, r := range results {
					if err := enc.Encode(r.Output); err != nil {
						return err
					}
				}
				return nil
			}

			for _, r := range results {
				printOutput(r.Output)
				ui.Newline()
			}
			ui.Success("parsed %d titles", len(results))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to a newline-delimited file of titles")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max titles in flight (default: pipeline.max_concurrent_batch)")
	return cmd
}

// newPatternsCmd creates the patterns subcommand group.
func newPatternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Curate the pattern library",
	}
	cmd.AddCommand(newPatternsListCmd())
	cmd.AddCommand(newPatternsExportCmd())
	cmd.AddCommand(newPatternsImportCmd())
	cmd.AddCommand(newPatternsQuarantineCmd())
	cmd.AddCommand(newPatternsRestoreCmd())
	return cmd
}

func newPatternsListCmd() *cobra.Command {
	var patternType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patterns of a given type",
		RunE: func(cmd *cobra.Command, args []string) error {
			if patternType == "" {
				return fmt.Errorf("--type is required")
			}

			ctx := cmd.Context()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := storage.NewPatternRepository(db)
			records, err := repo.ListAll(ctx, patterns.Type(patternType))
			if err != nil {
				return fmt.Errorf("list patterns: %w", err)
			}

			if outputJSON {
				return printJSON(records)
			}

			rows := make([][]string, 0, len(records))
			for _, p := range records {
				rows = append(rows, []string{
					p.Term,
					fmt.Sprintf("%d", p.Priority),
					fmt.Sprintf("%v", p.Active),
					strings.Join(p.Aliases, ", "),
				})
			}
			ui.Table([]string{"Term", "Priority", "Active", "Aliases"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&patternType, "type", "", "pattern type (geographic_entity, market_term, date_pattern, report_type, report_type_dictionary)")
	return cmd
}

func newPatternsExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full pattern library as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := storage.NewPatternRepository(db)
			curator := patterns.NewCurator(repo)

			w := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := curator.Export(ctx, w); err != nil {
				return fmt.Errorf("export patterns: %w", err)
			}
			ui.Success("exported pattern library")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newPatternsImportCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a pattern library snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("--input is required")
			}

			ctx := cmd.Context()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open input file: %w", err)
			}
			defer f.Close()

			repo := storage.NewPatternRepository(db)
			curator := patterns.NewCurator(repo)

			count, err := curator.Import(ctx, f)
			if err != nil {
				return fmt.Errorf("import patterns: %w", err)
			}
			ui.Success("imported %d patterns", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "snapshot file produced by patterns export")
	return cmd
}

func newPatternsQuarantineCmd() *cobra.Command {
	var patternType, term, alias string

	cmd := &cobra.Command{
		Use:   "quarantine",
		Short: "Move an alias out of active matching without deleting it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := storage.NewPatternRepository(db)
			curator := patterns.NewCurator(repo)
			if err := curator.Quarantine(ctx, patterns.Type(patternType), term, alias); err != nil {
				return fmt.Errorf("quarantine alias: %w", err)
			}
			ui.Success("quarantined alias %q on %s/%s", alias, patternType, term)
			return nil
		},
	}

	cmd.Flags().StringVar(&patternType, "type", "", "pattern type")
	cmd.Flags().StringVar(&term, "term", "", "pattern term")
	cmd.Flags().StringVar(&alias, "alias", "", "alias to quarantine")
	return cmd
}

func newPatternsRestoreCmd() *cobra.Command {
	var patternType, term, alias string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Move a quarantined alias back into active matching",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := storage.NewPatternRepository(db)
			curator := patterns.NewCurator(repo)
			if err := curator.Restore(ctx, patterns.Type(patternType), term, alias); err != nil {
				return fmt.Errorf("restore alias: %w", err)
			}
			ui.Success("restored alias %q on %s/%s", alias, patternType, term)
			return nil
		},
	}

	cmd.Flags().StringVar(&patternType, "type", "", "pattern type")
	cmd.Flags().StringVar(&term, "term", "", "pattern term")
	cmd.Flags().StringVar(&alias, "alias", "", "alias to restore")
	return cmd
}

// newMigrateCmd creates the migrate subcommand.
func newMigrateCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the pattern store schema, optionally seeding defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := storage.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			ui.Success("pattern store schema up to date")

			if seed {
				repo := storage.NewPatternRepository(db)
				n, err := storage.Seed(ctx, repo)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				ui.Success("seeded %d default patterns", n)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "also insert the built-in default pattern set")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				_ = enc.Encode(map[string]string{"version": "0.1.0", "go": "1.25"})
				return
			}
			fmt.Println("titlelex-cli v0.1.0")
		},
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printOutput(out *pipeline.Output) {
	if out == nil {
		return
	}
	ui.Section(out.OriginalTitle)
	ui.KeyValue("market_type", out.MarketType)
	if out.ExtractedDateRange != nil {
		ui.KeyValue("date_range", *out.ExtractedDateRange)
	}
	ui.KeyValue("report_type", out.ExtractedReportType)
	if out.ExtractedAcronym != nil {
		ui.KeyValue("acronym", *out.ExtractedAcronym)
	}
	ui.KeyValue("regions", strings.Join(out.ExtractedRegions, ", "))
	ui.KeyValue("topic", out.Topic)
	ui.KeyValue("normalized_topic", out.NormalizedTopic)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// loadLibrary runs the pattern store migration if needed, then loads every
// active pattern into a compiled Library.
func loadLibrary(ctx context.Context, db *sql.DB) (*patterns.Library, error) {
	if err := storage.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	repo := storage.NewPatternRepository(db)
	lib, err := patterns.Load(ctx, repo, logger)
	if err != nil {
		return nil, fmt.Errorf("load pattern library: %w", err)
	}
	return lib, nil
}

// openDatabase opens a database connection based on the configuration.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.DatabaseDSN()

	var driver string
	switch cfg.Database.Driver {
	case "sqlite":
		driver = "sqlite3"
	case "postgres":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	switch cfg.Database.Driver {
	case "sqlite":
		db.SetMaxOpenConns(cfg.Database.SQLite.MaxOpenConns)
	case "postgres":
		db.SetMaxOpenConns(cfg.Database.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.Postgres.ConnMaxLifetime)
	}

	return db, nil
}
