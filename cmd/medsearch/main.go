// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/medsearch"
	"github.com/poiesic/medsearch/config"
	"github.com/poiesic/medsearch/core"
	"github.com/poiesic/medsearch/dataset"
	"github.com/poiesic/medsearch/expiry"
	"github.com/poiesic/medsearch/importer"
	"github.com/poiesic/medsearch/search"
	"github.com/urfave/cli/v2"
)

const disclaimer = "Educational use only. Not medical advice."

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "medsearch",
		Usage: "Hybrid semantic and fuzzy search over medicine datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search a dataset; with no query, read queries from stdin",
				ArgsUsage: "[query...]",
				Action:    searchCommand,
				Flags: append(sourceFlags(),
					&cli.Float64Flag{
						Name:  "semantic-weight",
						Usage: "Weight of the text similarity score",
						Value: search.DefaultSemanticWeight,
					},
					&cli.Float64Flag{
						Name:  "fuzzy-weight",
						Usage: "Weight of the name similarity score",
						Value: search.DefaultFuzzyWeight,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Only return results scoring above this value",
						Value: search.DefaultMinScore,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum results per query (0 for all)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (table, json)",
						Value:   formatTable,
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Show the semantic and fuzzy scores behind each result",
					},
					&cli.StringFlag{
						Name:  "queries",
						Usage: "Run every non-blank line of this file as a query",
					},
					&cli.BoolFlag{
						Name:  "near-expiry",
						Usage: "Only return medicines expiring within 30 days",
					},
					&cli.BoolFlag{
						Name:  "high-discount",
						Usage: "Only return medicines with a clearance discount of 50% or more",
					},
					&cli.StringFlag{
						Name:  "expiry-column",
						Usage: "Header of the expiry date column used by the expiry filters",
						Value: expiry.DefaultColumn,
					},
				),
			},
			{
				Name:   "import",
				Usage:  "Import a dataset into a database for later searches",
				Action: importCommand,
				Flags: append(sourceFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to write in each transaction",
						Value: importer.DefaultConfig().BatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: importer.DefaultConfig().ReportInterval,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for a conflicting batch",
						Value: importer.DefaultConfig().MaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: importer.DefaultConfig().RetryDelay,
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show record, name and vocabulary counts",
				Action: statsCommand,
				Flags:  sourceFlags(),
			},
		},
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "dataset",
			Usage: "Path to a CSV or TSV dataset",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
		},
		&cli.StringFlag{
			Name:  "name-column",
			Usage: "Header of the display name column",
			Value: dataset.DefaultNameColumn,
		},
		&cli.StringFlag{
			Name:  "text-column",
			Usage: "Header of the searchable text column",
			Value: dataset.DefaultTextColumn,
		},
	}
}

// loadConfig applies, in increasing precedence, defaults, the --config file
// and flags set on the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("dataset") {
		cfg.Dataset.Path = c.String("dataset")
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	if c.IsSet("name-column") {
		cfg.Dataset.NameColumn = c.String("name-column")
	}
	if c.IsSet("text-column") {
		cfg.Dataset.TextColumn = c.String("text-column")
	}
	if c.IsSet("semantic-weight") {
		cfg.Scoring.SemanticWeight = c.Float64("semantic-weight")
	}
	if c.IsSet("fuzzy-weight") {
		cfg.Scoring.FuzzyWeight = c.Float64("fuzzy-weight")
	}
	if c.IsSet("min-score") {
		cfg.Scoring.MinScore = c.Float64("min-score")
	}
	if c.IsSet("limit") {
		cfg.Scoring.Limit = c.Int("limit")
	}
	if c.IsSet("batch-size") {
		cfg.Storage.BatchSize = c.Int("batch-size")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSearcher builds a searcher from the dataset file or the database.
// An explicit flag beats the config file; when only the config names both,
// the database is used.
func openSearcher(ctx context.Context, c *cli.Context, cfg *config.Config, extra ...search.Option) (*search.Searcher, *core.DatasetInfo, error) {
	useDB := cfg.Storage.Path != ""
	switch {
	case c.IsSet("dataset") && c.IsSet("db"):
		return nil, nil, errors.New("use either --dataset or --db, not both")
	case c.IsSet("dataset"):
		useDB = false
	case c.IsSet("db"):
		useDB = true
	}

	if !useDB {
		if cfg.Dataset.Path == "" {
			return nil, nil, errors.New("a dataset (--dataset) or database (--db) is required")
		}
		return medsearch.OpenDataset(ctx, cfg.Dataset.Path, cfg.DatasetOptions(), append(cfg.ScoringOptions(), extra...)...)
	}

	db, err := medsearch.NewDatabase(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	info, err := db.DatasetInfo(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read dataset info: %w", err)
	}
	s, err := db.NewSearcher(ctx, append(cfg.ScoringOptions(), extra...)...)
	if err != nil {
		return nil, nil, err
	}
	return s, info, nil
}

func searchCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	format := strings.ToLower(c.String("format"))
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("invalid format %q: must be one of table, json", format)
	}

	filters, err := expiryFilters(c)
	if err != nil {
		return err
	}
	searcher, info, err := openSearcher(ctx, c, cfg, search.WithFilter(filters...))
	if err != nil {
		return err
	}
	if column := strings.TrimSpace(c.String("expiry-column")); len(filters) > 0 && !expiry.HasColumn(info.Columns, column) {
		return fmt.Errorf("%w: %q", dataset.ErrMissingColumn, column)
	}
	out := &output{
		w:       c.App.Writer,
		format:  format,
		explain: c.Bool("explain"),
		info:    info,
	}

	fmt.Fprintln(c.App.ErrWriter, disclaimer)

	if path := c.String("queries"); path != "" {
		queries, err := readQueries(path)
		if err != nil {
			return err
		}
		results, err := searcher.SearchBatch(ctx, queries)
		if err != nil {
			return err
		}
		return out.writeBatch(queries, results)
	}

	if c.Args().Len() > 0 {
		query := strings.Join(c.Args().Slice(), " ")
		results, err := searcher.Search(ctx, query)
		if err != nil {
			return err
		}
		return out.write(results)
	}

	return interactive(ctx, c.App.Reader, c.App.ErrWriter, searcher, out)
}

// expiryFilters builds the --near-expiry and --high-discount filters.
func expiryFilters(c *cli.Context) ([]search.Filter, error) {
	column := strings.TrimSpace(c.String("expiry-column"))
	if column == "" {
		return nil, errors.New("expiry column cannot be empty")
	}

	now := time.Now()
	var filters []search.Filter
	if c.Bool("near-expiry") {
		filters = append(filters, expiry.NearExpiryFilter(column, now))
	}
	if c.Bool("high-discount") {
		filters = append(filters, expiry.HighDiscountFilter(column, now))
	}
	return filters, nil
}

// interactive reads one query per line until EOF. Blank lines are skipped.
func interactive(ctx context.Context, r io.Reader, prompt io.Writer, searcher *search.Searcher, out *output) error {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(prompt, "query> ")
		if !scanner.Scan() {
			fmt.Fprintln(prompt)
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		results, err := searcher.Search(ctx, query)
		if err != nil {
			return err
		}
		if err := out.write(results); err != nil {
			return err
		}
	}
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queries: %w", err)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			queries = append(queries, q)
		}
	}
	return queries, scanner.Err()
}

func importCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Dataset.Path == "" {
		return errors.New("dataset path is required")
	}
	if cfg.Storage.Path == "" {
		return errors.New("database path is required")
	}

	importConfig := cfg.ImportConfig()
	if c.IsSet("report-interval") {
		importConfig.ReportInterval = c.Int("report-interval")
	}
	if c.IsSet("max-retries") {
		importConfig.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		importConfig.RetryDelay = c.Duration("retry-delay")
	}
	if err := importConfig.Validate(); err != nil {
		return err
	}

	ds, err := dataset.Load(cfg.Dataset.Path, cfg.DatasetOptions())
	if err != nil {
		return err
	}

	db, err := medsearch.NewDatabase(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(c.App.ErrWriter, "Dataset: %s\n", cfg.Dataset.Path)
	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintln(c.App.ErrWriter)

	info, err := db.Import(ctx, ds, importConfig, c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Imported %d records from %s\n", info.RecordCount, info.Source)
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	searcher, info, err := openSearcher(ctx, c, cfg)
	if err != nil {
		return err
	}

	stats := searcher.Stats()
	w := c.App.Writer
	fmt.Fprintf(w, "Source:           %s\n", info.Source)
	fmt.Fprintf(w, "Records:          %d\n", stats.Records)
	fmt.Fprintf(w, "Distinct names:   %d\n", stats.DistinctNames)
	fmt.Fprintf(w, "Vocabulary terms: %d\n", stats.Terms)
	if !info.ImportedAt.IsZero() {
		fmt.Fprintf(w, "Imported at:      %s\n", info.ImportedAt.Local().Format(time.RFC3339))
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
