// Copyright 2025 The chatgrep Authors
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/chatgrep/chatgrep"
	"github.com/chatgrep/chatgrep/ai"
	"github.com/chatgrep/chatgrep/config"
	"github.com/chatgrep/chatgrep/ingestion"
	"github.com/chatgrep/chatgrep/reembed"
	"github.com/chatgrep/chatgrep/search"
)

func main() {
	_ = godotenv.Load()

	cfg, _, err := config.LoadDefault()
	if err != nil {
		log.Fatal(err)
	}

	app := &cli.App{
		Name:  "chatgrep",
		Usage: "Semantic search over exported chat transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   cfg.LogLevel,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Index an exported chat transcript",
				ArgsUsage: "<transcript.json>",
				Action:    importCommand,
				Flags: append(commonFlags(cfg),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed in each batch",
						Value: cfg.Ingestion.BatchSize,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
						Value: cfg.Ingestion.PoolSize,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: cfg.Ingestion.MaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search an indexed import",
				ArgsUsage: "<query words...>",
				Action:    searchCommand,
				Flags: append(commonFlags(cfg),
					&cli.StringFlag{
						Name:     "import",
						Aliases:  []string{"i"},
						Usage:    "Import id to search",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results per page",
						Value: cfg.Search.Limit,
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Result page (1-based)",
						Value: 1,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Exclusive similarity floor",
						Value: float64(cfg.Search.MinSimilarity),
					},
					&cli.StringFlag{
						Name:  "sender",
						Usage: "Only messages from this sender id",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Log each query pipeline stage",
					},
				),
			},
			{
				Name:   "imports",
				Usage:  "List indexed imports",
				Action: importsCommand,
				Flags:  commonFlags(cfg),
			},
			{
				Name:      "reembed",
				Usage:     "Rebuild an import under the configured embedding model",
				ArgsUsage: "<import-id>",
				Action:    reembedCommand,
				Flags: append(commonFlags(cfg),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of messages to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N messages",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "models",
				Usage:  "List known embedding models",
				Action: modelsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// commonFlags returns the flags shared by every data-touching command,
// with defaults taken from the loaded configuration.
func commonFlags(cfg *config.AppConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   cfg.Storage.Path,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: cfg.Embedding.Host,
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: cfg.Embedding.Model,
		},
	}
}

func openDatabase(c *cli.Context) (*chatgrep.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := chatgrep.NewDatabase(c.String("db"), chatgrep.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one transcript file argument")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithMaxRetries(c.Int("max-retries")),
		ingestion.WithRetryBaseDelay(c.Duration("retry-delay")),
	}
	if c.Int("pool-size") > 0 {
		opts = append(opts, ingestion.WithPoolSize(c.Int("pool-size")))
	}

	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	started := time.Now()
	imp, processed, err := pipeline.IngestFile(context.Background(), c.Args().First())
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %q (chat %d) as %s\n", imp.ChatName, imp.ChatID, imp.ID)
	fmt.Printf("  model:    %s\n", imp.ModelName)
	fmt.Printf("  messages: %d\n", processed)
	fmt.Printf("  took:     %v\n", time.Since(started).Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("query text required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	var monitor search.SearchMonitor
	if c.Bool("verbose") {
		monitor = search.NewLoggingMonitor(slog.Default())
	}

	results := searcher.SearchWithMonitor(context.Background(), query, c.String("import"), monitor,
		search.WithLimit(c.Int("limit")),
		search.WithPage(c.Int("page")),
		search.WithMinSimilarity(float32(c.Float64("min-similarity"))),
		search.WithSender(c.String("sender")),
	)

	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		who := hit.SenderName
		if hit.IsSelf {
			who += " (me)"
		}
		fmt.Printf("%d: [%0.3f] %s %s: %s\n", i+1, hit.Similarity, hit.Date, who, hit.Text)
	}
	return nil
}

func importsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	imports, err := db.ImportRepository().ListImports(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}

	if len(imports) == 0 {
		fmt.Println("No imports")
		return nil
	}

	for _, imp := range imports {
		fmt.Printf("%s  %s  chat=%d  model=%s  %s\n",
			imp.ID, imp.CreatedAt.Format(time.RFC3339), imp.ChatID, imp.ModelName, imp.ChatName)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one import id argument")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := db.NewReembedder(reembedConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	target, processed, err := reembedder.Run(context.Background(), c.Args().First())
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	fmt.Printf("Created import %s (model %s, %d messages)\n", target.ID, target.ModelName, processed)
	return nil
}

func modelsCommand(c *cli.Context) error {
	names := make([]string, 0, len(ai.KnownModels))
	for name := range ai.KnownModels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		family := "sentence"
		if ai.FamilyForModel(name) == ai.FamilyPrefixed {
			family = "prefixed"
		}
		fmt.Printf("%-40s %-9s %s\n", name, family, ai.KnownModels[name])
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
