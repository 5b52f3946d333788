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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	docgraph "github.com/poiesic/docgraph"
	"github.com/poiesic/docgraph/config"
	"github.com/poiesic/docgraph/consistency"
	"github.com/poiesic/docgraph/dataset"
	"github.com/poiesic/docgraph/graph"
	"github.com/poiesic/docgraph/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docgraph",
		Usage: "Question answering over a technical-document corpus",
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
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Chunk, embed, and store a document",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Document identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Document display name for citations",
					},
					&cli.StringFlag{
						Name:  "chapter",
						Usage: "Chapter or section label for citations",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the stored corpus",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
				},
			},
			{
				Name:      "check",
				Usage:     "Run consistency heuristics over a document file",
				ArgsUsage: "<file>",
				Action:    checkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Document identifier",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title",
					},
					&cli.StringFlag{
						Name:  "version",
						Usage: "Document version label",
					},
					&cli.TimestampFlag{
						Name:   "created",
						Usage:  "Document creation date (YYYY-MM-DD)",
						Layout: "2006-01-02",
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Cross-check the corpus against the relation graph",
				Action: validateCommand,
				Flags:  datasetFlags(),
			},
			{
				Name:   "stats",
				Usage:  "Print relation graph statistics",
				Action: statsCommand,
				Flags:  datasetFlags(),
			},
			{
				Name:      "term",
				Usage:     "Look up a glossary term and the documents mentioning it",
				ArgsUsage: "<term>",
				Action:    termCommand,
				Flags:     datasetFlags(),
			},
			{
				Name:      "impact",
				Usage:     "Show dependents and replacement chain for a document",
				ArgsUsage: "<doc-id>",
				Action:    impactCommand,
				Flags:     datasetFlags(),
			},
			{
				Name:      "find",
				Usage:     "Find documents by metadata keyword",
				ArgsUsage: "<keyword>",
				Action:    findCommand,
				Flags:     datasetFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func datasetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "relations",
			Usage: "Path to graph relations JSON file",
		},
		&cli.StringFlag{
			Name:  "metadata",
			Usage: "Path to document metadata CSV file",
		},
		&cli.StringFlag{
			Name:  "glossary",
			Usage: "Path to glossary JSON file",
		},
	}
}

// loadConfig reads the --config file when given, otherwise the defaults,
// then applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if db := c.String("db"); db != "" {
		cfg.Storage.Path = db
	}
	for _, flag := range []struct {
		name   string
		target *string
	}{
		{"relations", &cfg.Dataset.Relations},
		{"metadata", &cfg.Dataset.Metadata},
		{"glossary", &cfg.Dataset.Glossary},
	} {
		if v := c.String(flag.name); v != "" {
			*flag.target = v
		}
	}
	return cfg, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	text, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := docgraph.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("opening engine: %w", err)
	}
	defer engine.Close()

	pipeline, err := engine.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}
	defer pipeline.Release()

	records, err := pipeline.IngestDocument(c.Context, ingestion.DocumentInput{
		ID:      c.String("id"),
		Name:    c.String("name"),
		Chapter: c.String("chapter"),
	}, string(text))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d chunks from %s\n", len(records), c.Args().First())
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := docgraph.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("opening engine: %w", err)
	}
	defer engine.Close()

	answer, err := engine.Ask(c.Context, question)
	if err != nil {
		return fmt.Errorf("question failed: %w", err)
	}

	fmt.Println(answer.Text)
	if len(answer.Citations) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, citation := range answer.Citations {
			fmt.Printf("  - %s, chapter %s\n", citation.DocumentName, citation.Chapter)
		}
	}
	fmt.Fprintf(os.Stderr, "confidence: %.2f\n", answer.Confidence)
	if answer.Degraded {
		fmt.Fprintln(os.Stderr, "warning: answer generated in degraded mode")
	}
	return nil
}

func checkCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	content, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	doc := consistency.DocumentContent{
		ID:      c.String("id"),
		Title:   c.String("title"),
		Version: c.String("version"),
		Content: string(content),
	}
	if ts := c.Timestamp("created"); ts != nil {
		doc.CreatedAt = *ts
	}

	report := consistency.NewChecker().Check(doc)
	if report.Clean() {
		fmt.Println("No findings.")
		return nil
	}

	printFindings("Issues", report.Issues)
	printFindings("Warnings", report.Warnings)
	printFindings("Deprecated references", report.DeprecatedReferences)
	printFindings("Contradictions", report.Contradictions)
	return nil
}

func printFindings(label string, findings []consistency.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, finding := range findings {
		fmt.Printf("  - [%s] %s\n", finding.Issue, finding.Message)
	}
}

func validateCommand(c *cli.Context) error {
	g, err := buildGraph(c)
	if err != nil {
		return err
	}

	validator, err := consistency.NewValidator(g)
	if err != nil {
		return err
	}
	report := validator.ValidateDocuments()

	if report.Clean() {
		fmt.Println("Corpus is consistent.")
		return nil
	}

	if len(report.ObsoleteDocuments) > 0 {
		fmt.Println("Obsolete documents:")
		for _, doc := range report.ObsoleteDocuments {
			fmt.Printf("  - %s (%s): status %s\n", doc.ID, doc.Title, doc.Status)
		}
	}
	if len(report.Conflicts) > 0 {
		fmt.Println("Conflicts:")
		for _, conflict := range report.Conflicts {
			fmt.Printf("  - %s <-> %s [%s]: %s\n",
				conflict.Doc1ID, conflict.Doc2ID, conflict.Severity, conflict.Description)
		}
	}
	if len(report.OutdatedReferences) > 0 {
		fmt.Println("Outdated references:")
		for _, ref := range report.OutdatedReferences {
			fmt.Printf("  - %s -> %s: %s\n", ref.DocumentID, ref.TargetID, ref.Description)
		}
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	g, err := buildGraph(c)
	if err != nil {
		return err
	}

	stats := g.Statistics()
	fmt.Printf("Nodes: %d\n", stats.NodeCount)
	fmt.Printf("Edges: %d\n", stats.EdgeCount)
	fmt.Printf("Density: %.4f\n", stats.Density)
	if len(stats.EdgeKindCounts) > 0 {
		fmt.Println("Edges by kind:")
		for kind, count := range stats.EdgeKindCounts {
			fmt.Printf("  %s: %d\n", kind, count)
		}
	}
	if len(stats.TopByCentrality) > 0 {
		fmt.Println("Most connected nodes:")
		for _, entry := range stats.TopByCentrality {
			fmt.Printf("  %s: %.4f\n", entry.ID, entry.Centrality)
		}
	}
	return nil
}

func termCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one term argument")
	}
	name := c.Args().First()

	g, err := buildGraph(c)
	if err != nil {
		return err
	}

	term, ok := g.TermDefinition(name)
	if !ok {
		return fmt.Errorf("unknown term %q", name)
	}

	fmt.Printf("%s: %s\n", term.Name, term.Definition)
	if docs := g.FindDocumentsByTerm(name); len(docs) > 0 {
		fmt.Println("Mentioned in:")
		for _, id := range docs {
			fmt.Printf("  - %s\n", id)
		}
	}
	return nil
}

func impactCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id argument")
	}
	docID := c.Args().First()

	g, err := buildGraph(c)
	if err != nil {
		return err
	}

	dependents := g.ImpactAnalysis(docID)
	chain := g.ReplacementChain(docID)
	if len(dependents) == 0 && len(chain) == 0 {
		fmt.Printf("No dependents or replacements for %s.\n", docID)
		return nil
	}

	if len(dependents) > 0 {
		fmt.Println("Dependent documents:")
		for _, doc := range dependents {
			if doc.Title != "" {
				fmt.Printf("  - %s (%s)\n", doc.ID, doc.Title)
			} else {
				fmt.Printf("  - %s\n", doc.ID)
			}
		}
	}
	if len(chain) > 0 {
		fmt.Println("Replacement chain:")
		for _, step := range chain {
			fmt.Printf("  %d. %s\n", step.Steps, step.DocumentID)
		}
	}
	return nil
}

func findCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one keyword argument")
	}

	g, err := buildGraph(c)
	if err != nil {
		return err
	}

	docs := g.FindDocumentsByKeyword(c.Args().First())
	if len(docs) == 0 {
		fmt.Println("No documents matched.")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("  - %s (%s): %s\n", doc.ID, doc.Type, doc.Title)
	}
	return nil
}

func buildGraph(c *cli.Context) (*graph.Graph, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	paths := dataset.Paths{
		Relations: cfg.Dataset.Relations,
		Metadata:  cfg.Dataset.Metadata,
		Glossary:  cfg.Dataset.Glossary,
	}
	if paths.Relations == "" && paths.Metadata == "" && paths.Glossary == "" {
		return nil, fmt.Errorf("at least one of --relations, --metadata, --glossary is required")
	}

	start := time.Now()
	g, report, err := dataset.BuildGraph(paths)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Graph loaded: %d nodes, %d edges (%d skipped) in %s\n",
		report.Nodes, report.Edges, report.SkippedEdges, time.Since(start).Round(time.Millisecond))
	return g, nil
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
