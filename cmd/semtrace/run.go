package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semtrace/config"
	"github.com/c360studio/semtrace/export"
	"github.com/c360studio/semtrace/graph"
	"github.com/c360studio/semtrace/ingest"
	"github.com/c360studio/semtrace/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var (
		formatName string
		natsURL    string
		showLines  bool
	)

	cmd := &cobra.Command{
		Use:   "run <pattern...>",
		Short: "Process documents through the full pipeline",
		Long: `Run preconditions each matching document, ingests it as JSON-LD,
strips the embedded line markers from the parsed graph, and serializes
the cleaned graph to stdout.

Patterns support * and ** wildcards; non-glob arguments must name
existing files. When a NATS URL is configured the cleaned graph is also
published to the knowledge graph, one entity message per subject.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()

			cfg, err := config.NewLoader(logger).Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if formatName != "" {
				cfg.Export.Format = formatName
			}
			if natsURL != "" {
				cfg.NATS.URL = natsURL
			}

			format, err := export.ParseFormat(cfg.Export.Format)
			if err != nil {
				return err
			}

			files, err := pipeline.ResolveFiles(args, cfg.Watch.FileExtensions)
			if err != nil {
				return err
			}

			metrics := pipeline.NewMetrics()
			if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
				logger.Warn("Failed to register metrics", "error", err)
				metrics = nil
			}

			p := pipeline.New(ingest.NewJSONLD(), pipeline.Config{
				Prefix:       cfg.Precondition.Prefix,
				PrefixLength: cfg.Precondition.PrefixLength,
				Alphabet:     cfg.Precondition.Alphabet,
			}, logger, metrics)

			ctx := cmd.Context()

			var nc *natsclient.Client
			if cfg.NATS.URL != "" || os.Getenv("NATS_URL") != "" {
				nc, err = connectToNATS(ctx, cfg.NATS.URL, logger)
				if err != nil {
					return err
				}
				defer nc.Close(ctx)
			}

			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}

				out, err := p.Process(ctx, string(data))
				if err != nil {
					return fmt.Errorf("process %s: %w", file, err)
				}

				var lines map[string]int
				if cfg.Export.GetLineComments() {
					lines = out.Lines
				}
				serialized, err := export.SerializeWithLines(out.Graph, out.Context, format, lines)
				if err != nil {
					return fmt.Errorf("serialize %s: %w", file, err)
				}
				fmt.Print(serialized)

				if showLines {
					printLineTable(out.Lines)
				}

				if err := graph.PublishGraph(ctx, nc, out, cfg.NATS.Source); err != nil {
					return fmt.Errorf("publish %s: %w", file, err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format (turtle, ntriples)")
	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS server URL for graph publishing")
	cmd.Flags().BoolVar(&showLines, "lines", false, "Print the recovered subject line table")

	return cmd
}

// printLineTable prints subject line numbers sorted by subject.
func printLineTable(lines map[string]int) {
	subjects := make([]string, 0, len(lines))
	for subject := range lines {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		fmt.Fprintf(os.Stderr, "%s\tline %d\n", subject, lines[subject])
	}
}
