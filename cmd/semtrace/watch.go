package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semtrace/config"
	"github.com/c360studio/semtrace/graph"
	"github.com/c360studio/semtrace/ingest"
	"github.com/c360studio/semtrace/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var natsURL string

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and process changed documents",
		Long: `Watch monitors a directory tree for JSON-LD document changes and runs
each created or modified document through the pipeline. Change bursts
are debounced and unchanged content is skipped by hash.

Cleaned graphs are published to the knowledge graph when a NATS URL is
configured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()

			cfg, err := config.NewLoader(logger).Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if natsURL != "" {
				cfg.NATS.URL = natsURL
			}

			root, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("stat watch root: %w", err)
			}
			if !root.IsDir() {
				return fmt.Errorf("not a directory: %s", args[0])
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

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

			var nc *natsclient.Client
			if cfg.NATS.URL != "" || os.Getenv("NATS_URL") != "" {
				nc, err = connectToNATS(ctx, cfg.NATS.URL, logger)
				if err != nil {
					return err
				}
				defer nc.Close(ctx)
			}

			watcher, err := pipeline.NewWatcher(pipeline.WatchConfig{
				DebounceDelay:  cfg.Watch.GetDebounceDelay(),
				FileExtensions: cfg.Watch.FileExtensions,
				ExcludeDirs:    cfg.Watch.ExcludeDirs,
			}, args[0], logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer func() { _ = watcher.Stop() }()

			for {
				select {
				case <-ctx.Done():
					logger.Info("Watcher stopping")
					return nil
				case event, ok := <-watcher.Events():
					if !ok {
						return nil
					}
					if event.Operation == pipeline.WatchOpDelete {
						continue
					}
					processWatchEvent(ctx, p, nc, cfg, event, logger)
				}
			}
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS server URL for graph publishing")

	return cmd
}

// processWatchEvent runs one changed document through the pipeline.
// Failures are logged rather than stopping the watch loop.
func processWatchEvent(ctx context.Context, p *pipeline.Pipeline, nc *natsclient.Client, cfg *config.Config, event pipeline.WatchEvent, logger *slog.Logger) {
	data, err := os.ReadFile(event.AbsPath)
	if err != nil {
		logger.Warn("Failed to read changed document", "path", event.Path, "error", err)
		return
	}

	out, err := p.Process(ctx, string(data))
	if err != nil {
		logger.Warn("Failed to process document", "path", event.Path, "error", err)
		return
	}

	if err := graph.PublishGraph(ctx, nc, out, cfg.NATS.Source); err != nil {
		logger.Warn("Failed to publish graph", "path", event.Path, "error", err)
		return
	}

	logger.Info("Document ingested",
		"path", event.Path,
		"operation", string(event.Operation),
		"triples", out.Graph.Len(),
		"line_numbers", len(out.Lines))
}
