// Package main provides the semtrace binary entry point.
// Semtrace preconditions JSON-LD documents so that source line numbers
// survive ingestion, then recovers them from the resulting graph.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semtrace"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Line-provenance preserving JSON-LD ingest",
		Long: `Semtrace rewrites JSON-LD documents before ingestion so that source
line numbers survive the trip through an RDF parser, then strips the
embedded markers from the parsed graph and recovers a subject-to-line
table.

It provides:
- precondition: rewrite a document in place of the empty namespace prefix
  and stamp @type values with their line numbers
- run: the full precondition/ingest/postcondition pipeline over files
- watch: continuous processing of a directory tree

Cleaned graphs can be serialized to Turtle or N-Triples, or published
to a knowledge graph over NATS.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(preconditionCmd())
	cmd.AddCommand(runCmd())
	cmd.AddCommand(watchCmd())

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// configureLogging installs a text handler on stderr at the given level.
func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// connectToNATS creates and connects a NATS client. The NATS_URL
// environment variable overrides the configured URL.
func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		url = envURL
	}
	if url == "" {
		url = "nats://localhost:4222"
	}

	logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, fmt.Errorf("wait for NATS connection at %s: %w", url, err)
	}

	logger.Info("Connected to NATS", "url", url)
	return client, nil
}
