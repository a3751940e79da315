package main

import (
	"fmt"
	"os"

	"github.com/c360studio/semtrace/precondition"
	"github.com/spf13/cobra"
)

func preconditionCmd() *cobra.Command {
	var (
		outputPath string
		prefix     string
	)

	cmd := &cobra.Command{
		Use:   "precondition <file>",
		Short: "Rewrite a JSON-LD document for line-preserving ingest",
		Long: `Precondition rewrites a JSON-LD document so that it can be ingested
without losing source line numbers. The empty namespace prefix is
replaced with a placeholder that does not collide with any existing
prefix, and every "@type" value is stamped with its 1-based line
number.

The rewritten text is printed to stdout unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			result, err := precondition.Rewrite(string(data), prefix, precondition.Config{})
			if err != nil {
				return fmt.Errorf("precondition %s: %w", args[0], err)
			}

			if outputPath == "" {
				fmt.Print(result.Text)
				return nil
			}
			if err := os.WriteFile(outputPath, []byte(result.Text), 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Placeholder prefix (default: allocate one)")

	return cmd
}
