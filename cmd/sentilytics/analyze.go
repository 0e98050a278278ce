package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacesedan/sentilytics/config"
)

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	var (
		file   string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze a text or a local CSV file and print the JSON result",
		Example: `  sentilytics analyze "I love this!"
  sentilytics analyze --file reviews.csv --pretty`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) == 0 {
				return errors.New("provide a text argument or --file")
			}
			if file != "" && len(args) > 0 {
				return errors.New("provide either a text argument or --file, not both")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a := buildAnalyzers(ctx, *cfg)
			defer a.close()

			var out any
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", file, err)
				}
				defer f.Close()

				resp, err := a.batch.AnalyzeFile(ctx, filepath.Base(file), f)
				if err != nil {
					return err
				}
				out = resp
			} else {
				if strings.TrimSpace(args[0]) == "" {
					return errors.New("text cannot be empty")
				}
				res, err := a.text.Analyze(ctx, args[0])
				if err != nil {
					return err
				}
				out = res
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file with a 'text' column")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	return cmd
}
