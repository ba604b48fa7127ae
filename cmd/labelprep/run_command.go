package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/labelprep/internal/logging"
	"github.com/cognicore/labelprep/pkg/labelprep"
	"github.com/cognicore/labelprep/pkg/labelprep/sink"
)

func newRunCommand(flags *globalFlags) *cobra.Command {
	var outputDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Export every label record to batched CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if dir := strings.TrimSpace(outputDir); dir != "" {
				cfg.Output.Dir = dir
			}

			logger, err := logging.New(logging.Options{File: flags.logFile})
			if err != nil {
				return err
			}
			defer logger.Close()

			out := cmd.OutOrStdout()
			if dryRun {
				sum, err := labelprep.DryRun(cmd.Context(), cfg, os.LookupEnv, logger)
				if err != nil {
					logger.Error("Dry run failed", "error", err)
					return err
				}
				fmt.Fprintln(out, renderSummary(sum, nil))
				return nil
			}

			res, err := labelprep.Execute(cmd.Context(), cfg, os.LookupEnv, logger)
			if err != nil {
				logger.Error("Extraction failed", "run", res.Summary.RunID, "records", res.Summary.Records, "error", err)
				return err
			}
			fmt.Fprintln(out, renderSummary(res.Summary, res.Files))
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the CSV files (overrides output.dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read and normalize records without writing files")
	return cmd
}

func renderSummary(sum labelprep.Summary, files []sink.FileStat) string {
	rows := [][]string{
		{"Run", sum.RunID},
		{"Records", strconv.FormatInt(sum.Records, 10)},
		{"Elapsed", sum.Elapsed.Round(time.Millisecond).String()},
	}
	for _, f := range files {
		rows = append(rows, []string{filepath.Base(f.Path), strconv.FormatInt(f.Rows, 10) + " rows"})
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
