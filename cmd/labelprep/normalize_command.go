package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/labelprep/pkg/labelprep/normalize"
)

func newNormalizeCommand(flags *globalFlags) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Normalize text the way run does and print the result",
		Long: "Normalize each argument, or each line of stdin when no arguments are given.\n" +
			"With --verbose every intermediate stage is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			comp, err := cfg.Normalize.Build()
			if err != nil {
				return err
			}

			inputs := args
			if len(inputs) == 0 {
				inputs, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, raw := range inputs {
				trace := comp.Pipeline.Run(raw)
				if !verbose {
					fmt.Fprintln(out, trace.Text)
					continue
				}
				fmt.Fprintln(out, renderTrace(trace))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show every pipeline stage")
	return cmd
}

func renderTrace(t normalize.Trace) string {
	rows := [][]string{
		{"raw", t.Raw},
		{"preprocessed", t.Preprocessed},
		{"tokens", strings.Join(t.Tokens, " | ")},
		{"filtered", strings.Join(t.Filtered, " | ")},
		{"lemmas", strings.Join(t.Lemmas, " | ")},
		{"text", t.Text},
	}
	return renderTable([]string{"Stage", "Value"}, rows, nil)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}
