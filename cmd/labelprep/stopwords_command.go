package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStopwordsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stopwords",
		Short: "List the active stopword set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			comp, err := cfg.Normalize.Build()
			if err != nil {
				return err
			}

			terms := comp.Stoplist.All()
			rows := make([][]string, 0, len(terms))
			for i, term := range terms {
				rows = append(rows, []string{strconv.Itoa(i + 1), term})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"#", "Term"}, rows, []columnAlignment{alignRight, alignLeft}))
			fmt.Fprintf(out, "%d stopwords\n", comp.Stoplist.Len())
			return nil
		},
	}
}
