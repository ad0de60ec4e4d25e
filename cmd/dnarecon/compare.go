package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dnarecon/internal/compare"
	"dnarecon/internal/dna"
)

func newCompareCmd(a *app) *cobra.Command {
	var oldPath, newPath string

	cmd := &cobra.Command{
		Use:   "compare --old <schema> --new <schema>",
		Short: "Classify every stored struct against the current schema",
		Long: `The compare command flags each struct of the old schema as equal
(stored bytes are valid as is), not_equal (instances need reconstruction)
or removed (no longer present), followed by the diagnostics.

Example:
  dnarecon compare --old stored.sdna --new scene.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			oldTable, newTable, err := a.loadPair(oldPath, newPath)
			if err != nil {
				return err
			}

			return writeComparison(cmd.OutOrStdout(), oldTable, newTable, compare.Compare(oldTable, newTable))
		},
	}

	addPairFlags(cmd, &oldPath, &newPath)

	return cmd
}

func writeComparison(w io.Writer, oldTable, newTable *dna.Table, res *compare.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "STRUCT\tFLAG\tNEW")

	for s := range res.Len() {
		target := "-"
		if ns, ok := res.Match(s); ok {
			target = newTable.StructName(ns)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\n", oldTable.StructName(s), res.Flag(s), target)
	}

	fmt.Fprintf(tw, "\n%d equal, %d not_equal, %d removed\n",
		res.Count(compare.Equal), res.Count(compare.NotEqual), res.Count(compare.Removed))

	if err := tw.Flush(); err != nil {
		return err
	}

	for _, d := range res.Diagnostics.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", d); err != nil {
			return err
		}
	}

	return nil
}
