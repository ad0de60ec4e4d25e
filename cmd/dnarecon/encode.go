package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dnarecon/internal/dna"
)

func newEncodeCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "encode <schema>",
		Short: "Write a schema as an SDNA blob",
		Long: `The encode command writes the struct table of a schema in the SDNA
blob format, in the configured byte order.

Example:
  dnarecon encode scene.yaml -o scene.sdna
  dnarecon encode scene.yaml -o scene.sdna --byte-order big`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}

			order, err := a.cfg.Order()
			if err != nil {
				return err
			}

			blob, err := dna.Encode(t, order)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", args[0], err)
			}

			return writeOutput(cmd.OutOrStdout(), output, blob)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
