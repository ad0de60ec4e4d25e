package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dnarecon/internal/analyze"
	"dnarecon/internal/logger"
	"dnarecon/internal/schemafile"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		cfg    analyze.Config
		output string
	)

	cmd := &cobra.Command{
		Use:   "analyze [packages]",
		Short: "Derive a YAML schema from Go struct declarations",
		Long: `The analyze command loads Go packages and describes their exported
structs as a YAML schema, with explicit padding members wherever the
compiler pads. Structs with fields that have no fixed layout (slices, maps,
strings, interfaces) are skipped and reported.

Example:
  dnarecon analyze ./scene -o scene.yaml
  dnarecon analyze --arch 386 ./scene`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			res, err := analyze.Load(cfg, args...)
			if err != nil {
				return err
			}

			for _, s := range res.Skipped {
				logger.Warn("struct skipped", "struct", s.Name, "reason", s.Reason)
			}

			data, err := schemafile.Marshal(res.File)
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}

	cmd.Flags().StringVar(&cfg.Dir, "dir", "", "directory package patterns are resolved in")
	cmd.Flags().StringVar(&cfg.Arch, "arch", analyze.DefaultArch, "target architecture of the layout")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
