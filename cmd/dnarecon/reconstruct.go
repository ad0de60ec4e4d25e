package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dnarecon/internal/dna"
	"dnarecon/internal/logger"
	"dnarecon/internal/reconstruct"
)

func newReconstructCmd(a *app) *cobra.Command {
	var (
		oldPath, newPath string
		structName       string
		count            int
		output           string
		renames          []string
	)

	cmd := &cobra.Command{
		Use:   "reconstruct --old <schema> --new <schema> --struct <name> <data>",
		Short: "Convert stored instances of a struct to the current layout",
		Long: `The reconstruct command reads an array of stored instances of one
struct and writes them in the current layout. Without --count the count is
derived from the input size. --struct takes the stored name or, when
--rename renames the struct, the new one.

Example:
  dnarecon reconstruct --old stored.sdna --new scene.yaml --struct Mesh mesh.bin -o mesh.new.bin
  dnarecon reconstruct --old stored.yaml --new scene.yaml --struct Object \
      --rename Object.restrictflag=visibility_flag obj.bin -o obj.new.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldTable, newTable, err := a.loadPair(oldPath, newPath)
			if err != nil {
				return err
			}

			order, err := a.cfg.Order()
			if err != nil {
				return err
			}

			opts := []reconstruct.Option{
				reconstruct.WithLogger(logger.L),
				reconstruct.WithByteOrder(order),
				reconstruct.WithMaxBlocks(a.cfg.MaxBlocks),
			}

			for _, r := range renames {
				rename, err := dna.ParseRename(r)
				if err != nil {
					return err
				}

				opts = append(opts, reconstruct.WithRenames(rename))
			}

			session, err := reconstruct.NewSession(oldTable, newTable, opts...)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read data %s: %w", args[0], err)
			}

			s, ok := findStruct(oldTable, session.Old(), structName)
			if !ok {
				return fmt.Errorf("%w: %q", reconstruct.ErrUnknownStruct, structName)
			}

			if !cmd.Flags().Changed("count") {
				count, err = blockCount(session.Old(), s, len(data))
				if err != nil {
					return err
				}
			}

			res, err := session.Reconstruct(s, count, data, "")
			if err != nil {
				return err
			}

			for _, d := range res.Warnings {
				logger.Warn(d.String())
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s, %d blocks, %d -> %d bytes\n",
				structName, res.Status, res.Count, len(data), len(res.Data))

			if res.Status == reconstruct.StatusRemoved {
				return nil
			}

			return writeOutput(cmd.OutOrStdout(), output, res.Data)
		},
	}

	addPairFlags(cmd, &oldPath, &newPath)
	cmd.Flags().StringVar(&structName, "struct", "", "stored struct name of the instances")
	cmd.Flags().IntVar(&count, "count", 0, "number of instances in the input")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&renames, "rename", nil, "rename applied to the old schema (Old=New or Struct.old=new)")
	_ = cmd.MarkFlagRequired("struct")

	return cmd
}

// findStruct resolves name on the stored table, then on the renamed one.
// Renames keep struct indices, so either lookup identifies the same struct.
func findStruct(stored, renamed *dna.Table, name string) (int, bool) {
	if s, ok := stored.FindStructWithAlias(name); ok {
		return s, true
	}

	return renamed.FindStructWithAlias(name)
}

// blockCount derives the instance count from the input length.
func blockCount(t *dna.Table, s, n int) (int, error) {
	size, err := t.StructSize(s)
	if err != nil {
		return 0, err
	}

	if size == 0 {
		return 0, fmt.Errorf("%w: %s has no storage, pass --count", reconstruct.ErrCorruptData, t.StructName(s))
	}

	if n%size != 0 {
		return 0, fmt.Errorf("%w: %d bytes is not a multiple of %s (%d bytes)",
			reconstruct.ErrCorruptData, n, t.StructName(s), size)
	}

	return n / size, nil
}
