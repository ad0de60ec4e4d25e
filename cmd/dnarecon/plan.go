package main

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"dnarecon/internal/compare"
	"dnarecon/internal/plan"
	"dnarecon/internal/reconstruct"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		oldPath, newPath string
		format           string
		raw              bool
	)

	cmd := &cobra.Command{
		Use:   "plan --old <schema> --new <schema> [struct]",
		Short: "Print the reconstruction plan of a struct",
		Long: `The plan command prints the steps that turn one stored instance of a
struct into the current layout, including the plans of embedded structs.
Without a struct name every not_equal struct is planned.

Example:
  dnarecon plan --old stored.sdna --new scene.yaml Mesh
  dnarecon plan --old stored.sdna --new scene.yaml --format yaml
  dnarecon plan --old stored.sdna --new scene.yaml Mesh --raw`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldTable, newTable, err := a.loadPair(oldPath, newPath)
			if err != nil {
				return err
			}

			planner := plan.NewPlanner(oldTable, newTable, compare.Compare(oldTable, newTable))

			var plans []*plan.Plan

			if len(args) == 0 {
				plans, err = planner.PlanAll()
				if err != nil {
					return err
				}
			} else {
				s, ok := oldTable.FindStructWithAlias(args[0])
				if !ok {
					return fmt.Errorf("%w: %q", reconstruct.ErrUnknownStruct, args[0])
				}

				p, err := planner.Plan(s)
				if errors.Is(err, plan.ErrNotPlannable) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, no plan needed\n",
						args[0], planner.Compare().Flag(s))

					return nil
				}

				if err != nil {
					return err
				}

				plans = []*plan.Plan{p}
			}

			out := cmd.OutOrStdout()

			if raw {
				spew.Fdump(out, plans)
				return nil
			}

			switch format {
			case "text":
				for _, p := range plans {
					if err := plan.WriteText(out, p); err != nil {
						return err
					}
				}

				return nil
			case "yaml":
				data, err := plan.ExportYAML(plans)
				if err != nil {
					return fmt.Errorf("failed to marshal plans: %w", err)
				}

				_, err = out.Write(data)

				return err
			default:
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
		},
	}

	addPairFlags(cmd, &oldPath, &newPath)
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, yaml)")
	cmd.Flags().BoolVar(&raw, "raw", false, "dump the plan structures")

	return cmd
}
