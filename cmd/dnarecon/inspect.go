package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dnarecon/internal/dna"
	"dnarecon/internal/schemafile"
)

func newInspectCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <schema>",
		Short: "Print the structs of a schema with their layout",
		Long: `The inspect command prints every struct of a schema with its size,
alignment and member offsets. With --format yaml the table is written as a
YAML schema, which converts an encoded blob into an editable document.

Example:
  dnarecon inspect scene.yaml
  dnarecon inspect stored.sdna --format yaml > stored.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}

			switch format {
			case "text":
				return writeLayout(cmd.OutOrStdout(), t)
			case "yaml":
				data, err := schemafile.Marshal(schemafile.FromTable(t))
				if err != nil {
					return fmt.Errorf("failed to marshal schema: %w", err)
				}

				_, err = cmd.OutOrStdout().Write(data)

				return err
			default:
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format (text, yaml)")

	return cmd
}

func writeLayout(w io.Writer, t *dna.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "pointer size %d, max align %d, %d structs\n", t.PointerSize(), t.MaxAlign(), t.NumStructs())

	for s := range t.NumStructs() {
		size, err := t.StructSize(s)
		if err != nil {
			fmt.Fprintf(tw, "\n%s\tinvalid: %v\n", t.StructName(s), err)
			continue
		}

		align, _ := t.StructAlignment(s)
		fmt.Fprintf(tw, "\n%s\tsize %d\talign %d\n", t.StructName(s), size, align)

		for i := range t.MemberCount(s) {
			off, _ := t.MemberOffset(s, i)
			msize, _ := t.MemberSize(s, i)
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\n", off, t.MemberTypeName(s, i), t.MemberAt(s, i).Name.Raw, msize)
		}
	}

	if aliases := t.Aliases(); !aliases.IsEmpty() {
		fmt.Fprintf(tw, "\naliases\n")

		for _, alias := range sortedKeys(aliases.Structs) {
			fmt.Fprintf(tw, "  %s\t-> %s\n", alias, aliases.Structs[alias])
		}

		for _, st := range sortedKeys(aliases.Members) {
			for _, alias := range sortedKeys(aliases.Members[st]) {
				fmt.Fprintf(tw, "  %s.%s\t-> %s\n", st, alias, aliases.Members[st][alias])
			}
		}
	}

	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
