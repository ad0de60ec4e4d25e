package plan

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// ExportedPlan is the YAML form of a Plan.
type ExportedPlan struct {
	Struct  string         `yaml:"struct"`
	OldSize int            `yaml:"old_size"`
	NewSize int            `yaml:"new_size"`
	Steps   []ExportedStep `yaml:"steps"`
	Dropped []string       `yaml:"dropped,omitempty,flow"`
}

// ExportedStep is the YAML form of a Step. Nested plans are referenced by
// struct name and exported as top-level entries.
type ExportedStep struct {
	Kind      string   `yaml:"kind"`
	Members   []string `yaml:"members,flow"`
	OldOffset int      `yaml:"old_offset"`
	NewOffset int      `yaml:"new_offset"`
	Size      int      `yaml:"size,omitempty"`
	Count     int      `yaml:"count,omitempty"`
	From      string   `yaml:"from,omitempty"`
	To        string   `yaml:"to,omitempty"`
	Nested    string   `yaml:"nested,omitempty"`
	Reason    string   `yaml:"reason,omitempty"`
}

// Export flattens plans and every plan nested in them into their YAML
// form, each plan once, in first-visit order.
func Export(plans []*Plan) []ExportedPlan {
	var (
		out  []ExportedPlan
		seen = make(map[*Plan]bool)
	)

	for _, root := range plans {
		root.Walk(func(p *Plan) {
			if seen[p] {
				return
			}

			seen[p] = true
			out = append(out, exportPlan(p))
		})
	}

	return out
}

// ExportYAML is Export marshalled to YAML.
func ExportYAML(plans []*Plan) ([]byte, error) {
	return yaml.Marshal(Export(plans))
}

func exportPlan(p *Plan) ExportedPlan {
	ep := ExportedPlan{
		Struct:  p.Name,
		OldSize: p.OldSize,
		NewSize: p.NewSize,
		Steps:   make([]ExportedStep, 0, len(p.Steps)),
		Dropped: p.Dropped,
	}

	for _, s := range p.Steps {
		es := ExportedStep{
			Kind:      s.Kind.String(),
			Members:   s.Members,
			OldOffset: s.OldOffset,
			NewOffset: s.NewOffset,
			Reason:    s.Reason,
		}

		switch s.Kind {
		case StepCopy:
			es.Size = s.Size
		case StepConvert:
			es.Count = s.Count
			es.From = s.OldKind.CName()
			es.To = s.NewKind.CName()
		case StepCastPointer32To64, StepCastPointer64To32:
			es.Count = s.Count
		case StepSubstruct:
			es.Count = s.Count
			es.Nested = s.Nested.Name
		}

		ep.Steps = append(ep.Steps, es)
	}

	return ep
}

// WriteText prints p and its nested plans as aligned tables.
func WriteText(w io.Writer, p *Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	var err error

	p.Walk(func(q *Plan) {
		if err != nil {
			return
		}

		_, err = fmt.Fprintf(tw, "%s (%d -> %d bytes)\n", q.Name, q.OldSize, q.NewSize)
		if err != nil {
			return
		}

		for _, s := range q.Steps {
			_, err = fmt.Fprintf(tw, "  %s\t%s\t%s\n", s.Kind, strings.Join(s.Members, ","), describe(s))
			if err != nil {
				return
			}
		}

		if len(q.Dropped) > 0 {
			_, err = fmt.Fprintf(tw, "  dropped\t%s\t\n", strings.Join(q.Dropped, ","))
		}
	})

	if err != nil {
		return err
	}

	return tw.Flush()
}

func describe(s Step) string {
	switch s.Kind {
	case StepCopy:
		return fmt.Sprintf("old+%d -> new+%d, %d bytes", s.OldOffset, s.NewOffset, s.Size)
	case StepConvert:
		return fmt.Sprintf("old+%d -> new+%d, %d x %s -> %s", s.OldOffset, s.NewOffset, s.Count, s.OldKind.CName(), s.NewKind.CName())
	case StepCastPointer32To64, StepCastPointer64To32:
		return fmt.Sprintf("old+%d -> new+%d, %d pointers", s.OldOffset, s.NewOffset, s.Count)
	case StepSubstruct:
		return fmt.Sprintf("old+%d -> new+%d, %d x %s", s.OldOffset, s.NewOffset, s.Count, s.Nested.Name)
	case StepZero:
		return fmt.Sprintf("new+%d, %s", s.NewOffset, s.Reason)
	default:
		return ""
	}
}
