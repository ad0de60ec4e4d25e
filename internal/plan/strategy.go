package plan

import (
	"fmt"

	"dnarecon/internal/compare"
	"dnarecon/internal/dna"
)

// memberStep chooses the action for new member j of ns, read from old
// member i of s. Both members share a base name.
func (p *Planner) memberStep(s, i, ns, j int) (Step, error) {
	om, nm := p.old.MemberAt(s, i), p.new.MemberAt(ns, j)

	oldOff, _ := p.old.MemberOffset(s, i)
	newOff, _ := p.new.MemberOffset(ns, j)

	// Arrays are flattened; only the overlapping element range is planned.
	count := min(om.Name.Elems(), nm.Name.Elems())

	step := Step{
		Members:   []string{nm.Name.Raw},
		OldOffset: oldOff,
		NewOffset: newOff,
		Count:     count,
	}

	if om.Name.Pointer != nm.Name.Pointer {
		return zeroStep(nm.Name.Raw, newOff, "changed between pointer and value"), nil
	}

	if om.Name.Pointer {
		return p.pointerStep(step), nil
	}

	ot, nt := p.old.TypeAt(om.Type), p.new.TypeAt(nm.Type)

	switch {
	case ot.Kind == dna.TypePrimitive && nt.Kind == dna.TypePrimitive:
		step.OldStride = ot.Primitive.Size()
		step.NewStride = nt.Primitive.Size()

		if ot.Primitive == nt.Primitive {
			step.Kind = StepCopy
			step.Size = count * step.OldStride

			return step, nil
		}

		if !ot.Primitive.IsNumber() || !nt.Primitive.IsNumber() {
			// Raw bytes against numbers: the member's common byte prefix, rest zero.
			step.Kind = StepCopy
			step.Size = min(om.Name.Elems()*step.OldStride, nm.Name.Elems()*step.NewStride)
			step.Count, step.OldStride, step.NewStride = 0, 0, 0

			return step, nil
		}

		step.Kind = StepConvert
		step.OldKind = ot.Primitive
		step.NewKind = nt.Primitive

		return step, nil

	case ot.Kind == dna.TypeStruct && nt.Kind == dna.TypeStruct:
		return p.structStep(step, ot, nt)

	default:
		return zeroStep(nm.Name.Raw, newOff,
			fmt.Sprintf("type changed from %s %q to %s %q", ot.Kind, ot.Name, nt.Kind, nt.Name)), nil
	}
}

func (p *Planner) pointerStep(step Step) Step {
	step.OldStride = p.old.PointerSize()
	step.NewStride = p.new.PointerSize()

	switch {
	case step.OldStride == step.NewStride:
		step.Kind = StepCopy
		step.Size = step.Count * step.OldStride
	case step.OldStride < step.NewStride:
		step.Kind = StepCastPointer32To64
	default:
		step.Kind = StepCastPointer64To32
	}

	return step
}

func (p *Planner) structStep(step Step, ot, nt dna.Type) (Step, error) {
	member := step.Members[0]

	if ot.Name != nt.Name {
		return zeroStep(member, step.NewOffset, fmt.Sprintf("struct type changed from %q to %q", ot.Name, nt.Name)), nil
	}

	matched, ok := p.cmp.Match(ot.Struct)
	if !ok || matched != nt.Struct {
		return zeroStep(member, step.NewOffset, fmt.Sprintf("struct %q was removed", ot.Name)), nil
	}

	step.OldStride, _ = p.old.StructSize(ot.Struct)
	step.NewStride, _ = p.new.StructSize(nt.Struct)

	if p.cmp.Flag(ot.Struct) == compare.Equal {
		step.Kind = StepCopy
		step.Size = step.Count * step.OldStride

		return step, nil
	}

	nested, err := p.Plan(ot.Struct)
	if err != nil {
		return Step{}, err
	}

	step.Kind = StepSubstruct
	step.Nested = nested

	return step, nil
}

// mergeCopies joins adjacent copy steps whose old and new ranges are both
// contiguous.
func mergeCopies(steps []Step) []Step {
	out := steps[:0]

	for _, s := range steps {
		if s.Kind == StepCopy && s.Size == 0 {
			continue
		}

		if n := len(out); n > 0 && s.Kind == StepCopy && out[n-1].Kind == StepCopy {
			last := &out[n-1]
			if last.OldOffset+last.Size == s.OldOffset && last.NewOffset+last.Size == s.NewOffset {
				last.Size += s.Size
				last.Members = append(last.Members, s.Members...)
				last.Count, last.OldStride, last.NewStride = 0, 0, 0

				continue
			}
		}

		out = append(out, s)
	}

	return out
}
