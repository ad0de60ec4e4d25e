package plan

import (
	"dnarecon/internal/common"
	"dnarecon/internal/diagnostic"
	"dnarecon/primitive"
)

// StepKind describes how one range of a new instance is produced.
type StepKind int

const (
	// StepCopy copies Size bytes verbatim.
	StepCopy StepKind = iota
	// StepConvert converts Count primitives from OldKind to NewKind.
	StepConvert
	// StepCastPointer32To64 widens Count 4-byte pointers to 8 bytes.
	StepCastPointer32To64
	// StepCastPointer64To32 narrows Count 8-byte pointers to 4 bytes.
	StepCastPointer64To32
	// StepSubstruct applies Nested to Count embedded struct elements.
	StepSubstruct
	// StepZero leaves the new member zero-filled.
	StepZero
)

// String returns a human-readable step name.
func (k StepKind) String() string {
	switch k {
	case StepCopy:
		return "copy"
	case StepConvert:
		return "convert"
	case StepCastPointer32To64:
		return "cast_pointer_32_to_64"
	case StepCastPointer64To32:
		return "cast_pointer_64_to_32"
	case StepSubstruct:
		return "substruct"
	case StepZero:
		return "zero"
	default:
		return common.UnknownStr
	}
}

// Step is one member action. Offsets are relative to the start of the
// old and new instance.
type Step struct {
	Kind StepKind
	// Members are the new member names this step produces. Merged copies
	// list every member they cover.
	Members []string
	// Reason explains a StepZero.
	Reason string

	OldOffset int
	NewOffset int
	// Size is the byte length of a StepCopy.
	Size int

	// Count is the number of elements converted, cast or reconstructed.
	Count int
	// OldStride and NewStride are the element sizes on each side.
	OldStride int
	NewStride int

	OldKind primitive.Kind
	NewKind primitive.Kind

	// Nested is the plan for StepSubstruct elements.
	Nested *Plan
}

// Plan turns one old instance of struct OldStruct into one new instance of
// NewStruct.
type Plan struct {
	Name      string
	OldStruct int
	NewStruct int
	OldSize   int
	NewSize   int

	Steps []Step
	// Dropped lists old members that have no counterpart in the new layout.
	Dropped []string

	// Diagnostics describe dropped, zero-filled and retyped members.
	Diagnostics diagnostic.Diagnostics
}

// CopyOnly reports whether every non-zero step is a verbatim copy.
func (p *Plan) CopyOnly() bool {
	for _, s := range p.Steps {
		if s.Kind != StepCopy && s.Kind != StepZero {
			return false
		}
	}

	return true
}

// Walk calls fn for p and every nested plan, depth first. Shared nested
// plans are visited once.
func (p *Plan) Walk(fn func(*Plan)) {
	seen := make(map[*Plan]bool)

	var walk func(*Plan)
	walk = func(q *Plan) {
		if seen[q] {
			return
		}

		seen[q] = true
		fn(q)

		for _, s := range q.Steps {
			if s.Nested != nil {
				walk(s.Nested)
			}
		}
	}

	walk(p)
}
