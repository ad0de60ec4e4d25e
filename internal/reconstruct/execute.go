package reconstruct

import (
	"encoding/binary"
	"fmt"

	"dnarecon/internal/plan"
	"dnarecon/primitive"
)

// Execute applies p to count old instances in src, writing count new
// instances into dst. dst must already be zeroed; members the plan does
// not produce keep their zero bytes. Execute has no other state, so equal
// inputs always produce equal output.
func Execute(p *plan.Plan, dst, src []byte, count int, order binary.ByteOrder) error {
	if !spans(count, p.OldSize, len(src)) || !spans(count, p.NewSize, len(dst)) {
		return fmt.Errorf("%w: %s: %d blocks need %d old and %d new bytes, got %d and %d",
			ErrCorruptData, p.Name, count, count*p.OldSize, count*p.NewSize, len(src), len(dst))
	}

	for b := range count {
		apply(p, dst[b*p.NewSize:(b+1)*p.NewSize], src[b*p.OldSize:(b+1)*p.OldSize], order)
	}

	return nil
}

// apply rebuilds one instance. Plans are derived from validated layouts,
// so every range lies inside dst and src.
func apply(p *plan.Plan, dst, src []byte, order binary.ByteOrder) {
	for i := range p.Steps {
		s := &p.Steps[i]

		switch s.Kind {
		case plan.StepCopy:
			copy(dst[s.NewOffset:s.NewOffset+s.Size], src[s.OldOffset:s.OldOffset+s.Size])

		case plan.StepConvert:
			for e := range s.Count {
				primitive.Convert(
					element(dst, s.NewOffset, s.NewStride, e), s.NewKind,
					element(src, s.OldOffset, s.OldStride, e), s.OldKind,
					order)
			}

		case plan.StepCastPointer32To64:
			for e := range s.Count {
				v := order.Uint32(element(src, s.OldOffset, 4, e))
				order.PutUint64(element(dst, s.NewOffset, 8, e), uint64(v))
			}

		case plan.StepCastPointer64To32:
			for e := range s.Count {
				// Pointer values are remapping keys; aligned addresses stay distinct.
				v := order.Uint64(element(src, s.OldOffset, 8, e))
				order.PutUint32(element(dst, s.NewOffset, 4, e), uint32(v>>3))
			}

		case plan.StepSubstruct:
			for e := range s.Count {
				apply(s.Nested, element(dst, s.NewOffset, s.NewStride, e), element(src, s.OldOffset, s.OldStride, e), order)
			}

		case plan.StepZero:
		}
	}
}

// spans reports whether n bytes hold exactly count elements of size bytes,
// without overflowing.
func spans(count, size, n int) bool {
	if count < 0 {
		return false
	}

	if size == 0 {
		return n == 0
	}

	return count <= n/size && count*size == n
}

func element(b []byte, offset, stride, e int) []byte {
	start := offset + e*stride
	return b[start : start+stride]
}
