package dna

import (
	"fmt"
	"math"

	"dnarecon/primitive"
)

type structLayout struct {
	size    int
	align   int
	offsets []int
	sizes   []int
	err     error
}

// MaxStructSize bounds every member and struct size. Larger layouts cannot
// describe resident data and are rejected as layout errors.
const MaxStructSize = math.MaxInt32

const (
	layoutPending = iota
	layoutActive
	layoutDone
)

// computeLayouts walks every struct once, resolving embedded structs
// depth-first. Members are packed: DNA structs carry explicit padding.
func (t *Table) computeLayouts() {
	t.layouts = make([]structLayout, len(t.structs))
	state := make([]int, len(t.structs))

	var visit func(s int)
	visit = func(s int) {
		switch state[s] {
		case layoutDone:
			return
		case layoutActive:
			t.layouts[s].err = fmt.Errorf("%w: %q embeds itself", ErrRecursiveStruct, t.StructName(s))
			return
		}

		state[s] = layoutActive

		st := t.structs[s]
		l := structLayout{
			align:   1,
			offsets: make([]int, len(st.Members)),
			sizes:   make([]int, len(st.Members)),
		}

		for i, m := range st.Members {
			size, align, err := t.memberLayout(m, visit)
			if err != nil {
				l.err = fmt.Errorf("struct %q member %q: %w", t.StructName(s), m.Name.Raw, err)
				break
			}

			if size > MaxStructSize-l.size {
				l.err = fmt.Errorf("struct %q member %q: %w: size exceeds %d bytes",
					t.StructName(s), m.Name.Raw, ErrUnknownTypeIndex, MaxStructSize)
				break
			}

			l.offsets[i] = l.size
			l.sizes[i] = size
			l.size += size
			l.align = max(l.align, align)
		}

		if l.err != nil {
			l.size, l.align = 0, 0
		}

		t.layouts[s] = l
		state[s] = layoutDone
	}

	for s := range t.structs {
		visit(s)
	}
}

func (t *Table) memberLayout(m Member, visit func(int)) (size, align int, err error) {
	elems := m.Name.Elems()

	if m.Name.Pointer {
		size, err := scaled(t.pointerSize, elems)
		return size, min(t.pointerSize, t.maxAlign), err
	}

	typ := t.types[m.Type]

	switch typ.Kind {
	case TypePrimitive:
		if typ.Primitive == primitive.KindVoid {
			return 0, 0, fmt.Errorf("%w: void member without pointer", ErrUnknownTypeIndex)
		}

		es := typ.Primitive.Size()
		size, err := scaled(es, elems)

		return size, min(es, t.maxAlign), err

	case TypeStruct:
		visit(typ.Struct)

		nested := t.layouts[typ.Struct]
		if nested.err != nil {
			return 0, 0, nested.err
		}

		size, err := scaled(nested.size, elems)

		return size, nested.align, err

	default:
		return 0, 0, fmt.Errorf("%w: type %d (%q) has no definition", ErrUnknownTypeIndex, m.Type, typ.Name)
	}
}

// scaled returns elemSize*elems, failing when it exceeds MaxStructSize.
func scaled(elemSize, elems int) (int, error) {
	if elemSize > 0 && elems > MaxStructSize/elemSize {
		return 0, fmt.Errorf("%w: %d elements of %d bytes exceed %d bytes",
			ErrUnknownTypeIndex, elems, elemSize, MaxStructSize)
	}

	return elemSize * elems, nil
}

// LayoutErr returns the error that prevented laying out struct s, if any.
func (t *Table) LayoutErr(s int) error { return t.layouts[s].err }

// StructSize returns the packed size of struct s in bytes.
func (t *Table) StructSize(s int) (int, error) {
	l := t.layouts[s]
	return l.size, l.err
}

// StructAlignment returns the alignment that should be used when
// allocating struct s.
func (t *Table) StructAlignment(s int) (int, error) {
	l := t.layouts[s]
	return l.align, l.err
}

// MemberSize returns the storage size of member i of struct s.
func (t *Table) MemberSize(s, i int) (int, error) {
	l := t.layouts[s]
	if l.err != nil {
		return 0, l.err
	}

	return l.sizes[i], nil
}

// MemberOffset returns the byte offset of member i of struct s.
func (t *Table) MemberOffset(s, i int) (int, error) {
	l := t.layouts[s]
	if l.err != nil {
		return 0, l.err
	}

	return l.offsets[i], nil
}

// withPointerSize returns a shallow copy of t laid out for another pointer size.
func (t *Table) withPointerSize(pointerSize int) *Table {
	c := *t
	c.pointerSize = pointerSize
	c.computeLayouts()

	return &c
}
