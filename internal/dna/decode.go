package dna

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"dnarecon/primitive"
)

// Section markers of the encoded schema.
const (
	markerSDNA = "SDNA"
	markerName = "NAME"
	markerType = "TYPE"
	markerTLen = "TLEN"
	markerStrc = "STRC"
)

type blobReader struct {
	b     []byte
	pos   int
	order binary.ByteOrder
}

func (r *blobReader) fail(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrMalformedSchema, r.pos, fmt.Sprintf(format, args...))
}

func (r *blobReader) marker(want string) error {
	if r.pos+4 > len(r.b) || string(r.b[r.pos:r.pos+4]) != want {
		return r.fail("missing %q section", want)
	}

	r.pos += 4

	return nil
}

func (r *blobReader) count(what string, minBytesEach int) (int, error) {
	if r.pos+4 > len(r.b) {
		return 0, r.fail("truncated %s count", what)
	}

	n := int(int32(r.order.Uint32(r.b[r.pos:])))
	r.pos += 4

	if n < 0 || n > (len(r.b)-r.pos)/minBytesEach {
		return 0, r.fail("%s count %d does not fit the blob", what, n)
	}

	return n, nil
}

func (r *blobReader) u16() (int, error) {
	if r.pos+2 > len(r.b) {
		return 0, r.fail("truncated table")
	}

	v := r.order.Uint16(r.b[r.pos:])
	r.pos += 2

	return int(v), nil
}

func (r *blobReader) strings(what string) ([]string, error) {
	n, err := r.count(what, 1)
	if err != nil {
		return nil, err
	}

	out := make([]string, n)

	for i := range n {
		end := bytes.IndexByte(r.b[r.pos:], 0)
		if end < 0 {
			return nil, r.fail("unterminated %s string %d", what, i)
		}

		out[i] = string(r.b[r.pos : r.pos+end])
		r.pos += end + 1
	}

	r.align()

	return out, nil
}

func (r *blobReader) align() {
	r.pos = (r.pos + 3) &^ 3
}

// Decode builds a Table from an encoded schema blob. Any inconsistency in
// the blob is reported as ErrMalformedSchema.
func Decode(blob []byte, opts Options) (*Table, error) {
	opts = opts.withDefaults()
	if opts.PointerSize != 0 && opts.PointerSize != 4 && opts.PointerSize != 8 {
		return nil, fmt.Errorf("%w: pointer size %d is not 4 or 8", ErrMalformedSchema, opts.PointerSize)
	}

	r := &blobReader{b: blob, order: opts.ByteOrder}

	if err := r.marker(markerSDNA); err != nil {
		return nil, err
	}

	if err := r.marker(markerName); err != nil {
		return nil, err
	}

	names, err := r.strings("name")
	if err != nil {
		return nil, err
	}

	if err := r.marker(markerType); err != nil {
		return nil, err
	}

	typeNames, err := r.strings("type")
	if err != nil {
		return nil, err
	}

	if err := r.marker(markerTLen); err != nil {
		return nil, err
	}

	sizes := make([]int, len(typeNames))
	for i := range sizes {
		if sizes[i], err = r.u16(); err != nil {
			return nil, err
		}
	}

	r.align()

	if err := r.marker(markerStrc); err != nil {
		return nil, err
	}

	structs, err := r.structs(len(names))
	if err != nil {
		return nil, err
	}

	for i := range structs {
		for j := range structs[i].members {
			// The name table index was validated; swap it for the string.
			structs[i].members[j].name = names[structs[i].members[j].nameIndex]
		}
	}

	isStruct := make(map[int]bool, len(structs))
	for _, s := range structs {
		isStruct[s.typ] = true
	}

	types := make([]Type, len(typeNames))
	for i, name := range typeNames {
		types[i] = Type{Name: name, Size: sizes[i], Kind: TypeOpaque}

		kind, ok, sizeOK := primitive.Lookup(name, sizes[i])
		if !ok {
			continue
		}

		if !sizeOK && !isStruct[i] {
			return nil, fmt.Errorf("%w: primitive %q declared with size %d", ErrMalformedSchema, name, sizes[i])
		}

		types[i].Kind = TypePrimitive
		types[i].Primitive = kind
	}

	raw := make([]rawStruct, len(structs))
	for i, s := range structs {
		raw[i] = rawStruct{typ: s.typ, members: make([]rawMember, len(s.members))}
		for j, m := range s.members {
			raw[i].members[j] = rawMember{typ: m.typ, name: m.name}
		}
	}

	requested := opts.PointerSize
	if requested == 0 {
		opts.PointerSize = 8
	}

	t, err := newTable(types, raw, opts)
	if err != nil {
		return nil, err
	}

	if requested != 0 {
		if err := t.checkDeclaredSizes(); err != nil {
			return nil, err
		}

		return t, nil
	}

	err8 := t.checkDeclaredSizes()
	if err8 == nil {
		return t, nil
	}

	t4 := t.withPointerSize(4)
	if t4.checkDeclaredSizes() == nil {
		return t4, nil
	}

	return nil, fmt.Errorf("pointer size mismatch: %w", err8)
}

type decodedMember struct {
	typ       int
	nameIndex int
	name      string
}

type decodedStruct struct {
	typ     int
	members []decodedMember
}

func (r *blobReader) structs(numNames int) ([]decodedStruct, error) {
	n, err := r.count("struct", 4)
	if err != nil {
		return nil, err
	}

	out := make([]decodedStruct, n)

	for i := range n {
		typ, err := r.u16()
		if err != nil {
			return nil, err
		}

		nm, err := r.u16()
		if err != nil {
			return nil, err
		}

		if nm > (len(r.b)-r.pos)/4 {
			return nil, r.fail("struct %d member count %d does not fit the blob", i, nm)
		}

		s := decodedStruct{typ: typ, members: make([]decodedMember, nm)}

		for j := range nm {
			mt, _ := r.u16()
			mn, _ := r.u16()

			if mn >= numNames {
				return nil, r.fail("struct %d member %d has name index %d outside [0,%d)", i, j, mn, numNames)
			}

			s.members[j] = decodedMember{typ: mt, nameIndex: mn}
		}

		out[i] = s
	}

	return out, nil
}

// checkDeclaredSizes compares computed struct sizes against the sizes
// declared in the blob. Structs that could not be laid out are skipped;
// they are reported per struct by the comparator.
func (t *Table) checkDeclaredSizes() error {
	var errs []error

	for s := range t.structs {
		if t.layouts[s].err != nil {
			continue
		}

		declared := t.types[t.structs[s].Type].Size
		if declared != t.layouts[s].size {
			errs = append(errs, fmt.Errorf("struct %q declares %d bytes, members sum to %d with %d-byte pointers",
				t.StructName(s), declared, t.layouts[s].size, t.pointerSize))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrMalformedSchema, errors.Join(errs...))
}
