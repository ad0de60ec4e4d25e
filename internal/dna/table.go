package dna

import (
	"encoding/binary"
	"fmt"

	"dnarecon/internal/common"
	"dnarecon/primitive"
)

const (
	// DefaultPointerSize is used by in-process builders when none is configured.
	DefaultPointerSize = 8
	// DefaultMaxAlign caps member alignment when none is configured.
	DefaultMaxAlign = 8
)

// Options configure how a table lays out its structs.
type Options struct {
	// PointerSize is the size of a pointer member in bytes (4 or 8).
	// Decode treats zero as "detect from the declared struct sizes".
	PointerSize int
	// MaxAlign caps the alignment of any member, as the target ABI does.
	MaxAlign int
	// ByteOrder of the encoded blob. Nil means host order.
	ByteOrder binary.ByteOrder
	// Aliases is the lower-priority lookup table for renamed structs and members.
	Aliases Aliases
}

func (o Options) withDefaults() Options {
	if o.MaxAlign <= 0 {
		o.MaxAlign = DefaultMaxAlign
	}

	if o.ByteOrder == nil {
		o.ByteOrder = common.HostByteOrder()
	}

	return o
}

// TypeKind classifies an entry of the type table.
type TypeKind int

const (
	// TypeOpaque is a named type with no layout; only usable behind a pointer.
	TypeOpaque TypeKind = iota
	// TypePrimitive is a char/short/int/... type.
	TypePrimitive
	// TypeStruct has a member list in the struct table.
	TypeStruct
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeOpaque:
		return "opaque"
	case TypePrimitive:
		return "primitive"
	case TypeStruct:
		return "struct"
	default:
		return common.UnknownStr
	}
}

// Type is one entry of the combined type space.
type Type struct {
	Name string
	// Size is the declared size in bytes (0 for void and opaque types).
	Size int
	Kind TypeKind
	// Primitive is set for TypePrimitive entries.
	Primitive primitive.Kind
	// Struct is the struct index for TypeStruct entries, -1 otherwise.
	Struct int
}

// Member is one member of a struct.
type Member struct {
	// Type indexes the table's type array.
	Type int
	Name Name
}

// Struct is a struct definition: its own type index and its members.
type Struct struct {
	Type    int
	Members []Member
}

// Table is an immutable symbol table. Struct indices are stable for the
// lifetime of the table.
type Table struct {
	types   []Type
	structs []Struct

	typeByName   map[string]int
	structByName map[string]int

	aliases      Aliases
	aliasStructs map[string]int
	identifiers  []string

	pointerSize int
	maxAlign    int
	order       binary.ByteOrder

	layouts []structLayout
}

// rawStruct is the unvalidated input shared by the decoder and the builder.
type rawStruct struct {
	typ     int
	members []rawMember
}

type rawMember struct {
	typ  int
	name string
}

// newTable validates and indexes the given types and structs. types must
// already carry Kind/Primitive for non-struct entries; struct entries are
// derived from structs.
func newTable(types []Type, structs []rawStruct, opts Options) (*Table, error) {
	opts = opts.withDefaults()

	t := &Table{
		types:        types,
		structs:      make([]Struct, len(structs)),
		typeByName:   make(map[string]int, len(types)),
		structByName: make(map[string]int, len(structs)),
		pointerSize:  opts.PointerSize,
		maxAlign:     opts.MaxAlign,
		order:        opts.ByteOrder,
	}

	for i := range t.types {
		t.types[i].Struct = -1
		if _, dup := t.typeByName[t.types[i].Name]; dup {
			return nil, fmt.Errorf("%w: duplicate type %q", ErrMalformedSchema, t.types[i].Name)
		}

		t.typeByName[t.types[i].Name] = i
	}

	for si, rs := range structs {
		if rs.typ < 0 || rs.typ >= len(types) {
			return nil, fmt.Errorf("%w: struct %d has type index %d outside [0,%d)",
				ErrMalformedSchema, si, rs.typ, len(types))
		}

		typ := &t.types[rs.typ]
		if typ.Kind == TypePrimitive {
			return nil, fmt.Errorf("%w: struct %d redefines primitive %q", ErrMalformedSchema, si, typ.Name)
		}

		if typ.Struct >= 0 {
			return nil, fmt.Errorf("%w: struct %q defined twice", ErrMalformedSchema, typ.Name)
		}

		typ.Kind = TypeStruct
		typ.Struct = si

		members := make([]Member, len(rs.members))
		for mi, rm := range rs.members {
			if rm.typ < 0 || rm.typ >= len(types) {
				return nil, fmt.Errorf("%w: member %d of struct %q has type index %d outside [0,%d)",
					ErrMalformedSchema, mi, typ.Name, rm.typ, len(types))
			}

			name, err := ParseName(rm.name)
			if err != nil {
				return nil, fmt.Errorf("struct %q: %w", typ.Name, err)
			}

			members[mi] = Member{Type: rm.typ, Name: name}
		}

		t.structs[si] = Struct{Type: rs.typ, Members: members}
		t.structByName[typ.Name] = si
	}

	if err := t.setAliases(opts.Aliases); err != nil {
		return nil, err
	}

	t.computeLayouts()

	return t, nil
}

// NumTypes returns the number of entries in the type table.
func (t *Table) NumTypes() int { return len(t.types) }

// TypeAt returns the type with the given index.
func (t *Table) TypeAt(i int) Type { return t.types[i] }

// FindType returns the index of a type by its literal name.
func (t *Table) FindType(name string) (int, bool) {
	i, ok := t.typeByName[name]
	return i, ok
}

// NumStructs returns the number of struct definitions.
func (t *Table) NumStructs() int { return len(t.structs) }

// StructAt returns the struct with the given index.
func (t *Table) StructAt(i int) Struct { return t.structs[i] }

// StructName returns the literal type name of a struct.
func (t *Table) StructName(i int) string { return t.types[t.structs[i].Type].Name }

// StructNames returns every struct name in index order.
func (t *Table) StructNames() []string {
	names := make([]string, len(t.structs))
	for i := range t.structs {
		names[i] = t.StructName(i)
	}

	return names
}

// FindStruct returns the index of a struct by exact name.
func (t *Table) FindStruct(name string) (int, bool) {
	i, ok := t.structByName[name]
	return i, ok
}

// StructExists reports whether a struct with the exact name exists.
func (t *Table) StructExists(name string) bool {
	_, ok := t.structByName[name]
	return ok
}

// MemberCount returns the number of members of a struct.
func (t *Table) MemberCount(s int) int { return len(t.structs[s].Members) }

// MemberAt returns member i of struct s.
func (t *Table) MemberAt(s, i int) Member { return t.structs[s].Members[i] }

// MemberTypeName returns the type name of member i of struct s.
func (t *Table) MemberTypeName(s, i int) string {
	return t.types[t.structs[s].Members[i].Type].Name
}

// PrimitiveSize returns the size of a primitive type, or -1 when the
// index is not a primitive.
func (t *Table) PrimitiveSize(typeIndex int) int {
	if typeIndex < 0 || typeIndex >= len(t.types) || t.types[typeIndex].Kind != TypePrimitive {
		return -1
	}

	return t.types[typeIndex].Primitive.Size()
}

// PointerSize returns the size of pointer members in this table.
func (t *Table) PointerSize() int { return t.pointerSize }

// MaxAlign returns the alignment cap of this table.
func (t *Table) MaxAlign() int { return t.maxAlign }

// ByteOrder returns the byte order the table was decoded with.
func (t *Table) ByteOrder() binary.ByteOrder { return t.order }

// ElemSize returns the size of a primitive kind.
func ElemSize(k primitive.Kind) int { return k.Size() }
