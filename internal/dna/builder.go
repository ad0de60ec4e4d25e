package dna

import (
	"errors"
	"fmt"
	"strings"

	"dnarecon/primitive"
)

// Decl is a member declaration: a type name and a decorated member name.
type Decl struct {
	Type string
	Name string
}

// String returns the declaration in C syntax.
func (d Decl) String() string {
	return d.Type + " " + d.Name
}

// ParseDecl splits a C-like declaration such as "float co[3]", "Link *next"
// or "void (*func)()" into type and member name.
func ParseDecl(s string) (Decl, error) {
	s = strings.TrimSpace(s)

	i := strings.IndexAny(s, " \t*")
	if i <= 0 {
		return Decl{}, fmt.Errorf("invalid declaration %q: expected \"type name\"", s)
	}

	d := Decl{
		Type: s[:i],
		Name: strings.Join(strings.Fields(s[i:]), ""),
	}
	if d.Name == "" {
		return Decl{}, fmt.Errorf("invalid declaration %q: missing member name", s)
	}

	return d, nil
}

type builderStruct struct {
	name    string
	members []Decl
}

// Builder assembles a Table from in-process struct definitions. Member
// types may name primitives, structs added to the builder, or any other
// name, which becomes an opaque type usable only behind a pointer.
type Builder struct {
	structs []builderStruct
	aliases Aliases
	errs    []error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Struct adds a struct whose members are given as declarations.
func (b *Builder) Struct(name string, members ...string) *Builder {
	decls := make([]Decl, 0, len(members))

	for _, m := range members {
		d, err := ParseDecl(m)
		if err != nil {
			b.errs = append(b.errs, fmt.Errorf("struct %q: %w", name, err))
			continue
		}

		decls = append(decls, d)
	}

	return b.StructDecls(name, decls...)
}

// StructDecls adds a struct with already split member declarations.
func (b *Builder) StructDecls(name string, members ...Decl) *Builder {
	b.structs = append(b.structs, builderStruct{name: name, members: members})
	return b
}

// AliasStruct registers alias as an alternate name for the stored struct name.
func (b *Builder) AliasStruct(alias, stored string) *Builder {
	if b.aliases.Structs == nil {
		b.aliases.Structs = make(map[string]string)
	}

	b.aliases.Structs[alias] = stored

	return b
}

// AliasMember registers an alternate base name for a member of a struct.
func (b *Builder) AliasMember(structName, alias, stored string) *Builder {
	if b.aliases.Members == nil {
		b.aliases.Members = make(map[string]map[string]string)
	}

	if b.aliases.Members[structName] == nil {
		b.aliases.Members[structName] = make(map[string]string)
	}

	b.aliases.Members[structName][alias] = stored

	return b
}

// Build validates the definitions and returns the table. The canonical
// primitives always occupy the first type indices.
func (b *Builder) Build(opts Options) (*Table, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSchema, errors.Join(b.errs...))
	}

	if opts.PointerSize == 0 {
		opts.PointerSize = DefaultPointerSize
	}

	if opts.PointerSize != 4 && opts.PointerSize != 8 {
		return nil, fmt.Errorf("%w: pointer size %d is not 4 or 8", ErrMalformedSchema, opts.PointerSize)
	}

	if opts.Aliases.IsEmpty() {
		opts.Aliases = b.aliases
	}

	types := make([]Type, 0, len(primitive.Canonical)+len(b.structs))
	index := make(map[string]int)

	for _, name := range primitive.Canonical {
		kind, _, _ := primitive.Lookup(name, 0)
		index[name] = len(types)
		types = append(types, Type{Name: name, Size: kind.Size(), Kind: TypePrimitive, Primitive: kind})
	}

	for _, s := range b.structs {
		if _, ok := index[s.name]; ok {
			return nil, fmt.Errorf("%w: struct %q defined twice or shadows a primitive", ErrMalformedSchema, s.name)
		}

		index[s.name] = len(types)
		types = append(types, Type{Name: s.name, Kind: TypeOpaque})
	}

	raw := make([]rawStruct, len(b.structs))

	for si, s := range b.structs {
		rs := rawStruct{typ: index[s.name], members: make([]rawMember, len(s.members))}

		for mi, d := range s.members {
			ti, ok := index[d.Type]
			if !ok {
				if kind, isPrim, _ := primitive.Lookup(d.Type, 0); isPrim {
					// Spellings like int32_t or long fold onto the canonical entry.
					ti = index[kind.CName()]
				} else {
					ti = len(types)
					index[d.Type] = ti
					types = append(types, Type{Name: d.Type, Kind: TypeOpaque})
				}
			}

			rs.members[mi] = rawMember{typ: ti, name: d.Name}
		}

		raw[si] = rs
	}

	t, err := newTable(types, raw, opts)
	if err != nil {
		return nil, err
	}

	for s := range t.structs {
		t.types[t.structs[s].Type].Size = t.layouts[s].size
	}

	return t, nil
}
