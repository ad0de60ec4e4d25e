package analyze

import (
	"fmt"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"dnarecon/internal/schemafile"
)

// TagKey is the struct tag consulted for member names.
const TagKey = "dna"

// describe maps one struct to DNA members, inserting padding so member
// offsets match the gc layout. deps are the named structs embedded by value.
func (a *analyzer) describe(named *types.Named) (schemafile.StructDef, []*types.Named, error) {
	st := named.Underlying().(*types.Struct)
	def := schemafile.StructDef{Name: named.Obj().Name()}

	fields := make([]*types.Var, st.NumFields())
	for i := range fields {
		fields[i] = st.Field(i)
	}

	offsets := a.sizes.Offsetsof(fields)

	var (
		deps   []*types.Named
		cursor int64
		pads   int
	)

	pad := func(upTo int64) {
		if upTo > cursor {
			def.Members = append(def.Members, schemafile.MemberDef{
				Type: "char",
				Name: fmt.Sprintf("_pad%d[%d]", pads, upTo-cursor),
			})
			pads++
			cursor = upTo
		}
	}

	for i, f := range fields {
		name := f.Name()
		if tag, ok := reflect.StructTag(st.Tag(i)).Lookup(TagKey); ok {
			name = tag
		}

		if name == "-" || name == "_" {
			// Excluded fields are covered by the padding before the next member.
			continue
		}

		m, dep, err := a.member(f.Type(), name)
		if err != nil {
			return def, nil, fmt.Errorf("field %s: %w", f.Name(), err)
		}

		pad(offsets[i])
		def.Members = append(def.Members, m)
		cursor = offsets[i] + a.sizes.Sizeof(f.Type())

		if dep != nil {
			deps = append(deps, dep)
		}
	}

	pad(a.sizes.Sizeof(st))

	return def, deps, nil
}

// member maps a field type to a DNA declaration. dep is set when the field
// embeds a named struct by value.
func (a *analyzer) member(t types.Type, name string) (schemafile.MemberDef, *types.Named, error) {
	var dims []string

	for {
		arr, ok := t.Underlying().(*types.Array)
		if !ok || isNamedStruct(t) {
			break
		}

		dims = append(dims, "["+strconv.FormatInt(arr.Len(), 10)+"]")
		t = arr.Elem()
	}

	suffix := strings.Join(dims, "")

	if _, ok := t.Underlying().(*types.Signature); ok {
		if len(dims) > 0 {
			return schemafile.MemberDef{}, nil, fmt.Errorf("arrays of funcs are not supported")
		}

		return schemafile.MemberDef{Type: "void", Name: "(*" + name + ")()"}, nil, nil
	}

	stars := ""

	for {
		if b, ok := t.Underlying().(*types.Basic); ok && b.Kind() == types.UnsafePointer {
			return schemafile.MemberDef{Type: "void", Name: stars + "*" + name + suffix}, nil, nil
		}

		p, ok := t.Underlying().(*types.Pointer)
		if !ok || isNamedStruct(t) {
			break
		}

		stars += "*"
		t = p.Elem()

		// A pointer to an array points at its first element.
		for {
			arr, ok := t.Underlying().(*types.Array)
			if !ok || isNamedStruct(t) {
				break
			}

			t = arr.Elem()
		}
	}

	full := stars + name + suffix

	if isNamedStruct(t) {
		named := t.(*types.Named)
		m := schemafile.MemberDef{Type: named.Obj().Name(), Name: full}

		if stars != "" {
			return m, nil, nil
		}

		return m, named, nil
	}

	if _, ok := t.Underlying().(*types.Struct); ok {
		return schemafile.MemberDef{}, nil, fmt.Errorf("anonymous structs are not supported")
	}

	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		if stars != "" {
			// Pointers to unsupported types are still pointer-sized.
			return schemafile.MemberDef{Type: "void", Name: full}, nil, nil
		}

		return schemafile.MemberDef{}, nil, fmt.Errorf("type %s has no DNA equivalent", t)
	}

	prim, err := a.basic(basic)
	if err != nil {
		if stars != "" {
			return schemafile.MemberDef{Type: "void", Name: full}, nil, nil
		}

		return schemafile.MemberDef{}, nil, err
	}

	return schemafile.MemberDef{Type: prim, Name: full}, nil, nil
}

func (a *analyzer) basic(b *types.Basic) (string, error) {
	switch b.Kind() {
	case types.Bool:
		return "char", nil
	case types.Int8:
		return "int8_t", nil
	case types.Uint8:
		return "uchar", nil
	case types.Int16:
		return "short", nil
	case types.Uint16:
		return "ushort", nil
	case types.Int32:
		return "int", nil
	case types.Uint32:
		return "uint", nil
	case types.Int64:
		return "int64_t", nil
	case types.Uint64:
		return "uint64_t", nil
	case types.Float32:
		return "float", nil
	case types.Float64:
		return "double", nil
	case types.Int, types.Uint:
		size := a.sizes.Sizeof(b)

		prefix := ""
		if b.Kind() == types.Uint {
			prefix = "u"
		}

		if size == 8 {
			return prefix + "int64_t", nil
		}

		return prefix + "int", nil
	default:
		return "", fmt.Errorf("type %s has no DNA equivalent", b)
	}
}

func isNamedStruct(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	_, ok = named.Underlying().(*types.Struct)

	return ok
}

func isPointerName(name string) bool {
	return strings.HasPrefix(name, "*") || strings.HasPrefix(name, "(*")
}
