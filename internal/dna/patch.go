package dna

import (
	"fmt"
	"strings"
)

// Rename is a versioning rename applied to a stored table before it is
// compared. An empty Member renames the struct itself.
type Rename struct {
	Struct string
	Member string
	To     string
}

// ParseRename parses "Old=New" (struct rename) or "Struct.old=new"
// (member rename).
func ParseRename(s string) (Rename, error) {
	from, to, ok := strings.Cut(s, "=")
	if !ok || from == "" || to == "" {
		return Rename{}, fmt.Errorf("invalid rename %q: expected Old=New or Struct.old=new", s)
	}

	structName, member, _ := strings.Cut(from, ".")

	return Rename{Struct: structName, Member: member, To: to}, nil
}

// PatchStruct returns a copy of t in which the struct named oldName is
// called newName. ok is false when oldName is not a struct or newName is
// already taken.
func (t *Table) PatchStruct(oldName, newName string) (*Table, bool) {
	s, ok := t.FindStruct(oldName)
	if !ok {
		return nil, false
	}

	if _, taken := t.typeByName[newName]; taken {
		return nil, false
	}

	c := t.clone()
	ti := c.structs[s].Type

	delete(c.typeByName, oldName)
	delete(c.structByName, oldName)

	c.types[ti].Name = newName
	c.typeByName[newName] = ti
	c.structByName[newName] = s

	// Alias targets are validated when t was built; only the indexes move.
	_ = c.setAliases(c.aliases)

	return c, true
}

// PatchMember returns a copy of t in which every member of struct typeName
// whose base name is oldMember is renamed to newMember, keeping pointer and
// array decoration.
func (t *Table) PatchMember(typeName, oldMember, newMember string) (*Table, bool) {
	s, ok := t.FindStruct(typeName)
	if !ok {
		return nil, false
	}

	found := false

	for _, m := range t.structs[s].Members {
		if m.Name.Base == newMember {
			return nil, false
		}

		found = found || m.Name.Base == oldMember
	}

	if !found {
		return nil, false
	}

	c := t.clone()
	members := make([]Member, len(t.structs[s].Members))
	copy(members, t.structs[s].Members)

	for i, m := range members {
		if m.Name.Base != oldMember {
			continue
		}

		renamed, err := ParseName(m.Name.WithBase(newMember))
		if err != nil {
			return nil, false
		}

		members[i].Name = renamed
	}

	c.structs[s].Members = members

	return c, true
}

// ApplyRenames applies renames in order and fails on the first one that
// does not apply.
func ApplyRenames(t *Table, renames []Rename) (*Table, error) {
	for _, r := range renames {
		var ok bool

		if r.Member == "" {
			t, ok = t.PatchStruct(r.Struct, r.To)
		} else {
			t, ok = t.PatchMember(r.Struct, r.Member, r.To)
		}

		if !ok {
			return nil, fmt.Errorf("rename %s.%s=%s does not apply", r.Struct, r.Member, r.To)
		}
	}

	return t, nil
}

// clone copies the name indexes and definition slices so patches never touch t.
// Layouts are shared: they do not depend on names.
func (t *Table) clone() *Table {
	c := *t
	c.types = append([]Type(nil), t.types...)
	c.structs = append([]Struct(nil), t.structs...)

	c.typeByName = make(map[string]int, len(t.typeByName))
	for k, v := range t.typeByName {
		c.typeByName[k] = v
	}

	c.structByName = make(map[string]int, len(t.structByName))
	for k, v := range t.structByName {
		c.structByName[k] = v
	}

	return &c
}
