package dna

import (
	"fmt"
	"sort"
)

// Aliases map alternate names to the names literally stored in a table.
// They are consulted only after a literal lookup fails.
type Aliases struct {
	// Structs maps an alias struct name to the stored struct name.
	Structs map[string]string
	// Members maps a stored struct name to alias member base names and
	// their stored base names.
	Members map[string]map[string]string
}

// IsEmpty returns true if no alias is defined.
func (a Aliases) IsEmpty() bool {
	return len(a.Structs) == 0 && len(a.Members) == 0
}

func (t *Table) setAliases(a Aliases) error {
	t.aliases = a
	t.aliasStructs = make(map[string]int, len(a.Structs))
	t.identifiers = make([]string, len(t.structs))

	aliasNames := make([]string, 0, len(a.Structs))
	for alias := range a.Structs {
		aliasNames = append(aliasNames, alias)
	}

	sort.Strings(aliasNames)

	for _, alias := range aliasNames {
		stored := a.Structs[alias]
		if alias == stored {
			return fmt.Errorf("%w: struct alias %q maps to itself", ErrMalformedSchema, alias)
		}

		// Aliases for structs this table never stored are legal and inert.
		s, ok := t.structByName[stored]
		if !ok {
			continue
		}

		t.aliasStructs[alias] = s
		if t.identifiers[s] == "" {
			t.identifiers[s] = alias
		}
	}

	return nil
}

// Aliases returns the alias maps the table was built with.
func (t *Table) Aliases() Aliases { return t.aliases }

// FindStructWithAlias looks a struct up by exact name, falling back to the alias table.
func (t *Table) FindStructWithAlias(name string) (int, bool) {
	if i, ok := t.structByName[name]; ok {
		return i, true
	}

	i, ok := t.aliasStructs[name]

	return i, ok
}

// StructExistsWithAlias is FindStructWithAlias without the index.
func (t *Table) StructExistsWithAlias(name string) bool {
	_, ok := t.FindStructWithAlias(name)
	return ok
}

// StructIdentifier returns the alias name of a struct when one maps to its
// stored name, otherwise the stored name.
func (t *Table) StructIdentifier(s int) string {
	if id := t.identifiers[s]; id != "" {
		return id
	}

	return t.StructName(s)
}

// MemberOffsetByName returns the offset of the member with the exact
// decorated name and type name in struct stype, or -1.
func (t *Table) MemberOffsetByName(stype, vartype, name string) int {
	s, ok := t.FindStruct(stype)
	if !ok {
		return -1
	}

	return t.memberOffset(s, vartype, name)
}

// MemberOffsetByNameWithAlias is MemberOffsetByName with struct, type and
// member names resolved through the alias table when literal lookup fails.
func (t *Table) MemberOffsetByNameWithAlias(stype, vartype, name string) int {
	s, ok := t.FindStructWithAlias(stype)
	if !ok {
		return -1
	}

	if off := t.memberOffset(s, vartype, name); off >= 0 {
		return off
	}

	if stored, ok := t.aliases.Structs[vartype]; ok {
		vartype = stored
	}

	if off := t.memberOffset(s, vartype, name); off >= 0 {
		return off
	}

	parsed, err := ParseName(name)
	if err != nil {
		return -1
	}

	stored, ok := t.aliases.Members[t.StructName(s)][parsed.Base]
	if !ok {
		return -1
	}

	return t.memberOffset(s, vartype, parsed.WithBase(stored))
}

// MemberExists reports whether MemberOffsetByName finds the member.
func (t *Table) MemberExists(stype, vartype, name string) bool {
	return t.MemberOffsetByName(stype, vartype, name) >= 0
}

// MemberExistsWithAlias reports whether MemberOffsetByNameWithAlias finds the member.
func (t *Table) MemberExistsWithAlias(stype, vartype, name string) bool {
	return t.MemberOffsetByNameWithAlias(stype, vartype, name) >= 0
}

func (t *Table) memberOffset(s int, vartype, name string) int {
	if t.layouts[s].err != nil {
		return -1
	}

	for i, m := range t.structs[s].Members {
		if m.Name.Raw == name && t.types[m.Type].Name == vartype {
			return t.layouts[s].offsets[i]
		}
	}

	return -1
}
