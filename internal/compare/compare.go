package compare

import (
	"errors"
	"fmt"
	"slices"

	"dnarecon/internal/common"
	"dnarecon/internal/diagnostic"
	"dnarecon/internal/dna"
	"dnarecon/internal/match"
)

// Flag is the comparison outcome for one old struct.
type Flag uint8

const (
	// Removed means old data of this struct is dropped.
	Removed Flag = iota
	// Equal means the stored bytes can be copied verbatim.
	Equal
	// NotEqual means instances must be reconstructed member by member.
	NotEqual
)

// String returns a human-readable flag name.
func (f Flag) String() string {
	switch f {
	case Removed:
		return "removed"
	case Equal:
		return "equal"
	case NotEqual:
		return "not_equal"
	default:
		return common.UnknownStr
	}
}

// Rename suggestion tuning for removed structs.
const (
	SuggestLimit     = 3
	SuggestThreshold = 0.7
)

// Result holds one flag per old struct index and the index of the new
// struct each old struct was matched with.
type Result struct {
	flags    []Flag
	newIndex []int

	// Diagnostics explain every Removed flag.
	Diagnostics diagnostic.Diagnostics
}

// Len returns the number of old structs.
func (r *Result) Len() int { return len(r.flags) }

// Flag returns the outcome for old struct s.
func (r *Result) Flag(s int) Flag { return r.flags[s] }

// Flags returns a copy of the per-struct flags.
func (r *Result) Flags() []Flag { return slices.Clone(r.flags) }

// Match returns the new struct index that old struct s maps to, or false
// when s is Removed.
func (r *Result) Match(s int) (int, bool) {
	if r.flags[s] == Removed {
		return -1, false
	}

	return r.newIndex[s], true
}

// Count returns how many old structs carry flag f.
func (r *Result) Count(f Flag) int {
	n := 0

	for _, g := range r.flags {
		if g == f {
			n++
		}
	}

	return n
}

type comparer struct {
	old, new *dna.Table
	res      *Result
}

// Compare evaluates every old struct against the new table. Structs are
// matched by exact name; aliases are not consulted. Structs that cannot be
// laid out in either table are Removed with a diagnostic and do not abort
// the comparison.
func Compare(oldTable, newTable *dna.Table) *Result {
	n := oldTable.NumStructs()

	c := &comparer{
		old: oldTable,
		new: newTable,
		res: &Result{
			flags:    make([]Flag, n),
			newIndex: make([]int, n),
		},
	}

	for s := range n {
		c.res.newIndex[s] = -1
	}

	order, cyclic := topoSort(n, c.embedded)

	for _, s := range cyclic {
		// Layout already rejects embedding cycles; this keeps the result
		// well defined for any cycle the sort sees.
		c.remove(s, diagnostic.CodeRecursiveStruct, "embeds itself through its members")
	}

	for _, s := range order {
		c.evaluate(s)
	}

	return c.res
}

// embedded returns the old struct indices embedded by value in old struct s.
func (c *comparer) embedded(s int) []int {
	var deps []int

	for i := range c.old.MemberCount(s) {
		m := c.old.MemberAt(s, i)
		if m.Name.Pointer {
			continue
		}

		if typ := c.old.TypeAt(m.Type); typ.Kind == dna.TypeStruct {
			deps = append(deps, typ.Struct)
		}
	}

	return deps
}

func (c *comparer) evaluate(s int) {
	name := c.old.StructName(s)

	if err := c.old.LayoutErr(s); err != nil {
		c.remove(s, layoutCode(err), fmt.Sprintf("old layout: %v", err))
		return
	}

	ns, ok := c.new.FindStruct(name)
	if !ok {
		c.res.Diagnostics.AddWarning(diagnostic.CodeStructRemoved, "not present in the new table", name, "",
			match.Suggest(name, c.new.StructNames(), SuggestLimit, SuggestThreshold)...)

		return
	}

	if err := c.new.LayoutErr(ns); err != nil {
		c.remove(s, layoutCode(err), fmt.Sprintf("new layout: %v", err))
		return
	}

	c.res.newIndex[s] = ns
	c.res.flags[s] = NotEqual

	if c.sameShape(s, ns) {
		c.res.flags[s] = Equal
	}
}

func (c *comparer) remove(s int, code, message string) {
	c.res.flags[s] = Removed
	c.res.newIndex[s] = -1
	c.res.Diagnostics.AddWarning(code, message, c.old.StructName(s), "")
}

func layoutCode(err error) string {
	if errors.Is(err, dna.ErrRecursiveStruct) {
		return diagnostic.CodeRecursiveStruct
	}

	return diagnostic.CodeUnknownTypeIndex
}

// sameShape reports whether old struct s and new struct ns have the same
// size and the same members in the same order. Both layouts are valid.
func (c *comparer) sameShape(s, ns int) bool {
	oldSize, _ := c.old.StructSize(s)
	newSize, _ := c.new.StructSize(ns)

	if oldSize != newSize || c.old.MemberCount(s) != c.new.MemberCount(ns) {
		return false
	}

	for i := range c.old.MemberCount(s) {
		if !c.sameMember(s, ns, i) {
			return false
		}
	}

	return true
}

func (c *comparer) sameMember(s, ns, i int) bool {
	om, nm := c.old.MemberAt(s, i), c.new.MemberAt(ns, i)

	if !om.Name.SameShape(nm.Name) {
		return false
	}

	oldSize, _ := c.old.MemberSize(s, i)
	newSize, _ := c.new.MemberSize(ns, i)

	if oldSize != newSize {
		return false
	}

	ot, nt := c.old.TypeAt(om.Type), c.new.TypeAt(nm.Type)

	switch {
	case om.Name.Pointer:
		// Pointers are opaque remapping keys; only the pointee name matters.
		return ot.Name == nt.Name
	case ot.Kind == dna.TypePrimitive:
		return nt.Kind == dna.TypePrimitive && ot.Primitive == nt.Primitive
	case ot.Kind == dna.TypeStruct:
		return nt.Kind == dna.TypeStruct &&
			c.res.flags[ot.Struct] == Equal &&
			c.res.newIndex[ot.Struct] == nt.Struct
	default:
		return false
	}
}
