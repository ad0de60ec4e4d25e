package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnarecon/internal/diagnostic"
	"dnarecon/internal/dna"
)

func build(t *testing.T, ps int, fn func(b *dna.Builder)) *dna.Table {
	t.Helper()

	b := dna.NewBuilder()
	fn(b)

	table, err := b.Build(dna.Options{PointerSize: ps})
	require.NoError(t, err)

	return table
}

func flagOf(t *testing.T, r *Result, table *dna.Table, name string) Flag {
	t.Helper()

	s, ok := table.FindStruct(name)
	require.True(t, ok, name)

	return r.Flag(s)
}

func TestComparePointAndColor(t *testing.T) {
	oldTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("Point", "int x", "int y")
		b.Struct("Color", "int r", "int g", "int b")
		b.Struct("Empty")
	})
	newTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("Empty")
		b.Struct("Point", "int x", "int y", "int z")
	})

	r := Compare(oldTable, newTable)

	assert.Equal(t, NotEqual, flagOf(t, r, oldTable, "Point"))
	assert.Equal(t, Removed, flagOf(t, r, oldTable, "Color"))
	assert.Equal(t, Equal, flagOf(t, r, oldTable, "Empty"))

	pt, _ := oldTable.FindStruct("Point")
	ns, ok := r.Match(pt)
	require.True(t, ok)
	assert.Equal(t, "Point", newTable.StructName(ns))

	col, _ := oldTable.FindStruct("Color")
	_, ok = r.Match(col)
	assert.False(t, ok)

	removed := r.Diagnostics.ByCode(diagnostic.CodeStructRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, "Color", removed[0].Struct)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 1, r.Count(Removed))
	assert.Equal(t, []Flag{NotEqual, Removed, Equal}, r.Flags())
}

func TestCompareMemberDifferences(t *testing.T) {
	oldTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("Same", "float co[3]", "short flag", "char pad[2]")
		b.Struct("Renamed", "int a")
		b.Struct("Retyped", "int a")
		b.Struct("Resized", "float co[3]")
		b.Struct("Reordered", "int a", "int b")
		b.Struct("PtrTarget", "Mesh *me")
		b.Struct("PtrDepth", "void *data")
	})
	newTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("Same", "float co[3]", "short flag", "char pad[2]")
		b.Struct("Renamed", "int b")
		b.Struct("Retyped", "float a")
		b.Struct("Resized", "float co[4]")
		b.Struct("Reordered", "int b", "int a")
		b.Struct("PtrTarget", "Curve *me")
		b.Struct("PtrDepth", "void *data")
	})

	r := Compare(oldTable, newTable)

	for name, want := range map[string]Flag{
		"Same":      Equal,
		"Renamed":   NotEqual,
		"Retyped":   NotEqual,
		"Resized":   NotEqual,
		"Reordered": NotEqual,
		"PtrTarget": NotEqual,
		"PtrDepth":  Equal,
	} {
		assert.Equal(t, want, flagOf(t, r, oldTable, name), name)
	}

	assert.Empty(t, r.Diagnostics.Warnings)
}

func TestComparePrimitiveSpellingsAreEqual(t *testing.T) {
	oldTable := build(t, 8, func(b *dna.Builder) { b.Struct("S", "int32_t a", "long b") })
	newTable := build(t, 8, func(b *dna.Builder) { b.Struct("S", "int a", "int b") })

	assert.Equal(t, Equal, Compare(oldTable, newTable).Flag(0))
}

func TestCompareNestedPropagates(t *testing.T) {
	oldTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("Outer", "Middle m", "int tag")
		b.Struct("Middle", "Inner in[2]")
		b.Struct("Inner", "int v")
		b.Struct("Stable", "Leaf l")
		b.Struct("Leaf", "short s")
	})
	newTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("Leaf", "short s")
		b.Struct("Stable", "Leaf l")
		b.Struct("Inner", "float v")
		b.Struct("Middle", "Inner in[2]")
		b.Struct("Outer", "Middle m", "int tag")
	})

	r := Compare(oldTable, newTable)

	// Inner changes kind at equal size; every container must notice.
	assert.Equal(t, NotEqual, flagOf(t, r, oldTable, "Inner"))
	assert.Equal(t, NotEqual, flagOf(t, r, oldTable, "Middle"))
	assert.Equal(t, NotEqual, flagOf(t, r, oldTable, "Outer"))
	assert.Equal(t, Equal, flagOf(t, r, oldTable, "Stable"))
	assert.Equal(t, Equal, flagOf(t, r, oldTable, "Leaf"))
}

func TestCompareSelfPointer(t *testing.T) {
	decl := func(b *dna.Builder) {
		b.Struct("Link", "Link *next", "Link *prev", "int data")
		b.Struct("Tree", "Tree *parent", "Link link", "Tree **children")
	}

	r := Compare(build(t, 8, decl), build(t, 8, decl))
	assert.Equal(t, []Flag{Equal, Equal}, r.Flags())

	// Different pointer widths change the size, so nothing is Equal.
	r = Compare(build(t, 4, decl), build(t, 8, decl))
	assert.Equal(t, []Flag{NotEqual, NotEqual}, r.Flags())
}

func TestCompareLayoutErrorsAreIsolated(t *testing.T) {
	oldTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("Good", "int a")
		b.Struct("Broken", "Handle h")
		b.Struct("UsesBroken", "Broken b")
		b.Struct("Loop", "Loop self")
		b.Struct("BrokenInNew", "int a")
	})
	newTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("Good", "int a")
		b.Struct("Broken", "int h")
		b.Struct("UsesBroken", "Broken b")
		b.Struct("Loop", "int self")
		b.Struct("BrokenInNew", "Gone a")
	})

	r := Compare(oldTable, newTable)

	assert.Equal(t, []Flag{Equal, Removed, Removed, Removed, Removed}, r.Flags())
	assert.Len(t, r.Diagnostics.ByCode(diagnostic.CodeUnknownTypeIndex), 3)
	assert.Len(t, r.Diagnostics.ByCode(diagnostic.CodeRecursiveStruct), 1)
	assert.False(t, r.Diagnostics.HasErrors())
}

func TestCompareSuggestsRenames(t *testing.T) {
	oldTable := build(t, 8, func(b *dna.Builder) { b.Struct("bNodeSocketValue", "float value") })
	newTable := build(t, 8, func(b *dna.Builder) {
		b.Struct("NodeSocketValue", "float value")
		b.Struct("Scene", "int frame")
	})

	r := Compare(oldTable, newTable)
	require.Len(t, r.Diagnostics.Warnings, 1)
	assert.Equal(t, []string{"NodeSocketValue"}, r.Diagnostics.Warnings[0].Suggestions)
}

func TestCompareIgnoresAliases(t *testing.T) {
	oldTable := build(t, 8, func(b *dna.Builder) { b.Struct("Old", "int a") })

	newTable, err := dna.NewBuilder().
		Struct("New", "int a").
		AliasStruct("Old", "New").
		Build(dna.Options{})
	require.NoError(t, err)

	assert.Equal(t, Removed, Compare(oldTable, newTable).Flag(0))

	// Renames are applied to the old table before comparing.
	patched, ok := oldTable.PatchStruct("Old", "New")
	require.True(t, ok)
	assert.Equal(t, Equal, Compare(patched, newTable).Flag(0))
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "equal", Equal.String())
	assert.Equal(t, "not_equal", NotEqual.String())
	assert.Equal(t, "unknown", Flag(9).String())
}
