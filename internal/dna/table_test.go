package dna

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnarecon/primitive"
)

func sceneTable(t *testing.T, opts Options) *Table {
	t.Helper()

	table, err := NewBuilder().
		Struct("Link", "Link *next", "Link *prev").
		Struct("ListBase", "void *first", "void *last").
		Struct("Vert", "float co[3]", "short flag", "char pad[2]").
		Struct("Mesh", "ListBase verts", "Vert corners[4]", "int totvert", "double scale", "Material **mats").
		Build(opts)
	require.NoError(t, err)

	return table
}

func TestBuilderLayout(t *testing.T) {
	table := sceneTable(t, Options{PointerSize: 8})

	tests := []struct {
		name  string
		size  int
		align int
	}{
		{"Link", 16, 8},
		{"ListBase", 16, 8},
		{"Vert", 16, 4},
		{"Mesh", 16 + 64 + 4 + 8 + 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := table.FindStruct(tt.name)
			require.True(t, ok)

			size, err := table.StructSize(s)
			require.NoError(t, err)
			assert.Equal(t, tt.size, size)

			align, err := table.StructAlignment(s)
			require.NoError(t, err)
			assert.Equal(t, tt.align, align)
		})
	}

	mesh, _ := table.FindStruct("Mesh")
	assert.Equal(t, 80, table.MemberOffsetByName("Mesh", "int", "totvert"))
	assert.Equal(t, 84, table.MemberOffsetByName("Mesh", "double", "scale"))
	assert.Equal(t, -1, table.MemberOffsetByName("Mesh", "float", "totvert"))

	size, err := table.MemberSize(mesh, 1)
	require.NoError(t, err)
	assert.Equal(t, 64, size)

	// Material is only referenced through a pointer and stays opaque.
	mat, ok := table.FindType("Material")
	require.True(t, ok)
	assert.Equal(t, TypeOpaque, table.TypeAt(mat).Kind)
	assert.False(t, table.StructExists("Material"))
}

func TestBuilderPrimitivesFirst(t *testing.T) {
	table := sceneTable(t, Options{})

	assert.Equal(t, "char", table.TypeAt(0).Name)
	assert.Equal(t, 1, table.PrimitiveSize(0))
	assert.Equal(t, -1, table.PrimitiveSize(table.StructAt(0).Type))
	assert.Equal(t, DefaultPointerSize, table.PointerSize())
}

func TestBuilderFoldsPrimitiveSpellings(t *testing.T) {
	table, err := NewBuilder().Struct("S", "int32_t a", "uint8_t b", "long c").Build(Options{})
	require.NoError(t, err)

	assert.Equal(t, "int", table.MemberTypeName(0, 0))
	assert.Equal(t, "uchar", table.MemberTypeName(0, 1))
	assert.Equal(t, "int", table.MemberTypeName(0, 2))
}

func TestMaxAlignCapsMembers(t *testing.T) {
	table, err := NewBuilder().Struct("S", "char c", "double d").Build(Options{PointerSize: 4, MaxAlign: 4})
	require.NoError(t, err)

	align, err := table.StructAlignment(0)
	require.NoError(t, err)
	assert.Equal(t, 4, align)
}

func TestLayoutErrorsAreLocal(t *testing.T) {
	table, err := NewBuilder().
		Struct("Good", "int a").
		Struct("Opaque", "Handle h").
		Struct("Wrapper", "Opaque inner").
		Struct("Loop", "Loop self").
		Struct("PingA", "PingB b").
		Struct("PingB", "PingA a").
		Struct("Void", "void nothing").
		Build(Options{})
	require.NoError(t, err)

	good, _ := table.FindStruct("Good")
	require.NoError(t, table.LayoutErr(good))

	for name, want := range map[string]error{
		"Opaque":  ErrUnknownTypeIndex,
		"Wrapper": ErrUnknownTypeIndex,
		"Loop":    ErrRecursiveStruct,
		"PingA":   ErrRecursiveStruct,
		"PingB":   ErrRecursiveStruct,
		"Void":    ErrUnknownTypeIndex,
	} {
		s, ok := table.FindStruct(name)
		require.True(t, ok, name)

		_, err := table.StructSize(s)
		require.ErrorIs(t, err, want, name)
	}
}

func TestLayoutSizeLimit(t *testing.T) {
	table, err := NewBuilder().
		Struct("Big", "char a[1073741824]").
		Struct("Huge", "Big a[1073741824]").
		Struct("Holder", "Huge h[16]").
		Struct("Pair", "Big a", "Big b").
		Struct("Slots", "void *p[1073741824]").
		Build(Options{PointerSize: 8})
	require.NoError(t, err)

	big, _ := table.FindStruct("Big")
	size, err := table.StructSize(big)
	require.NoError(t, err)
	assert.Equal(t, 1<<30, size)

	for _, name := range []string{"Huge", "Holder", "Pair", "Slots"} {
		s, ok := table.FindStruct(name)
		require.True(t, ok, name)

		_, err := table.StructSize(s)
		require.ErrorIs(t, err, ErrUnknownTypeIndex, name)
	}
}

func TestBuilderErrors(t *testing.T) {
	_, err := NewBuilder().Struct("A", "int x").Struct("A", "int y").Build(Options{})
	require.ErrorIs(t, err, ErrMalformedSchema)

	_, err = NewBuilder().Struct("int", "char c").Build(Options{})
	require.ErrorIs(t, err, ErrMalformedSchema)

	_, err = NewBuilder().Struct("A", "x").Build(Options{})
	require.ErrorIs(t, err, ErrMalformedSchema)

	_, err = NewBuilder().Struct("A", "int co[0]").Build(Options{})
	require.ErrorIs(t, err, ErrMalformedSchema)

	_, err = NewBuilder().Struct("A", "int x").Build(Options{PointerSize: 2})
	require.ErrorIs(t, err, ErrMalformedSchema)
}

func TestElemSize(t *testing.T) {
	assert.Equal(t, 8, ElemSize(primitive.KindDouble))
	assert.Equal(t, 0, ElemSize(primitive.KindVoid))
}

func TestByteOrderDefaultsToHost(t *testing.T) {
	table := sceneTable(t, Options{})
	assert.NotNil(t, table.ByteOrder())

	table = sceneTable(t, Options{ByteOrder: binary.BigEndian})
	assert.Equal(t, binary.BigEndian, table.ByteOrder())
}
