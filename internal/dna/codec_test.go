package dna

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, ps := range []int{4, 8} {
		for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
			t.Run(fmt.Sprintf("%s/%d", order, ps), func(t *testing.T) {
				src := sceneTable(t, Options{PointerSize: ps})

				blob, err := Encode(src, order)
				require.NoError(t, err)

				// Pointer size is left to detection.
				got, err := Decode(blob, Options{ByteOrder: order})
				require.NoError(t, err)

				assert.Equal(t, ps, got.PointerSize())
				assert.Equal(t, src.StructNames(), got.StructNames())
				require.Equal(t, src.NumTypes(), got.NumTypes())

				for s := range src.NumStructs() {
					want, _ := src.StructSize(s)
					size, err := got.StructSize(s)
					require.NoError(t, err)
					assert.Equal(t, want, size, src.StructName(s))

					for m := range src.MemberCount(s) {
						assert.Equal(t, src.MemberAt(s, m).Name.Raw, got.MemberAt(s, m).Name.Raw)
						assert.Equal(t, src.MemberTypeName(s, m), got.MemberTypeName(s, m))
					}
				}
			})
		}
	}
}

func TestEncodeWritesByteOrder(t *testing.T) {
	src, err := NewBuilder().Struct("P", "int x", "short y").Build(Options{})
	require.NoError(t, err)

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			blob, err := Encode(src, order)
			require.NoError(t, err)

			require.Equal(t, "SDNANAME", string(blob[:8]))
			assert.Equal(t, uint32(2), order.Uint32(blob[8:12]))

			// The last struct entry is the (type, name) pair of y.
			y, _ := src.FindType("short")
			assert.Equal(t, uint16(y), order.Uint16(blob[len(blob)-4:]))
			assert.Equal(t, uint16(1), order.Uint16(blob[len(blob)-2:]))
		})
	}
}

func TestDecodeExplicitPointerSizeMismatch(t *testing.T) {
	src := sceneTable(t, Options{PointerSize: 4})

	blob, err := Encode(src, binary.LittleEndian)
	require.NoError(t, err)

	_, err = Decode(blob, Options{PointerSize: 8, ByteOrder: binary.LittleEndian})
	require.ErrorIs(t, err, ErrMalformedSchema)

	got, err := Decode(blob, Options{PointerSize: 4, ByteOrder: binary.LittleEndian})
	require.NoError(t, err)
	assert.Equal(t, 4, got.PointerSize())
}

// rawBlob hand-assembles a blob so tests can describe inconsistent tables.
type rawBlob struct {
	names   []string
	types   []string
	sizes   []int
	structs [][]int // type, then (type, name) pairs
	skip    string  // marker to omit
}

func (r rawBlob) bytes() []byte {
	w := &blobWriter{order: binary.LittleEndian}
	w.marker(markerSDNA)

	if r.skip != markerName {
		w.marker(markerName)
	}

	w.cstrings(r.names)
	w.marker(markerType)
	w.cstrings(r.types)
	w.marker(markerTLen)

	for _, s := range r.sizes {
		w.u16(s)
	}

	w.align()

	if r.skip != markerStrc {
		w.marker(markerStrc)
	}

	w.i32(len(r.structs))

	for _, s := range r.structs {
		w.u16(s[0])
		w.u16((len(s) - 1) / 2)

		for _, v := range s[1:] {
			w.u16(v)
		}
	}

	return w.b
}

func validBlob() rawBlob {
	return rawBlob{
		names:   []string{"x", "y"},
		types:   []string{"char", "int", "Point"},
		sizes:   []int{1, 4, 8},
		structs: [][]int{{2, 1, 0, 1, 1}},
	}
}

func TestDecodeHandBuilt(t *testing.T) {
	table, err := Decode(validBlob().bytes(), Options{ByteOrder: binary.LittleEndian})
	require.NoError(t, err)

	s, ok := table.FindStruct("Point")
	require.True(t, ok)

	size, err := table.StructSize(s)
	require.NoError(t, err)
	assert.Equal(t, 8, size)
	assert.Equal(t, 4, table.MemberOffsetByName("Point", "int", "y"))
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*rawBlob)
		blob   []byte
	}{
		{name: "missing NAME", mutate: func(r *rawBlob) { r.skip = markerName }},
		{name: "missing STRC", mutate: func(r *rawBlob) { r.skip = markerStrc }},
		{name: "member type out of range", mutate: func(r *rawBlob) { r.structs[0][1] = 9 }},
		{name: "member name out of range", mutate: func(r *rawBlob) { r.structs[0][2] = 9 }},
		{name: "struct type out of range", mutate: func(r *rawBlob) { r.structs[0][0] = 7 }},
		{name: "struct redefines primitive", mutate: func(r *rawBlob) { r.structs[0][0] = 1 }},
		{name: "struct defined twice", mutate: func(r *rawBlob) { r.structs = append(r.structs, r.structs[0]) }},
		{name: "primitive size contradicts kind", mutate: func(r *rawBlob) { r.sizes[1] = 2 }},
		{name: "declared size mismatch", mutate: func(r *rawBlob) { r.sizes[2] = 12 }},
		{name: "bad member name", mutate: func(r *rawBlob) { r.names[0] = "x[" }},
		{name: "empty", blob: []byte{}},
		{name: "wrong magic", blob: []byte("ABCDNAME")},
		{name: "huge count", blob: []byte("SDNANAME\xff\xff\xff\x7f")},
		{name: "negative count", blob: []byte("SDNANAME\xff\xff\xff\xff")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := tt.blob
			if tt.mutate != nil {
				r := validBlob()
				tt.mutate(&r)
				blob = r.bytes()
			}

			_, err := Decode(blob, Options{ByteOrder: binary.LittleEndian})
			require.ErrorIs(t, err, ErrMalformedSchema)
		})
	}
}

func TestDecodeTruncatedAtEveryOffset(t *testing.T) {
	blob := validBlob().bytes()

	for n := range len(blob) {
		_, err := Decode(blob[:n], Options{ByteOrder: binary.LittleEndian})
		require.ErrorIs(t, err, ErrMalformedSchema, "prefix of %d bytes", n)
	}
}
