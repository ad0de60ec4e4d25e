package primitive_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"dnarecon/primitive"
)

func Example() {
	for _, name := range []string{"char", "long", "uint64_t", "ListBase"} {
		kind, ok, _ := primitive.Lookup(name, 0)
		fmt.Println(name, kind, ok)
	}
	// Output:
	// char KindChar true
	// long KindInt true
	// uint64_t KindUInt64 true
	// ListBase Kind(0) false
}

func TestLookupLongWidth(t *testing.T) {
	kind, ok, sizeOK := primitive.Lookup("long", 8)
	assert.True(t, ok)
	assert.True(t, sizeOK)
	assert.Equal(t, primitive.KindInt64, kind)

	kind, ok, sizeOK = primitive.Lookup("ulong", 4)
	assert.True(t, ok)
	assert.True(t, sizeOK)
	assert.Equal(t, primitive.KindUInt, kind)

	_, ok, sizeOK = primitive.Lookup("short", 4)
	assert.True(t, ok)
	assert.False(t, sizeOK)
}

func TestCanonicalOrder(t *testing.T) {
	assert.Len(t, primitive.Canonical, primitive.KindTotal-1)

	for i, name := range primitive.Canonical {
		kind, ok, sizeOK := primitive.Lookup(name, 0)
		assert.True(t, ok, name)
		assert.True(t, sizeOK, name)
		assert.Equal(t, primitive.Kind(i+1), kind, name)
		assert.Equal(t, name, kind.CName())
	}

	assert.Equal(t, 1, primitive.KindChar.Size(), "index 0 must be the smallest primitive")
}

func TestBitsPanicsForNonNumbers(t *testing.T) {
	assert.Panics(t, func() { _ = primitive.KindVoid.Bits() })
	assert.Equal(t, 16, primitive.KindUShort.Bits())
}
