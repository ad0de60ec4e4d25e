package dna

import (
	"fmt"
	"strconv"
	"strings"

	"dnarecon/internal/common"
)

const maxElems = 1 << 30

// Name is a parsed member name such as "*next", "mat[4][4]" or "(*func)()".
type Name struct {
	// Raw is the name exactly as stored in the table.
	Raw string
	// Base is the bare identifier, e.g. "mat" for "mat[4][4]".
	Base string
	// Pointer is true for data and function pointers.
	Pointer bool
	// Func is true for function pointers.
	Func bool
	// Dims holds the array dimensions in declaration order.
	Dims []int

	elems int
}

// Elems returns the number of array elements (1 for scalars).
func (n Name) Elems() int {
	if n.elems == 0 {
		return 1
	}

	return n.elems
}

// SameShape reports whether both names declare the same identifier,
// pointer-ness and array dimensions.
func (n Name) SameShape(o Name) bool {
	if n.Base != o.Base || n.Pointer != o.Pointer || n.Func != o.Func || len(n.Dims) != len(o.Dims) {
		return false
	}

	for i := range n.Dims {
		if n.Dims[i] != o.Dims[i] {
			return false
		}
	}

	return true
}

// WithBase returns the raw name with its identifier replaced, keeping the
// pointer and array decoration.
func (n Name) WithBase(base string) string {
	i := strings.Index(n.Raw, n.Base)
	if i < 0 {
		return base
	}

	return n.Raw[:i] + base + n.Raw[i+len(n.Base):]
}

// ParseName parses a decorated member name.
// Supports: "x", "*next", "**argv", "co[3]", "mat[4][4]", "*ptrs[2]", "(*func)()".
func ParseName(raw string) (Name, error) {
	n := Name{Raw: raw}
	if raw == "" {
		return n, fmt.Errorf("%w: empty member name", ErrMalformedSchema)
	}

	i := 0
	if raw[0] == '(' {
		n.Func = true
		n.Pointer = true
		i++
	}

	for i < len(raw) && raw[i] == '*' {
		n.Pointer = true
		i++
	}

	start := i
	for i < len(raw) && isIdentChar(raw[i]) {
		i++
	}

	n.Base = raw[start:i]
	if n.Base == "" || isDigit(n.Base[0]) {
		return n, fmt.Errorf("%w: invalid member name %q", ErrMalformedSchema, raw)
	}

	rest := raw[i:]
	if n.Func {
		end := strings.IndexByte(rest, ')')
		if end < 0 || !strings.HasPrefix(rest[end+1:], "(") || !strings.HasSuffix(rest, ")") {
			return n, fmt.Errorf("%w: invalid function pointer %q", ErrMalformedSchema, raw)
		}

		rest = rest[:end]
	}

	for rest != "" {
		if rest[0] != '[' {
			return n, fmt.Errorf("%w: unexpected %q in member name %q", ErrMalformedSchema, rest, raw)
		}

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return n, fmt.Errorf("%w: unterminated array in member name %q", ErrMalformedSchema, raw)
		}

		dim, err := strconv.Atoi(rest[1:end])
		if err != nil || dim <= 0 {
			return n, fmt.Errorf("%w: invalid array dimension in member name %q", ErrMalformedSchema, raw)
		}

		n.Dims = append(n.Dims, dim)
		rest = rest[end+1:]
	}

	if len(n.Dims) > 0 {
		elems, ok := common.Product(n.Dims, maxElems)
		if !ok {
			return n, fmt.Errorf("%w: array too large in member name %q", ErrMalformedSchema, raw)
		}

		n.elems = elems
	}

	return n, nil
}

func isIdentChar(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
