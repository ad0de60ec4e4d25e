package primitive

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind identifies a primitive (non-struct) DNA type.
type Kind int

const (
	_ Kind = iota // zero value is the invalid kind

	KindChar
	KindUChar
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindFloat
	KindDouble
	KindVoid
	KindInt64
	KindUInt64
	KindInt8
	KindRawData

	// KindTotal is the number of kinds including the invalid zero value.
	KindTotal = int(iota)
)

// Canonical lists the primitive type names in the order they occupy the
// head of every type table built in-process. Index 0 is the smallest
// primitive.
var Canonical = []string{
	"char", "uchar", "short", "ushort", "int", "uint", "float", "double",
	"void", "int64_t", "uint64_t", "int8_t", "raw_data",
}

func (k Kind) Valid() bool {
	return k > 0 && int(k) < KindTotal
}

func (k Kind) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k Kind) IsInteger() bool {
	switch k {
	default:
		return false
	case KindChar, KindUChar, KindShort, KindUShort, KindInt, KindUInt,
		KindInt64, KindUInt64, KindInt8:
		return true
	}
}

func (k Kind) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat, KindDouble:
		return true
	}
}

// IsSigned reports whether an integer kind is sign-extended when widened.
// char is treated as signed.
func (k Kind) IsSigned() bool {
	switch k {
	default:
		return false
	case KindChar, KindShort, KindInt, KindInt64, KindInt8:
		return true
	}
}

// Size returns the storage size of one element in bytes. void has no storage.
func (k Kind) Size() int {
	switch k {
	case KindChar, KindUChar, KindInt8, KindRawData:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindUInt, KindFloat:
		return 4
	case KindDouble, KindInt64, KindUInt64:
		return 8
	default:
		return 0
	}
}

func (k Kind) Bits() int {
	switch k {
	default:
		panic("only number kinds have a meaningful bit width, but requested for: " + k.String())
	case KindChar, KindUChar, KindInt8:
		return 8
	case KindShort, KindUShort:
		return 16
	case KindInt, KindUInt, KindFloat:
		return 32
	case KindInt64, KindUInt64, KindDouble:
		return 64
	}
}

// CName returns the canonical DNA type name of the kind.
func (k Kind) CName() string {
	if !k.Valid() {
		return ""
	}

	return Canonical[k-1]
}

// Lookup resolves a DNA type name to a primitive kind. The declared size
// decides between the 32 and 64 bit meaning of long and ulong; a size of
// zero accepts the default width. ok is false for names that are not
// primitives; sizeOK is false when the name is a primitive but the
// declared size contradicts it.
func Lookup(name string, size int) (kind Kind, ok, sizeOK bool) {
	switch name {
	case "char":
		kind = KindChar
	case "uchar", "uint8_t":
		kind = KindUChar
	case "short", "int16_t":
		kind = KindShort
	case "ushort", "uint16_t":
		kind = KindUShort
	case "int", "int32_t":
		kind = KindInt
	case "uint", "uint32_t":
		kind = KindUInt
	case "long":
		kind = KindInt
		if size == 8 {
			kind = KindInt64
		}
	case "ulong":
		kind = KindUInt
		if size == 8 {
			kind = KindUInt64
		}
	case "float":
		kind = KindFloat
	case "double":
		kind = KindDouble
	case "void":
		kind = KindVoid
	case "int64_t":
		kind = KindInt64
	case "uint64_t":
		kind = KindUInt64
	case "int8_t":
		kind = KindInt8
	case "raw_data":
		kind = KindRawData
	default:
		return 0, false, false
	}

	return kind, true, size == 0 || size == kind.Size()
}
