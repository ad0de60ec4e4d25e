package primitive

import (
	"encoding/binary"
	"math"
)

// Convert writes the value held in src (one element of kind from) into dst
// as one element of kind to. len(src) must be at least from.Size() and
// len(dst) at least to.Size(); non-numeric kinds use the full slices.
//
// Rules:
//   - integer to integer: sign- or zero-extend to 64 bits, keep the low bytes.
//   - integer to float and float to float: Go numeric conversion.
//   - float to integer: truncate toward zero, saturate at the target range, NaN is 0.
//   - any pairing involving a non-number: copy the common prefix, zero the rest.
func Convert(dst []byte, to Kind, src []byte, from Kind, order binary.ByteOrder) {
	if !from.IsNumber() || !to.IsNumber() {
		n := copy(dst, src)
		clear(dst[n:])

		return
	}

	switch {
	case from.IsInteger() && to.IsInteger():
		putUint(dst, to, readInt(src, from, order), order)
	case from.IsInteger():
		v := readInt(src, from, order)
		if from.IsSigned() {
			putFloat(dst, to, float64(int64(v)), order)
		} else {
			putFloat(dst, to, float64(v), order)
		}
	case to.IsInteger():
		putUint(dst, to, saturate(readFloat(src, from, order), to), order)
	default:
		putFloat(dst, to, readFloat(src, from, order), order)
	}
}

// readInt returns the 64-bit two's complement pattern of the integer in b.
func readInt(b []byte, k Kind, order binary.ByteOrder) uint64 {
	switch k.Size() {
	case 1:
		if k.IsSigned() {
			return uint64(int64(int8(b[0])))
		}

		return uint64(b[0])
	case 2:
		v := order.Uint16(b)
		if k.IsSigned() {
			return uint64(int64(int16(v)))
		}

		return uint64(v)
	case 4:
		v := order.Uint32(b)
		if k.IsSigned() {
			return uint64(int64(int32(v)))
		}

		return uint64(v)
	default:
		return order.Uint64(b)
	}
}

func putUint(b []byte, k Kind, v uint64, order binary.ByteOrder) {
	switch k.Size() {
	case 1:
		b[0] = byte(v)
	case 2:
		order.PutUint16(b, uint16(v))
	case 4:
		order.PutUint32(b, uint32(v))
	default:
		order.PutUint64(b, v)
	}
}

func readFloat(b []byte, k Kind, order binary.ByteOrder) float64 {
	if k == KindFloat {
		return float64(math.Float32frombits(order.Uint32(b)))
	}

	return math.Float64frombits(order.Uint64(b))
}

func putFloat(b []byte, k Kind, f float64, order binary.ByteOrder) {
	if k == KindFloat {
		order.PutUint32(b, math.Float32bits(float32(f)))
		return
	}

	order.PutUint64(b, math.Float64bits(f))
}

// saturate converts f to the bit pattern of the nearest value representable
// by the integer kind k after truncation toward zero.
func saturate(f float64, k Kind) uint64 {
	if math.IsNaN(f) {
		return 0
	}

	f = math.Trunc(f)
	bits := k.Bits()

	if k.IsSigned() {
		limit := math.Ldexp(1, bits-1)

		switch {
		case f <= -limit:
			return uint64(int64(-1) << (bits - 1))
		case f >= limit:
			return uint64(1)<<(bits-1) - 1
		default:
			return uint64(int64(f))
		}
	}

	if f <= 0 {
		return 0
	}

	if f >= math.Ldexp(1, bits) {
		if bits == 64 {
			return math.MaxUint64
		}

		return uint64(1)<<bits - 1
	}

	return uint64(f)
}
