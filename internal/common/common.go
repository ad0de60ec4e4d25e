package common

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// HostByteOrder returns the byte order of the running machine.
func HostByteOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// ParseByteOrder maps "little", "big" or "host" (or "") to a byte order.
func ParseByteOrder(s string) (binary.ByteOrder, bool) {
	switch s {
	case "", "host", "native":
		return HostByteOrder(), true
	case "little", "le":
		return binary.LittleEndian, true
	case "big", "be":
		return binary.BigEndian, true
	default:
		return nil, false
	}
}
