package dna

import (
	"encoding/binary"
	"fmt"
	"math"
)

type blobWriter struct {
	b       []byte
	order   binary.ByteOrder
	scratch [4]byte
}

func (w *blobWriter) marker(m string) { w.b = append(w.b, m...) }

func (w *blobWriter) i32(v int) {
	w.order.PutUint32(w.scratch[:4], uint32(int32(v)))
	w.b = append(w.b, w.scratch[:4]...)
}

func (w *blobWriter) u16(v int) {
	w.order.PutUint16(w.scratch[:2], uint16(v))
	w.b = append(w.b, w.scratch[:2]...)
}

func (w *blobWriter) cstrings(ss []string) {
	w.i32(len(ss))

	for _, s := range ss {
		w.b = append(w.b, s...)
		w.b = append(w.b, 0)
	}

	w.align()
}

func (w *blobWriter) align() {
	for len(w.b)%4 != 0 {
		w.b = append(w.b, 0)
	}
}

// Encode writes t in the format read by Decode. Struct sizes are written
// as computed; a struct that cannot be laid out is written with its
// declared size.
func Encode(t *Table, order binary.ByteOrder) ([]byte, error) {
	if order == nil {
		order = t.order
	}

	if len(t.types) > math.MaxUint16 {
		return nil, fmt.Errorf("too many types to encode: %d", len(t.types))
	}

	var names []string

	nameIndex := make(map[string]int)

	for _, s := range t.structs {
		for _, m := range s.Members {
			if _, ok := nameIndex[m.Name.Raw]; !ok {
				nameIndex[m.Name.Raw] = len(names)
				names = append(names, m.Name.Raw)
			}
		}
	}

	if len(names) > math.MaxUint16 {
		return nil, fmt.Errorf("too many member names to encode: %d", len(names))
	}

	w := &blobWriter{order: order}
	w.marker(markerSDNA)
	w.marker(markerName)
	w.cstrings(names)

	typeNames := make([]string, len(t.types))
	for i, typ := range t.types {
		typeNames[i] = typ.Name
	}

	w.marker(markerType)
	w.cstrings(typeNames)

	w.marker(markerTLen)

	for i, typ := range t.types {
		size := typ.Size
		if typ.Kind == TypeStruct && t.layouts[typ.Struct].err == nil {
			size = t.layouts[typ.Struct].size
		}

		if size > math.MaxUint16 {
			return nil, fmt.Errorf("type %d (%q) is too large to encode: %d bytes", i, typ.Name, size)
		}

		w.u16(size)
	}

	w.align()

	w.marker(markerStrc)
	w.i32(len(t.structs))

	for _, s := range t.structs {
		if len(s.Members) > math.MaxUint16 {
			return nil, fmt.Errorf("struct %q has too many members to encode", t.types[s.Type].Name)
		}

		w.u16(s.Type)
		w.u16(len(s.Members))

		for _, m := range s.Members {
			w.u16(m.Type)
			w.u16(nameIndex[m.Name.Raw])
		}
	}

	return w.b, nil
}
