package scene

import "unsafe"

type Link struct {
	Next, Prev *Link
}

type Vert struct {
	Co   [3]float32
	Flag int16
	Pad  [2]int8
}

type Material struct {
	Name [64]byte
}

type Mode int16

type Mesh struct {
	ID      Link
	Verts   [4]Vert
	TotVert int32 `dna:"totvert"`
	Scale   float64
	Mats    **Material
	Cb      func()
	Data    unsafe.Pointer
	Hidden  bool `dna:"-"`
	Flag    uint8
	Mode    Mode
}

type Handle struct {
	Names []string
}

type UsesHandle struct {
	H     Handle
	Count int32
}

type PointsAtHandle struct {
	H *Handle
}

type Pair[T any] struct {
	A, B T
}

type unexported struct {
	X int32
}
