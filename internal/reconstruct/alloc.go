package reconstruct

// Allocator hands out buffers for reconstructed arrays. The returned slice
// must have exactly size bytes and becomes owned by the caller of
// Reconstruct; the session keeps no reference to it.
type Allocator interface {
	Alloc(size int, name string) ([]byte, error)
}

// AllocatorFunc adapts a function to Allocator.
type AllocatorFunc func(size int, name string) ([]byte, error)

// Alloc calls f.
func (f AllocatorFunc) Alloc(size int, name string) ([]byte, error) { return f(size, name) }

// HeapAllocator allocates from the Go heap.
type HeapAllocator struct{}

// Alloc returns a new zeroed slice.
func (HeapAllocator) Alloc(size int, _ string) ([]byte, error) { return make([]byte, size), nil }
