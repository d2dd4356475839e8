package shm

import (
	"fmt"
	"sync"
)

// Buffer is a fixed-capacity byte region standing in for a hardware
// dataport. Every access goes through the guard; bytes past the length a
// caller was handed are stale and must not be read.
type Buffer struct {
	mu   sync.Mutex
	data []byte
}

// NewBuffer allocates a region of the given capacity. The capacity never
// changes afterwards.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		panic(fmt.Sprintf("shm: invalid buffer size %d", size))
	}

	return &Buffer{data: make([]byte, size)}
}

// Size returns the fixed capacity of the region.
func (b *Buffer) Size() int {
	return len(b.data)
}

// With runs fn with the guard held. fn must not block on the device and must
// not touch the same buffer again; the guard is not reentrant.
func (b *Buffer) With(fn func(data []byte)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fn(b.data)
}

// Insert copies p into the region starting at offset zero and returns the
// number of bytes copied. Inserting more than the capacity is a programming
// error and panics rather than truncating silently.
func (b *Buffer) Insert(p []byte) int {
	if len(p) > len(b.data) {
		panic(fmt.Sprintf("shm: insert of %d bytes into %d byte buffer", len(p), len(b.data)))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	copy(b.data, p)
	return len(p)
}

// Fetch copies out the first n bytes of the region.
func (b *Buffer) Fetch(n int) []byte {
	if n < 0 || n > len(b.data) {
		panic(fmt.Sprintf("shm: fetch of %d bytes from %d byte buffer", n, len(b.data)))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, n)
	copy(out, b.data[:n])
	return out
}
