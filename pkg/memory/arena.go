// Package memory provides the per-worker-thread scratch arenas used for
// temporary per-sample allocations during rendering. Each arena is a single
// contiguous block granted once at pool startup; allocation is a bump of an
// offset and never falls back to the heap. Exhausting the block is a fatal
// condition for the render pass, not a retryable one.
package memory

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned when an allocation would exceed the arena's
// preallocated capacity.
var ErrExhausted = errors.New("memory: arena exhausted")

// DefaultArenaSize is the per-thread block size granted when the
// configuration does not override it.
const DefaultArenaSize = 64 << 20 // 64 MiB

const wordSize = 8 // sizeof(float64)

// Arena is a fixed-capacity bump allocator. It is owned exclusively by one
// worker thread and must not be shared. The backing store is a float64 slab:
// all per-sample scratch in the render core is floating-point math, and a
// typed slab keeps allocation free of unsafe reinterpretation.
type Arena struct {
	buf []float64
	off int
}

// NewArena preallocates an arena of the given size in bytes, rounded down to
// a whole number of 8-byte words.
func NewArena(sizeBytes int) *Arena {
	if sizeBytes < wordSize {
		sizeBytes = wordSize
	}
	return &Arena{buf: make([]float64, sizeBytes/wordSize)}
}

// Float64s allocates a slice of n float64 scratch values. The returned slice
// aliases the arena block and is valid until the next Reset.
func (a *Arena) Float64s(n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("memory: negative allocation size %d", n)
	}
	if a.off+n > len(a.buf) {
		return nil, fmt.Errorf("memory: alloc %d words with %d of %d used: %w",
			n, a.off, len(a.buf), ErrExhausted)
	}
	s := a.buf[a.off : a.off+n : a.off+n]
	a.off += n
	// Slab memory is reused across tasks, so clear before handing out.
	for i := range s {
		s[i] = 0
	}
	return s, nil
}

// Used returns the number of bytes currently allocated.
func (a *Arena) Used() int {
	return a.off * wordSize
}

// Cap returns the arena capacity in bytes.
func (a *Arena) Cap() int {
	return len(a.buf) * wordSize
}

// Reset releases all allocations at once. Outstanding slices returned by
// Float64s must not be used after Reset.
func (a *Arena) Reset() {
	a.off = 0
}
