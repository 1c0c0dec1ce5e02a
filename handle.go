package hwcomposer

import "fmt"

// PixelBytes is the fixed pixel width this backend composites. Buffers
// are assumed to hold 32-bit pixels; multi-format layouts are out of
// scope.
const PixelBytes = 4

// handleMagic marks a structurally intact BufferHandle, mirroring the
// magic word the buffer allocator stamps into its private handles.
const handleMagic uint32 = 0x68776362 // "hwcb"

// BufferHandle describes a graphics buffer owned by the buffer-allocation
// subsystem. The composition core holds a transient, non-owning reference
// for the duration of one cycle and never mutates it.
//
// Size is the authoritative byte capacity: every address computed from
// layer geometry is checked against it before any load or store through
// Base.
type BufferHandle struct {
	// Magic must equal the allocator's magic word; Validate aborts the
	// process on mismatch, matching the allocator contract that a
	// corrupted handle is not a recoverable condition.
	Magic uint32

	// Base is the mapped pixel data, one word per pixel. Nil when the
	// buffer is not mapped into this process.
	Base []uint32

	// Stride is the buffer row length in pixels, >= 1.
	Stride int

	// Size is the total byte capacity of the buffer.
	Size int

	// Channel identifies the buffer to the hardware block-transfer
	// engine (a dma-buf descriptor on Linux). Only meaningful while an
	// engine is registered.
	Channel int32
}

// NewBufferHandle allocates a process-local buffer handle, primarily for
// tests and the demo binary. Real handles come from the allocator.
func NewBufferHandle(stride, rows int) *BufferHandle {
	return &BufferHandle{
		Magic:   handleMagic,
		Base:    make([]uint32, stride*rows),
		Stride:  stride,
		Size:    stride * rows * PixelBytes,
		Channel: -1,
	}
}

// HandleValidator checks a buffer handle for structural corruption.
// It either accepts the handle or terminates abnormally; the composition
// core treats corruption as unrecoverable and never continues past it.
type HandleValidator func(*BufferHandle)

// validateHandle is the default HandleValidator.
func validateHandle(h *BufferHandle) {
	if h.Magic != handleMagic {
		panic(fmt.Sprintf("hwcomposer: corrupt buffer handle: magic %#x, want %#x", h.Magic, handleMagic))
	}
	if h.Stride < 1 {
		panic(fmt.Sprintf("hwcomposer: corrupt buffer handle: stride %d", h.Stride))
	}
}
