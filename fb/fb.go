// Package fb provides presentable composition surfaces for the
// hwcomposer backend: a Linux framebuffer device surface and an
// in-memory surface for tests and offline composition.
//
// Pixels are 32-bit words packed 0xAARRGGBB, the framebuffer XRGB8888
// layout; in gogpu terms the surface format is BGRA8Unorm.
package fb

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	hwc "github.com/cambridgehackers/device-xilinx-hwcomposer"
)

// Format is the pixel format every surface in this package exposes.
// Hosts interoperating with the gogpu stack can feed it straight into a
// texture descriptor.
const Format = gputypes.TextureFormatBGRA8Unorm

// MemSurface is an in-memory composition surface. Present is a no-op
// that counts frames, which makes MemSurface suitable for tests and for
// offline composition (see cmd/hwcdemo).
type MemSurface struct {
	width, height int
	handle        *hwc.BufferHandle
	presented     int
}

// NewMemSurface allocates an in-memory surface of the given size.
func NewMemSurface(width, height int) *MemSurface {
	return &MemSurface{
		width:  width,
		height: height,
		handle: hwc.NewBufferHandle(width, height),
	}
}

// Width returns the surface width in pixels.
func (s *MemSurface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *MemSurface) Height() int { return s.height }

// Format returns the surface pixel format.
func (s *MemSurface) Format() gputypes.TextureFormat { return Format }

// Handle returns the buffer handle backing the surface, to be used as
// the base layer's handle in a layer list.
func (s *MemSurface) Handle() *hwc.BufferHandle { return s.handle }

// Present counts the frame and returns nil.
func (s *MemSurface) Present(d hwc.Display) error {
	s.presented++
	hwc.Logger().Debug("present", "surface", "mem", "frame", s.presented)
	return nil
}

// Presented returns how many frames have been presented.
func (s *MemSurface) Presented() int { return s.presented }

// Snapshot returns a copy of the surface contents as an RGBA image.
func (s *MemSurface) Snapshot() *image.RGBA {
	return snapshot(s.handle, s.width, s.height)
}

// snapshot unpacks 0xAARRGGBB words into an image.RGBA.
func snapshot(h *hwc.BufferHandle, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			w := h.Base[y*h.Stride+x]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(w >> 16),
				G: uint8(w >> 8),
				B: uint8(w),
				A: uint8(w >> 24),
			})
		}
	}
	return img
}
