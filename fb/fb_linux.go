//go:build linux

package fb

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"golang.org/x/sys/unix"

	hwc "github.com/cambridgehackers/device-xilinx-hwcomposer"
)

// <linux/fb.h> ioctls, 0x46 is 'F'.
const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioPanDisplay     = 0x4606
)

// bitField is <linux/fb.h> struct fb_bitfield.
type bitField struct {
	Offset, Length, MSBRight uint32
}

// varScreenInfo is <linux/fb.h> struct fb_var_screeninfo.
type varScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp bitField
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	Pixclock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HsyncLen, VsyncLen       uint32
	Sync, VMode              uint32
	Rotate, Colorspace       uint32
	Reserved                 [4]uint32
}

// DeviceSurface is a composition surface backed by a Linux framebuffer
// device. The mapped framebuffer is exposed as a BufferHandle so the
// composition backend can blit straight into display memory; Present
// pans the display to the surface's buffer.
type DeviceSurface struct {
	fd     int
	info   varScreenInfo
	pixels []byte
	handle *hwc.BufferHandle
}

// OpenDevice opens and maps a framebuffer device node such as
// "/dev/fb0". Only 32 bits-per-pixel modes are supported.
func OpenDevice(path string) (*DeviceSurface, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("fb: open %s: %w", path, err)
	}

	s := &DeviceSurface{fd: fd}
	if err := s.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&s.info)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fb: get screen info: %w", err)
	}
	if s.info.BitsPerPixel != 8*hwc.PixelBytes {
		unix.Close(fd)
		return nil, fmt.Errorf("fb: %s: unsupported depth %d bpp", path, s.info.BitsPerPixel)
	}

	size := int(s.info.XResVirtual * s.info.YResVirtual * s.info.BitsPerPixel / 8)
	s.pixels, err = unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fb: mmap %s: %w", path, err)
	}

	s.handle = hwc.NewBufferHandle(int(s.info.XResVirtual), 0)
	s.handle.Base = unsafe.Slice((*uint32)(unsafe.Pointer(&s.pixels[0])), size/hwc.PixelBytes)
	s.handle.Size = size
	return s, nil
}

// Width returns the visible horizontal resolution.
func (s *DeviceSurface) Width() int { return int(s.info.XRes) }

// Height returns the visible vertical resolution.
func (s *DeviceSurface) Height() int { return int(s.info.YRes) }

// Format returns the surface pixel format.
func (s *DeviceSurface) Format() gputypes.TextureFormat { return Format }

// Handle returns the buffer handle over the mapped framebuffer, to be
// used as the base layer's handle in a layer list.
func (s *DeviceSurface) Handle() *hwc.BufferHandle { return s.handle }

// Present pans the display to the surface's buffer offset, making the
// composited frame visible.
func (s *DeviceSurface) Present(d hwc.Display) error {
	info := s.info
	if err := s.ioctl(fbioPanDisplay, unsafe.Pointer(&info)); err != nil {
		return fmt.Errorf("fb: pan display: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the visible framebuffer as an RGBA image.
func (s *DeviceSurface) Snapshot() *image.RGBA {
	return snapshot(s.handle, s.Width(), s.Height())
}

// Close unmaps the framebuffer and closes the device. The surface must
// not be used afterwards.
func (s *DeviceSurface) Close() error {
	if s.pixels != nil {
		if err := unix.Munmap(s.pixels); err != nil {
			return err
		}
		s.pixels = nil
		s.handle = nil
	}
	if s.fd >= 0 {
		fd := s.fd
		s.fd = -1
		return unix.Close(fd)
	}
	return nil
}

func (s *DeviceSurface) ioctl(req uint32, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		uintptr(s.fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
