//go:build linux

package xylonbb

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request encoding, <asm-generic/ioctl.h> _IOW('x', 1, params).
const (
	iocWrite   = 1
	iocMagic   = 'x'
	iocBitblit = 1

	reqBitblit = iocWrite<<30 |
		uint32(unsafe.Sizeof(bitblitParams{}))<<16 |
		iocMagic<<8 |
		iocBitblit
)

func openDevice(path string) (int, error) {
	return unix.Open(path, unix.O_RDWR, 0)
}

func closeDevice(fd int) error {
	return unix.Close(fd)
}

func submitBitblit(fd int, p *bitblitParams) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		uintptr(fd), uintptr(reqBitblit), uintptr(unsafe.Pointer(p)))
	if errno != 0 {
		return errno
	}
	return nil
}
