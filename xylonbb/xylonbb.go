// Package xylonbb provides the hardware block-transfer engine for the
// Xylon logiBITBLT device node. Importing it registers the engine with
// the composition backend when the device node can be opened; an absent
// node is non-fatal and only disables the blit fast path.
//
//	import _ "github.com/cambridgehackers/device-xilinx-hwcomposer/xylonbb"
//
// The engine submits one fixed-layout control record per blit through a
// single synchronous ioctl. Requests succeed or fail as a unit; there
// are no partial-completion or retry semantics.
package xylonbb

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	hwc "github.com/cambridgehackers/device-xilinx-hwcomposer"
)

// DefaultPath is the well-known device node for the block-transfer
// engine.
const DefaultPath = "/dev/xylonbb"

// ErrNoChannel indicates a blit request whose source or destination
// buffer carries no hardware transfer channel. Such requests cannot be
// expressed to the engine; the caller should use the software path.
var ErrNoChannel = errors.New("xylonbb: buffer has no transfer channel")

// Engine drives the logiBITBLT device. It implements
// hwcomposer.BlockTransfer. The zero value is not usable; call Open.
type Engine struct {
	mu     sync.Mutex
	fd     int
	path   string
	closed bool
	logger *slog.Logger
}

// Open opens the block-transfer device at path (DefaultPath for the
// stock node). The returned engine holds the descriptor until Close.
func Open(path string) (*Engine, error) {
	fd, err := openDevice(path)
	if err != nil {
		return nil, fmt.Errorf("xylonbb: open %s: %w", path, err)
	}
	return &Engine{fd: fd, path: path, logger: hwc.Logger()}, nil
}

func init() {
	e, err := Open(DefaultPath)
	if err != nil {
		hwc.Logger().Warn("block-transfer engine unavailable", "err", err)
		return
	}
	hwc.RegisterBlockTransfer(e)
}

// Name returns the engine identifier.
func (e *Engine) Name() string { return "xylonbb" }

// SetLogger replaces the engine's diagnostics logger. The composition
// backend calls this when its own logger changes.
func (e *Engine) SetLogger(l *slog.Logger) {
	e.mu.Lock()
	e.logger = l
	e.mu.Unlock()
}

// Submit issues one block-transfer request and blocks until the device
// accepts or rejects it. Buffers without a transfer channel make the
// request inexpressible; Submit then reports
// hwcomposer.ErrFallbackToSoftware so the caller runs the software
// loop.
func (e *Engine) Submit(req hwc.BlitRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("xylonbb: engine closed: %w", hwc.ErrFallbackToSoftware)
	}
	if req.DstChannel < 0 || req.SrcChannel < 0 {
		return fmt.Errorf("%w: %w", ErrNoChannel, hwc.ErrFallbackToSoftware)
	}

	p := bitblitParams{
		DstDmaBuf: req.DstChannel,
		DstOffset: uint32(req.DstOffset),
		DstStride: uint32(req.DstStride),
		SrcDmaBuf: req.SrcChannel,
		SrcOffset: uint32(req.SrcOffset),
		SrcStride: uint32(req.SrcStride),
		Columns:   uint32(req.Columns),
		Rows:      uint32(req.Rows),
	}
	e.logger.Debug("bitblit",
		"dst", p.DstDmaBuf, "dstOffset", p.DstOffset, "dstStride", p.DstStride,
		"src", p.SrcDmaBuf, "srcOffset", p.SrcOffset, "srcStride", p.SrcStride,
		"columns", p.Columns, "rows", p.Rows)

	if err := submitBitblit(e.fd, &p); err != nil {
		return fmt.Errorf("xylonbb: bitblit: %w", err)
	}
	return nil
}

// Close releases the device descriptor. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return closeDevice(e.fd)
}

// bitblitParams is the fixed-layout control record the device consumes,
// eight 32-bit words: destination, source, extent. Offsets are bytes,
// strides are pixels.
type bitblitParams struct {
	DstDmaBuf int32
	DstOffset uint32
	DstStride uint32
	SrcDmaBuf int32
	SrcOffset uint32
	SrcStride uint32
	Columns   uint32
	Rows      uint32
}
