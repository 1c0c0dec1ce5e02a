package hwcomposer

import (
	"errors"
	"sync"
)

// ErrFallbackToSoftware indicates the block-transfer engine cannot handle
// this request. The blit path transparently falls back to the software
// copy loop.
var ErrFallbackToSoftware = errors.New("hwcomposer: falling back to software blit")

// BlitRequest describes one rectangular block transfer between two
// buffers. Offsets are in bytes from the start of each buffer; strides
// are in pixels; Columns and Rows are the region extent in pixels.
//
// The layout mirrors the engine's fixed control record: destination
// first, then source, then extent.
type BlitRequest struct {
	DstChannel int32
	DstOffset  int64
	DstStride  int32

	SrcChannel int32
	SrcOffset  int64
	SrcStride  int32

	Columns int32
	Rows    int32
}

// BlockTransfer is an optional hardware block-transfer engine.
//
// When registered via RegisterBlockTransfer, each blit issues a single
// synchronous Submit first. If Submit returns nil the blit is complete;
// if it returns ErrFallbackToSoftware or any other error, the blit falls
// back to the software copy loop within the same call. There are no
// partial-completion or retry semantics: a request succeeds or fails as
// a unit.
//
// Implementations are provided by engine packages (e.g. xylonbb).
// Users opt in via blank import:
//
//	import _ "github.com/cambridgehackers/device-xilinx-hwcomposer/xylonbb"
type BlockTransfer interface {
	// Name returns the engine name (e.g. "xylonbb").
	Name() string

	// Submit issues one block-transfer request and blocks until the
	// engine accepts or rejects it.
	Submit(req BlitRequest) error

	// Close releases the engine's resources.
	Close() error
}

var (
	btMu          sync.RWMutex
	blockTransfer BlockTransfer
)

// RegisterBlockTransfer registers a hardware block-transfer engine for
// the blit fast path.
//
// Only one engine can be registered. Subsequent calls replace the
// previous one, closing it. Registering nil removes the current engine,
// leaving only the software path.
//
// Typical usage via init in engine packages:
//
//	func init() {
//	    if e, err := Open(DefaultPath); err == nil {
//	        hwcomposer.RegisterBlockTransfer(e)
//	    }
//	}
func RegisterBlockTransfer(e BlockTransfer) {
	btMu.Lock()
	old := blockTransfer
	blockTransfer = e
	btMu.Unlock()
	if e != nil {
		propagateLogger(e, Logger())
	}
	if old != nil && old != e {
		if err := old.Close(); err != nil {
			Logger().Warn("closing replaced block-transfer engine", "engine", old.Name(), "err", err)
		}
	}
}

// RegisteredBlockTransfer returns the currently registered engine, or
// nil if none.
func RegisteredBlockTransfer() BlockTransfer {
	btMu.RLock()
	e := blockTransfer
	btMu.RUnlock()
	return e
}
