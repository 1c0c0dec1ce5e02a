// Package hwcomposer implements a display-composition backend: it sits
// between a window-system compositor client and a framebuffer/display
// pipeline, deciding which visual layers this backend composites itself
// and copying their pixels into the base surface buffer.
//
// # Overview
//
// A composition cycle is a two-phase protocol over a caller-owned layer
// list. Prepare classifies each layer in place (the base layer at index 0
// keeps its classification; every layer above it is claimed as an
// overlay) and flags layers whose source and destination rectangles
// differ in size. Commit then block-transfers every non-base layer into
// the base layer's buffer and presents the result.
//
// Callers must not reorder or mutate layers between Prepare and Commit;
// the mutated composition types on the list are the only channel between
// the two phases.
//
// # Quick Start
//
//	import (
//	    hwc "github.com/cambridgehackers/device-xilinx-hwcomposer"
//	    _ "github.com/cambridgehackers/device-xilinx-hwcomposer/xylonbb"
//	)
//
//	dev, err := hwc.Open(hwc.DeviceID)
//	if err != nil {
//	    // unrecognized device name
//	}
//	defer dev.Close()
//
//	dev.Prepare(list)
//	if err := dev.Commit(list, display, surface); err != nil {
//	    // present failed; blit-level faults never surface here
//	}
//
// # Block transfer
//
// Each blit first tries a hardware block-transfer engine when one is
// registered (see RegisterBlockTransfer and the xylonbb subpackage).
// A failed or absent engine transparently falls back to a bounds-checked
// software copy loop. No address computed from layer geometry is ever
// dereferenced without checking it against the owning buffer's declared
// capacity.
//
// # Error policy
//
// Blit-level faults (missing handles, out-of-bounds geometry, hardware
// rejection) are absorbed and logged, never returned: the backend
// prioritizes keeping the display pipeline running over surfacing
// partial-composition defects. Per-blit outcomes are still computed and
// available through Device.Report. Only two failures are visible to
// callers: opening an unrecognized device name, and a failed present.
package hwcomposer

// DeviceID is the identifier this backend advertises to the device
// registry. Open requests for any other name fail with ErrUnknownDevice.
const DeviceID = "hwcomposer"
