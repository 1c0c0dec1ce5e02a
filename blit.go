package hwcomposer

import "errors"

// BlitResult records how a single layer blit ended. The public Commit
// contract absorbs these distinctions, but the device still computes
// them per blit and exposes the last cycle's outcomes via Report.
type BlitResult int

const (
	// BlitHardware: the block-transfer engine completed the copy.
	BlitHardware BlitResult = iota

	// BlitSoftware: no engine was available; the software loop
	// completed the copy.
	BlitSoftware

	// BlitFallback: the engine rejected the request and the software
	// loop completed the copy.
	BlitFallback

	// BlitSkippedNoHandle: either side of the blit had no mapped
	// buffer; nothing was copied.
	BlitSkippedNoHandle

	// BlitSkippedOutOfBounds: the geometry reached outside a buffer's
	// declared capacity; the blit was aborted at the first violation
	// and the remainder of the region left unfilled.
	BlitSkippedOutOfBounds
)

// String returns the outcome name for diagnostics.
func (r BlitResult) String() string {
	switch r {
	case BlitHardware:
		return "hardware"
	case BlitSoftware:
		return "software"
	case BlitFallback:
		return "fallback"
	case BlitSkippedNoHandle:
		return "skipped-no-handle"
	case BlitSkippedOutOfBounds:
		return "skipped-out-of-bounds"
	default:
		return "unknown"
	}
}

// BlitOutcome pairs a layer index with its blit result.
type BlitOutcome struct {
	Layer  int
	Result BlitResult
}

// CycleReport collects per-blit outcomes for one Commit cycle.
type CycleReport struct {
	Blits []BlitOutcome
}

// blitLayer copies src.SourceCrop from the source layer's buffer into
// the base layer's buffer at the offset given by src.DisplayFrame plus
// the base layer's own crop origin. It tries the block-transfer engine
// first and falls back to the bounds-checked software loop. Failures
// are logged, never returned; the result value is collected into the
// cycle report.
func (d *Device) blitLayer(base, src *Layer) BlitResult {
	surfaceHandle := base.Handle
	if surfaceHandle == nil {
		Logger().Warn("null base layer")
		return BlitSkippedNoHandle
	}
	layerHandle := src.Handle
	if layerHandle == nil {
		Logger().Warn("null source layer")
		return BlitSkippedNoHandle
	}

	surfaceStride := surfaceHandle.Stride
	layerStride := layerHandle.Stride

	// Destination origin: the layer's placement on screen shifted by
	// the base surface's own crop origin. Source origin: the layer's
	// crop origin.
	destRow := int(src.DisplayFrame.Left + base.SourceCrop.Left)
	destCol := int(src.DisplayFrame.Top + base.SourceCrop.Top)
	srcRow := int(src.SourceCrop.Left)
	srcCol := int(src.SourceCrop.Top)
	columns := int(src.SourceCrop.Width())
	rows := int(src.SourceCrop.Height())

	Logger().Debug("blit",
		"destRow", destRow, "destCol", destCol,
		"srcRow", srcRow, "srcCol", srcCol,
		"columns", columns, "rows", rows,
		"destStride", surfaceStride, "srcStride", layerStride)

	if d.bt != nil {
		req := BlitRequest{
			DstChannel: surfaceHandle.Channel,
			DstOffset:  PixelBytes * int64(destRow+destCol*surfaceStride),
			DstStride:  int32(surfaceStride),
			SrcChannel: layerHandle.Channel,
			SrcOffset:  PixelBytes * int64(srcRow+srcCol*layerStride),
			SrcStride:  int32(layerStride),
			Columns:    int32(columns),
			Rows:       int32(rows),
		}
		err := d.bt.Submit(req)
		if err == nil {
			return BlitHardware
		}
		if !errors.Is(err, ErrFallbackToSoftware) {
			Logger().Warn("block transfer rejected", "engine", d.bt.Name(), "err", err)
		}
	}

	result := BlitSoftware
	if d.bt != nil {
		result = BlitFallback
	}

	dst := surfaceHandle.Base
	srcBuf := layerHandle.Base
	if dst == nil || srcBuf == nil {
		Logger().Warn("buffer not mapped", "base", dst == nil, "layer", srcBuf == nil)
		return BlitSkippedNoHandle
	}

	// Every single-pixel access is checked against the owning buffer's
	// declared capacity before use, destination first. Geometry comes
	// from the untrusted layer list and may disagree with the true
	// buffer extents; on the first violation the whole blit is aborted.
	for j := 0; j < rows; j++ {
		for i := 0; i < columns; i++ {
			di := destRow + i + (j+destCol)*surfaceStride
			if !inBounds(di, dst, surfaceHandle.Size) {
				Logger().Warn("base ref out of bounds",
					"index", di, "size", surfaceHandle.Size,
					"i", i, "j", j)
				return BlitSkippedOutOfBounds
			}
			si := srcRow + i + (j+srcCol)*layerStride
			if !inBounds(si, srcBuf, layerHandle.Size) {
				Logger().Warn("layer ref out of bounds",
					"index", si, "size", layerHandle.Size,
					"srcRow", srcRow, "i", i, "j", j,
					"srcCol", srcCol, "stride", layerStride)
				return BlitSkippedOutOfBounds
			}
			dst[di] = srcBuf[si]
		}
	}
	return result
}

// inBounds reports whether pixel index idx may be dereferenced in a
// buffer of the given byte capacity. The whole pixel must fit below
// size, and idx must fall inside the mapped slice.
func inBounds(idx int, buf []uint32, size int) bool {
	if idx < 0 || idx >= len(buf) {
		return false
	}
	return (idx+1)*PixelBytes <= size
}
