package hwcomposer

// Prepare is the planning phase of a composition cycle. It classifies
// every layer in the list in place: the base layer keeps whatever
// classification it arrived with, and every layer above it is claimed as
// CompositionOverlay for this backend to composite. Layers whose display
// frame and source crop differ in width or height are flagged as needing
// scaling; detection is diagnostic only, no resampling happens
// downstream.
//
// Prepare never fails. It is a no-op for lists with at most one layer
// (a single layer is always fully client-composited, nothing to
// override) and for lists whose geometry-changed flag is clear, where
// the classifications from the previous cycle still stand.
func (d *Device) Prepare(list *LayerList) {
	if list == nil || len(list.Layers) <= 1 {
		return
	}
	if !list.GeometryChanged() {
		return
	}

	Logger().Debug("prepare", "layers", len(list.Layers))
	for i, l := range list.Layers {
		dumpLayer(i, l)
		if i > 0 {
			l.Type = CompositionOverlay
		}
		// Height compares magnitudes so a vertically flipped frame
		// rectangle is not misreported as scaling.
		scaleX := l.DisplayFrame.Width() != l.SourceCrop.Width()
		scaleY := abs32(l.DisplayFrame.Height()) != abs32(l.SourceCrop.Height())
		if scaleX || scaleY {
			Logger().Debug("needs scaling",
				"layer", i,
				"horizontal", scaleX,
				"vertical", scaleY,
				"frame", l.DisplayFrame,
				"crop", l.SourceCrop)
		}
		if l.Handle != nil {
			d.validate(l.Handle)
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// dumpLayer records a layer's full state for observability, one record
// per layer per phase.
func dumpLayer(i int, l *Layer) {
	stride := -1
	if l.Handle != nil {
		stride = l.Handle.Stride
	}
	Logger().Debug("layer",
		"index", i,
		"type", l.Type,
		"flags", l.Flags,
		"handle", l.Handle != nil,
		"transform", l.Transform,
		"blend", l.Blending,
		"crop", l.SourceCrop,
		"frame", l.DisplayFrame,
		"stride", stride)
}
