package hwcomposer

// CompositionType classifies who composites a layer: the client/GPU path
// or this backend.
type CompositionType int32

const (
	// CompositionFramebuffer means the client (or its GPU path) has
	// already composited this layer into the framebuffer target.
	CompositionFramebuffer CompositionType = iota

	// CompositionOverlay means this backend draws the layer itself.
	CompositionOverlay

	// CompositionBackground is a solid-color layer with no buffer.
	CompositionBackground
)

// String returns the classification name for diagnostics.
func (t CompositionType) String() string {
	switch t {
	case CompositionFramebuffer:
		return "framebuffer"
	case CompositionOverlay:
		return "overlay"
	case CompositionBackground:
		return "background"
	default:
		return "unknown"
	}
}

// Transform is a rotation/flip bitmask. The composition core reads it
// for diagnostics but does not apply it.
type Transform uint32

const (
	TransformFlipH Transform = 1 << iota
	TransformFlipV
	TransformRot90
)

// BlendMode describes how a layer blends with the content below it.
// The composition core reads it for diagnostics but does not apply it.
type BlendMode uint32

const (
	// BlendNone overwrites destination pixels.
	BlendNone BlendMode = iota + 1

	// BlendPremultiplied is source-over with premultiplied alpha.
	BlendPremultiplied

	// BlendCoverage is source-over with straight alpha.
	BlendCoverage
)

// Rect is a rectangle in pixel coordinates, (Left,Top) inclusive and
// (Right,Bottom) exclusive. Right >= Left and Bottom >= Top is expected
// from callers but not validated here; the blit path bounds-checks every
// derived address instead of trusting the geometry.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Width returns Right - Left.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Layer is one compositing input: a rectangular region of a source
// buffer plus its target placement and blend/transform attributes.
//
// The list owner retains ownership; the backend holds the layer only for
// the duration of one Prepare or Commit call, and its sole persistent
// side effect is rewriting Type during Prepare.
type Layer struct {
	// Type is the composition classification. Prepare rewrites it for
	// every layer above index 0.
	Type CompositionType

	// Flags carries per-layer hints. Unused by this backend today but
	// dumped for diagnostics.
	Flags uint32

	// Handle references the layer's pixel buffer. Nil means the layer
	// has no drawable content and every blit involving it is skipped.
	Handle *BufferHandle

	// Transform and Blending are read for diagnostics only.
	Transform Transform
	Blending  BlendMode

	// SourceCrop selects the region of Handle's buffer to composite.
	SourceCrop Rect

	// DisplayFrame places the layer on the destination surface.
	DisplayFrame Rect
}

// List-level flags.
const (
	// FlagGeometryChanged signals that layer topology differs from the
	// previous cycle. Prepare rescans the list only when it is set;
	// otherwise classifications from the prior cycle stand.
	FlagGeometryChanged uint32 = 1 << iota
)

// LayerList is the ordered set of layers for one composition cycle.
// Index 0 is the base (surface) layer: its buffer is the target every
// other layer is composited into.
type LayerList struct {
	// Flags holds list-level bits such as FlagGeometryChanged.
	Flags uint32

	// Layers in composition order, bottom-most first.
	Layers []*Layer
}

// GeometryChanged reports whether the geometry-changed bit is set.
func (l *LayerList) GeometryChanged() bool {
	return l.Flags&FlagGeometryChanged != 0
}

// Base returns the base layer, or nil for an empty list.
func (l *LayerList) Base() *Layer {
	if len(l.Layers) == 0 {
		return nil
	}
	return l.Layers[0]
}
