package hwcomposer

import (
	"errors"
	"fmt"
)

// ErrPresent is the only failure Commit reports: the display pipeline's
// present operation failed. Blit-level faults never surface here.
var ErrPresent = errors.New("hwcomposer: present failed")

// Display is an opaque reference to the display a surface belongs to,
// passed through to Surface.Present untouched.
type Display any

// Surface is the presentable composition target. Implementations (see
// the fb subpackage) swap or pan the surface's buffer onto the display.
type Surface interface {
	// Present makes the surface's current contents visible on the
	// display. It blocks until the display pipeline accepts the frame.
	Present(d Display) error
}

// Device is one composition backend instance. It is not safe for
// concurrent use: callers serialize composition cycles externally, and
// no layer list or buffer handle is retained past a single call.
type Device struct {
	bt       BlockTransfer
	validate HandleValidator
	report   CycleReport
	closed   bool
}

// NewDevice creates a composition device. Most callers go through Open;
// NewDevice is the factory registered under DeviceID.
//
// Unless WithBlockTransfer overrides it, the device uses the globally
// registered block-transfer engine. A missing engine is non-fatal: it
// only disables the blit fast path.
func NewDevice(opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	bt := o.engine
	if !o.engineSet {
		bt = RegisteredBlockTransfer()
	}
	if bt == nil {
		Logger().Warn("block-transfer engine unavailable, software blits only")
	}

	return &Device{bt: bt, validate: o.validator}, nil
}

// Commit is the execution phase of a composition cycle. For lists with
// more than one layer it blits every non-base layer into the base
// layer's buffer, in ascending index order, strictly sequentially:
// blits share the destination buffer and must serialize. It then
// presents the surface on the display.
//
// Commit returns a failure wrapping ErrPresent if and only if the
// present operation fails. Blit faults were already absorbed and are
// available through Report.
func (d *Device) Commit(list *LayerList, display Display, surface Surface) error {
	report := CycleReport{}

	if list != nil && len(list.Layers) > 1 {
		Logger().Debug("commit", "layers", len(list.Layers))

		base := list.Layers[0]
		for i, l := range list.Layers {
			dumpLayer(i, l)
			if i > 0 {
				res := d.blitLayer(base, l)
				report.Blits = append(report.Blits, BlitOutcome{Layer: i, Result: res})
			}
		}
	}
	d.report = report

	if err := surface.Present(display); err != nil {
		return fmt.Errorf("%w: %v", ErrPresent, err)
	}
	return nil
}

// Report returns the per-blit outcomes of the most recent Commit cycle.
// The returned report is a copy; it is valid until the next Commit on
// this device.
func (d *Device) Report() CycleReport {
	blits := make([]BlitOutcome, len(d.report.Blits))
	copy(blits, d.report.Blits)
	return CycleReport{Blits: blits}
}

// Close releases the device. It does not close the block-transfer
// engine, whose lifetime belongs to its registering package or to the
// caller that injected it. Close is idempotent.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.bt = nil
	return nil
}
