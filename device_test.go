package hwcomposer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stubSurface implements Surface for testing.
type stubSurface struct {
	presents int
	err      error
	displays []Display
}

func (s *stubSurface) Present(d Display) error {
	s.presents++
	s.displays = append(s.displays, d)
	return s.err
}

func TestOpenKnownDevice(t *testing.T) {
	dev, err := Open(DeviceID, WithBlockTransfer(nil))
	if err != nil {
		t.Fatalf("Open(%q) = %v", DeviceID, err)
	}
	defer dev.Close()
}

func TestOpenUnknownDevice(t *testing.T) {
	_, err := Open("framebuffer2")
	if err == nil {
		t.Fatal("Open of unknown device name succeeded")
	}
	if !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("err = %v, want ErrUnknownDevice", err)
	}
}

func TestOpenRegisteredFactory(t *testing.T) {
	const name = "test-backend"
	called := false
	Register(name, func(opts ...Option) (*Device, error) {
		called = true
		return NewDevice(opts...)
	})
	t.Cleanup(func() { Unregister(name) })

	dev, err := Open(name, WithBlockTransfer(nil))
	if err != nil {
		t.Fatalf("Open(%q) = %v", name, err)
	}
	defer dev.Close()
	if !called {
		t.Error("registered factory was not invoked")
	}
}

func TestNewDeviceUsesRegisteredEngine(t *testing.T) {
	t.Cleanup(resetBlockTransfer)
	resetBlockTransfer()

	mock := &mockEngine{name: "registered"}
	RegisterBlockTransfer(mock)

	dev := newTestDevice(t)
	if dev.bt != mock {
		t.Error("device did not pick up the registered block-transfer engine")
	}
}

func TestCommitSingleLayerPerformsNoBlits(t *testing.T) {
	engine := &mockEngine{name: "counting"}
	d := newTestDevice(t, WithBlockTransfer(engine))

	surface := &stubSurface{}
	list := &LayerList{
		Flags:  FlagGeometryChanged,
		Layers: []*Layer{testLayer(64, 64, 0, 0)},
	}

	if err := d.Commit(list, nil, surface); err != nil {
		t.Fatalf("Commit() = %v", err)
	}
	if len(engine.requests) != 0 {
		t.Errorf("blit requests = %d, want 0", len(engine.requests))
	}
	if len(d.Report().Blits) != 0 {
		t.Errorf("report entries = %d, want 0", len(d.Report().Blits))
	}
	if surface.presents != 1 {
		t.Errorf("presents = %d, want 1 (present runs even without blits)", surface.presents)
	}
}

func TestCommitBlitsNonBaseLayersInOrder(t *testing.T) {
	engine := &mockEngine{name: "ordered", onSubmit: func(BlitRequest) error { return nil }}
	d := newTestDevice(t, WithBlockTransfer(engine))

	base := testLayer(640, 480, 0, 0)
	base.Handle.Channel = 1
	a := testLayer(32, 32, 10, 10)
	a.Handle.Channel = 2
	b := testLayer(32, 32, 200, 10)
	b.Handle.Channel = 3

	surface := &stubSurface{}
	list := &LayerList{
		Flags:  FlagGeometryChanged,
		Layers: []*Layer{base, a, b},
	}

	if err := d.Commit(list, "display-0", surface); err != nil {
		t.Fatalf("Commit() = %v", err)
	}

	if len(engine.requests) != 2 {
		t.Fatalf("blit requests = %d, want 2", len(engine.requests))
	}
	if engine.requests[0].SrcChannel != 2 || engine.requests[1].SrcChannel != 3 {
		t.Errorf("blits out of order: channels %d, %d",
			engine.requests[0].SrcChannel, engine.requests[1].SrcChannel)
	}

	want := CycleReport{Blits: []BlitOutcome{
		{Layer: 1, Result: BlitHardware},
		{Layer: 2, Result: BlitHardware},
	}}
	if diff := cmp.Diff(want, d.Report()); diff != "" {
		t.Errorf("report (-want +got):\n%s", diff)
	}

	if surface.presents != 1 {
		t.Fatalf("presents = %d, want 1", surface.presents)
	}
	if surface.displays[0] != Display("display-0") {
		t.Errorf("display = %v, want display-0", surface.displays[0])
	}
}

func TestCommitPresentFailurePropagates(t *testing.T) {
	d := newTestDevice(t, WithBlockTransfer(nil))

	surface := &stubSurface{err: errors.New("display detached")}
	base := testLayer(640, 480, 0, 0)
	top := testLayer(32, 32, 10, 10)
	list := &LayerList{
		Flags:  FlagGeometryChanged,
		Layers: []*Layer{base, top},
	}

	err := d.Commit(list, nil, surface)
	if err == nil {
		t.Fatal("Commit() = nil, want present failure")
	}
	if !errors.Is(err, ErrPresent) {
		t.Errorf("err = %v, want ErrPresent", err)
	}

	// The blits before the failed present still happened.
	if len(d.Report().Blits) != 1 {
		t.Errorf("report entries = %d, want 1", len(d.Report().Blits))
	}
}

func TestCommitAbsorbsBlitFaults(t *testing.T) {
	d := newTestDevice(t, WithBlockTransfer(nil))

	base := testLayer(640, 480, 0, 0)
	missing := &Layer{
		SourceCrop:   Rect{Right: 32, Bottom: 32},
		DisplayFrame: Rect{Right: 32, Bottom: 32},
	}
	top := testLayer(32, 32, 10, 10)

	surface := &stubSurface{}
	list := &LayerList{
		Flags:  FlagGeometryChanged,
		Layers: []*Layer{base, missing, top},
	}

	if err := d.Commit(list, nil, surface); err != nil {
		t.Fatalf("Commit() = %v, blit faults must not propagate", err)
	}

	want := CycleReport{Blits: []BlitOutcome{
		{Layer: 1, Result: BlitSkippedNoHandle},
		{Layer: 2, Result: BlitSoftware},
	}}
	if diff := cmp.Diff(want, d.Report()); diff != "" {
		t.Errorf("report (-want +got):\n%s", diff)
	}
}

func TestReportReturnsCopy(t *testing.T) {
	d := newTestDevice(t, WithBlockTransfer(nil))

	base := testLayer(640, 480, 0, 0)
	top := testLayer(32, 32, 10, 10)
	list := &LayerList{
		Flags:  FlagGeometryChanged,
		Layers: []*Layer{base, top},
	}
	if err := d.Commit(list, nil, &stubSurface{}); err != nil {
		t.Fatalf("Commit() = %v", err)
	}

	r := d.Report()
	r.Blits[0].Result = BlitSkippedNoHandle

	if d.Report().Blits[0].Result != BlitSoftware {
		t.Error("mutating a returned report changed device state")
	}
}

func TestCloseIdempotent(t *testing.T) {
	d := newTestDevice(t, WithBlockTransfer(&mockEngine{name: "owned"}))

	if err := d.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
}

func TestBlitResultString(t *testing.T) {
	tests := map[BlitResult]string{
		BlitHardware:           "hardware",
		BlitSoftware:           "software",
		BlitFallback:           "fallback",
		BlitSkippedNoHandle:    "skipped-no-handle",
		BlitSkippedOutOfBounds: "skipped-out-of-bounds",
		BlitResult(99):         "unknown",
	}
	for r, want := range tests {
		if got := r.String(); got != want {
			t.Errorf("BlitResult(%d).String() = %q, want %q", r, got, want)
		}
	}
}
