// Command hwcdemo composes a small layer stack into an in-memory
// surface and writes the result to a PNG, demonstrating the two-phase
// Prepare/Commit protocol.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	hwc "github.com/cambridgehackers/device-xilinx-hwcomposer"
	"github.com/cambridgehackers/device-xilinx-hwcomposer/fb"
)

func main() {
	var (
		width   = flag.Int("width", 800, "surface width")
		height  = flag.Int("height", 600, "surface height")
		output  = flag.String("output", "composed.png", "output file")
		preview = flag.String("preview", "", "optional downscaled preview file")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		hwc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	dev, err := hwc.Open(hwc.DeviceID)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer dev.Close()

	surface := fb.NewMemSurface(*width, *height)
	fillGradient(surface.Handle(), *width, *height)

	list := &hwc.LayerList{
		Flags: hwc.FlagGeometryChanged,
		Layers: []*hwc.Layer{
			baseLayer(surface, *width, *height),
			spriteLayer(120, 90, 0xffcc3333, 40, 40),
			spriteLayer(200, 60, 0xff3366cc, 320, 200),
			spriteLayer(96, 96, 0xff33cc66, 560, 380),
		},
	}

	dev.Prepare(list)
	if err := dev.Commit(list, nil, surface); err != nil {
		log.Fatalf("commit: %v", err)
	}
	for _, b := range dev.Report().Blits {
		log.Printf("layer %d: %s", b.Layer, b.Result)
	}

	img := surface.Snapshot()
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("composed frame saved to %s (%dx%d)", *output, *width, *height)

	if *preview != "" {
		small := image.NewRGBA(image.Rect(0, 0, *width/4, *height/4))
		draw.NearestNeighbor.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)
		if err := savePNG(*preview, small); err != nil {
			log.Fatalf("save preview: %v", err)
		}
		log.Printf("preview saved to %s", *preview)
	}
}

// baseLayer wraps the surface buffer as the base layer of the stack.
func baseLayer(s *fb.MemSurface, w, h int) *hwc.Layer {
	return &hwc.Layer{
		Type:         hwc.CompositionFramebuffer,
		Handle:       s.Handle(),
		SourceCrop:   hwc.Rect{Right: int32(w), Bottom: int32(h)},
		DisplayFrame: hwc.Rect{Right: int32(w), Bottom: int32(h)},
	}
}

// spriteLayer builds a solid-color overlay candidate placed at (x, y).
func spriteLayer(w, h int, argb uint32, x, y int32) *hwc.Layer {
	handle := hwc.NewBufferHandle(w, h)
	for i := range handle.Base {
		handle.Base[i] = argb
	}
	return &hwc.Layer{
		Blending:     hwc.BlendNone,
		Handle:       handle,
		SourceCrop:   hwc.Rect{Right: int32(w), Bottom: int32(h)},
		DisplayFrame: hwc.Rect{Left: x, Top: y, Right: x + int32(w), Bottom: y + int32(h)},
	}
}

// fillGradient paints a vertical gradient into the surface buffer.
func fillGradient(h *hwc.BufferHandle, width, height int) {
	for y := 0; y < height; y++ {
		shade := uint32(y * 255 / height)
		word := 0xff000000 | shade<<16 | shade/2<<8 | 0x40
		for x := 0; x < width; x++ {
			h.Base[y*h.Stride+x] = word
		}
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
