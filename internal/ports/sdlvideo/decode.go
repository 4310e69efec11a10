package sdlvideo

import (
	"fmt"
	"image"

	"scenario-vn-core/internal/ports"
)

// decodeRGBA wraps a raw RGBA8888 frame buffer in an image.RGBA without
// copying, for handing straight to canvas.Image.
func decodeRGBA(f ports.Frame) (image.Image, error) {
	want := f.Width * f.Height * 4
	if len(f.Pixels) != want {
		return nil, fmt.Errorf("sdlvideo: frame buffer is %d bytes, want %d for %dx%d RGBA", len(f.Pixels), want, f.Width, f.Height)
	}
	return &image.RGBA{
		Pix:    f.Pixels,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}, nil
}
