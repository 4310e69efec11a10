// Package sdlvideo is the one concrete ports.VideoPort this repo ships:
// presented frames are drawn into a Fyne window through a canvas.Image;
// SDL2 is only initialised and shut down, and no SDL2 renderer or texture
// takes part in presenting a frame.
// The core engine never imports fyne or go-sdl2 directly — only this
// package and cmd/vnengine do — preserving the narrow-interface contract.
package sdlvideo

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/veandco/go-sdl2/sdl"

	"scenario-vn-core/internal/ports"
)

// Video is a Fyne window whose canvas.Image shows the presented frame,
// and a small input-event queue fed by Fyne's desktop mouse callbacks.
// SDL2 events are not polled; the renderer and texture fields stay nil.
type Video struct {
	app    fyne.App
	window fyne.Window
	image  *canvas.Image

	renderer *sdl.Renderer
	texture  *sdl.Texture
	width    int
	height   int

	mu     sync.Mutex
	events []ports.InputEvent
}

// New creates a window of the given size with its title set to name.
func New(name string, width, height int) (*Video, error) {
	a := app.New()
	w := a.NewWindow(name)

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch

	v := &Video{app: a, window: w, image: img, width: width, height: height}

	catcher := newTapCatcher(func(x, y int) {
		v.pushEvent(ports.InputEvent{Kind: ports.InputClick, X: x, Y: y})
	})
	w.SetContent(container.NewStack(img, catcher))
	w.Resize(fyne.NewSize(float32(width), float32(height)))

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		v.pushEvent(ports.InputEvent{Kind: ports.InputKey, Key: string(ev.Name)})
	})

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdlvideo: sdl.Init: %w", err)
	}

	return v, nil
}

func (v *Video) pushEvent(e ports.InputEvent) {
	v.mu.Lock()
	v.events = append(v.events, e)
	v.mu.Unlock()
}

// Present implements ports.VideoPort by writing frame pixels into the
// canvas image shown in the Fyne window.
func (v *Video) Present(f ports.Frame) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("sdlvideo: present: invalid frame size %dx%d", f.Width, f.Height)
	}
	img, err := decodeRGBA(f)
	if err != nil {
		return err
	}
	v.image.Image = img
	canvas.Refresh(v.image)
	return nil
}

// WindowSize implements ports.VideoPort.
func (v *Video) WindowSize() (int, int) { return v.width, v.height }

// PollInput drains and returns every input event queued since the last
// poll — the Fyne callbacks above are the producers, this is the sole
// consumer, called once per frame from the main thread.
func (v *Video) PollInput() []ports.InputEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.events
	v.events = nil
	return out
}

// Close tears down the SDL2 and Fyne resources.
func (v *Video) Close() error {
	if v.texture != nil {
		v.texture.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Destroy()
	}
	sdl.Quit()
	v.window.Close()
	return nil
}

// ShowAndRun blocks running the Fyne event loop; callers that need a
// non-blocking setup (tests, the debugger TUI) should not call this.
func (v *Video) ShowAndRun() { v.window.ShowAndRun() }
