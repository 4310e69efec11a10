// Package ports declares the narrow interfaces for every external
// collaborator: GPU/texture/window presentation, the audio mixer, the
// video decoder, the font rasterizer, archive readers (NSA/SAR/directory),
// and platform filesystem/console helpers. The core engine only ever
// depends on these interfaces; internal/ports/sdlvideo supplies the one
// concrete adapter this repo ships (fyne.io/fyne/v2 for the window and the
// frame image; github.com/veandco/go-sdl2 is only initialised and shut down).
package ports

import "io"

// Frame is one presented RGBA8888 video frame.
type Frame struct {
	Pixels []byte
	Width  int
	Height int
}

// VideoPort presents composited frames and reports window-level input.
type VideoPort interface {
	Present(f Frame) error
	WindowSize() (w, h int)
	PollInput() []InputEvent
	Close() error
}

// InputEventKind distinguishes the window input events the core cares
// about: clicks (advance dialogue, resolve choices), key presses
// (shortcuts), and mouse movement (getmousepos/getmouseover, button
// hover).
type InputEventKind int

const (
	InputClick InputEventKind = iota
	InputKey
	InputMouseMove
	InputQuit
)

// InputEvent is one window-level input, translated by the adapter from
// whatever native event system it polls (SDL2 events, Fyne callbacks).
type InputEvent struct {
	Kind InputEventKind
	X, Y int
	Key  string
}

// AudioPort is the mixer: BGM (looping background music), voice clips,
// and one-shot sound effects, plus per-channel volume
// (`bgmvol`/`voicevol`/`sevol`).
type AudioPort interface {
	PlayBGM(path string, loop bool) error
	StopBGM() error
	PlayVoice(path string) error
	PlaySE(path string) error
	SetVolume(channel string, level int)
}

// VideoDecoderPort decodes a movie file (the `video` command) frame by
// frame; the core presents each decoded frame through VideoPort without
// understanding the container/codec itself.
type VideoDecoderPort interface {
	Open(path string) error
	NextFrame() (Frame, bool, error) // frame, hasMore, err
	Close() error
}

// FontRasterizerPort measures and rasterizes glyphs for the dialogue
// controller's rendered text; the core only ever needs pixel
// measurements and glyph bitmaps, never font-file parsing itself.
type FontRasterizerPort interface {
	Measure(text string, sizePx int) (w, h int)
	Rasterize(text string, sizePx int) (glyphs []byte, w, h int, err error)
}

// ArchiveReaderPort abstracts NSA/SAR archive reading and the plain
// directory fallback, so internal/engine's asset lookups don't care
// which backing store a given build uses.
type ArchiveReaderPort interface {
	Open(name string) (io.ReadCloser, error)
	List() ([]string, error)
}

// PlatformPort is the thin filesystem/console surface the core needs for
// locating config/save directories and emitting console diagnostics
// outside the structured logger (crash dumps, startup banners).
type PlatformPort interface {
	ConfigDir() (string, error)
	SaveDir() (string, error)
	Println(args ...any)
}
