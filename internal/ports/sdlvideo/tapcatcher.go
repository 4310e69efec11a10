package sdlvideo

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// tapCatcher is a transparent widget stacked over the framebuffer image
// solely to receive click/tap events — canvas.Image itself implements
// neither fyne.Tappable nor desktop.Mouseable.
type tapCatcher struct {
	widget.BaseWidget
	onTap func(x, y int)
}

func newTapCatcher(onTap func(x, y int)) *tapCatcher {
	t := &tapCatcher{onTap: onTap}
	t.ExtendBaseWidget(t)
	return t
}

func (t *tapCatcher) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(&invisibleRect{})
}

func (t *tapCatcher) Tapped(ev *fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap(int(ev.Position.X), int(ev.Position.Y))
	}
}

func (t *tapCatcher) MouseDown(ev *desktop.MouseEvent) {
	if t.onTap != nil && ev.Button == desktop.MouseButtonSecondary {
		t.onTap(int(ev.Position.X), int(ev.Position.Y))
	}
}

func (t *tapCatcher) MouseUp(*desktop.MouseEvent) {}

// invisibleRect is a zero-size placeholder CanvasObject; tapCatcher's
// size is driven entirely by its container layout (a Stack over the
// framebuffer image), not by this object's own MinSize.
type invisibleRect struct {
	widget.BaseWidget
}
