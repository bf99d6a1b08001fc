package banyan

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSWidget is an overlay widget displaying the current FPS and TPS in the
// viewport's top-left corner. The text refreshes every ~0.5 seconds.
type FPSWidget struct {
	img         *ebiten.Image
	sinceUpdate float32
	primed      bool
}

// NewFPSWidget creates the FPS overlay widget.
func NewFPSWidget() *FPSWidget {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &FPSWidget{img: ebiten.NewImage(100, 32)}
}

// Update implements OverlayWidget.
func (w *FPSWidget) Update(dt float32) {
	w.sinceUpdate += dt
	if w.primed && w.sinceUpdate < 0.5 {
		return
	}
	w.sinceUpdate = 0
	w.primed = true

	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f",
		ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Draw implements OverlayWidget.
func (w *FPSWidget) Draw(target *ebiten.Image) {
	b := target.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	target.DrawImage(w.img, op)
}
