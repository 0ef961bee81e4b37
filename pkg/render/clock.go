package render

import "github.com/hajimehoshi/ebiten/v2"

// TickClock reports one ebiten tick (1/TPS seconds) per frame.
// ebiten calls Update a fixed number of times per second, so a tick is
// the right delta for systems advanced from Game.Update.
type TickClock struct{}

func (TickClock) Delta() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		return 1.0 / ebiten.DefaultTPS
	}
	return 1 / float64(tps)
}
