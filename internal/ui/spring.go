package ui

import "github.com/charmbracelet/harmonica"

// needle smooths the level bar toward the meter position. It only affects
// the bar under the preview, never the rendered meter image.
type needle struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newNeedle(fps int, frequency, damping float64) needle {
	return needle{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (n *needle) step(target float64) float64 {
	n.pos, n.vel = n.spring.Update(n.pos, n.vel, target)
	return n.pos
}

// snap jumps to target without animating.
func (n *needle) snap(target float64) {
	n.pos, n.vel = target, 0
}
