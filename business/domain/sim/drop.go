package sim

import (
	"github.com/stxrain/go-stx-rain/entities"
	"github.com/stxrain/go-stx-rain/util"
)

const (
	dropStartY      = -50
	dropFloorMargin = 100 // drops live until this far below the bottom edge
	splashMinY      = 50  // expired drops deeper than height-splashMinY splash
	splashOffsetY   = 20
	maxGlow         = 30
)

// Drop is a falling entity leaving a trail. It splashes when it leaves the bottom edge.
type Drop struct {
	TxID  string
	Kind  entities.Kind
	X     float64
	Y     float64
	Speed float64
	Size  float64
	Glow  float64
	Color string
	trail *util.Ring[Point]
}

func (d *Drop) Variant() Variant {
	return VariantDrop
}

func (d *Drop) Trail() []Point {
	return d.trail.Oldest()
}

func (d *Drop) step(env *environment) (bool, Entity) {
	d.trail.Push(Point{X: d.X, Y: d.Y})
	d.Y += d.Speed
	d.X += (env.rng.Float64() - 0.5) * 0.5

	if d.Y < env.viewport.Height+dropFloorMargin {
		return true, nil
	}
	if d.Y >= env.viewport.Height-splashMinY {
		return false, newSplash(d.X, env.viewport.Height-splashOffsetY, d.Color, env.rng)
	}
	return false, nil
}

func (d *Drop) sprite() Sprite {
	return Sprite{
		Variant:   VariantDrop,
		Kind:      d.Kind,
		TxID:      d.TxID,
		X:         d.X,
		Y:         d.Y,
		Size:      d.Size,
		Color:     d.Color,
		Intensity: d.Glow / maxGlow,
		Trail:     d.trail.Oldest(),
	}
}
