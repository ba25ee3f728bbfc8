package sim

import (
	"github.com/stxrain/go-stx-rain/entities"
	"math"
)

const (
	boltSegments     = 10
	boltForkSegments = 4
	boltMaxForks     = 3
	boltLifetime     = 24 // frames

	pulseDecay        = 0.88
	pulseMinIntensity = 0.02
	pulseBase         = 0.15
)

// Bolt is a forked lightning strike across the viewport with a fixed lifetime.
type Bolt struct {
	TxID  string
	Kind  entities.Kind
	Size  float64
	Color string
	path  []Point
	forks [][]Point
	life  int
}

func newBolt(tx entities.Transaction, size float64, color string, viewport Viewport, rng Rand) *Bolt {
	x0 := rng.Float64() * viewport.Width
	x1 := x0 + (rng.Float64()-0.5)*viewport.Width/4

	path := make([]Point, 0, boltSegments+1)
	for i := 0; i <= boltSegments; i++ {
		t := float64(i) / boltSegments
		x := x0 + (x1-x0)*t
		if i > 0 && i < boltSegments {
			x += (rng.Float64() - 0.5) * 2 * size
		}
		path = append(path, Point{X: x, Y: viewport.Height * t})
	}

	nForks := min(boltMaxForks, 1+int(rng.Float64()*boltMaxForks))
	forks := make([][]Point, 0, nForks)
	for i := 0; i < nForks; i++ {
		start := path[1+min(boltSegments-2, int(rng.Float64()*(boltSegments-1)))]
		dir := 1.0
		if rng.Float64() < 0.5 {
			dir = -1
		}
		fork := []Point{start}
		for j := 0; j < boltForkSegments; j++ {
			last := fork[len(fork)-1]
			fork = append(fork, Point{
				X: last.X + dir*size + (rng.Float64()-0.5)*size,
				Y: last.Y + viewport.Height/boltSegments,
			})
		}
		forks = append(forks, fork)
	}

	return &Bolt{
		TxID:  tx.ID,
		Kind:  tx.Kind,
		Size:  size,
		Color: color,
		path:  path,
		forks: forks,
		life:  boltLifetime,
	}
}

func (b *Bolt) Variant() Variant {
	return VariantBolt
}

func (b *Bolt) Forks() int {
	return len(b.forks)
}

func (b *Bolt) step(_ *environment) (bool, Entity) {
	b.life--
	return b.life > 0, nil
}

func (b *Bolt) sprite() Sprite {
	return Sprite{
		Variant:   VariantBolt,
		Kind:      b.Kind,
		TxID:      b.TxID,
		X:         b.path[0].X,
		Y:         b.path[0].Y,
		Size:      b.Size,
		Color:     b.Color,
		Intensity: float64(b.life) / boltLifetime,
		Points:    b.path,
		Forks:     b.forks,
	}
}

// Pulse is a full viewport flash decaying geometrically.
type Pulse struct {
	TxID      string
	X         float64
	Y         float64
	Size      float64
	Color     string
	Intensity float64
}

func newPulse(bolt *Bolt, viewport Viewport) *Pulse {
	return &Pulse{
		TxID:      bolt.TxID,
		X:         viewport.Width / 2,
		Y:         viewport.Height / 2,
		Size:      math.Max(viewport.Width, viewport.Height),
		Color:     bolt.Color,
		Intensity: pulseBase + bolt.Size/200,
	}
}

func (p *Pulse) Variant() Variant {
	return VariantPulse
}

func (p *Pulse) step(_ *environment) (bool, Entity) {
	p.Intensity *= pulseDecay
	return p.Intensity >= pulseMinIntensity, nil
}

func (p *Pulse) sprite() Sprite {
	return Sprite{
		Variant:   VariantPulse,
		Kind:      entities.KindContractDeploy,
		TxID:      p.TxID,
		X:         p.X,
		Y:         p.Y,
		Size:      p.Size,
		Color:     p.Color,
		Intensity: p.Intensity,
	}
}
