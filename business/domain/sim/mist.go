package sim

import "github.com/stxrain/go-stx-rain/entities"

const (
	mistDecay               = 0.006
	mistIntensity           = 0.5
	backgroundMistIntensity = 0.25
)

// Mist is a slow drifting, fading particle. Background mists carry no transaction.
type Mist struct {
	TxID       string
	Kind       entities.Kind
	X          float64
	Y          float64
	VX         float64
	VY         float64
	Size       float64
	Color      string
	Life       float64
	Background bool
}

func (m *Mist) Variant() Variant {
	return VariantMist
}

func (m *Mist) step(env *environment) (bool, Entity) {
	m.X += m.VX
	m.Y += m.VY
	m.Life -= mistDecay

	inside := m.X >= -m.Size && m.X <= env.viewport.Width+m.Size &&
		m.Y >= -m.Size && m.Y <= env.viewport.Height+m.Size
	return m.Life > 0 && inside, nil
}

func (m *Mist) sprite() Sprite {
	peak := mistIntensity
	if m.Background {
		peak = backgroundMistIntensity
	}
	return Sprite{
		Variant:   VariantMist,
		Kind:      m.Kind,
		TxID:      m.TxID,
		X:         m.X,
		Y:         m.Y,
		Size:      m.Size,
		Color:     m.Color,
		Intensity: peak * max(0, m.Life),
	}
}
