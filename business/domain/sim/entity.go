package sim

import (
	"github.com/stxrain/go-stx-rain/entities"
)

type Variant string

const (
	VariantDrop   Variant = "drop"
	VariantBolt   Variant = "bolt"
	VariantPulse  Variant = "pulse"
	VariantMist   Variant = "mist"
	VariantSplash Variant = "splash"
)

type Viewport struct {
	Width  float64
	Height float64
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Particle struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size"`
	Intensity float64 `json:"intensity"`
}

// Sprite is the renderable view of a live entity.
type Sprite struct {
	ID        uint64        `json:"id"`
	Variant   Variant       `json:"variant"`
	Kind      entities.Kind `json:"kind,omitempty"`
	TxID      string        `json:"txId,omitempty"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Size      float64       `json:"size"`
	Color     string        `json:"color"`
	Intensity float64       `json:"intensity"`
	Trail     []Point       `json:"trail,omitempty"`
	Points    []Point       `json:"points,omitempty"`
	Forks     [][]Point     `json:"forks,omitempty"`
	Particles []Particle    `json:"particles,omitempty"`
}

type Frame struct {
	Number   uint64   `json:"frame"`
	Entities []Sprite `json:"entities"`
}

// Entity is implemented by the variants in this package only.
type Entity interface {
	Variant() Variant
	// step advances one frame. When alive is false the entity is removed in this
	// frame and child, if not nil, takes its place.
	step(env *environment) (alive bool, child Entity)
	sprite() Sprite
}

type environment struct {
	viewport Viewport
	rng      Rand
}
