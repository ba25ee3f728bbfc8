package sim

import (
	"github.com/stxrain/go-stx-rain/entities"
	"github.com/stxrain/go-stx-rain/util"
	"math"
)

const (
	MinSize  = 4.0
	MaxSize  = 50.0
	MinSpeed = 2.0
	MaxSpeed = 5.0

	BackgroundColor = "#888888"
)

var kindColors = map[entities.Kind]string{
	entities.KindTransfer:       "#5546ff",
	entities.KindContractCall:   "#00d4ff",
	entities.KindContractDeploy: "#ffd93d",
	entities.KindCoinbase:       "#00ff88",
	entities.KindOther:          "#5546ff",
}

func Color(kind entities.Kind) string {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return kindColors[entities.KindOther]
}

// Size scales logarithmically with the amount. Zero amounts get the minimum size.
func Size(amount uint64) float64 {
	return clamp(math.Log10(float64(amount)+1)*8, MinSize, MaxSize)
}

// Speed grows slightly with the amount. jitter is expected in [0, 1).
func Speed(amount uint64, jitter float64) float64 {
	base := MinSpeed + math.Min(1.5, 0.2*math.Log10(float64(amount)+1))
	return clamp(base+1.5*clamp(jitter, 0, 1), MinSpeed, MaxSpeed)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

type Spawner struct {
	viewport    Viewport
	rng         Rand
	trailLength int
}

func NewSpawner(viewport Viewport, rng Rand, trailLength int) *Spawner {
	return &Spawner{viewport: viewport, rng: rng, trailLength: trailLength}
}

// Spawn creates the entities for one transaction. Every kind yields at least one entity.
func (s *Spawner) Spawn(tx entities.Transaction) []Entity {
	switch tx.Kind {
	case entities.KindTransfer, entities.KindCoinbase, entities.KindOther:
		return []Entity{s.drop(tx)}
	case entities.KindContractDeploy:
		bolt := newBolt(tx, Size(tx.Amount), Color(tx.Kind), s.viewport, s.rng)
		return []Entity{bolt, newPulse(bolt, s.viewport)}
	case entities.KindContractCall:
		return []Entity{s.mist(tx)}
	}
	return []Entity{s.drop(tx)}
}

// Ambient creates a background mist not tied to any transaction.
func (s *Spawner) Ambient() *Mist {
	return &Mist{
		X:          s.rng.Float64() * s.viewport.Width,
		Y:          s.rng.Float64() * s.viewport.Height,
		VX:         (s.rng.Float64() - 0.5) * 0.6,
		VY:         0.3 + 0.5*s.rng.Float64(),
		Size:       s.rng.Float64()*6 + 3,
		Color:      BackgroundColor,
		Life:       1,
		Background: true,
	}
}

func (s *Spawner) drop(tx entities.Transaction) *Drop {
	size := Size(tx.Amount)
	return &Drop{
		TxID:  tx.ID,
		Kind:  tx.Kind,
		X:     s.rng.Float64() * s.viewport.Width,
		Y:     dropStartY,
		Speed: Speed(tx.Amount, s.rng.Float64()),
		Size:  size,
		Glow:  math.Min(maxGlow, size),
		Color: Color(tx.Kind),
		trail: util.NewRing[Point](s.trailLength),
	}
}

func (s *Spawner) mist(tx entities.Transaction) *Mist {
	return &Mist{
		TxID:  tx.ID,
		Kind:  tx.Kind,
		X:     s.rng.Float64() * s.viewport.Width,
		Y:     s.rng.Float64() * s.viewport.Height / 3,
		VX:    (s.rng.Float64() - 0.5) * 0.6,
		VY:    0.3 + 0.5*s.rng.Float64(),
		Size:  Size(tx.Amount),
		Color: Color(tx.Kind),
		Life:  1,
	}
}
