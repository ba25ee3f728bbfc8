package sim

import "math"

const (
	splashParticles = 8
	splashGravity   = 0.1
	splashDecay     = 0.03
	splashLift      = 2
	particleSize    = 3
)

type splashParticle struct {
	x, y, vx, vy, life float64
}

// Splash is a short burst of particles falling under gravity.
type Splash struct {
	Color     string
	particles []splashParticle
}

func newSplash(x, y float64, color string, rng Rand) *Splash {
	s := &Splash{Color: color, particles: make([]splashParticle, 0, splashParticles)}
	for i := 0; i < splashParticles; i++ {
		angle := 2 * math.Pi / splashParticles * float64(i)
		s.particles = append(s.particles, splashParticle{
			x:    x,
			y:    y,
			vx:   math.Cos(angle) * (2 + rng.Float64()*2),
			vy:   math.Sin(angle)*(2+rng.Float64()*2) - splashLift,
			life: 1,
		})
	}
	return s
}

func (s *Splash) Variant() Variant {
	return VariantSplash
}

func (s *Splash) Len() int {
	return len(s.particles)
}

func (s *Splash) step(_ *environment) (bool, Entity) {
	kept := s.particles[:0]
	for _, p := range s.particles {
		p.x += p.vx
		p.y += p.vy
		p.vy += splashGravity
		p.life -= splashDecay
		if p.life > 0 {
			kept = append(kept, p)
		}
	}
	s.particles = kept
	return len(s.particles) > 0, nil
}

func (s *Splash) sprite() Sprite {
	sp := Sprite{
		Variant:   VariantSplash,
		Color:     s.Color,
		Particles: make([]Particle, 0, len(s.particles)),
	}
	for _, p := range s.particles {
		sp.Particles = append(sp.Particles, Particle{X: p.x, Y: p.y, Size: particleSize * p.life, Intensity: p.life})
		sp.Intensity = max(sp.Intensity, p.life)
	}
	if len(s.particles) > 0 {
		sp.X, sp.Y = s.particles[0].x, s.particles[0].y
		sp.Size = particleSize * sp.Intensity
	}
	return sp
}
