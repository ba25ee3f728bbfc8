package sim

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stxrain/go-stx-rain/entities"
	"testing"
)

var smallViewport = Viewport{Width: 200, Height: 100}

func newTestDrop(t *testing.T, rng Rand, y float64) *Drop {
	spawner := NewSpawner(smallViewport, rng, 15)
	drop, ok := spawner.Spawn(entities.Transaction{ID: "t", Kind: entities.KindTransfer})[0].(*Drop)
	require.True(t, ok)
	drop.Y = y
	drop.Speed = 5
	return drop
}

func TestWorld_Advance_givenDropPastFloor_thenReplacedBySplashSameFrame(t *testing.T) {
	rng := NewSequenceRand(0.5)
	world := NewWorld(smallViewport, rng, 10)
	world.Add(newTestDrop(t, rng, 195))

	stats := world.Advance()

	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.Spawned)
	require.Equal(t, 1, world.Len())
	assert.Zero(t, world.CountVariant(VariantDrop))
	assert.Equal(t, 1, world.CountVariant(VariantSplash))

	frame := world.Frame()
	require.Len(t, frame.Entities, 1)
	splash := frame.Entities[0]
	assert.Equal(t, VariantSplash, splash.Variant)
	assert.Len(t, splash.Particles, splashParticles)
	assert.Equal(t, "#5546ff", splash.Color)
	assert.Equal(t, smallViewport.Height-splashOffsetY, splash.Particles[0].Y)
}

func TestWorld_Advance_givenDropAboveFloor_thenStillAlive(t *testing.T) {
	rng := NewSequenceRand(0.5)
	world := NewWorld(smallViewport, rng, 10)
	world.Add(newTestDrop(t, rng, 190))

	world.Advance()

	assert.Equal(t, 1, world.CountVariant(VariantDrop))
}

func TestWorld_Advance_givenLongFall_thenTrailBounded(t *testing.T) {
	rng := NewSequenceRand(0.5)
	tall := Viewport{Width: 200, Height: 10_000}
	spawner := NewSpawner(tall, rng, 15)
	drop := spawner.Spawn(entities.Transaction{ID: "t", Kind: entities.KindTransfer})[0].(*Drop)
	world := NewWorld(tall, rng, 10)
	world.Add(drop)

	var lastY float64
	for i := 0; i < 40; i++ {
		lastY = drop.Y
		world.Advance()
	}

	trail := drop.Trail()
	require.Len(t, trail, 15)
	// newest sample is the position before the last move
	assert.Equal(t, lastY, trail[len(trail)-1].Y)
	assert.Less(t, trail[0].Y, trail[len(trail)-1].Y)
}

func TestWorld_Advance_givenBolt_thenRemovedOnLastLifetimeFrame(t *testing.T) {
	spawner := NewSpawner(smallViewport, NewSequenceRand(0.3, 0.7), 15)
	bolt := spawner.Spawn(entities.Transaction{ID: "d", Kind: entities.KindContractDeploy})[0]
	world := NewWorld(smallViewport, NewSequenceRand(0.5), 10)
	world.Add(bolt)

	for i := 0; i < boltLifetime-1; i++ {
		world.Advance()
	}
	require.Equal(t, 1, world.CountVariant(VariantBolt))
	assert.InDelta(t, 1.0/boltLifetime, world.Frame().Entities[0].Intensity, 1e-9)

	stats := world.Advance()

	assert.Equal(t, 1, stats.Expired)
	assert.Zero(t, stats.Spawned)
	assert.Zero(t, world.Len())
}

func TestWorld_Advance_givenPulse_thenDecaysUntilRemoved(t *testing.T) {
	spawner := NewSpawner(smallViewport, NewSequenceRand(0.5), 15)
	spawned := spawner.Spawn(entities.Transaction{ID: "d", Kind: entities.KindContractDeploy, Amount: 1_000_000})
	pulse := spawned[1].(*Pulse)
	world := NewWorld(smallViewport, NewSequenceRand(0.5), 10)
	world.Add(pulse)

	previous := pulse.Intensity
	frames := 0
	for world.Len() > 0 {
		world.Advance()
		frames++
		require.Less(t, frames, 100)
		if world.Len() > 0 {
			assert.Less(t, pulse.Intensity, previous)
			assert.GreaterOrEqual(t, pulse.Intensity, pulseMinIntensity)
			previous = pulse.Intensity
		}
	}
	assert.Less(t, pulse.Intensity, pulseMinIntensity)
}

func TestWorld_Advance_givenSplash_thenExpiresAfterParticleLife(t *testing.T) {
	world := NewWorld(smallViewport, NewSequenceRand(0.5), 10)
	world.Add(newSplash(100, 80, "#fff", NewSequenceRand(0.5)))

	for i := 0; i < 33; i++ {
		world.Advance()
	}
	require.Equal(t, 1, world.Len())

	world.Advance()
	assert.Zero(t, world.Len())
}

func TestWorld_Advance_givenSplash_thenGravityPullsParticlesDown(t *testing.T) {
	splash := newSplash(100, 80, "#fff", NewSequenceRand(0))
	// particle 6 points straight up at angle 3π/2
	before := splash.particles[6]
	env := &environment{viewport: smallViewport, rng: NewSequenceRand(0)}

	splash.step(env)
	splash.step(env)

	after := splash.particles[6]
	assert.Less(t, after.y, before.y)
	assert.InDelta(t, before.vy+2*splashGravity, after.vy, 1e-9)
	assert.InDelta(t, 1-2*splashDecay, after.life, 1e-9)
}

func TestWorld_Advance_givenMistLeavingViewport_thenRemoved(t *testing.T) {
	world := NewWorld(smallViewport, NewSequenceRand(0.5), 10)
	world.Add(&Mist{X: 100, Y: smallViewport.Height + 5, VY: 1, Size: 3, Life: 1})

	world.Advance()

	assert.Zero(t, world.Len())
}

func TestWorld_Advance_givenMist_thenFadesOut(t *testing.T) {
	world := NewWorld(Viewport{Width: 200, Height: 10_000}, NewSequenceRand(0.5), 10)
	world.Add(&Mist{X: 100, Y: 10, VY: 0.1, Size: 3, Life: 1})

	frames := 0
	for world.Len() > 0 {
		world.Advance()
		frames++
		require.LessOrEqual(t, frames, 200)
	}
	assert.GreaterOrEqual(t, frames, 160)
}

func TestWorld_AddAmbient_givenCapReached_thenRejected(t *testing.T) {
	spawner := NewSpawner(smallViewport, NewSequenceRand(0.5), 15)
	world := NewWorld(smallViewport, NewSequenceRand(0.5), 3)

	for i := 0; i < 3; i++ {
		assert.True(t, world.AddAmbient(spawner.Ambient()))
	}
	assert.False(t, world.AddAmbient(spawner.Ambient()))
	assert.Equal(t, 3, world.MistCount())
}

func TestWorld_Add_givenTransactionMistAtCap_thenOldestBackgroundRetired(t *testing.T) {
	spawner := NewSpawner(smallViewport, NewSequenceRand(0.5), 15)
	world := NewWorld(smallViewport, NewSequenceRand(0.5), 2)
	first := spawner.Ambient()
	second := spawner.Ambient()
	world.AddAmbient(first)
	world.AddAmbient(second)

	world.Add(spawner.Spawn(entities.Transaction{ID: "call", Kind: entities.KindContractCall})...)

	assert.Equal(t, 2, world.MistCount())
	frame := world.Frame()
	require.Len(t, frame.Entities, 2)
	assert.Empty(t, frame.Entities[0].TxID) // second background mist survives
	assert.Equal(t, "call", frame.Entities[1].TxID)
}

func TestWorld_Add_givenOnlyTransactionMistsAtCap_thenStillAdded(t *testing.T) {
	spawner := NewSpawner(smallViewport, NewSequenceRand(0.5), 15)
	world := NewWorld(smallViewport, NewSequenceRand(0.5), 1)

	world.Add(spawner.Spawn(entities.Transaction{ID: "a", Kind: entities.KindContractCall})...)
	world.Add(spawner.Spawn(entities.Transaction{ID: "b", Kind: entities.KindContractCall})...)

	assert.Equal(t, 2, world.MistCount())
	assert.False(t, world.AddAmbient(spawner.Ambient()))
}

func TestWorld_Frame_thenUniqueIdsAndFrameNumber(t *testing.T) {
	spawner := NewSpawner(smallViewport, NewRand(), 15)
	world := NewWorld(smallViewport, NewRand(), 10)
	for _, kind := range entities.AllKinds {
		world.Add(spawner.Spawn(entities.Transaction{ID: string(kind), Kind: kind})...)
	}
	world.Advance()
	world.Advance()

	frame := world.Frame()

	assert.Equal(t, uint64(2), frame.Number)
	ids := make(map[uint64]bool)
	for _, sprite := range frame.Entities {
		assert.False(t, ids[sprite.ID])
		ids[sprite.ID] = true
		assert.NotEmpty(t, sprite.Color)
	}
	assert.Len(t, frame.Entities, 6) // drop, mist, bolt, pulse, drop, drop
}
