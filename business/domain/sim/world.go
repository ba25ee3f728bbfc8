package sim

type slot struct {
	id     uint64
	entity Entity
}

// World is the live entity set advanced by the simulation clock.
type World struct {
	env        environment
	slots      []slot
	nextID     uint64
	frame      uint64
	ambientCap int
}

type StepStats struct {
	Expired int
	Spawned int
}

func NewWorld(viewport Viewport, rng Rand, ambientCap int) *World {
	return &World{
		env:        environment{viewport: viewport, rng: rng},
		ambientCap: ambientCap,
	}
}

// Add inserts transaction driven entities. They are never rejected; if mists exceed
// the ambient cap the oldest background mists are retired instead.
func (w *World) Add(es ...Entity) {
	for _, e := range es {
		w.insert(e)
	}
	for w.MistCount() > w.ambientCap {
		if !w.retireOldestBackground() {
			break
		}
	}
}

// AddAmbient inserts a background entity unless the ambient cap is reached.
func (w *World) AddAmbient(e Entity) bool {
	if w.MistCount() >= w.ambientCap {
		return false
	}
	w.insert(e)
	return true
}

// Advance moves every entity one frame. Expired entities are gone when it returns.
func (w *World) Advance() StepStats {
	var stats StepStats
	var children []Entity

	kept := w.slots[:0]
	for _, s := range w.slots {
		alive, child := s.entity.step(&w.env)
		if alive {
			kept = append(kept, s)
			continue
		}
		stats.Expired++
		if child != nil {
			children = append(children, child)
		}
	}
	clear(w.slots[len(kept):])
	w.slots = kept

	for _, child := range children {
		w.insert(child)
	}
	stats.Spawned = len(children)
	w.frame++
	return stats
}

func (w *World) Frame() Frame {
	f := Frame{Number: w.frame, Entities: make([]Sprite, 0, len(w.slots))}
	for _, s := range w.slots {
		sp := s.entity.sprite()
		sp.ID = s.id
		f.Entities = append(f.Entities, sp)
	}
	return f
}

func (w *World) Len() int {
	return len(w.slots)
}

func (w *World) MistCount() int {
	return w.CountVariant(VariantMist)
}

func (w *World) CountVariant(v Variant) int {
	n := 0
	for _, s := range w.slots {
		if s.entity.Variant() == v {
			n++
		}
	}
	return n
}

func (w *World) insert(e Entity) {
	w.nextID++
	w.slots = append(w.slots, slot{id: w.nextID, entity: e})
}

func (w *World) retireOldestBackground() bool {
	for i, s := range w.slots {
		if m, ok := s.entity.(*Mist); ok && m.Background {
			w.slots = append(w.slots[:i], w.slots[i+1:]...)
			return true
		}
	}
	return false
}
