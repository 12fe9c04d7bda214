package sim

import (
	"math/rand"
	"time"
)

// Kind classifies a road object.
type Kind int

const (
	KindObstacle Kind = iota
	KindBoostPower
	KindShieldPower
	KindMultiplierPower
)

func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindBoostPower:
		return "boost"
	case KindShieldPower:
		return "shield"
	case KindMultiplierPower:
		return "multiplier"
	default:
		return "unknown"
	}
}

// IsPowerUp reports whether picking the object up helps rather than hurts.
func (k Kind) IsPowerUp() bool { return k != KindObstacle }

// Object is one obstacle or power-up scrolling down the road.
type Object struct {
	Kind            Kind
	X, Y            float64
	Size            float64
	SpeedMultiplier float64
	passed          bool
}

// Rect returns the object's square collision bounds.
func (o *Object) Rect() Rect {
	return Rect{
		X: o.X - o.Size,
		Y: o.Y - o.Size,
		W: o.Size * 2,
		H: o.Size * 2,
	}
}

// advance scrolls the object down the road relative to the car's speed.
func (o *Object) advance(carSpeed float64) {
	o.Y += carSpeed * 2 * o.SpeedMultiplier
}

// FieldConfig tunes object spawning, normally taken from a game Mode.
type FieldConfig struct {
	// ObstacleFrequency is the per-tick spawn probability.
	ObstacleFrequency float64
	// SpeedMultiplier scales how fast spawned obstacles approach.
	SpeedMultiplier float64
}

const (
	powerUpChance    = 0.3
	minSpawnInterval = 500 * time.Millisecond
	maxObjects       = 10
	powerUpSize      = 15.0
	obstacleSizeMin  = 15
	obstacleSizeMax  = 25
)

// Field owns the set of live road objects. The random source is injected
// so tests can drive spawning deterministically.
type Field struct {
	cfg       FieldConfig
	rng       *rand.Rand
	objects   []*Object
	lastSpawn time.Duration
	spawned   bool
}

// NewField creates an empty object field. rng must not be nil.
func NewField(cfg FieldConfig, rng *rand.Rand) *Field {
	return &Field{cfg: cfg, rng: rng}
}

// TickResult summarizes one field update.
type TickResult struct {
	// Hits are the kinds of objects the car touched this tick, in order.
	// Hit objects are removed from the field.
	Hits []Kind
	// Passed counts objects the car cleared this tick.
	Passed int
}

// Update spawns, scrolls, and collides the field against the car for one
// tick. now is elapsed session time, shared with the car.
func (f *Field) Update(car *Car, now time.Duration) TickResult {
	var res TickResult

	// Spawn with the configured probability, but never sooner than the
	// minimum interval after the previous spawn, and never past the cap.
	if len(f.objects) < maxObjects &&
		f.rng.Float64() < f.cfg.ObstacleFrequency &&
		(!f.spawned || now-f.lastSpawn >= minSpawnInterval) {
		f.objects = append(f.objects, f.spawn())
		f.lastSpawn = now
		f.spawned = true
	}

	kept := f.objects[:0]
	for _, obj := range f.objects {
		obj.advance(car.Speed)

		if car.CollideWith(obj.Rect(), now) {
			res.Hits = append(res.Hits, obj.Kind)
			continue
		}

		if !obj.passed && obj.Y > car.Y+carHeight {
			obj.passed = true
			res.Passed++
		}

		if obj.Y > CullY {
			continue
		}
		kept = append(kept, obj)
	}
	f.objects = kept

	return res
}

func (f *Field) spawn() *Object {
	x := float64(SpawnXMin + f.rng.Intn(SpawnXMax-SpawnXMin+1))

	if f.rng.Float64() < powerUpChance {
		return &Object{
			Kind:            KindBoostPower + Kind(f.rng.Intn(3)),
			X:               x,
			Y:               SpawnY,
			Size:            powerUpSize,
			SpeedMultiplier: 1,
		}
	}

	return &Object{
		Kind:            KindObstacle,
		X:               x,
		Y:               SpawnY,
		Size:            float64(obstacleSizeMin + f.rng.Intn(obstacleSizeMax-obstacleSizeMin+1)),
		SpeedMultiplier: f.cfg.SpeedMultiplier,
	}
}

// Objects returns a snapshot of the live objects for display/telemetry.
func (f *Field) Objects() []Object {
	out := make([]Object, len(f.objects))
	for i, obj := range f.objects {
		out[i] = *obj
	}
	return out
}

// Len returns the number of live objects.
func (f *Field) Len() int { return len(f.objects) }

// Reset clears all objects and the spawn timer.
func (f *Field) Reset() {
	f.objects = nil
	f.lastSpawn = 0
	f.spawned = false
}
