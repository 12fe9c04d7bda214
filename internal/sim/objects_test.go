package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysSpawn() FieldConfig {
	return FieldConfig{ObstacleFrequency: 1.0, SpeedMultiplier: 1.0}
}

func TestField_SpawnRespectsMinInterval(t *testing.T) {
	f := NewField(alwaysSpawn(), rand.New(rand.NewSource(1)))
	car := NewCar(CarStartX, CarStartY)

	f.Update(car, 0)
	require.Equal(t, 1, f.Len(), "certain frequency spawns on the first tick")

	// Ticks inside the minimum interval spawn nothing even at
	// probability one.
	f.Update(car, 100*time.Millisecond)
	f.Update(car, 400*time.Millisecond)
	assert.Equal(t, 1, f.Len())

	f.Update(car, 600*time.Millisecond)
	assert.Equal(t, 2, f.Len())
}

func TestField_ZeroFrequencyNeverSpawns(t *testing.T) {
	f := NewField(FieldConfig{ObstacleFrequency: 0, SpeedMultiplier: 1}, rand.New(rand.NewSource(1)))
	car := NewCar(CarStartX, CarStartY)

	for i := 0; i < 100; i++ {
		f.Update(car, time.Duration(i)*time.Second)
	}
	assert.Zero(t, f.Len(), "practice mode stays empty")
}

func TestField_ObjectCap(t *testing.T) {
	f := NewField(alwaysSpawn(), rand.New(rand.NewSource(1)))
	// A parked car never scrolls objects off screen, so the cap is the
	// only thing bounding the field.
	car := NewCar(CarStartX, CarStartY)

	for i := 0; i < 50; i++ {
		f.Update(car, time.Duration(i)*time.Second)
	}
	assert.LessOrEqual(t, f.Len(), maxObjects)
}

func TestField_SpawnsBothObstaclesAndPowerUps(t *testing.T) {
	f := NewField(alwaysSpawn(), rand.New(rand.NewSource(42)))
	car := NewCar(CarStartX, CarStartY)

	kinds := map[Kind]int{}
	for i := 0; i < 200; i++ {
		f.Update(car, time.Duration(i)*time.Second)
		for _, obj := range f.Objects() {
			kinds[obj.Kind]++
		}
		f.Reset()
	}

	assert.Positive(t, kinds[KindObstacle], "expected obstacles over 200 spawns")
	powerUps := kinds[KindBoostPower] + kinds[KindShieldPower] + kinds[KindMultiplierPower]
	assert.Positive(t, powerUps, "expected power-ups over 200 spawns")

	for _, obj := range f.Objects() {
		assert.GreaterOrEqual(t, obj.X, float64(SpawnXMin))
		assert.LessOrEqual(t, obj.X, float64(SpawnXMax))
	}
}

func TestField_PassCountingAndCulling(t *testing.T) {
	f := NewField(FieldConfig{ObstacleFrequency: 0, SpeedMultiplier: 1}, rand.New(rand.NewSource(1)))
	car := NewCar(100, CarStartY)
	car.Speed = 5 // objects scroll 10px per tick

	// Off to the side so it scrolls past without colliding.
	f.objects = append(f.objects, &Object{Kind: KindObstacle, X: 600, Y: 545, Size: 10, SpeedMultiplier: 1})

	res := f.Update(car, 0)
	require.Zero(t, res.Passed, "not past the car yet")

	res = f.Update(car, 33*time.Millisecond)
	assert.Equal(t, 1, res.Passed, "crossed below the car")

	// Passing is counted once, then the object is culled off screen.
	total := 0
	for i := 2; f.Len() > 0 && i < 50; i++ {
		res = f.Update(car, time.Duration(i)*33*time.Millisecond)
		total += res.Passed
	}
	assert.Zero(t, total, "no double counting")
	assert.Zero(t, f.Len(), "culled after leaving the screen")
}

func TestField_CollisionRemovesObjectAndReportsKind(t *testing.T) {
	f := NewField(FieldConfig{ObstacleFrequency: 0, SpeedMultiplier: 1}, rand.New(rand.NewSource(1)))
	car := NewCar(CarStartX, CarStartY)
	car.Speed = 1

	f.objects = append(f.objects,
		&Object{Kind: KindObstacle, X: car.X, Y: car.Y, Size: 10, SpeedMultiplier: 1},
		&Object{Kind: KindShieldPower, X: car.X, Y: car.Y, Size: 10, SpeedMultiplier: 1},
	)

	res := f.Update(car, 0)

	assert.Equal(t, []Kind{KindObstacle, KindShieldPower}, res.Hits)
	assert.Zero(t, f.Len(), "hit objects are removed")
	assert.True(t, car.Flashing())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "obstacle", KindObstacle.String())
	assert.Equal(t, "boost", KindBoostPower.String())
	assert.Equal(t, "shield", KindShieldPower.String())
	assert.Equal(t, "multiplier", KindMultiplierPower.String())

	assert.False(t, KindObstacle.IsPowerUp())
	assert.True(t, KindMultiplierPower.IsPowerUp())
}

func TestField_Reset(t *testing.T) {
	f := NewField(alwaysSpawn(), rand.New(rand.NewSource(1)))
	car := NewCar(CarStartX, CarStartY)

	f.Update(car, 0)
	require.Positive(t, f.Len())

	f.Reset()
	assert.Zero(t, f.Len())

	// The spawn timer is cleared too, so the next tick may spawn
	// immediately.
	f.Update(car, time.Millisecond)
	assert.Equal(t, 1, f.Len())
}
