package sim

import (
	"time"

	"github.com/ayusman/gesturedrive/internal/control"
)

// Car movement tuning.
const (
	DefaultMaxSpeed = 5.0
	acceleration    = 0.1
	deceleration    = 0.2
	handling        = 5.0

	// BoostDuration is how long a boost pins the car at max speed.
	BoostDuration = time.Second
	// BrakeDuration is the ramp from current speed down to a standstill.
	BrakeDuration = 1500 * time.Millisecond
	// collisionFlashDuration is how long the car renders in its hit color.
	collisionFlashDuration = 300 * time.Millisecond

	carWidth  = 30.0
	carHeight = 50.0
)

// Car is the player vehicle. Speed and lateral direction carry momentum so
// the car feels driven rather than teleported; the discrete boost and
// brake gestures run on their own timers.
type Car struct {
	X, Y      float64
	Speed     float64
	Direction float64
	MaxSpeed  float64

	boosting   bool
	boostStart time.Duration

	braking    bool
	brakeStart time.Duration
	brakeFrom  float64

	collisionFlash bool
	collisionAt    time.Duration
}

// NewCar places a car at the given position with the default top speed.
func NewCar(x, y float64) *Car {
	return &Car{X: x, Y: y, MaxSpeed: DefaultMaxSpeed}
}

// Update advances the car one tick. now is elapsed session time; the car
// keeps no clock of its own.
func (c *Car) Update(cs control.ControlState, now time.Duration) {
	// Boost wins over throttle but never over an active brake, and holds
	// max speed for a fixed duration once triggered.
	if cs.Boost && !c.braking {
		if !c.boosting {
			c.boosting = true
			c.boostStart = now
		}
		if now-c.boostStart < BoostDuration {
			c.Speed = c.MaxSpeed
		} else {
			c.boosting = false
		}
	}

	if cs.Braking && !c.boosting {
		if !c.braking {
			c.braking = true
			c.brakeStart = now
			c.brakeFrom = c.Speed
		}
		elapsed := now - c.brakeStart
		if elapsed >= BrakeDuration {
			c.Speed = 0
			c.braking = false
		} else {
			// Linear ramp from the speed at brake onset down to zero.
			c.Speed = c.brakeFrom * (1 - elapsed.Seconds()/BrakeDuration.Seconds())
		}
	} else if !c.boosting && !c.braking {
		target := cs.Throttle * c.MaxSpeed
		if target > c.Speed {
			c.Speed = min(target, c.Speed+acceleration)
		} else {
			c.Speed = max(target, c.Speed-deceleration)
		}
		c.Speed = max(0, min(c.MaxSpeed, c.Speed))
	}

	// Steering slews toward the commanded direction; a braking car keeps
	// its heading.
	if !c.braking {
		step := handling * 0.1
		switch {
		case cs.Steering > c.Direction:
			c.Direction = min(cs.Steering, c.Direction+step)
		case cs.Steering < c.Direction:
			c.Direction = max(cs.Steering, c.Direction-step)
		}
	}

	if c.Speed > 0 {
		c.X += c.Direction * c.Speed * 2
	}
	c.X = max(RoadLeft, min(RoadRight, c.X))

	if c.collisionFlash && now-c.collisionAt > collisionFlashDuration {
		c.collisionFlash = false
	}
}

// CollideWith checks the car against an object rectangle, starting the
// collision flash on a hit.
func (c *Car) CollideWith(r Rect, now time.Duration) bool {
	if !c.Rect().Intersects(r) {
		return false
	}
	c.collisionFlash = true
	c.collisionAt = now
	return true
}

// Rect returns the car's collision rectangle, centered on its position.
func (c *Car) Rect() Rect {
	return Rect{
		X: c.X - carWidth/2,
		Y: c.Y - carHeight/2,
		W: carWidth,
		H: carHeight,
	}
}

// Boosting reports whether a boost is currently holding the speed up.
func (c *Car) Boosting() bool { return c.boosting }

// Braking reports whether a brake ramp is in progress.
func (c *Car) Braking() bool { return c.braking }

// Flashing reports whether the car is in its post-collision flash.
func (c *Car) Flashing() bool { return c.collisionFlash }
