package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturedrive/internal/analysis"
	"github.com/ayusman/gesturedrive/internal/capture"
	"github.com/ayusman/gesturedrive/internal/control"
	"github.com/ayusman/gesturedrive/internal/detector"
	"github.com/ayusman/gesturedrive/internal/sim"
)

// run is the driving loop. It manages the transitions between idle and
// active capture based on motion detection:
//
//  1. Start at the idle rate.
//  2. On motion, switch to the active rate and process frames fully.
//  3. After idleTimeout with no motion, drop back to the idle rate and
//     skip detection entirely.
func (a *App) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	activeMode := false
	lastMotion := time.Now()
	interval := time.Second / time.Duration(capture.IdleFPS)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			start := time.Now()
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			a.latency.Record(analysis.StageCapture, time.Since(start))

			capture.Mirror(frame)
			if a.config.Frames != nil {
				a.config.Frames.Update(frame)
			}

			moved, _ := a.motion.Detect(frame)
			if moved {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(capture.ActiveFPS)
					interval = time.Second / time.Duration(capture.ActiveFPS)
					ticker.Reset(interval)
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > idleTimeout {
				activeMode = false
				a.camera.SetFPS(capture.IdleFPS)
				interval = time.Second / time.Duration(capture.IdleFPS)
				ticker.Reset(interval)
				log.Println("Switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				continue
			}

			a.step(frame)
			frame.Close()
		}
	}
}

// step processes one already-mirrored frame while in active mode: detect
// the hand, derive the control state, advance the simulation, and fan the
// results out to audio, the remote link and telemetry. The caller owns
// the frame.
func (a *App) step(frame *gocv.Mat) {
	start := time.Now()
	hands, err := a.Detector().Detect(frame)
	a.latency.Record(analysis.StageDetect, time.Since(start))
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return
	}

	// Only the first hand drives; a second hand in frame is ignored.
	var points []detector.Point
	if len(hands) > 0 {
		points = hands[0].ToPixels(frame.Cols(), frame.Rows())
	}

	start = time.Now()
	state := a.pipeline.Process(points, frame.Cols(), frame.Rows())
	a.latency.Record(analysis.StageDecide, time.Since(start))

	a.mu.Lock()
	a.lastState = state
	a.mu.Unlock()

	now := time.Since(a.sessionStart)

	if a.gameOver {
		a.publish(state, now)
		return
	}

	if a.mode.TimeLimit > 0 && now >= a.mode.TimeLimit {
		a.gameOver = true
		a.playClip(a.engine.GameOver())
		if a.config.Remote != nil {
			a.config.Remote.Send(control.CommandStop)
		}
		log.Printf("time up, final score %.0f", a.score)
		a.publish(state, now)
		return
	}

	a.car.Update(state, now)
	a.applyTick(a.field.Update(a.car, now), now)

	_, _, brake := a.engine.Update(a.car.Speed, state.Braking, state.Boost)
	a.playClip(brake)

	if a.config.Remote != nil && state.StableCommand != control.CommandNone {
		start = time.Now()
		a.config.Remote.Send(state.StableCommand)
		a.latency.Record(analysis.StageActuate, time.Since(start))
	}

	a.publish(state, now)
}

// applyTick folds one field update into the run state: collisions,
// pickups and score.
func (a *App) applyTick(res sim.TickResult, now time.Duration) {
	for _, kind := range res.Hits {
		switch kind {
		case sim.KindObstacle:
			if a.shieldCharges > 0 {
				a.shieldCharges--
				log.Println("shield absorbed a collision")
				continue
			}
			a.collisions++
			a.playClip(a.engine.Collision())
		case sim.KindBoostPower:
			a.car.Speed = a.car.MaxSpeed
			a.playClip(a.engine.PowerUp())
		case sim.KindShieldPower:
			if a.shieldCharges < maxShieldCharges {
				a.shieldCharges++
			}
			a.playClip(a.engine.PowerUp())
		case sim.KindMultiplierPower:
			a.multiplierUntil = now + multiplierDuration
			a.playClip(a.engine.PowerUp())
		}
	}

	if res.Passed > 0 {
		points := float64(res.Passed) * a.mode.ScoreMultiplier
		if now < a.multiplierUntil {
			points *= multiplierFactor
		}
		// Score is also read from outside the loop, via Score().
		a.mu.Lock()
		a.score += points
		a.mu.Unlock()
		a.objectsPassed += res.Passed
	}
}

// publish pushes one telemetry snapshot, if a hub is attached.
func (a *App) publish(state control.ControlState, now time.Duration) {
	if a.config.Telemetry == nil {
		return
	}

	a.config.Telemetry.Publish(Snapshot{
		Control:        state,
		CarX:           a.car.X,
		Speed:          a.car.Speed,
		Score:          a.score,
		Collisions:     a.collisions,
		ObjectsPassed:  a.objectsPassed,
		ShieldCharges:  a.shieldCharges,
		Objects:        a.field.Objects(),
		Engine:         a.engine.State(),
		ElapsedSeconds: now.Seconds(),
		GameOver:       a.gameOver,
	})
}

// playClip forwards a one-shot PCM clip to the configured sink.
func (a *App) playClip(pcm []int16) {
	if a.config.AudioSink == nil || len(pcm) == 0 {
		return
	}
	a.config.AudioSink(pcm)
}
