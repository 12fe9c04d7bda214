// Package app runs the gesture driving loop: camera frames go through
// hand detection and the control pipeline, drive the simulated car and
// road objects, and fan out to the audio engine, the remote car link and
// the telemetry hub.
package app

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/ayusman/gesturedrive/internal/analysis"
	"github.com/ayusman/gesturedrive/internal/audio"
	"github.com/ayusman/gesturedrive/internal/capture"
	"github.com/ayusman/gesturedrive/internal/control"
	"github.com/ayusman/gesturedrive/internal/detector"
	"github.com/ayusman/gesturedrive/internal/sim"
	"github.com/ayusman/gesturedrive/internal/store"
)

// Loop timing and game tuning.
const (
	// idleTimeout is how long the scene must stay still before the loop
	// drops back to the idle capture rate.
	idleTimeout = 2 * time.Second

	// multiplierDuration is how long a score-multiplier pickup lasts.
	multiplierDuration = 10 * time.Second
	// multiplierFactor scales points while a multiplier pickup is active.
	multiplierFactor = 2.0
	// maxShieldCharges caps how many shield pickups can be banked.
	maxShieldCharges = 3
)

// Commander receives stabilized drive commands, normally the UDP link to
// the physical car.
type Commander interface {
	Send(cmd control.Command) bool
}

// Publisher receives one Snapshot per processed frame, normally the
// websocket telemetry hub.
type Publisher interface {
	Publish(v any)
}

// Config holds configuration options for the application.
type Config struct {
	// Store persists the session and its latency samples on Stop. Nil
	// disables persistence.
	Store *store.Store

	CameraID     int
	MotionThresh float64

	// ModeID selects the difficulty preset; empty means the default mode.
	ModeID string

	// Remote receives the stabilized drive commands. Nil means no car is
	// attached.
	Remote Commander

	// Telemetry receives a Snapshot per processed frame. Nil disables
	// publishing.
	Telemetry Publisher

	// AudioSink receives one-shot PCM clips (collision, pickup, brake,
	// game over). Nil discards them.
	AudioSink func(pcm []int16)

	// Frames receives a copy of every captured frame, for the MJPEG
	// preview stream. Nil disables publishing.
	Frames *capture.FrameBuffer

	// Muted silences the audio engine from the start.
	Muted bool
}

// Snapshot is one frame's worth of game telemetry.
type Snapshot struct {
	Control        control.ControlState `json:"control"`
	CarX           float64              `json:"car_x"`
	Speed          float64              `json:"speed"`
	Score          float64              `json:"score"`
	Collisions     int                  `json:"collisions"`
	ObjectsPassed  int                  `json:"objects_passed"`
	ShieldCharges  int                  `json:"shield_charges"`
	Objects        []sim.Object         `json:"objects"`
	Engine         audio.EngineState    `json:"engine"`
	ElapsedSeconds float64              `json:"elapsed_seconds"`
	GameOver       bool                 `json:"game_over"`
}

// App orchestrates the driving loop and owns its moving parts.
type App struct {
	config Config

	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector

	pipeline *control.Pipeline
	car      *sim.Car
	field    *sim.Field
	mode     sim.Mode
	engine   *audio.Manager
	latency  *analysis.Tracker

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	doneCh  chan struct{}

	sessionStart time.Time

	// Run state below is owned by the loop goroutine; Stop reads it only
	// after the loop has exited. score is additionally guarded by mu so
	// the tray can read it mid-run.
	score           float64
	collisions      int
	objectsPassed   int
	shieldCharges   int
	multiplierUntil time.Duration
	gameOver        bool

	// lastState is the most recent control state, for the tray display.
	lastState control.ControlState
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	modeID := config.ModeID
	if modeID == "" {
		modeID = sim.DefaultModeID
	}
	mode, err := sim.ModeByID(modeID)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		motion:   capture.NewMotionDetector(motionThreshold),
		pipeline: control.NewPipeline(control.DefaultConfig()),
		car:      sim.NewCar(sim.CarStartX, sim.CarStartY),
		field:    sim.NewField(mode.FieldConfig(), rng),
		mode:     mode,
		engine:   audio.NewManager(rng),
		latency:  analysis.NewTracker(0),
	}
	a.engine.SetMuted(config.Muted)

	// Try MediaPipe first, fall back to the mock detector.
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled enables or disables driving.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether driving is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera, normally before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start opens the camera and begins the driving loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.IdleFPS)

	// Fresh run state.
	a.car = sim.NewCar(sim.CarStartX, sim.CarStartY)
	a.field.Reset()
	a.pipeline.Reset()
	a.engine.Reset()
	a.latency.Reset()
	a.score = 0
	a.collisions = 0
	a.objectsPassed = 0
	a.shieldCharges = 0
	a.multiplierUntil = 0
	a.gameOver = false
	a.sessionStart = time.Now()

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.run(a.stopCh, a.doneCh)

	log.Printf("driving loop started in %s mode", a.mode.Name)
	return nil
}

// Stop halts the driving loop, persists the session and releases
// resources.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	doneCh := a.doneCh
	a.stopCh = nil
	a.doneCh = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-doneCh

	if r := a.latency.Report(); r.TotalMean > 0 {
		log.Printf("mean gesture-to-command latency %.1fms, bottleneck: %s (%.0f%%)",
			r.TotalMean*1000, r.Bottleneck, r.BottleneckShare)
	}

	a.persistSession()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("driving loop stopped")
}

// persistSession writes the finished run and its latency samples.
func (a *App) persistSession() {
	if a.config.Store == nil || a.sessionStart.IsZero() {
		return
	}

	sess := &store.Session{
		Mode:          a.mode.ID,
		Score:         a.score,
		Collisions:    a.collisions,
		ObjectsPassed: a.objectsPassed,
		Duration:      time.Since(a.sessionStart),
	}
	if err := a.config.Store.Sessions().Create(sess); err != nil {
		log.Printf("Error saving session: %v", err)
		return
	}
	if err := a.config.Store.Latencies().RecordBatch(sess.ID, a.latency.Samples()); err != nil {
		log.Printf("Error saving latency samples: %v", err)
	}

	log.Printf("session %s saved: score %.0f, %d collisions, %d objects passed",
		sess.ID, a.score, a.collisions, a.objectsPassed)
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Latency returns the latency tracker for the current run.
func (a *App) Latency() *analysis.Tracker {
	return a.latency
}

// Mode returns the active difficulty preset.
func (a *App) Mode() sim.Mode {
	return a.mode
}

// Audio returns the audio engine manager.
func (a *App) Audio() *audio.Manager {
	return a.engine
}

// LastState returns the most recent control state, for status displays.
func (a *App) LastState() control.ControlState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastState
}

// Score returns the current run's score, for status displays.
func (a *App) Score() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.score
}
