package audio

import (
	"math/rand"
	"sync"
)

// EngineState names the looping engine clip that should be playing.
type EngineState string

const (
	StateIdle    EngineState = "idle"
	StateRevving EngineState = "revving"
	StateBoost   EngineState = "boost"
	StateMuted   EngineState = "muted"
)

// revvingSpeedThreshold is the car speed above which the engine revs.
const revvingSpeedThreshold = 0.5

// Engine tone presets: frequency in Hz and volume per state.
var engineTones = map[EngineState]struct {
	freq   float64
	volume float64
}{
	StateIdle:    {220, 0.3},
	StateRevving: {330, 0.5},
	StateBoost:   {440, 0.8},
}

// Manager owns the synthesized clips and tracks which engine loop the car
// state calls for. It holds no audio device; callers feed the returned
// PCM to their sink of choice. Safe for concurrent use: the driving loop
// updates it while the tray toggles the mute.
type Manager struct {
	idle    []int16
	revving []int16
	boost   []int16

	collision []int16
	powerUp   []int16
	brakeFx   []int16
	gameOver  []int16

	mu    sync.Mutex
	state EngineState
	muted bool
}

// NewManager synthesizes all clips up front.
func NewManager(rng *rand.Rand) *Manager {
	s := NewSynthesizer(rng)
	return &Manager{
		idle:      s.EngineTone(engineTones[StateIdle].freq, engineTones[StateIdle].volume),
		revving:   s.EngineTone(engineTones[StateRevving].freq, engineTones[StateRevving].volume),
		boost:     s.EngineTone(engineTones[StateBoost].freq, engineTones[StateBoost].volume),
		collision: s.Collision(),
		powerUp:   s.PowerUp(),
		brakeFx:   s.Brake(),
		gameOver:  s.GameOver(),
		state:     StateIdle,
	}
}

// Update maps the car state onto an engine state: boost wins, then
// revving above the speed threshold, otherwise idle. It returns the state
// and whether the looping clip changed (i.e. playback should restart).
// While braking, the one-shot brake effect is returned as well.
func (m *Manager) Update(speed float64, braking, boost bool) (state EngineState, changed bool, brake []int16) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := StateIdle
	switch {
	case m.muted:
		next = StateMuted
	case boost:
		next = StateBoost
	case speed > revvingSpeedThreshold:
		next = StateRevving
	}

	changed = next != m.state
	m.state = next

	if braking && !m.muted {
		brake = m.brakeFx
	}
	return next, changed, brake
}

// Loop returns the PCM for the current engine state, nil when muted.
func (m *Manager) Loop() []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateIdle:
		return m.idle
	case StateRevving:
		return m.revving
	case StateBoost:
		return m.boost
	default:
		return nil
	}
}

// State returns the current engine state.
func (m *Manager) State() EngineState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Collision returns the crash effect, nil when muted.
func (m *Manager) Collision() []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted {
		return nil
	}
	return m.collision
}

// PowerUp returns the pickup effect, nil when muted.
func (m *Manager) PowerUp() []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted {
		return nil
	}
	return m.powerUp
}

// GameOver returns the end-of-run melody, nil when muted.
func (m *Manager) GameOver() []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted {
		return nil
	}
	return m.gameOver
}

// SetMuted toggles all output.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.muted = muted
	if muted {
		m.state = StateMuted
	} else if m.state == StateMuted {
		m.state = StateIdle
	}
}

// Muted reports the mute flag.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Reset returns the engine to idle, as at the start of a run.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.muted {
		m.state = StateMuted
		return
	}
	m.state = StateIdle
}
