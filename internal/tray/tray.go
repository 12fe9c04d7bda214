// Package tray provides the system tray interface for the GestureDrive
// driving controller.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray application: a driving on/off toggle, live
// gesture and score readouts, an audio mute and a dashboard link.
type Tray struct {
	onToggle    func(enabled bool)
	onMute      func(muted bool)
	onDashboard func()
	onQuit      func()
	enabled     bool
	muted       bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuGesture *systray.MenuItem
	menuScore   *systray.MenuItem
	menuMute    *systray.MenuItem
}

// New creates a new Tray instance with driving enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback for the driving on/off toggle.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMute sets the callback for the audio mute toggle.
func (t *Tray) OnMute(fn func(muted bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMute = fn
}

// OnDashboard sets the callback for the dashboard menu item.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("GestureDrive")
	systray.SetTooltip("GestureDrive hand-gesture car control")

	t.menuToggle = systray.AddMenuItem("● Driving", "Toggle gesture driving")
	systray.AddSeparator()

	t.menuGesture = systray.AddMenuItem("Gesture: none", "Last recognized gesture")
	t.menuGesture.Disable()
	t.menuScore = systray.AddMenuItem("Score: 0", "Current run score")
	t.menuScore.Disable()
	systray.AddSeparator()

	t.menuMute = systray.AddMenuItem("Mute Audio", "Silence the engine and effects")
	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the telemetry dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit GestureDrive")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuMute.ClickedCh:
				t.handleMute()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the driving toggle click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Driving")
	} else {
		t.menuToggle.SetTitle("○ Parked")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleMute handles the audio mute toggle click.
func (t *Tray) handleMute() {
	t.mu.Lock()
	t.muted = !t.muted
	muted := t.muted

	if muted {
		t.menuMute.SetTitle("Unmute Audio")
	} else {
		t.menuMute.SetTitle("Mute Audio")
	}

	callback := t.onMute
	t.mu.Unlock()

	if callback != nil {
		callback(muted)
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetGesture updates the gesture readout in the menu.
func (t *Tray) SetGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuGesture != nil {
		if name == "" {
			t.menuGesture.SetTitle("Gesture: none")
		} else {
			t.menuGesture.SetTitle("Gesture: " + name)
		}
	}
}

// SetScore updates the score readout in the menu.
func (t *Tray) SetScore(score float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuScore != nil {
		t.menuScore.SetTitle(fmt.Sprintf("Score: %.0f", score))
	}
}

// IsEnabled returns the current driving toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// IsMuted returns the current mute state.
func (t *Tray) IsMuted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.muted
}
