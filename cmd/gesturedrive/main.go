package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ayusman/gesturedrive/internal/app"
	"github.com/ayusman/gesturedrive/internal/capture"
	"github.com/ayusman/gesturedrive/internal/remote"
	"github.com/ayusman/gesturedrive/internal/server"
	"github.com/ayusman/gesturedrive/internal/sim"
	"github.com/ayusman/gesturedrive/internal/store"
	"github.com/ayusman/gesturedrive/internal/tray"
)

func main() {
	fmt.Println("GestureDrive - Hand Gesture Car Control")

	// A .env next to the binary is optional; the environment wins.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".gesturedrive")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dbDir, "gesturedrive.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cameraID := envInt("GESTUREDRIVE_CAMERA_ID", 0)
	camera := capture.NewCamera(cameraID)

	// The driving loop is the camera's only reader; the preview stream is
	// served from this buffer of its latest frame.
	frames := capture.NewFrameBuffer()
	defer frames.Close()

	car := remote.NewController(remote.Config{
		Addr:       os.Getenv("GESTUREDRIVE_CAR_ADDR"),
		Simulation: envBool("GESTUREDRIVE_SIMULATION", true),
	})
	defer car.Close()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Frames:    frames,
	})

	application, err := app.New(app.Config{
		Store:     st,
		CameraID:  cameraID,
		ModeID:    modeID(st),
		Remote:    car,
		Telemetry: srv.Telemetry(),
		Frames:    frames,
		Muted:     envBool("GESTUREDRIVE_MUTED", false),
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	application.SetCamera(camera)

	addr := envString("GESTUREDRIVE_LISTEN_ADDR", ":8080")
	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	application.SetEnabled(true)
	if err := application.Start(); err != nil {
		if devices := capture.ListDevices(); len(devices) > 0 {
			log.Printf("Available camera devices: %v", devices)
		}
		log.Fatalf("Failed to start driving loop: %v", err)
	}

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})
	t.OnMute(func(muted bool) {
		application.Audio().SetMuted(muted)
		if err := st.Settings().Set("muted", strconv.FormatBool(muted)); err != nil {
			log.Printf("Failed to save mute setting: %v", err)
		}
	})
	t.OnDashboard(func() {
		fmt.Printf("Dashboard: http://localhost%s\n", addr)
	})

	// Keep the tray's gesture and score items current while driving.
	refreshDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-refreshDone:
				return
			case <-ticker.C:
				t.SetGesture(application.LastState().GestureName)
				t.SetScore(application.Score())
			}
		}
	}()

	t.OnQuit(func() {
		close(refreshDone)
		application.Stop()
	})

	// Blocks until the tray quits.
	t.Run()
}

// modeID resolves the game mode: environment first, then the saved
// setting, then the default.
func modeID(st *store.Store) string {
	if id := os.Getenv("GESTUREDRIVE_MODE"); id != "" {
		return id
	}

	id, err := st.Settings().Get("mode")
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to read mode setting: %v", err)
		}
		return sim.DefaultModeID
	}
	return id
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.gesturedrive/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".gesturedrive", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
