// Package remote sends drive commands to a physical RC car over UDP. The
// car firmware understands plain ASCII tokens (FORWARD, LEFT, RIGHT,
// STOP); the link keeps traffic sane with duplicate suppression, bounded
// retries and bounded reconnect attempts.
package remote

import (
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/ayusman/gesturedrive/internal/control"
)

// Defaults for the command link.
const (
	DefaultAddr = "192.168.4.1:100"

	// DedupeWindow suppresses resends of an unchanged command.
	DedupeWindow = 200 * time.Millisecond

	maxRetries         = 3
	maxConnectAttempts = 5
	sendQueueSize      = 16
)

// CommandStats counts delivery outcomes for one command.
type CommandStats struct {
	Success int
	Failure int
}

// sendRequest is one queued command with its own retry budget.
type sendRequest struct {
	cmd     control.Command
	retries int
}

// Config configures a Controller.
type Config struct {
	// Addr is the car's UDP endpoint. Empty means DefaultAddr.
	Addr string
	// Simulation logs commands instead of sending them, for running
	// without a car on the bench.
	Simulation bool
}

// Controller is the command link to the car. Send is safe for concurrent
// use; delivery happens on a background worker so a dead link never
// stalls the driving loop.
type Controller struct {
	cfg Config

	mu           sync.Mutex
	conn         net.Conn
	connected    bool
	connectTries int
	lastCmd      control.Command
	lastSent     time.Time
	stats        map[control.Command]*CommandStats
	closed       bool

	queue chan sendRequest
	done  chan struct{}

	// now is swappable in tests.
	now func() time.Time
}

// NewController creates the link. In simulation mode no socket is ever
// opened; otherwise the first delivery dials the car.
func NewController(cfg Config) *Controller {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	c := &Controller{
		cfg:   cfg,
		stats: make(map[control.Command]*CommandStats),
		queue: make(chan sendRequest, sendQueueSize),
		done:  make(chan struct{}),
		now:   time.Now,
	}

	if cfg.Simulation {
		log.Println("car controller in simulation mode, commands will be logged but not sent")
	} else {
		go c.worker()
	}

	return c
}

// Send queues one command for the car. It reports false when the command
// was suppressed as a duplicate inside the dedupe window, or dropped
// because the queue is full or the link closed.
func (c *Controller) Send(cmd control.Command) bool {
	if cmd == control.CommandNone {
		return false
	}
	cmd = normalize(cmd)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}

	now := c.now()
	if cmd == c.lastCmd && now.Sub(c.lastSent) < DedupeWindow {
		c.mu.Unlock()
		return false
	}
	c.lastCmd = cmd
	c.lastSent = now

	if c.cfg.Simulation {
		c.statFor(cmd).Success++
		c.mu.Unlock()
		log.Printf("simulation: command %s processed", cmd)
		return true
	}
	c.mu.Unlock()

	select {
	case c.queue <- sendRequest{cmd: cmd}:
		return true
	default:
		log.Printf("command queue full, dropping %s", cmd)
		return false
	}
}

// normalize maps anything outside the wire vocabulary onto the closest
// known command, defaulting to STOP. Unknown input must never leave the
// car driving.
func normalize(cmd control.Command) control.Command {
	switch cmd {
	case control.CommandForward, control.CommandLeft, control.CommandRight,
		control.CommandStop, control.CommandForwardBoost:
		return cmd
	}

	s := string(cmd)
	switch {
	case strings.Contains(s, "FORWARD"):
		return control.CommandForward
	case strings.Contains(s, "LEFT"):
		return control.CommandLeft
	case strings.Contains(s, "RIGHT"):
		return control.CommandRight
	default:
		log.Printf("unknown command %q, defaulting to STOP", s)
		return control.CommandStop
	}
}

// Stats returns a copy of the per-command delivery counters. Boost
// commands are tracked under FORWARD since that is what goes on the wire.
func (c *Controller) Stats() map[control.Command]CommandStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[control.Command]CommandStats, len(c.stats))
	for cmd, s := range c.stats {
		out[cmd] = *s
	}
	return out
}

// Close stops the worker and closes the socket.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Controller) worker() {
	for {
		select {
		case <-c.done:
			return
		case req := <-c.queue:
			// The boost command is a pipeline-level distinction; the car
			// only knows FORWARD.
			wire := req.cmd
			if wire == control.CommandForwardBoost {
				wire = control.CommandForward
			}

			err := c.deliver(wire)

			c.mu.Lock()
			if err == nil {
				c.statFor(req.cmd).Success++
				c.mu.Unlock()
				continue
			}
			c.statFor(req.cmd).Failure++
			c.mu.Unlock()

			log.Printf("send %s: %v", wire, err)

			// Each command carries its own retry budget; one failing
			// command must not eat into the next one's attempts.
			if req.retries < maxRetries {
				req.retries++
				select {
				case c.queue <- req:
				default:
				}
			}
		}
	}
}

// deliver writes one datagram, dialing the car first if needed.
func (c *Controller) deliver(cmd control.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || !c.connected {
		if err := c.connectLocked(); err != nil {
			return err
		}
	}

	if _, err := c.conn.Write([]byte(cmd)); err != nil {
		c.connected = false
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

func (c *Controller) connectLocked() error {
	if c.connectTries >= maxConnectAttempts {
		return fmt.Errorf("giving up after %d connection attempts", maxConnectAttempts)
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	conn, err := net.Dial("udp", c.cfg.Addr)
	if err != nil {
		c.connectTries++
		c.connected = false
		return fmt.Errorf("dial car at %s (attempt %d): %w", c.cfg.Addr, c.connectTries, err)
	}

	// UDP has no handshake; a ping at least exercises the route.
	if _, err := conn.Write([]byte("PING")); err != nil {
		c.connectTries++
		c.connected = false
		conn.Close()
		return fmt.Errorf("ping car at %s (attempt %d): %w", c.cfg.Addr, c.connectTries, err)
	}

	log.Printf("car controller ready, sending to %s", c.cfg.Addr)
	c.conn = conn
	c.connected = true
	c.connectTries = 0
	return nil
}

// statFor returns the live counter for a command, folding boost into
// FORWARD. Callers must hold mu.
func (c *Controller) statFor(cmd control.Command) *CommandStats {
	if cmd == control.CommandForwardBoost {
		cmd = control.CommandForward
	}
	s, ok := c.stats[cmd]
	if !ok {
		s = &CommandStats{}
		c.stats[cmd] = s
	}
	return s
}
