// Package printer talks to the machine that carries the magnet: a
// Klipper printer reached through Moonraker, optionally with a hobby
// servo lifting the magnet, or a virtual recorder for dry runs.
package printer

import (
	"context"
	"sync"

	"github.com/gwillem/printerchess/pkg/gcode"
)

// Transport is the motion backend. Implementations must be safe to call
// from a single control loop goroutine; they need not be reentrant.
type Transport interface {
	// Home runs the startup sequence and leaves the head at the origin.
	Home(ctx context.Context) error
	// MoveTo issues a straight move at the given feed rate in mm/min.
	MoveTo(ctx context.Context, p gcode.MM, feed int) error
	// Magnet engages or releases the piece magnet.
	Magnet(ctx context.Context, on bool) error
	// Dwell pauses motion for ms milliseconds.
	Dwell(ctx context.Context, ms int) error
	Close() error
}

// Virtual is a Transport that only records what it is told. It backs
// --dry-run and the test suite.
type Virtual struct {
	mu       sync.Mutex
	commands []string
	pos      gcode.MM
	magnet   bool
	homed    bool
}

// NewVirtual returns an empty recorder.
func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Home(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.commands = append(v.commands, gcode.Home()...)
	v.pos = gcode.MM{}
	v.homed = true
	return nil
}

func (v *Virtual) MoveTo(ctx context.Context, p gcode.MM, feed int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.commands = append(v.commands, gcode.Rapid(p, feed))
	v.pos = p
	return nil
}

func (v *Virtual) Magnet(ctx context.Context, on bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	speed := 0.0
	if on {
		speed = 1.0
	}
	v.commands = append(v.commands, gcode.FanSpeed("magnet", speed))
	v.magnet = on
	return nil
}

func (v *Virtual) Dwell(ctx context.Context, ms int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.commands = append(v.commands, gcode.Dwell(ms))
	return nil
}

func (v *Virtual) Close() error { return nil }

// Commands returns a copy of everything recorded so far.
func (v *Virtual) Commands() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.commands))
	copy(out, v.commands)
	return out
}

// Position returns the last commanded position.
func (v *Virtual) Position() gcode.MM {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos
}

// MagnetOn returns the last commanded magnet state.
func (v *Virtual) MagnetOn() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.magnet
}

// Homed reports whether Home has been called.
func (v *Virtual) Homed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.homed
}
