// Package anim walks a waypoint plan one tick at a time. The Animator is
// pure bookkeeping: it holds a toolhead position and advances it by a
// fixed step per tick, so the caller decides what a tick means (a wall
// clock for simulation, a printer poll loop for hardware).
package anim

import (
	"fmt"

	"github.com/gwillem/printerchess/pkg/plan"
)

// State is the animator lifecycle: Idle before the first Load, Running
// while a plan is in progress, Done once the last waypoint is reached.
type State int

const (
	Idle State = iota
	Running
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// traceEpsilon collapses waypoints closer than this into one trace entry.
const traceEpsilon = 1e-3

// Config sets the per-tick travel distances in board units. Engaged
// travel must be strictly slower than free travel: a dragged piece that
// moves too fast slips off the magnet.
type Config struct {
	TravelStep  float64
	EngagedStep float64
}

// DefaultConfig returns steps tuned for a smooth simulation at ~20 ticks
// per square of free travel.
func DefaultConfig() Config {
	return Config{TravelStep: 0.2, EngagedStep: 0.12}
}

func (c Config) validate() error {
	if c.EngagedStep <= 0 {
		return fmt.Errorf("anim: engaged step %v must be positive", c.EngagedStep)
	}
	if c.TravelStep <= c.EngagedStep {
		return fmt.Errorf("anim: travel step %v must exceed engaged step %v",
			c.TravelStep, c.EngagedStep)
	}
	return nil
}

// Animator advances a toolhead along a plan. Not safe for concurrent
// use; wrap it in the owning control loop's lock.
type Animator struct {
	cfg   Config
	state State

	plan  plan.Plan
	seg   int // current segment
	wp    int // next waypoint within the segment
	pos   plan.Point
	trace []plan.Point
}

// New returns an idle animator, or an error if the step configuration is
// unusable.
func New(cfg Config) (*Animator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Animator{cfg: cfg}, nil
}

// Load replaces the current plan and starts running. The toolhead jumps
// to start if given, otherwise to the plan's first waypoint. A plan with
// no waypoints completes immediately.
func (a *Animator) Load(p plan.Plan, start ...plan.Point) {
	a.plan = p
	a.seg, a.wp = 0, 0
	a.trace = a.trace[:0]
	a.state = Running

	if len(start) > 0 {
		a.pos = start[0]
	} else if first, ok := p.First(); ok {
		a.pos = first
	}
	a.skipEmpty()
}

// Tick advances the toolhead by one step. Within reach of the current
// waypoint it snaps onto it exactly; overshoot never happens and every
// waypoint is visited. Ticking an idle or finished animator is a no-op.
func (a *Animator) Tick() {
	if a.state != Running {
		return
	}

	target := a.plan[a.seg].Waypoints[a.wp]
	step := a.cfg.TravelStep
	if a.plan[a.seg].Engaged {
		step = a.cfg.EngagedStep
	}

	d := a.pos.Dist(target)
	if d > step {
		a.pos = plan.Point{
			X: a.pos.X + (target.X-a.pos.X)/d*step,
			Y: a.pos.Y + (target.Y-a.pos.Y)/d*step,
		}
		return
	}

	a.pos = target
	if a.plan[a.seg].Engaged {
		a.record(target)
	}
	a.wp++
	a.skipEmpty()
}

// skipEmpty moves the cursor past exhausted and empty segments, flipping
// to Done at the end of the plan.
func (a *Animator) skipEmpty() {
	for a.seg < len(a.plan) && a.wp >= len(a.plan[a.seg].Waypoints) {
		a.seg++
		a.wp = 0
	}
	if a.seg >= len(a.plan) {
		a.state = Done
	}
}

// record appends p to the engaged trace unless it duplicates the last
// entry.
func (a *Animator) record(p plan.Point) {
	if n := len(a.trace); n > 0 && a.trace[n-1].Dist(p) < traceEpsilon {
		return
	}
	a.trace = append(a.trace, p)
}

// State returns the lifecycle state.
func (a *Animator) State() State { return a.state }

// Done reports whether the loaded plan has finished.
func (a *Animator) Done() bool { return a.state == Done }

// Position returns the current toolhead position.
func (a *Animator) Position() plan.Point { return a.pos }

// Engaged reports whether the magnet is dragging a piece right now. An
// idle or finished animator is never engaged.
func (a *Animator) Engaged() bool {
	return a.state == Running && a.plan[a.seg].Engaged
}

// Target returns the waypoint the toolhead is heading for, if any.
func (a *Animator) Target() (plan.Point, bool) {
	if a.state != Running {
		return plan.Point{}, false
	}
	return a.plan[a.seg].Waypoints[a.wp], true
}

// Trace returns the waypoints visited while engaged, in visit order. The
// slice is reused across Load calls; callers that keep it must copy.
func (a *Animator) Trace() []plan.Point { return a.trace }
