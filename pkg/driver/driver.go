// Package driver runs the control loop that plays chess moves on the
// printer: it plans each move, animates the toolhead along the plan at a
// fixed tick rate, and mirrors every animation step to the transport.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gwillem/printerchess/pkg/anim"
	"github.com/gwillem/printerchess/pkg/board"
	"github.com/gwillem/printerchess/pkg/gcode"
	"github.com/gwillem/printerchess/pkg/plan"
	"github.com/gwillem/printerchess/pkg/printer"
)

// Magnet switching needs the piece to settle before the head moves on.
const (
	engageDwellMs  = 120
	releaseDwellMs = 100
)

// CapturedPiece records a piece parked in the graveyard.
type CapturedPiece struct {
	Piece board.Piece
	Slot  plan.Point
}

// State is a snapshot of the controller, published once per tick.
type State struct {
	Position  plan.Point
	Engaged   bool
	Busy      bool
	Trace     []plan.Point
	Snapshot  board.Snapshot
	Captured  []CapturedPiece
	Timestamp time.Time
	Error     error
}

// Config holds configuration for the controller.
type Config struct {
	Transport printer.Transport
	WorkArea  gcode.WorkArea
	Feed      int
	Hz        int
	Anim      anim.Config
}

// Controller owns the game state and the motion pipeline. One move runs
// at a time; Play rejects new moves until the current plan finishes.
type Controller struct {
	session   uuid.UUID
	transport printer.Transport
	workArea  gcode.WorkArea
	feed      int
	hz        int

	mu          sync.Mutex
	planner     *plan.Planner
	anim        *anim.Animator
	snap        board.Snapshot
	pending     *board.Move
	pendingCap  *CapturedPiece
	captured    []CapturedPiece
	lastTarget  *plan.Point
	lastEngaged bool
	running     bool
	failed      error

	stateCh chan State
	logCh   chan string
}

// NewController creates a controller. The transport is required; zero
// Hz, Feed and animation steps fall back to defaults.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("driver: transport required")
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	if cfg.Feed <= 0 {
		cfg.Feed = 12000
	}
	if cfg.Anim == (anim.Config{}) {
		cfg.Anim = anim.DefaultConfig()
	}
	a, err := anim.New(cfg.Anim)
	if err != nil {
		return nil, err
	}

	return &Controller{
		session:   uuid.New(),
		transport: cfg.Transport,
		workArea:  cfg.WorkArea,
		feed:      cfg.Feed,
		hz:        cfg.Hz,
		planner:   plan.NewPlanner(plan.UnitGeometry()),
		anim:      a,
		snap:      board.StartingPosition(),
		stateCh:   make(chan State, 1),
		logCh:     make(chan string, 10),
	}, nil
}

// Session returns the id tagged onto this controller's log output.
func (c *Controller) Session() string { return c.session.String() }

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State { return c.stateCh }

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string { return c.logCh }

// Hz returns the control frequency.
func (c *Controller) Hz() int { return c.hz }

// Board returns the current position.
func (c *Controller) Board() board.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Busy reports whether a move is currently executing.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anim.State() == anim.Running
}

// Play schedules a move in UCI notation. It fails while a plan is still
// running: the board state is only trustworthy at the disengaged rest
// between moves.
func (c *Controller) Play(uci string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failed != nil {
		return fmt.Errorf("driver: stopped after transport failure: %w", c.failed)
	}
	if c.anim.State() == anim.Running {
		return fmt.Errorf("driver: move in progress")
	}

	mv, err := c.snap.ParseUCI(uci)
	if err != nil {
		return err
	}
	res, err := c.planner.PlanMove(c.snap, mv)
	if err != nil {
		return err
	}

	pl, err := c.withApproach(res.Plan)
	if err != nil {
		return err
	}

	c.pending = &mv
	c.pendingCap = nil
	if res.Captured != nil {
		c.pendingCap = &CapturedPiece{Piece: res.Captured.Piece, Slot: res.Captured.Slot}
	}
	c.anim.Load(pl, c.anim.Position())
	c.log("playing %s (%d segments)", mv, len(pl))
	return nil
}

// withApproach prepends a disengaged run from the head's current resting
// point to the plan's first waypoint. It prefers the corridors, but with
// no piece on the magnet a straight line is always safe, so a walled-in
// start degrades to direct travel instead of failing.
func (c *Controller) withApproach(p plan.Plan) (plan.Plan, error) {
	first, ok := p.First()
	cur := c.anim.Position()
	if !ok || cur.Dist(first) < 1e-9 {
		return p, nil
	}
	approach, err := c.planner.Graph().RouteBetween(c.snap, cur, first)
	if errors.Is(err, plan.ErrPathNotFound) {
		approach = []plan.Point{cur, first}
	} else if err != nil {
		return nil, fmt.Errorf("driver: approach: %w", err)
	}
	return append(plan.Plan{{Waypoints: approach}}, p...), nil
}

// Reset restarts the game: fresh starting position, graveyard emptied.
// It fails while a move is executing.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.anim.State() == anim.Running {
		return fmt.Errorf("driver: move in progress")
	}
	c.snap = board.StartingPosition()
	c.captured = nil
	c.pending = nil
	c.pendingCap = nil
	c.planner.Reset()
	c.log("game reset")
	return nil
}

// Start homes the printer and runs the control loop until ctx ends.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("driver: already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("session %s: homing", c.session)
	if err := c.transport.Home(ctx); err != nil {
		c.mu.Lock()
		c.failed = err
		c.running = false
		c.mu.Unlock()
		return fmt.Errorf("driver: home: %w", err)
	}
	if err := c.transport.Magnet(ctx, false); err != nil {
		c.log("warning: magnet release failed: %v", err)
	}
	c.log("control loop at %d Hz", c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.step(ctx)
		}
	}
}

// step advances the animation one tick and mirrors the result to the
// transport: magnet flips first, then the next waypoint target, so a
// piece is never dragged or dropped mid-flight.
func (c *Controller) step(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failed != nil {
		return
	}
	if c.anim.State() != anim.Running {
		c.publish()
		return
	}

	c.anim.Tick()

	if engaged := c.anim.Engaged(); engaged != c.lastEngaged {
		dwell := releaseDwellMs
		if engaged {
			dwell = engageDwellMs
		}
		if err := c.transport.Magnet(ctx, engaged); err != nil {
			c.fail(err)
			return
		}
		if err := c.transport.Dwell(ctx, dwell); err != nil {
			c.fail(err)
			return
		}
		c.lastEngaged = engaged
	}

	if target, ok := c.anim.Target(); ok {
		if c.lastTarget == nil || *c.lastTarget != target {
			if err := c.transport.MoveTo(ctx, c.workArea.ToMM(target), c.feed); err != nil {
				c.fail(err)
				return
			}
			t := target
			c.lastTarget = &t
		}
	}

	if c.anim.Done() {
		c.finishMove()
	}
	c.publish()
}

// finishMove commits the pending move to the board once its plan has
// fully executed.
func (c *Controller) finishMove() {
	if c.pending == nil {
		return
	}
	c.snap = c.snap.Apply(*c.pending)
	if c.pendingCap != nil {
		c.captured = append(c.captured, *c.pendingCap)
		c.log("%s captured, parked at (%.2f, %.2f)",
			c.pendingCap.Piece.Type, c.pendingCap.Slot.X, c.pendingCap.Slot.Y)
	}
	c.log("%s done", c.pending)
	c.pending = nil
	c.pendingCap = nil
}

// fail latches a transport error. The loop keeps ticking but sends
// nothing further; a half-finished physical move needs human eyes before
// anything else happens.
func (c *Controller) fail(err error) {
	c.failed = err
	c.log("transport error, stopping: %v", err)
	c.publish()
}

func (c *Controller) publish() {
	captured := make([]CapturedPiece, len(c.captured))
	copy(captured, c.captured)
	trace := make([]plan.Point, len(c.anim.Trace()))
	copy(trace, c.anim.Trace())

	c.sendState(State{
		Position:  c.anim.Position(),
		Engaged:   c.anim.Engaged(),
		Busy:      c.anim.State() == anim.Running,
		Trace:     trace,
		Snapshot:  c.snap,
		Captured:  captured,
		Timestamp: time.Now(),
		Error:     c.failed,
	})
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	ctx := context.Background()
	if err := c.transport.Magnet(ctx, false); err != nil {
		c.log("warning: magnet release failed: %v", err)
	}
	if err := c.transport.Close(); err != nil {
		c.log("warning: transport close failed: %v", err)
	}
	c.log("stopped")
}
