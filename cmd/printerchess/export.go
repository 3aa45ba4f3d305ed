package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/freeeve/pgn/v3"

	"github.com/gwillem/printerchess/pkg/board"
	"github.com/gwillem/printerchess/pkg/gcode"
	"github.com/gwillem/printerchess/pkg/plan"
	"github.com/gwillem/printerchess/pkg/printer"
)

type ExportCommand struct {
	Output string `short:"o" long:"output" default:"game.gcode" description:"Output g-code file"`
	Feed   int    `long:"feed" default:"12000" description:"Free travel feed rate (mm/min)"`
	Fan    string `long:"fan" default:"magnet" description:"Klipper fan name driving the magnet"`
	Args   struct {
		PGN string `positional-arg-name:"game.pgn"`
	} `positional-args:"yes" required:"yes"`
}

// Execute replays the first game of the PGN file through the planner and
// writes the whole choreography as one g-code program.
func (c *ExportCommand) Execute(args []string) error {
	parser := pgn.Games(c.Args.PGN)
	var game *pgn.Game
	for g := range parser.Games {
		game = g
		break
	}
	parser.Stop()
	if game == nil {
		return fmt.Errorf("no games in %s", c.Args.PGN)
	}

	work := gcode.DefaultWorkArea()
	if cfg, err := printer.LoadConfig(); err == nil {
		work = cfg.WorkArea
	}

	ch := newChoreography(work, c.Fan, c.Feed)
	for i, pmv := range game.Moves {
		mv, err := fromPGN(ch.snap, pmv)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		if err := ch.Add(mv); err != nil {
			return fmt.Errorf("move %d (%s): %w", i+1, mv, err)
		}
	}

	var sb strings.Builder
	sb.WriteString("; " + game.Tags["White"] + " vs " + game.Tags["Black"] +
		" (" + game.Tags["Result"] + ")\n")
	for _, line := range ch.Finish() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(c.Output, []byte(sb.String()), 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %d moves to %s\n", len(game.Moves), c.Output)
	return nil
}

// choreography accumulates the g-code program for a replayed game. It
// tracks where the head comes to rest after each move, so every plan is
// preceded by a disengaged approach; the magnet only ever engages once
// the head stands over the piece it is about to drag.
type choreography struct {
	work    gcode.WorkArea
	fan     string
	feed    int
	planner *plan.Planner
	snap    board.Snapshot
	head    *plan.Point
	lines   []string
}

func newChoreography(work gcode.WorkArea, fan string, feed int) *choreography {
	c := &choreography{
		work:    work,
		fan:     fan,
		feed:    feed,
		planner: plan.NewPlanner(plan.UnitGeometry()),
		snap:    board.StartingPosition(),
	}
	c.emit(gcode.Home()...)
	c.emit(gcode.FanSpeed(fan, 0))
	return c
}

func (c *choreography) emit(lines ...string) {
	c.lines = append(c.lines, lines...)
}

// Add plans mv against the current position and appends its g-code.
// Before any segment that follows a disengaged stretch, the head first
// travels to the segment's start, so the magnet never switches on away
// from the piece it is about to lift. That covers the gap between moves
// and the rook-drop to king-pickup hop inside a castling plan.
func (c *choreography) Add(mv board.Move) error {
	res, err := c.planner.PlanMove(c.snap, mv)
	if err != nil {
		return err
	}
	c.emit("; " + mv.String())

	engaged := false
	for _, seg := range res.Plan {
		if len(seg.Waypoints) > 0 && !engaged {
			c.approach(seg.Waypoints[0])
		}
		if seg.Engaged != engaged {
			engaged = seg.Engaged
			if engaged {
				c.emit(gcode.FanSpeed(c.fan, 1), gcode.Dwell(120))
			} else {
				c.emit(gcode.FanSpeed(c.fan, 0), gcode.Dwell(100))
			}
		}
		feed := c.feed
		if seg.Engaged {
			feed = c.feed / 2
		}
		for _, p := range seg.Waypoints {
			c.emit(gcode.Rapid(c.work.ToMM(p), feed))
			c.setHead(p)
		}
	}

	c.snap = c.snap.Apply(mv)
	return nil
}

// approach travels, magnet off, from the head's resting point to pt.
func (c *choreography) approach(pt plan.Point) {
	if c.head == nil {
		// Fresh from homing; the head sits at the machine origin.
		c.emit(gcode.Rapid(c.work.ToMM(pt), c.feed))
		c.setHead(pt)
		return
	}
	if c.head.Dist(pt) < 1e-9 {
		return
	}
	route, err := c.planner.Graph().RouteBetween(c.snap, *c.head, pt)
	if err != nil {
		// Nothing on the magnet, so a straight hop is safe.
		route = []plan.Point{pt}
	}
	for _, p := range route {
		if c.head.Dist(p) < 1e-9 {
			continue
		}
		c.emit(gcode.Rapid(c.work.ToMM(p), c.feed))
		c.setHead(p)
	}
}

func (c *choreography) setHead(p plan.Point) {
	q := p
	c.head = &q
}

// Finish parks the magnet off, releases the motors and returns the
// program lines.
func (c *choreography) Finish() []string {
	c.emit(gcode.FanSpeed(c.fan, 0), "M18")
	return c.lines
}

// fromPGN converts a parsed PGN move to the board's move type, deriving
// capture and castling metadata from the position.
func fromPGN(snap board.Snapshot, mv pgn.Mv) (board.Move, error) {
	from := board.Square(mv.From)
	to := board.Square(mv.To)
	if !from.Valid() || !to.Valid() {
		return board.Move{}, fmt.Errorf("bad squares %d-%d", mv.From, mv.To)
	}

	var promo board.PieceType
	switch mv.Promo {
	case pgn.PromoQueen:
		promo = board.Queen
	case pgn.PromoRook:
		promo = board.Rook
	case pgn.PromoBishop:
		promo = board.Bishop
	case pgn.PromoKnight:
		promo = board.Knight
	}
	return snap.Derive(from, to, promo)
}
