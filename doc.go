// Package printerchess moves real chess pieces with a 3D-printer gantry.
//
// A magnet toolhead rides an XY gantry under the board. Each logical chess
// move is turned into a collision-safe sequence of waypoints along the
// corridor lines between squares, plus magnet on/off events, and executed
// at a fixed tick rate against a Moonraker-controlled printer.
//
// # Usage
//
// Configure the printer connection and board work area:
//
//	printerchess setup
//
// Then play interactively (add --dry-run for the built-in simulator):
//
//	printerchess play
//
// Or turn a PGN file into a standalone G-code program:
//
//	printerchess export game.pgn -o game.gcode
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/printerchess: CLI with play, export, setup and bridge commands
//   - pkg/board: chess board snapshots and move metadata
//   - pkg/plan: corridor graph, A* routing, knight routes, move sequencing
//   - pkg/anim: tick-driven waypoint execution state machine
//   - pkg/gcode: board-unit to millimeter mapping and G-code text
//   - pkg/printer: Moonraker transport, servo magnet lift, simulator
//   - pkg/driver: fixed-rate control loop gluing planner, animator, printer
package printerchess
