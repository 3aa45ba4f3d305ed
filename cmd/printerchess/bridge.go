package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gwillem/printerchess/pkg/board"
	"github.com/gwillem/printerchess/pkg/printer"
)

// The bridge commands talk to the printer directly, without the planner:
// handy for aligning the board, testing the magnet, and scripting from a
// chess GUI that does its own bookkeeping.

func loadPrinter() (*printer.Config, printer.Transport) {
	cfg, err := printer.LoadConfig()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "No configuration found. Run 'printerchess setup' first.")
		} else {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		}
		os.Exit(1)
	}
	tr, err := cfg.NewTransport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting: %v\n", err)
		os.Exit(1)
	}
	return cfg, tr
}

type HomeCommand struct{}

func (c *HomeCommand) Execute(args []string) error {
	_, tr := loadPrinter()
	defer tr.Close()
	return tr.Home(context.Background())
}

type GotoCommand struct {
	Args struct {
		Square string `positional-arg-name:"square" description:"Target square, e.g. e4"`
	} `positional-args:"yes" required:"yes"`
}

func (c *GotoCommand) Execute(args []string) error {
	sq, err := board.ParseSquare(c.Args.Square)
	if err != nil {
		return err
	}
	cfg, tr := loadPrinter()
	defer tr.Close()
	return tr.MoveTo(context.Background(), cfg.WorkArea.SquareCenter(sq), cfg.Feed)
}

type MagnetCommand struct {
	Args struct {
		State string `positional-arg-name:"state" choice:"on" choice:"off"`
	} `positional-args:"yes" required:"yes"`
}

func (c *MagnetCommand) Execute(args []string) error {
	_, tr := loadPrinter()
	defer tr.Close()
	return tr.Magnet(context.Background(), c.Args.State == "on")
}

type MoveCommand struct {
	Args struct {
		From string `positional-arg-name:"from"`
		To   string `positional-arg-name:"to"`
	} `positional-args:"yes" required:"yes"`
}

// Execute drags a piece in a straight line. The caller is responsible
// for the route being clear; use 'play' for planned moves.
func (c *MoveCommand) Execute(args []string) error {
	from, err := board.ParseSquare(c.Args.From)
	if err != nil {
		return err
	}
	to, err := board.ParseSquare(c.Args.To)
	if err != nil {
		return err
	}

	cfg, tr := loadPrinter()
	defer tr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	steps := []func() error{
		func() error { return tr.MoveTo(ctx, cfg.WorkArea.SquareCenter(from), cfg.Feed) },
		func() error { return tr.Magnet(ctx, true) },
		func() error { return tr.Dwell(ctx, 120) },
		func() error { return tr.MoveTo(ctx, cfg.WorkArea.SquareCenter(to), cfg.Feed/2) },
		func() error { return tr.Magnet(ctx, false) },
		func() error { return tr.Dwell(ctx, 100) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	fmt.Printf("Moved %s to %s\n", from, to)
	return nil
}
