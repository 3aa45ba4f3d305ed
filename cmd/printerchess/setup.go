package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.bug.st/serial"

	"github.com/gwillem/printerchess/pkg/printer"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("PrinterChess Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := printer.DefaultConfig()
	if existing, err := printer.LoadConfig(); err == nil {
		cfg = *existing
		fmt.Printf("Editing existing %s\n\n", printer.DefaultConfigFile)
	}

	boardSize := fmt.Sprintf("%g", cfg.WorkArea.Width)
	feed := strconv.Itoa(cfg.Feed)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Moonraker URL").
				Description("Where Klipper's API listens, e.g. http://voron.local:7125").
				Value(&cfg.MoonrakerURL),
			huh.NewInput().
				Title("Board size (mm)").
				Description("Side length of the 8x8 playing area on the bed").
				Value(&boardSize),
			huh.NewInput().
				Title("Feed rate (mm/min)").
				Description("Free travel speed; dragging runs at half this").
				Value(&feed),
			huh.NewSelect[string]().
				Title("Magnet driver").
				Description("How the piece magnet is actuated").
				Options(
					huh.NewOption("Electromagnet on a Klipper fan output", printer.DriverFan),
					huh.NewOption("Permanent magnet on a Feetech lift servo", printer.DriverServo),
				).
				Value(&cfg.MagnetDriver),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	if v, err := strconv.ParseFloat(boardSize, 64); err == nil && v > 0 {
		cfg.WorkArea.Width = v
		cfg.WorkArea.Height = v
	}
	if v, err := strconv.Atoi(feed); err == nil && v > 0 {
		cfg.Feed = v
	}

	switch cfg.MagnetDriver {
	case printer.DriverFan:
		fanForm := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Fan name").
				Description("The [fan_generic ...] section name in printer.cfg").
				Value(&cfg.MagnetFan),
		))
		if err := fanForm.Run(); err != nil {
			os.Exit(0)
		}
	case printer.DriverServo:
		if err := pickServo(&cfg); err != nil {
			return err
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", printer.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start a game with: " + headerStyle.Render("printerchess play"))
	return nil
}

func pickServo(cfg *printer.Config) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("list serial ports: %w", err)
	}

	var options []huh.Option[string]
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		options = append(options, huh.NewOption(port, port))
	}
	if len(options) == 0 {
		return fmt.Errorf("no serial ports found; connect the servo adapter and retry")
	}

	id := strconv.Itoa(max(cfg.ServoID, 1))
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Servo serial port").
			Options(options...).
			Value(&cfg.ServoPort),
		huh.NewInput().
			Title("Servo ID").
			Description("Bus id of the lift servo, usually 1").
			Value(&id),
	))
	if err := form.Run(); err != nil {
		os.Exit(0)
	}
	if v, err := strconv.Atoi(id); err == nil && v > 0 {
		cfg.ServoID = v
	}
	return nil
}
