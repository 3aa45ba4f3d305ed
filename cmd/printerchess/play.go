package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/printerchess/pkg/board"
	"github.com/gwillem/printerchess/pkg/driver"
	"github.com/gwillem/printerchess/pkg/printer"
)

type PlayCommand struct {
	Hz     int  `long:"hz" default:"30" description:"Control loop frequency"`
	DryRun bool `long:"dry-run" description:"Simulate only, send nothing to the printer"`
}

const (
	maxLogs    = 5
	chartYMax  = 12 // board is 0..8, graveyard sits right of it
	borderSize = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	lightSquare = lipgloss.NewStyle().Background(lipgloss.Color("180")).Foreground(lipgloss.Color("0"))
	darkSquare  = lipgloss.NewStyle().Background(lipgloss.Color("94")).Foreground(lipgloss.Color("0"))
	headSquare  = lipgloss.NewStyle().Background(lipgloss.Color("39")).Foreground(lipgloss.Color("0"))
	inputStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var pieceGlyphs = map[board.Color]map[board.PieceType]string{
	board.White: {
		board.King: "♔", board.Queen: "♕", board.Rook: "♖",
		board.Bishop: "♗", board.Knight: "♘", board.Pawn: "♙",
	},
	board.Black: {
		board.King: "♚", board.Queen: "♛", board.Rook: "♜",
		board.Bishop: "♝", board.Knight: "♞", board.Pawn: "♟",
	},
}

type playModel struct {
	ctrl     *driver.Controller
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	input    string
	state    driver.State
	quitting bool
}

func (m *playModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

type stateMsg driver.State
type logMsg string

func waitForState(ctrl *driver.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *driver.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func initialPlayModel(ctrl *driver.Controller) playModel {
	chart := streamlinechart.New(50, 12,
		streamlinechart.WithYRange(0, chartYMax),
	)
	xStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	yStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("201"))
	chart.SetDataSetStyles("x", runes.ThinLineStyle, xStyle)
	chart.SetDataSetStyles("y", runes.ThinLineStyle, yStyle)

	return playModel{
		ctrl:  ctrl,
		chart: &chart,
	}
}

func (m playModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Letters type moves, so only non-text keys control the app.
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.input != "" {
				if err := m.ctrl.Play(m.input); err != nil {
					m.addLog(errorStyle.Render(fmt.Sprintf("%s: %v", m.input, err)))
				}
				m.input = ""
			}
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if len(msg.String()) == 1 && len(m.input) < 5 {
				m.input += msg.String()
			}
		}

	case stateMsg:
		m.state = driver.State(msg)
		m.chart.PushDataSet("x", m.state.Position.X)
		m.chart.PushDataSet("y", m.state.Position.Y)
		m.chart.DrawAll()
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m playModel) View() string {
	if m.quitting {
		return "Game stopped.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("PrinterChess"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	status := "idle"
	if m.state.Busy {
		status = "moving"
		if m.state.Engaged {
			status = "dragging"
		}
	}
	sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%s]  head (%.2f, %.2f)",
		status, m.state.Position.X, m.state.Position.Y)))
	sb.WriteString("\n\n")

	boardView := m.renderBoard()
	chartView := chartStyle.Render(m.chart.View())
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boardView, "  ", chartView))
	sb.WriteString("\n")

	sb.WriteString(inputStyle.Render("move> " + m.input + "▏"))
	sb.WriteString(statusStyle.Render("   (UCI, e.g. e2e4 - esc quits)"))
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(maxInt(m.width-4, 40))
	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Type a move and press enter")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

// renderBoard draws the position with the head's square highlighted.
func (m playModel) renderBoard() string {
	headFile := int(m.state.Position.X)
	headRank := int(m.state.Position.Y)

	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("%d ", rank+1)))
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			glyph := " "
			if p := m.state.Snapshot.PieceAt(sq); !p.IsEmpty() {
				glyph = pieceGlyphs[p.Color][p.Type]
			}

			style := darkSquare
			if (file+rank)%2 == 1 {
				style = lightSquare
			}
			if m.state.Busy && file == headFile && rank == headRank {
				style = headSquare
			}
			sb.WriteString(style.Render(" " + glyph + " "))
		}
		if rank == 7 && len(m.state.Captured) > 0 {
			sb.WriteString(statusStyle.Render("  captured:"))
		}
		if i := 7 - rank; i >= 1 && i-1 < len(m.state.Captured) {
			cp := m.state.Captured[i-1]
			sb.WriteString("  " + pieceGlyphs[cp.Piece.Color][cp.Piece.Type])
		}
		sb.WriteString("\n")
	}
	sb.WriteString(statusStyle.Render("   a  b  c  d  e  f  g  h"))
	return sb.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (c *PlayCommand) Execute(args []string) error {
	var transport printer.Transport
	work := printer.DefaultConfig().WorkArea
	feed := printer.DefaultConfig().Feed

	if c.DryRun {
		transport = printer.NewVirtual()
	} else {
		cfg, err := printer.LoadConfig()
		if err != nil {
			return fmt.Errorf("no configuration, run 'printerchess setup' first: %w", err)
		}
		transport, err = cfg.NewTransport()
		if err != nil {
			return err
		}
		work = cfg.WorkArea
		feed = cfg.Feed
	}

	ctrl, err := driver.NewController(driver.Config{
		Transport: transport,
		WorkArea:  work,
		Feed:      feed,
		Hz:        c.Hz,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	p := tea.NewProgram(initialPlayModel(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
	return nil
}
