// ============================================================================
// robogame - Robot Script Arena
// ============================================================================
//
// Package:     arenaview
// Description: Bubbletea model rendering a running match
// Author:      Mike Stoffels
// Created:     2026-10-09
// License:     MIT
// ============================================================================

package arenaview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/robogame/internal/arena"
)

// Model is the Bubbletea model for the arena viewer
type Model struct {
	// State
	width    int
	height   int
	ready    bool
	paused   bool
	showLog  bool
	finished bool
	result   Result

	// Components
	viewport viewport.Model
	spinner  spinner.Model

	// Arena state
	feed    *Feed
	title   string
	snap    arena.Snapshot
	seen    bool
	history []string
	maxLog  int
}

// New creates a viewer reading from feed
func New(feed *Feed, title string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		spinner: sp,
		feed:    feed,
		title:   title,
		showLog: true,
		maxLog:  500,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.feed.waitForActivity,
	)
}

// Result returns the match result once the match is over
func (m Model) Result() (Result, bool) {
	return m.result, m.finished
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logHeight := msg.Height - m.arenaHeight() - 6
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, logHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = logHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if !m.finished {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case snapshotMsg:
		if !m.paused || !m.seen {
			m.snap = arena.Snapshot(msg)
			m.seen = true
		}
		m.appendHistory(arena.Snapshot(msg))
		m.updateViewportContent()
		cmds = append(cmds, m.feed.waitForActivity)

	case finishedMsg:
		m.finished = true
		m.result = Result(msg)
		m.appendLine(m.resultLine())
		m.updateViewportContent()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit

		// Freeze the arena display, the log keeps running
		case "p", " ":
			m.paused = !m.paused
			return m, nil

		case "l":
			m.showLog = !m.showLog
			return m, nil
		}

	case tea.KeyUp:
		m.viewport.LineUp(1)
		return m, nil

	case tea.KeyDown:
		m.viewport.LineDown(1)
		return m, nil
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if !m.seen {
		b.WriteString(m.spinner.View() + " waiting for the first tick...")
		b.WriteString("\n")
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			ArenaBorderStyle.Render(m.renderArena()),
			"  ",
			m.renderRobots(),
		))
		b.WriteString("\n")
	}

	if m.showLog && m.ready {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := LogoStyle.Render("RSL Arena")
	if m.title != "" {
		title += "  " + HeaderStyle.Render(m.title)
	}
	return title
}

// renderArena draws the grid with colored robots and barrels
func (m Model) renderArena() string {
	s := m.snap
	var b strings.Builder
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			cell := s.CellAt(arena.Point{X: x, Y: y})
			switch {
			case cell.Robot >= 0:
				b.WriteString(robotStyle(cell.Robot).Render(string(arena.Glyph(s.Robots[cell.Robot].Heading))))
			case cell.Barrel:
				b.WriteString(BarrelStyle.Render("o"))
			default:
				b.WriteString(EmptyCellStyle.Render("."))
			}
			if x < s.Width-1 {
				b.WriteString(" ")
			}
		}
		if y < s.Height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderRobots lists fuel and counters per robot
func (m Model) renderRobots() string {
	var lines []string
	for i, r := range m.snap.Robots {
		name := robotStyle(i).Render(fmt.Sprintf("%c %s", arena.Glyph(r.Heading), r.Name))
		shield := ""
		if r.Shield {
			shield = ShieldStyle.Render(" [shield]")
		}
		lines = append(lines,
			name+shield,
			fmt.Sprintf("  fuel %d  pos %s", r.Fuel, r.Pos),
			fmt.Sprintf("  actions %d  bumps %d  rams %d", r.Actions, r.Bumps, r.Rams),
		)
	}
	lines = append(lines, "", fmt.Sprintf("barrels %d", len(m.snap.Barrels)))
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.finished && m.result.Err != nil:
		status = ErrorStyle.Render("match failed: " + m.result.Err.Error())
	case m.finished:
		status = WinnerStyle.Render(m.resultLine())
	case m.paused:
		status = "paused"
	default:
		status = m.spinner.View() + " running"
	}
	status = StatusBarStyle.Render(fmt.Sprintf("tick %d  ", m.snap.Tick)) + status
	return status + "\n" + HelpStyle.Render("p pause  l log  ↑/↓ scroll  q quit")
}

func (m Model) resultLine() string {
	if m.result.Err != nil {
		return "match failed: " + m.result.Err.Error()
	}
	winner := m.result.Winner
	if winner == "" {
		winner = "draw"
	}
	return fmt.Sprintf("winner %s (%s after %d ticks)", winner, m.result.Reason, m.result.Ticks)
}

// appendHistory logs the actions of one tick
func (m *Model) appendHistory(s arena.Snapshot) {
	var parts []string
	for _, r := range s.Robots {
		action := r.LastAction
		if action == "" {
			action = "-"
		}
		parts = append(parts, fmt.Sprintf("%s:%s fuel=%d", r.Name, action, r.Fuel))
	}
	m.appendLine(fmt.Sprintf("%4d  %s", s.Tick, strings.Join(parts, "  ")))
}

func (m *Model) appendLine(line string) {
	m.history = append(m.history, line)
	if len(m.history) > m.maxLog {
		m.history = m.history[len(m.history)-m.maxLog:]
	}
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) arenaHeight() int {
	if m.snap.Height > 0 {
		return m.snap.Height + 2
	}
	return 14
}

// Run shows the viewer until the user quits and returns the final model
func Run(feed *Feed, title string) (Model, error) {
	p := tea.NewProgram(New(feed, title), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Model{}, err
	}
	return final.(Model), nil
}
