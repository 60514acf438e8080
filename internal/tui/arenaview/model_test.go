package arenaview

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/robogame/internal/arena"
)

func testSnapshot(tick int, fuel int) arena.Snapshot {
	return arena.Snapshot{
		Tick:   tick,
		Width:  4,
		Height: 3,
		Robots: []arena.RobotView{
			{Name: "alpha", Pos: arena.Point{X: 0, Y: 1}, Heading: "east", Fuel: fuel, LastAction: "move"},
			{Name: "beta", Pos: arena.Point{X: 3, Y: 1}, Heading: "west", Fuel: 100, Shield: true},
		},
		Barrels: []arena.Barrel{{Pos: arena.Point{X: 2, Y: 0}, Fuel: 40}},
	}
}

func TestFeed_DropsOldest(t *testing.T) {
	f := NewFeed(2)
	for i := 1; i <= 4; i++ {
		f.Observe(testSnapshot(i, 100))
	}

	for _, want := range []int{3, 4} {
		msg, ok := f.waitForActivity().(snapshotMsg)
		if !ok {
			t.Fatalf("expected snapshotMsg")
		}
		if msg.Tick != want {
			t.Errorf("tick = %d, want %d", msg.Tick, want)
		}
	}
}

func TestFeed_ResultAfterPendingSnapshots(t *testing.T) {
	f := NewFeed(4)
	f.Observe(testSnapshot(1, 100))
	f.Observe(testSnapshot(2, 100))
	f.Finish(Result{Winner: "alpha", Reason: "max-ticks", Ticks: 2})
	f.Finish(Result{Winner: "ignored"})

	var ticks []int
	for {
		switch msg := f.waitForActivity().(type) {
		case snapshotMsg:
			ticks = append(ticks, msg.Tick)
			continue
		case finishedMsg:
			if msg.Winner != "alpha" {
				t.Errorf("Winner = %s, want alpha", msg.Winner)
			}
		default:
			t.Fatalf("unexpected message %T", msg)
		}
		break
	}
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 2 {
		t.Errorf("ticks = %v, want [1 2]", ticks)
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_RendersSnapshot(t *testing.T) {
	m := New(NewFeed(1), "duel")
	if !strings.Contains(m.View(), "waiting for the first tick") {
		t.Errorf("initial view = %q", m.View())
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = update(t, m, snapshotMsg(testSnapshot(5, 87)))

	view := m.View()
	for _, want := range []string{"duel", "alpha", "beta", "fuel 87", "[shield]", "tick 5", ">", "<", "o"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "alpha:move fuel=87") {
		t.Errorf("log missing tick line:\n%s", view)
	}
}

func TestModel_PauseFreezesArena(t *testing.T) {
	m := New(NewFeed(1), "")
	m = update(t, m, snapshotMsg(testSnapshot(1, 99)))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = update(t, m, snapshotMsg(testSnapshot(2, 98)))

	if m.snap.Tick != 1 {
		t.Errorf("paused arena tick = %d, want 1", m.snap.Tick)
	}
	if len(m.history) != 2 {
		t.Errorf("history = %d lines, want 2", len(m.history))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = update(t, m, snapshotMsg(testSnapshot(3, 97)))
	if m.snap.Tick != 3 {
		t.Errorf("resumed arena tick = %d, want 3", m.snap.Tick)
	}
}

func TestModel_Finished(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"winner", Result{Winner: "alpha", Reason: "out-of-fuel", Ticks: 9}, "winner alpha (out-of-fuel after 9 ticks)"},
		{"draw", Result{Reason: "max-ticks", Ticks: 100}, "winner draw (max-ticks after 100 ticks)"},
		{"failure", Result{Err: errors.New("boom")}, "match failed: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(NewFeed(1), "")
			m = update(t, m, snapshotMsg(testSnapshot(1, 50)))
			m = update(t, m, finishedMsg(tt.result))

			res, done := m.Result()
			if !done || res.Reason != tt.result.Reason {
				t.Errorf("Result() = %+v, %v", res, done)
			}
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("view missing %q:\n%s", tt.want, m.View())
			}
		})
	}
}

func TestModel_Quit(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	}
	for _, k := range keys {
		_, cmd := New(NewFeed(1), "").Update(k)
		if cmd == nil {
			t.Fatalf("%v: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: command does not quit", k)
		}
	}
}
