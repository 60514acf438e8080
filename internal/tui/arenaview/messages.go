// ============================================================================
// robogame - Robot Script Arena
// ============================================================================
//
// Package:     arenaview
// Description: Message types and the snapshot feed for the arena viewer
// Author:      Mike Stoffels
// Created:     2026-10-09
// License:     MIT
// ============================================================================

package arenaview

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/robogame/internal/arena"
)

// Result summarizes a finished match for display
type Result struct {
	Winner string
	Reason string
	Ticks  int
	Err    error
}

// Feed carries snapshots from a running match to the viewer. It satisfies
// game.Observer. When the viewer falls behind, older snapshots are dropped.
type Feed struct {
	snaps chan arena.Snapshot
	done  chan Result
	once  sync.Once
}

// NewFeed creates a feed buffering up to size snapshots
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 64
	}
	return &Feed{
		snaps: make(chan arena.Snapshot, size),
		done:  make(chan Result, 1),
	}
}

// Observe queues a snapshot
func (f *Feed) Observe(snap arena.Snapshot) {
	for {
		select {
		case f.snaps <- snap:
			return
		default:
		}
		// Drop the oldest
		select {
		case <-f.snaps:
		default:
		}
	}
}

// Finish delivers the match result. Only the first call counts.
func (f *Feed) Finish(res Result) {
	f.once.Do(func() {
		f.done <- res
	})
}

// Message types for tea.Cmd async operations

// snapshotMsg carries a new arena state
type snapshotMsg arena.Snapshot

// finishedMsg is sent once when the match is over
type finishedMsg Result

// waitForActivity blocks until the feed has something to show
func (f *Feed) waitForActivity() tea.Msg {
	select {
	case snap := <-f.snaps:
		return snapshotMsg(snap)
	case res := <-f.done:
		select {
		case snap := <-f.snaps:
			// Remaining states come before the result
			f.done <- res
			return snapshotMsg(snap)
		default:
			return finishedMsg(res)
		}
	}
}
