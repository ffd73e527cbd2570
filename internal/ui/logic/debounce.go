package logic

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DebounceMsg is delivered when a scheduled quiet period ends
type DebounceMsg struct {
	Seq   uint64
	Query string
}

// Gate delays a query until no newer change arrives within the quiet period.
// Each Schedule supersedes every earlier one; only the latest tick is accepted.
type Gate struct {
	delay time.Duration
	seq   uint64
}

// NewGate creates a gate with the given quiet period
func NewGate(delay time.Duration) *Gate {
	return &Gate{delay: delay}
}

// Delay returns the quiet period
func (g *Gate) Delay() time.Duration {
	return g.delay
}

// Schedule records a change and returns the timer command for it
func (g *Gate) Schedule(query string) tea.Cmd {
	g.seq++
	seq := g.seq
	return tea.Tick(g.delay, func(time.Time) tea.Msg {
		return DebounceMsg{Seq: seq, Query: query}
	})
}

// Accept reports whether msg belongs to the latest Schedule
func (g *Gate) Accept(msg DebounceMsg) bool {
	return msg.Seq == g.seq
}

// Cancel discards whatever is scheduled
func (g *Gate) Cancel() {
	g.seq++
}
