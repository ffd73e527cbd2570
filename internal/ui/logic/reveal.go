package logic

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RevealMsg advances a staggered card reveal by one frame
type RevealMsg struct {
	Gen uint64
}

// Reveal shows result cards one frame at a time
type Reveal struct {
	frame time.Duration
	gen   uint64
	total int
	shown int
}

// NewReveal creates a reveal ticking every frame
func NewReveal(frame time.Duration) *Reveal {
	return &Reveal{frame: frame}
}

// Start begins revealing total cards; any reveal in progress is abandoned
func (r *Reveal) Start(total int) tea.Cmd {
	r.gen++
	r.total = total
	r.shown = 0
	if total == 0 {
		return nil
	}
	return r.tick()
}

// Stop abandons the reveal
func (r *Reveal) Stop() {
	r.gen++
	r.total = 0
	r.shown = 0
}

// Finish shows every card at once and drops any pending frames
func (r *Reveal) Finish() {
	r.gen++
	r.shown = r.total
}

// Advance handles one frame; it returns the next tick while cards remain
func (r *Reveal) Advance(msg RevealMsg) tea.Cmd {
	if msg.Gen != r.gen || r.shown >= r.total {
		return nil
	}
	r.shown++
	if r.shown >= r.total {
		return nil
	}
	return r.tick()
}

// Shown returns how many cards are visible
func (r *Reveal) Shown() int {
	return r.shown
}

// Done reports whether every card is visible
func (r *Reveal) Done() bool {
	return r.shown >= r.total
}

func (r *Reveal) tick() tea.Cmd {
	gen := r.gen
	return tea.Tick(r.frame, func(time.Time) tea.Msg {
		return RevealMsg{Gen: gen}
	})
}
