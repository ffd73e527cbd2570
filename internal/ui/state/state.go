package state

import (
	"moviesearch/internal/domain"
)

// Phase names the variant a SearchState is in
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchState is one of Idle, Loading, Loaded(items) or Failed(message).
// Items are only carried by Loaded and the message only by Failed.
type SearchState struct {
	phase   Phase
	items   []domain.ResultItem
	message string
}

// Idle is the state before any search and after an empty query
func Idle() SearchState { return SearchState{phase: PhaseIdle} }

// Loading is the state while the latest search is in flight
func Loading() SearchState { return SearchState{phase: PhaseLoading} }

// Loaded holds the items of the latest successful search
func Loaded(items []domain.ResultItem) SearchState {
	return SearchState{phase: PhaseLoaded, items: items}
}

// Failed holds the user-visible failure message
func Failed(message string) SearchState {
	return SearchState{phase: PhaseFailed, message: message}
}

// Phase returns the variant
func (s SearchState) Phase() Phase { return s.phase }

// Items returns the loaded items (nil unless Loaded)
func (s SearchState) Items() []domain.ResultItem { return s.items }

// Message returns the failure message ("" unless Failed)
func (s SearchState) Message() string { return s.message }

// Machine owns the displayed SearchState and the request sequence guard.
// Every dispatch takes a new sequence number; only the completion carrying
// the latest one may change the state.
type Machine struct {
	state  SearchState
	latest uint64
	query  string
}

// NewMachine creates a machine in the Idle state
func NewMachine() *Machine {
	return &Machine{state: Idle()}
}

// State returns the current state
func (m *Machine) State() SearchState {
	return m.state
}

// Latest returns the most recently issued sequence number
func (m *Machine) Latest() uint64 {
	return m.latest
}

// Query returns the query of the latest dispatch ("" after Clear)
func (m *Machine) Query() string {
	return m.query
}

// Begin starts a search for query: prior results and errors are dropped and
// the state becomes Loading. The returned sequence identifies the dispatch.
func (m *Machine) Begin(query string) uint64 {
	m.latest++
	m.query = query
	m.state = Loading()
	return m.latest
}

// Clear returns to Idle and invalidates any search still in flight
func (m *Machine) Clear() {
	m.latest++
	m.query = ""
	m.state = Idle()
}

// IsCurrent reports whether seq is the latest dispatch
func (m *Machine) IsCurrent(seq uint64) bool {
	return seq == m.latest && m.state.phase == PhaseLoading
}

// Resolve applies a successful completion. Stale completions are ignored and
// reported as false.
func (m *Machine) Resolve(seq uint64, items []domain.ResultItem) bool {
	if !m.IsCurrent(seq) {
		return false
	}
	m.state = Loaded(items)
	return true
}

// Fail applies a failed completion. Stale completions are ignored and
// reported as false.
func (m *Machine) Fail(seq uint64, message string) bool {
	if !m.IsCurrent(seq) {
		return false
	}
	m.state = Failed(message)
	return true
}
