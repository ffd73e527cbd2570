package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"moviesearch/internal/config"
	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/search"
	"moviesearch/internal/ui/logic"
	"moviesearch/internal/ui/state"
	"moviesearch/internal/ui/views"
)

// InputPlaceholder is shown in the empty search input
const InputPlaceholder = "Search movies..."

type focusArea int

const (
	focusInput focusArea = iota
	focusGrid
)

// Options holds the collaborators of the UI model
type Options struct {
	Config    *config.Config
	Bus       eventbus.EventBus
	Searcher  search.Searcher
	Projector *search.Projector
	Logger    *zap.Logger
	// DetailStyle is the glamour style for the hit detail page; empty means auto
	DetailStyle string
}

// Model represents the UI state
type Model struct {
	ctx       context.Context
	config    *config.Config
	bus       eventbus.EventBus
	searcher  search.Searcher
	projector *search.Projector
	logger    *zap.Logger

	width  int
	height int
	input  textinput.Model
	spin   spinner.Model
	help   help.Model
	keys   keyMap

	gate     *logic.Gate
	reveal   *logic.Reveal
	machine  *state.Machine
	renderer *views.Renderer
	details  *DetailRenderer
	pager    *PagerOps

	lastValue   string // input value that was last scheduled
	focus       focusArea
	cursor      int
	inPagerMode bool // tracks if we're currently in pager mode

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model. ctx bounds every search request.
func NewModel(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = InputPlaceholder
	ti.Prompt = "🔍 "
	ti.CharLimit = 256
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer := views.NewRenderer()
	sp.Style = renderer.Styles().StatusLoading

	details := NewDetailRenderer(opts.DetailStyle)

	return &Model{
		ctx:       ctx,
		config:    opts.Config,
		bus:       opts.Bus,
		searcher:  opts.Searcher,
		projector: opts.Projector,
		logger:    logger,
		input:     ti,
		spin:      sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
		gate:      logic.NewGate(opts.Config.UISettings.Debounce.Std()),
		reveal:    logic.NewReveal(opts.Config.UISettings.AnimationFrame.Std()),
		machine:   state.NewMachine(),
		renderer:  renderer,
		details:   details,
		pager:     NewPagerOps(nil, details),
	}
}

// SetProgram sets the tea.Program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p, m.details)
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current search state
func (m *Model) State() state.SearchState {
	return m.machine.State()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case logic.DebounceMsg:
		return m, m.handleDebounce(msg)

	case searchResultMsg:
		return m, m.handleSearchResult(msg)

	case logic.RevealMsg:
		return m, m.reveal.Advance(msg)

	case spinner.TickMsg:
		if m.machine.State().Phase() != state.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case hitOpenedMsg:
		m.inPagerMode = false
		m.publish(eventbus.HitOpenedEvent{ID: msg.id, Err: msg.err})
		return m, nil
	}

	// Blink and other input internals
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQ) {
		return tea.Quit
	}
	if m.inPagerMode {
		return nil
	}
	if m.focus == focusGrid {
		return m.handleGridKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Focus):
		if m.hasResults() {
			m.setFocus(focusGrid)
		}
		return nil

	case key.Matches(msg, m.keys.Clear):
		m.input.SetValue("")
		return m.inputChanged()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return tea.Batch(cmd, m.inputChanged())
}

// inputChanged schedules a debounced search when the value moved
func (m *Model) inputChanged() tea.Cmd {
	value := m.input.Value()
	if value == m.lastValue {
		return nil
	}
	m.lastValue = value
	return m.gate.Schedule(value)
}

func (m *Model) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	items := m.machine.State().Items()
	cols := views.GridColumns(m.width)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Back):
		m.setFocus(focusInput)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < len(items) {
			m.cursor += cols
		} else if last := len(items) - 1; m.cursor/cols < last/cols {
			m.cursor = last
		}

	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(items) {
			m.inPagerMode = true
			return m.pager.Open(items[m.cursor])
		}
	}
	return nil
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.keys.gridFocused = f == focusGrid
	if f == focusGrid {
		m.reveal.Finish()
		m.input.Blur()
		return
	}
	m.help.ShowAll = false
	m.input.Focus()
}

func (m *Model) hasResults() bool {
	s := m.machine.State()
	return s.Phase() == state.PhaseLoaded && len(s.Items()) > 0
}

func (m *Model) handleDebounce(msg logic.DebounceMsg) tea.Cmd {
	if !m.gate.Accept(msg) {
		return nil
	}

	m.reveal.Stop()
	m.cursor = 0
	m.setFocus(focusInput)

	query := strings.TrimSpace(msg.Query)
	if query == "" {
		m.machine.Clear()
		m.logger.Debug("query cleared", zap.Uint64("latest", m.machine.Latest()))
		m.publish(eventbus.SearchClearedEvent{})
		return nil
	}

	req := domain.SearchRequest{
		Seq:   m.machine.Begin(query),
		Index: m.config.IndexName,
		Query: query,
	}
	m.publish(eventbus.SearchDispatchedEvent{Request: req})

	return tea.Batch(m.spin.Tick, m.searchCmd(req))
}

// searchCmd runs one search off the update loop
func (m *Model) searchCmd(req domain.SearchRequest) tea.Cmd {
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		start := time.Now()
		hits, err := searcher.Search(ctx, req.Index, req.Query)
		return searchResultMsg{
			seq:   req.Seq,
			query: req.Query,
			hits:  hits,
			err:   err,
			took:  time.Since(start),
		}
	}
}

func (m *Model) handleSearchResult(msg searchResultMsg) tea.Cmd {
	req := domain.SearchRequest{Seq: msg.seq, Index: m.config.IndexName, Query: msg.query}

	if !m.machine.IsCurrent(msg.seq) {
		m.publish(eventbus.SearchDiscardedEvent{Request: req, Latest: m.machine.Latest()})
		return nil
	}

	if msg.err != nil {
		// The detailed error is logged by the bus subscribers
		m.machine.Fail(msg.seq, FailureMessage)
		m.publish(eventbus.SearchSettledEvent{Request: req, Duration: msg.took, Err: msg.err})
		return nil
	}

	items := m.projector.Project(msg.hits)
	m.machine.Resolve(msg.seq, items)
	m.publish(eventbus.SearchSettledEvent{Request: req, Hits: len(items), Duration: msg.took})
	return m.reveal.Start(len(items))
}

func (m *Model) publish(event eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}

// View renders the UI
func (m *Model) View() string {
	return m.renderer.Render(views.ViewState{
		Width:        m.width,
		Height:       m.height,
		IndexName:    m.config.IndexName,
		Input:        m.input.View(),
		Search:       m.machine.State(),
		Revealed:     m.reveal.Shown(),
		Revealing:    !m.reveal.Done(),
		Cursor:       m.cursor,
		GridFocused:  m.focus == focusGrid,
		Spinner:      m.spin.View(),
		Placeholders: m.config.UISettings.Placeholders,
		Help:         m.help.View(m.keys),
	})
}
