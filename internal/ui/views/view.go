package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moviesearch/internal/ui/state"
)

// User-visible texts
const (
	AppTitle       = "moviesearch"
	EmptyNotice    = "No results found"
	SearchingLabel = "Searching..."
)

// cardHeight is the rendered height of a card: title lines plus borders
const cardHeight = cardTitleLines + 2

// Screen is the one visual state chosen for the results area
type Screen int

const (
	ScreenEmpty Screen = iota
	ScreenPlaceholders
	ScreenError
	ScreenGrid
)

// SelectScreen maps a search state to exactly one screen
func SelectScreen(s state.SearchState) Screen {
	switch s.Phase() {
	case state.PhaseLoading:
		return ScreenPlaceholders
	case state.PhaseFailed:
		return ScreenError
	case state.PhaseLoaded:
		if len(s.Items()) == 0 {
			return ScreenEmpty
		}
		return ScreenGrid
	default:
		return ScreenEmpty
	}
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width        int
	Height       int
	IndexName    string
	Input        string // rendered text input
	Search       state.SearchState
	Revealed     int  // cards visible so far
	Revealing    bool // a reveal animation is in progress
	Cursor       int  // selected card
	GridFocused  bool
	Spinner      string // current spinner frame
	Placeholders int
	Help         string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	cards  *CardRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles: styles,
		cards:  NewCardRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(vs))
	content.WriteString("\n")
	content.WriteString(r.styles.Input.Render(vs.Input))
	content.WriteString("\n")

	headerLines := strings.Count(content.String(), "\n")
	content.WriteString(r.RenderResults(vs, r.availableRows(vs, headerLines)))

	if vs.Help != "" {
		currentLines := strings.Count(content.String(), "\n") + 1
		// Account for container padding (1 top, 1 bottom)
		availableLines := vs.Height - 2
		if availableLines <= 0 {
			availableLines = 22
		}
		if pad := availableLines - currentLines - 1; pad > 0 {
			content.WriteString(strings.Repeat("\n", pad))
		}
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(vs.Help))
	}

	return r.styles.Main.Render(content.String())
}

// RenderResults draws the results area for the selected screen.
// maxRows limits how many card rows are drawn (0 means no limit).
func (r *Renderer) RenderResults(vs ViewState, maxRows int) string {
	width := contentWidth(vs.Width)

	switch SelectScreen(vs.Search) {
	case ScreenPlaceholders:
		n := vs.Placeholders
		if n < 1 {
			n = 1
		}
		cards := make([]string, n)
		for i := range cards {
			cards[i] = r.cards.RenderPlaceholder()
		}
		status := r.styles.StatusLoading.Render(strings.TrimSpace(vs.Spinner + " " + SearchingLabel))
		return status + "\n" + r.cards.Grid(cards, width)

	case ScreenError:
		return r.styles.StatusError.Render("✗ " + vs.Search.Message())

	case ScreenGrid:
		return r.renderGrid(vs, width, maxRows)

	default:
		return r.styles.Empty.Render(EmptyNotice)
	}
}

func (r *Renderer) renderGrid(vs ViewState, width, maxRows int) string {
	items := vs.Search.Items()
	shown := vs.Revealed
	if !vs.Revealing || shown > len(items) {
		shown = len(items)
	}

	cols := Columns(width)
	firstRow := 0
	if maxRows > 0 && vs.GridFocused {
		if cursorRow := vs.Cursor / cols; cursorRow >= maxRows {
			firstRow = cursorRow - maxRows + 1
		}
	}
	start := firstRow * cols
	end := shown
	if start > end {
		// cursor ran ahead of the reveal; keep the rows it has reached so far
		start = 0
		if maxRows > 0 && end > maxRows*cols {
			start = ((end-1)/cols - maxRows + 1) * cols
		}
	}
	if maxRows > 0 && start+maxRows*cols < end {
		end = start + maxRows*cols
	}

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := vs.GridFocused && i == vs.Cursor
		fading := vs.Revealing && i == shown-1
		cards = append(cards, r.cards.RenderCard(items[i], selected, fading))
	}

	summary := fmt.Sprintf("%d results", len(items))
	if len(items) == 1 {
		summary = "1 result"
	}
	if start > 0 || (end < len(items) && !vs.Revealing) {
		summary += fmt.Sprintf(" (showing %d-%d)", start+1, end)
	}
	return r.styles.Dim.Render(summary) + "\n" + r.cards.Grid(cards, width)
}

func (r *Renderer) renderTitle(vs ViewState) string {
	logo := r.styles.Title.Render(AppTitle)
	if vs.IndexName == "" {
		return logo
	}
	right := r.styles.Dim.Render("index: " + vs.IndexName)
	pad := contentWidth(vs.Width) - lipgloss.Width(logo) - lipgloss.Width(right)
	if pad < 2 {
		pad = 2
	}
	return logo + strings.Repeat(" ", pad) + right
}

// availableRows returns how many card rows fit under the header
func (r *Renderer) availableRows(vs ViewState, headerLines int) int {
	if vs.Height <= 0 {
		return 0
	}
	// padding (2), summary line (1), help line and its spacer (2)
	free := vs.Height - 2 - headerLines - 1 - 2
	rows := free / cardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

func contentWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	// Main style horizontal padding
	return width - 4
}

// GridColumns returns the number of card columns for a terminal width
func GridColumns(width int) int {
	return Columns(contentWidth(width))
}
