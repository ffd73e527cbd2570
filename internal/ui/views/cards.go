package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"moviesearch/internal/domain"
)

const (
	// CardWidth is the inner text width of a card
	CardWidth = 24
	// cardTitleLines is how many wrapped title lines a card shows
	cardTitleLines = 2
	cardGap        = 1
)

// Columns returns how many cards fit side by side in width
func Columns(width int) int {
	// card outer width = text + padding (2) + border (2)
	outer := CardWidth + 4
	if width <= 0 {
		width = 80
	}
	cols := (width + cardGap) / (outer + cardGap)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// CardRenderer draws result and placeholder cards
type CardRenderer struct {
	styles *Styles
}

// NewCardRenderer creates a new card renderer
func NewCardRenderer(styles *Styles) *CardRenderer {
	return &CardRenderer{styles: styles}
}

// RenderCard draws one result card
func (r *CardRenderer) RenderCard(item domain.ResultItem, selected, fading bool) string {
	style := r.styles.Card
	switch {
	case selected:
		style = r.styles.CardSelected
	case fading:
		style = r.styles.CardFading
	}
	return style.Render(r.styles.CardTitle.Render(wrapTitle(item.Title)))
}

// RenderPlaceholder draws one loading skeleton card
func (r *CardRenderer) RenderPlaceholder() string {
	bars := []string{
		strings.Repeat("░", CardWidth),
		strings.Repeat("░", CardWidth*2/3) + strings.Repeat(" ", CardWidth-CardWidth*2/3),
	}
	return r.styles.Placeholder.Render(r.styles.PlaceholderBar.Render(strings.Join(bars, "\n")))
}

// Grid lays cards out row by row
func (r *CardRenderer) Grid(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	cols := Columns(width)
	gap := strings.Repeat(" ", cardGap)

	rows := make([]string, 0, (len(cards)+cols-1)/cols)
	for start := 0; start < len(cards); start += cols {
		end := start + cols
		if end > len(cards) {
			end = len(cards)
		}
		row := make([]string, 0, 2*(end-start))
		for i, c := range cards[start:end] {
			if i > 0 {
				row = append(row, gap)
			}
			row = append(row, c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// wrapTitle wraps a title to the card width, keeping a fixed line count so
// cards in a row line up
func wrapTitle(title string) string {
	wrapped := lipgloss.NewStyle().Width(CardWidth).Render(title)
	lines := strings.Split(wrapped, "\n")
	if len(lines) > cardTitleLines {
		lines = lines[:cardTitleLines]
		last := strings.TrimRight(lines[cardTitleLines-1], " ")
		lines[cardTitleLines-1] = ansi.Truncate(last, CardWidth-1, "") + "…"
	}
	for len(lines) < cardTitleLines {
		lines = append(lines, "")
	}
	for i, l := range lines {
		if pad := CardWidth - lipgloss.Width(l); pad > 0 {
			lines[i] = l + strings.Repeat(" ", pad)
		}
	}
	return strings.Join(lines, "\n")
}
