package views

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesearch/internal/domain"
	"moviesearch/internal/ui/state"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func plain(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func loaded(titles ...string) state.SearchState {
	items := make([]domain.ResultItem, 0, len(titles))
	for i, t := range titles {
		items = append(items, domain.ResultItem{ID: string(rune('1' + i)), Title: t})
	}
	return state.Loaded(items)
}

func TestSelectScreen(t *testing.T) {
	tests := []struct {
		name  string
		state state.SearchState
		want  Screen
	}{
		{"idle", state.Idle(), ScreenEmpty},
		{"loading", state.Loading(), ScreenPlaceholders},
		{"failed", state.Failed("Failed to fetch results"), ScreenError},
		{"loaded empty", state.Loaded(nil), ScreenEmpty},
		{"loaded", loaded("A"), ScreenGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectScreen(tt.state))
		})
	}
}

func TestRenderGridTwoCardsInOrder(t *testing.T) {
	r := NewRenderer()
	out := plain(r.RenderResults(ViewState{Width: 120, Search: loaded("A", "B")}, 0))

	assert.Equal(t, 2, strings.Count(out, "╭"), "exactly two cards")
	assert.Contains(t, out, "2 results")
	a := strings.Index(out, " A ")
	b := strings.Index(out, " B ")
	require.GreaterOrEqual(t, a, 0)
	require.GreaterOrEqual(t, b, 0)
	assert.Less(t, a, b)
	assert.NotContains(t, out, EmptyNotice)
}

func TestRenderPlaceholders(t *testing.T) {
	r := NewRenderer()
	out := plain(r.RenderResults(ViewState{Width: 120, Search: state.Loading(), Placeholders: 3, Spinner: "⠋"}, 0))

	assert.Equal(t, 3, strings.Count(out, "╭"))
	assert.Contains(t, out, SearchingLabel)
	assert.NotContains(t, out, EmptyNotice)
}

func TestRenderError(t *testing.T) {
	r := NewRenderer()
	out := plain(r.RenderResults(ViewState{Width: 120, Search: state.Failed("Failed to fetch results")}, 0))

	assert.Contains(t, out, "Failed to fetch results")
	assert.NotContains(t, out, "╭", "grid is empty on failure")
	assert.NotContains(t, out, EmptyNotice)
}

func TestRenderEmpty(t *testing.T) {
	r := NewRenderer()
	for _, s := range []state.SearchState{state.Idle(), state.Loaded(nil)} {
		out := plain(r.RenderResults(ViewState{Width: 120, Search: s}, 0))
		assert.Contains(t, out, EmptyNotice)
		assert.NotContains(t, out, "Failed")
	}
}

func TestRenderRevealShowsPartialGrid(t *testing.T) {
	r := NewRenderer()
	out := plain(r.RenderResults(ViewState{
		Width:     200,
		Search:    loaded("A", "B", "C"),
		Revealing: true,
		Revealed:  2,
	}, 0))
	assert.Equal(t, 2, strings.Count(out, "╭"))
	assert.Contains(t, out, "3 results")
}

func TestRenderScrollsToCursor(t *testing.T) {
	r := NewRenderer()
	titles := []string{"A", "B", "C", "D", "E", "F"}
	// 30 columns fit exactly one card per row
	out := plain(r.RenderResults(ViewState{
		Width:       34,
		Search:      loaded(titles...),
		GridFocused: true,
		Cursor:      4,
	}, 2))

	assert.Equal(t, 2, strings.Count(out, "╭"))
	assert.Contains(t, out, " D ")
	assert.Contains(t, out, " E ")
	assert.NotContains(t, out, " A ")
	assert.Contains(t, out, "showing 4-5")
}

func TestRenderCursorAheadOfReveal(t *testing.T) {
	r := NewRenderer()
	titles := []string{"A", "B", "C", "D", "E", "F"}
	vs := ViewState{
		Width:       34,
		Search:      loaded(titles...),
		GridFocused: true,
		Cursor:      5,
		Revealing:   true,
		Revealed:    3,
	}

	var out string
	require.NotPanics(t, func() { out = plain(r.RenderResults(vs, 2)) })
	assert.Equal(t, 2, strings.Count(out, "╭"))
	assert.Contains(t, out, " B ")
	assert.Contains(t, out, " C ")
	assert.NotContains(t, out, " D ")

	vs.Revealed = 0
	require.NotPanics(t, func() { out = plain(r.RenderResults(vs, 2)) })
	assert.Zero(t, strings.Count(out, "╭"))
	assert.Contains(t, out, "6 results")
}

func TestColumns(t *testing.T) {
	assert.Equal(t, 1, Columns(10))
	assert.Equal(t, 1, Columns(28))
	assert.Equal(t, 2, Columns(57))
	assert.Equal(t, 2, Columns(80-4))
	assert.Equal(t, 4, Columns(116))
}

func TestWrapTitleKeepsFixedHeight(t *testing.T) {
	short := wrapTitle("Up")
	assert.Equal(t, cardTitleLines, strings.Count(short, "\n")+1)

	long := wrapTitle(strings.Repeat("Dr. Strangelove or How I Learned ", 4))
	lines := strings.Split(long, "\n")
	require.Len(t, lines, cardTitleLines)
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[1], " "), "…"))
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), CardWidth)
	}
}

func TestWrapTitleMeasuresWideCharacters(t *testing.T) {
	// each ideograph takes two cells
	title := strings.Repeat("千と千尋の神隠し", 6)
	lines := strings.Split(wrapTitle(title), "\n")
	require.Len(t, lines, cardTitleLines)
	for _, l := range lines {
		assert.Equal(t, CardWidth, lipgloss.Width(l))
	}
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[1], " "), "…"))
}

func TestRenderFullViewIncludesHelpAndTitle(t *testing.T) {
	r := NewRenderer()
	out := plain(r.Render(ViewState{
		Width:     100,
		Height:    30,
		IndexName: "movies",
		Input:     "> Search movies...",
		Search:    state.Idle(),
		Help:      "? help",
	}))
	assert.Contains(t, out, AppTitle)
	assert.Contains(t, out, "index: movies")
	assert.Contains(t, out, "Search movies...")
	assert.Contains(t, out, EmptyNotice)
	assert.Contains(t, out, "? help")
}
