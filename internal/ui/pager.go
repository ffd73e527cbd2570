package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/noborus/ov/oviewer"

	"moviesearch/internal/domain"
)

// detailWrap is the word wrap width for the rendered markdown
const detailWrap = 80

// DetailMarkdown builds the markdown document shown for a hit
func DetailMarkdown(item domain.ResultItem) string {
	var b strings.Builder

	title := item.Title
	if title == "" {
		title = item.ID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "`objectID: %s`\n\n", item.ID)

	keys := make([]string, 0, len(item.Hit))
	for k := range item.Hit {
		if k == "objectID" || strings.HasPrefix(k, "_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		b.WriteString("| field | value |\n|---|---|\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "| %s | %s |\n", k, cellValue(item.Hit[k]))
		}
	}
	return b.String()
}

func cellValue(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		s = ""
	case string:
		s = t
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		s = strings.Join(parts, ", ")
	case map[string]any:
		raw, err := json.Marshal(t)
		if err != nil {
			s = fmt.Sprint(t)
		} else {
			s = string(raw)
		}
	default:
		s = fmt.Sprint(t)
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// DetailRenderer turns a hit into the text shown in the pager
type DetailRenderer struct {
	style string
}

// NewDetailRenderer creates a new detail renderer. An empty style picks the
// glamour style from the terminal background.
func NewDetailRenderer(style string) *DetailRenderer {
	return &DetailRenderer{style: style}
}

// Render renders the markdown page followed by the raw JSON of the hit
func (r *DetailRenderer) Render(item domain.ResultItem) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(detailWrap)}
	if r.style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	page, err := tr.Render(DetailMarkdown(item))
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	raw, err := json.MarshalIndent(item.Hit, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode hit: %w", err)
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(page, "\n"))
	b.WriteString("\n\n")
	b.Write(raw)
	b.WriteString("\n")
	return b.String(), nil
}

// PagerOps shows hit details in the ov pager
type PagerOps struct {
	program  *tea.Program // reference to Bubble Tea program for terminal management
	renderer *DetailRenderer
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program, renderer *DetailRenderer) *PagerOps {
	return &PagerOps{
		program:  program,
		renderer: renderer,
	}
}

// Open returns a command that shows the item in the pager and reports back
// with a hitOpenedMsg once the pager exits
func (p *PagerOps) Open(item domain.ResultItem) tea.Cmd {
	return func() tea.Msg {
		return hitOpenedMsg{id: item.ID, err: p.show(item)}
	}
}

func (p *PagerOps) show(item domain.ResultItem) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	content, err := p.renderer.Render(item)
	if err != nil {
		return err
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Give ov time to leave the alternate screen before taking it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
