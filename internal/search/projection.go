package search

import (
	"fmt"
	"strconv"

	"github.com/itchyny/gojq"

	"moviesearch/internal/domain"
)

// Projector maps backend hits to display items.
// The title is taken from the first value the jq expression yields.
type Projector struct {
	expr string
	code *gojq.Code
}

// NewProjector compiles a jq expression such as ".title" or ".name // .title"
func NewProjector(expr string) (*Projector, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid title expression %q: %w", expr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid title expression %q: %w", expr, err)
	}
	return &Projector{expr: expr, code: code}, nil
}

// Expr returns the source expression
func (p *Projector) Expr() string {
	return p.expr
}

// Project converts hits into items, preserving backend order
func (p *Projector) Project(hits []domain.Hit) []domain.ResultItem {
	items := make([]domain.ResultItem, 0, len(hits))
	for i, hit := range hits {
		id := hit.ObjectID()
		if id == "" {
			id = "#" + strconv.Itoa(i)
		}
		items = append(items, domain.ResultItem{
			ID:    id,
			Title: p.Title(hit),
			Hit:   hit,
		})
	}
	return items
}

// Title evaluates the expression against one hit.
// Errors and missing values yield "".
func (p *Projector) Title(hit domain.Hit) string {
	if hit == nil {
		return ""
	}
	iter := p.code.Run(map[string]any(hit))
	v, ok := iter.Next()
	if !ok {
		return ""
	}
	switch v := v.(type) {
	case error:
		return ""
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
