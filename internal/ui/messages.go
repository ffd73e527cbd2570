package ui

import (
	"time"

	"moviesearch/internal/domain"
)

// FailureMessage is the single user-visible search error
const FailureMessage = "Failed to fetch results"

// searchResultMsg carries the outcome of one dispatched search
type searchResultMsg struct {
	seq   uint64
	query string
	hits  []domain.Hit
	err   error
	took  time.Duration
}

// hitOpenedMsg is sent when the detail pager closes
type hitOpenedMsg struct {
	id  string
	err error
}
