//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// fakeIndex is an in-process search backend answering the multi-query
// endpoint with the movies whose title contains the query
type fakeIndex struct {
	mu      sync.Mutex
	movies  []map[string]any
	fail    bool
	queries []string
}

// serveIndex starts a fake index and points the session at it
func (s *session) serveIndex(movies ...map[string]any) *fakeIndex {
	idx := &fakeIndex{movies: movies}
	srv := httptest.NewServer(idx)
	s.t.Cleanup(srv.Close)

	s.env = append(s.env,
		"ALGOLIA_APP_ID=e2e",
		"ALGOLIA_API_KEY=e2e-key",
		"ALGOLIA_INDEX=movies",
		"MOVIESEARCH_HOST="+srv.URL,
		"MOVIESEARCH_DEBOUNCE=50ms",
	)
	return idx
}

// Fail makes every following request return 500
func (f *fakeIndex) Fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = true
}

// Queries returns the queries received so far
func (f *fakeIndex) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeIndex) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Requests []struct {
			Query string `json:"query"`
		} `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Requests) == 0 {
		http.Error(w, `{"message":"bad request","status":400}`, http.StatusBadRequest)
		return
	}
	query := body.Requests[0].Query

	f.mu.Lock()
	f.queries = append(f.queries, query)
	fail := f.fail
	hits := []map[string]any{}
	for _, m := range f.movies {
		title, _ := m["title"].(string)
		if strings.Contains(strings.ToLower(title), strings.ToLower(query)) {
			hits = append(hits, m)
		}
	}
	f.mu.Unlock()

	if fail {
		http.Error(w, `{"message":"internal error","status":500}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"results": []any{map[string]any{
			"hits":             hits,
			"nbHits":           len(hits),
			"page":             0,
			"nbPages":          1,
			"hitsPerPage":      20,
			"processingTimeMS": 1,
			"exhaustiveNbHits": true,
			"query":            query,
			"params":           "query=" + query,
			"index":            "movies",
		}},
	})
}
