package domain

// Hit is one matched record returned by the search backend.
// Fields are kept as decoded JSON so projections can reach any attribute.
type Hit map[string]any

// ObjectID returns the backend identifier of the hit ("" if absent)
func (h Hit) ObjectID() string {
	if id, ok := h["objectID"].(string); ok {
		return id
	}
	return ""
}

// ResultItem is a display item projected from a hit
type ResultItem struct {
	ID    string
	Title string
	Hit   Hit // original record, used by the detail view
}

// SearchRequest identifies one dispatched search
type SearchRequest struct {
	Seq   uint64
	Index string
	Query string
}
