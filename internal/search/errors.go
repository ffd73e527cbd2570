package search

import "errors"

// ErrMalformedResponse is returned when the backend answers with a result
// that is not a page of hits
var ErrMalformedResponse = errors.New("malformed search response")
