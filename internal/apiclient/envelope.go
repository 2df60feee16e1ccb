package apiclient

import "errors"

// ErrNoData is returned when an endpoint that must produce a payload
// answered with an envelope that has none.
var ErrNoData = errors.New("no data returned")

// Envelope is the {data, error} wrapper around every response body.
type Envelope[T any] struct {
	Data  *T     `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}
