package query

import "time"

type Status int

const (
	// StatusIdle means the slot was never fetched.
	StatusIdle Status = iota
	// StatusLoading means a fetch is in flight. Data from an earlier success
	// stays readable while the slot refetches.
	StatusLoading
	StatusSuccess
	// StatusError means the last fetch failed. Data from an earlier success
	// is kept.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of one cache slot as seen by a reader.
type State[T any] struct {
	Status Status
	Data   T
	// HasData is set once a fetch succeeded, and stays set across later
	// failures and refetches.
	HasData bool
	Err     error
	// FailureCount is the number of consecutive failed attempts, including
	// retries, of the latest fetch.
	FailureCount int
	UpdatedAt    time.Time
	// Fetching is set while a request for the slot is in flight, including
	// background refetches of data that is already displayed.
	Fetching bool
	Stale    bool
	// Placeholder is set when Data belongs to the previous key of an
	// Observer kept visible while the current key loads.
	Placeholder bool
}

func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }
func (s State[T]) IsError() bool   { return s.Status == StatusError }
