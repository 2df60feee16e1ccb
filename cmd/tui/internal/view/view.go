package view

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/hooks"
	"github.com/MrJamesThe3rd/expensify/internal/query"
)

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// RefreshMsg is delivered whenever an observed query changed. Views render
// straight from their observers, so it only triggers a redraw.
type RefreshMsg struct{}

// Notifier turns observer callbacks, which run on fetch goroutines, into
// RefreshMsgs on the program's event loop. Bursts collapse into one message.
type Notifier struct {
	ch chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the next notification. Re-issue it after every RefreshMsg.
func (n *Notifier) Wait() tea.Cmd {
	return func() tea.Msg {
		<-n.ch
		return RefreshMsg{}
	}
}

func notifyOn[T any](n *Notifier) func(query.State[T]) {
	return func(query.State[T]) { n.Notify() }
}

func notifyOnMutation[R any](n *Notifier) func(query.MutationState[R]) {
	return func(query.MutationState[R]) { n.Notify() }
}

// SessionExpiredMsg is sent when the server rejected the session mid-use.
// The root model drops it and returns to the login screen.
type SessionExpiredMsg struct{}

// sessionExpired reports SessionExpiredMsg when any of failures is a 401.
func sessionExpired(failures ...error) tea.Cmd {
	for _, err := range failures {
		if apiclient.IsUnauthorized(err) {
			return func() tea.Msg { return SessionExpiredMsg{} }
		}
	}

	return nil
}

// Deps carries what every view needs to reach the backend.
type Deps struct {
	Hooks    *hooks.Hooks
	Notifier *Notifier
	Log      *slog.Logger
	// Timeout bounds each mutation issued from a view. Zero means none.
	Timeout time.Duration
	Now     func() time.Time
}

// ReqCtx returns the context a view issues one request with.
func (d Deps) ReqCtx() (context.Context, context.CancelFunc) {
	if d.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}

	return context.WithTimeout(context.Background(), d.Timeout)
}
