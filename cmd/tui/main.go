package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/expensify/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/auth"
	"github.com/MrJamesThe3rd/expensify/internal/config"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
	"github.com/MrJamesThe3rd/expensify/internal/hooks"
	"github.com/MrJamesThe3rd/expensify/internal/logger"
	"github.com/MrJamesThe3rd/expensify/internal/query"
)

type View int

const (
	ViewLoading View = iota
	ViewLogin
	ViewMenu
	ViewCharts
	ViewTransactions
	ViewCategories
)

type model struct {
	deps     view.Deps
	loginURL string
	api      *apiclient.Client
	logout   *query.Mutation[struct{}, struct{}]

	currentView View
	user        *auth.User
	status      string
	width       int
	height      int

	loginView        view.LoginModel
	chartsView       view.ChartsModel
	transactionsView view.TransactionsModel
	categoriesView   view.CategoriesModel
}

type sessionCheckedMsg struct {
	user *auth.User
	err  error
}

type prefetchedMsg struct{ err error }

type loggedOutMsg struct{ err error }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func initialModel() (model, io.Closer) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	log := logger.Discard()

	var closer io.Closer = nopCloser{}

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}

		log = logger.New(cfg.Log.Level, cfg.Log.Format, f)
		closer = f
	}

	api, err := apiclient.New(cfg.Origin(),
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(log),
	)
	if err != nil {
		slog.Error("failed to create api client", "error", err)
		os.Exit(1)
	}

	if cfg.API.SessionToken != "" {
		api.SetSessionToken(cfg.API.SessionToken)
	}

	cache := query.New(query.WithLogger(log))
	h := hooks.New(api, cache, hooks.WithPageSize(cfg.API.PageSize), hooks.WithLogger(log))

	deps := view.Deps{
		Hooks:    h,
		Notifier: view.NewNotifier(),
		Log:      log,
		Timeout:  cfg.API.Timeout,
		Now:      time.Now,
	}

	loginURL := auth.LoginURL(cfg.LoginOrigin())

	return model{
		deps:        deps,
		loginURL:    loginURL,
		api:         api,
		logout:      h.Logout(),
		currentView: ViewLoading,
		loginView:   view.NewLoginModel(deps, loginURL, api.SetSessionToken),
	}, closer
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.deps.Notifier.Wait(), m.checkSession())
}

func (m model) checkSession() tea.Cmd {
	if !m.api.HasSession() {
		return func() tea.Msg { return sessionCheckedMsg{} }
	}

	deps := m.deps

	return func() tea.Msg {
		ctx, cancel := deps.ReqCtx()
		defer cancel()

		user, err := deps.Hooks.CurrentUser().Fetch(ctx, deps.Hooks.Cache())

		return sessionCheckedMsg{user: user, err: err}
	}
}

func (m model) prefetch() tea.Cmd {
	deps := m.deps

	return func() tea.Msg {
		ctx, cancel := deps.ReqCtx()
		defer cancel()

		return prefetchedMsg{err: deps.Hooks.Prefetch(ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCharts
				m.chartsView = view.NewChartsModel(m.deps)

				return m, m.chartsView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.deps)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewCategories
				m.categoriesView = view.NewCategoriesModel(m.deps)

				return m, m.categoriesView.Init()
			case "L":
				if m.logout.State().IsPending() {
					return m, nil
				}

				m.status = "Signing out..."

				return m, m.logoutCmd()
			}

			return m, nil
		}

		if msg.String() == "esc" && m.canLeave() {
			return m, view.Back
		}
	case view.RefreshMsg:
		wait := m.deps.Notifier.Wait()
		m, cmd = m.forward(msg)

		return m, tea.Batch(wait, cmd)
	case sessionCheckedMsg:
		if msg.err != nil || msg.user == nil {
			if msg.err != nil && !apiclient.IsUnauthorized(msg.err) {
				m.status = errs.UserMessage(msg.err, errs.ActionLoad)
			}

			m.currentView = ViewLogin

			return m, m.loginView.Init()
		}

		return m.loggedIn(msg.user)
	case view.LoggedInMsg:
		return m.loggedIn(msg.User)
	case prefetchedMsg:
		if msg.err != nil {
			m.deps.Log.Warn("prefetch failed", "error", msg.err)
		}

		return m, nil
	case loggedOutMsg:
		status := ""
		if msg.err != nil {
			status = "Signed out locally. " + errs.UserMessage(msg.err, errs.ActionLoad)
		}

		return m.toLogin(status)
	case view.SessionExpiredMsg:
		if m.user == nil {
			return m, nil
		}

		m.closeActive()
		m.deps.Hooks.DropSession()

		return m.toLogin("Your session has expired. Sign in again.")
	case view.BackMsg:
		m.closeActive()
		m.currentView = ViewMenu

		return m, nil
	}

	return m.forward(msg)
}

func (m model) loggedIn(user *auth.User) (model, tea.Cmd) {
	m.user = user
	m.status = ""
	m.currentView = ViewMenu

	return m, m.prefetch()
}

// toLogin leaves the signed-in views for a fresh login screen.
func (m model) toLogin(status string) (model, tea.Cmd) {
	m.closeActive()
	m.user = nil
	m.status = status
	m.currentView = ViewLogin
	m.loginView = view.NewLoginModel(m.deps, m.loginURL, m.api.SetSessionToken)

	return m, m.loginView.Init()
}

func (m model) logoutCmd() tea.Cmd {
	logout := m.logout
	deps := m.deps

	return func() tea.Msg {
		ctx, cancel := deps.ReqCtx()
		defer cancel()

		_, err := logout.Mutate(ctx, struct{}{})

		return loggedOutMsg{err: err}
	}
}

// canLeave reports whether Esc should return to the menu rather than go to
// an open form.
func (m model) canLeave() bool {
	switch m.currentView {
	case ViewTransactions:
		return !m.transactionsView.Busy()
	case ViewCategories:
		return !m.categoriesView.Busy()
	case ViewCharts:
		return true
	}

	return false
}

func (m model) closeActive() {
	switch m.currentView {
	case ViewCharts:
		m.chartsView.Close()
	case ViewTransactions:
		m.transactionsView.Close()
	case ViewCategories:
		m.categoriesView.Close()
	}
}

func (m model) forward(msg tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewCharts:
		m.chartsView, cmd = m.chartsView.Update(msg)
	case ViewTransactions:
		m.transactionsView, cmd = m.transactionsView.Update(msg)
	case ViewCategories:
		m.categoriesView, cmd = m.categoriesView.Update(msg)
	}

	return m, cmd
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func (m model) header(title string) string {
	who := ""
	if m.user != nil {
		who = fmt.Sprintf("  ·  %s <%s>", m.user.Name, m.user.Email)
	}

	return headerStyle.Render("Expensify · "+title) + helpStyle.Render(who)
}

func (m model) View() string {
	var title, body, help string

	switch m.currentView {
	case ViewLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	case ViewLogin:
		body = m.loginView.View()
		if m.status != "" {
			body = m.status + "\n" + body
		}

		return body
	case ViewMenu:
		menu := "1. Charts\n" +
			"2. Transactions\n" +
			"3. Categories\n\n" +
			"L. Sign out\n" +
			"q. Quit"
		if m.status != "" {
			menu = m.status + "\n\n" + menu
		}

		return lipgloss.NewStyle().Padding(2).Render(m.header("Menu") + "\n\n" + menu)
	case ViewCharts:
		title, body, help = m.chartsView.Title(), m.chartsView.View(), m.chartsView.ShortHelp()
	case ViewTransactions:
		title, body, help = m.transactionsView.Title(), m.transactionsView.View(), m.transactionsView.ShortHelp()
	case ViewCategories:
		title, body, help = m.categoriesView.Title(), m.categoriesView.View(), m.categoriesView.ShortHelp()
	default:
		return "Unknown View"
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		m.header(title) + "\n\n" + body + "\n\n" + helpStyle.Render(help+" | Esc: back"),
	)
}

func main() {
	m, closer := initialModel()
	defer closer.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
