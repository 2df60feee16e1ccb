package view

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/auth"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
)

// LoggedInMsg is emitted once the backend accepted a session.
type LoggedInMsg struct {
	User *auth.User
}

type loginFailedMsg struct{ err error }

// LoginModel asks for the session cookie obtained through the browser flow.
type LoginModel struct {
	CommonModel
	deps Deps

	loginURL string
	setToken func(string)
	token    *string
	form     *huh.Form
	checking bool
	err      string
}

func NewLoginModel(deps Deps, loginURL string, setToken func(string)) LoginModel {
	m := LoginModel{
		deps:     deps,
		loginURL: loginURL,
		setToken: setToken,
		token:    new(string),
	}
	m.form = m.newForm()

	return m
}

func (m LoginModel) newForm() *huh.Form {
	*m.token = ""

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Session token").
				Description("Paste the value of the \"session\" cookie.").
				EchoMode(huh.EchoModePassword).
				Value(m.token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errs.NewValidationError("session", "Session token is required.")
					}

					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m LoginModel) Title() string     { return "Sign in" }
func (m LoginModel) ShortHelp() string { return "Enter: sign in | ctrl+c: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFailedMsg:
		m.checking = false
		m.err = loginError(msg.err)
		m.form = m.newForm()

		return m, m.form.Init()
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.checking {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.checking = true
	m.err = ""
	m.setToken(strings.TrimSpace(*m.token))

	return m, m.verify()
}

// verify asks the backend who the session belongs to, bypassing any
// cached answer from before the token changed.
func (m LoginModel) verify() tea.Cmd {
	deps := m.deps

	return func() tea.Msg {
		ctx, cancel := deps.ReqCtx()
		defer cancel()

		q := deps.Hooks.CurrentUser()
		deps.Hooks.Cache().Invalidate(q.Key)

		user, err := q.Fetch(ctx, deps.Hooks.Cache())
		if err != nil {
			return loginFailedMsg{err: err}
		}

		return LoggedInMsg{User: user}
	}
}

func loginError(err error) string {
	if apiclient.IsUnauthorized(err) {
		return "That session is not valid. Sign in again in the browser and copy the new cookie."
	}

	return errs.UserMessage(err, errs.ActionLoad)
}

func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Expensify") + "\n\n")
	b.WriteString("Sign in with Google in your browser:\n")
	b.WriteString(activeStyle.Render(m.loginURL) + "\n\n")
	b.WriteString(faintStyle.Render("Then copy the session cookie and paste it below.") + "\n\n")

	if m.checking {
		b.WriteString(faintStyle.Render("Checking session..."))
	} else {
		b.WriteString(m.form.View())
	}

	if m.err != "" {
		b.WriteString("\n\n" + errorStyle.Render(m.err))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
