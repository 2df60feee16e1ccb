package view

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensify/internal/category"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
	"github.com/MrJamesThe3rd/expensify/internal/query"
)

type catState int

const (
	catStateBrowse catState = iota
	catStateForm
	catStateConfirmDelete
)

type catFields struct {
	name  string
	icon  string
	color string
}

// CategoriesModel lists every category and manages the user's own ones.
type CategoriesModel struct {
	CommonModel
	deps Deps

	state  catState
	cursor int
	obs    *query.Observer[[]category.Category]
	fields *catFields
	form   *huh.Form
	status string

	create *query.Mutation[category.CreateParams, *category.Category]
	delete *query.Mutation[string, struct{}]
}

func NewCategoriesModel(deps Deps) CategoriesModel {
	h := deps.Hooks

	return CategoriesModel{
		deps:   deps,
		obs:    query.NewObserver(h.Cache(), h.Categories(), notifyOn[[]category.Category](deps.Notifier)),
		create: h.CreateCategory().OnChange(notifyOnMutation[*category.Category](deps.Notifier)),
		delete: h.DeleteCategory().OnChange(notifyOnMutation[struct{}](deps.Notifier)),
	}
}

func (m CategoriesModel) Title() string { return "Categories" }

func (m CategoriesModel) ShortHelp() string {
	switch m.state {
	case catStateForm:
		return "Navigate form | Esc: cancel"
	case catStateConfirmDelete:
		return "y: delete | n: keep"
	}

	return "↑/↓: move | a: add | d: delete"
}

func (m CategoriesModel) Busy() bool { return m.state != catStateBrowse || m.pending() }

func (m CategoriesModel) pending() bool {
	return m.create.State().IsPending() || m.delete.State().IsPending()
}

func (m CategoriesModel) Init() tea.Cmd {
	m.obs.Mount(context.Background())
	return nil
}

func (m CategoriesModel) Close() {
	m.obs.Unmount()
}

type catMutationMsg struct {
	done string
	err  error
	// name is set for deletes, whose failures get a dedicated message.
	name string
}

func (m CategoriesModel) Update(msg tea.Msg) (CategoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		m.cursor = min(m.cursor, max(len(m.items())-1, 0))
		return m, sessionExpired(m.obs.State().Err)

	case catMutationMsg:
		m.state = catStateBrowse

		switch {
		case msg.err != nil && msg.name != "":
			m.status = errorStyle.Render(category.DeleteErrorMessage(msg.name, msg.err))
		case msg.err != nil:
			m.status = errorStyle.Render(errs.UserMessage(msg.err, errs.ActionSave))
		default:
			m.status = msg.done
		}

		return m, sessionExpired(msg.err)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.pending() {
		return m, nil
	}

	switch m.state {
	case catStateForm:
		return m.updateForm(msg)
	case catStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items())-1 {
			m.cursor++
		}
	case "a":
		m.fields = &catFields{icon: category.DefaultIcon, color: category.DefaultColor}
		m.form = newCategoryForm(m.fields)
		m.state = catStateForm
		m.status = ""

		return m, m.form.Init()
	case "d":
		c, ok := m.selected()
		if !ok {
			return m, nil
		}

		if c.IsDefault {
			m.status = errorStyle.Render("Default categories cannot be deleted.")
			return m, nil
		}

		m.state = catStateConfirmDelete
	}

	return m, nil
}

func newCategoryForm(f *catFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.name).
				Validate(func(s string) error {
					return category.CreateParams{Name: s}.Validate()
				}),
			huh.NewInput().
				Title("Icon").
				Value(&f.icon),
			huh.NewInput().
				Title("Color").
				Placeholder(category.DefaultColor).
				Value(&f.color),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m CategoriesModel) updateForm(msg tea.Msg) (CategoriesModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = catStateBrowse
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	params := category.CreateParams{
		Name:  m.fields.name,
		Icon:  m.fields.icon,
		Color: m.fields.color,
	}.Normalize()

	create := m.create
	deps := m.deps

	return m, func() tea.Msg {
		ctx, cancel := deps.ReqCtx()
		defer cancel()

		c, err := create.Mutate(ctx, params)
		if err != nil {
			return catMutationMsg{err: err}
		}

		return catMutationMsg{done: fmt.Sprintf("Created %s %s.", c.Icon, c.Name)}
	}
}

func (m CategoriesModel) updateConfirm(msg tea.Msg) (CategoriesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		c, ok := m.selected()
		if !ok {
			m.state = catStateBrowse
			return m, nil
		}

		del := m.delete
		deps := m.deps

		return m, func() tea.Msg {
			ctx, cancel := deps.ReqCtx()
			defer cancel()

			_, err := del.Mutate(ctx, c.ID)
			if err != nil {
				return catMutationMsg{name: c.Name, err: err}
			}

			return catMutationMsg{done: fmt.Sprintf("Deleted %s.", c.Name)}
		}
	case "n", "esc":
		m.state = catStateBrowse
	}

	return m, nil
}

func (m CategoriesModel) items() []category.Category {
	st := m.obs.State()
	if !st.HasData {
		return nil
	}

	return st.Data
}

func (m CategoriesModel) selected() (category.Category, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return category.Category{}, false
	}

	return items[m.cursor], true
}

func (m CategoriesModel) View() string {
	st := m.obs.State()

	var b strings.Builder

	switch {
	case !st.HasData && st.IsError():
		b.WriteString(errorStyle.Render(errs.UserMessage(st.Err, errs.ActionLoad)))
	case !st.HasData:
		b.WriteString(faintStyle.Render("Loading categories..."))
	default:
		for i, c := range st.Data {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
			line := fmt.Sprintf("%s %s %s", swatch, c.Icon, c.Name)

			if c.IsDefault {
				line += faintStyle.Render("  default")
			}

			if i == m.cursor {
				line = activeStyle.Render("> ") + line
			} else {
				line = "  " + line
			}

			b.WriteString(line + "\n")
		}
	}

	body := b.String()

	switch m.state {
	case catStateForm:
		form := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(titleStyle.Render("New Category") + "\n\n" + m.form.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", form)
	case catStateConfirmDelete:
		if c, ok := m.selected(); ok {
			body += "\n" + fmt.Sprintf("Delete %q? [y/n]", c.Name)
		}
	}

	if m.pending() {
		body = faintStyle.Render("Saving...") + "\n\n" + body
	} else if m.status != "" {
		body = m.status + "\n\n" + body
	}

	return body
}
