package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensify/internal/category"
	"github.com/MrJamesThe3rd/expensify/internal/errs"
	"github.com/MrJamesThe3rd/expensify/internal/hooks"
	"github.com/MrJamesThe3rd/expensify/internal/query"
	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateForm
	txStateConfirmDelete
)

// TransactionsModel pages through the user's transactions and edits them.
type TransactionsModel struct {
	CommonModel
	deps Deps

	state  txState
	page   int
	table  table.Model
	obs    *query.Observer[*transaction.Page]
	cats   *query.Observer[[]category.Category]
	form   TxFormModel
	status string

	create *query.Mutation[transaction.Params, *transaction.Transaction]
	update *query.Mutation[hooks.UpdateTransactionParams, *transaction.Transaction]
	delete *query.Mutation[string, struct{}]
}

func NewTransactionsModel(deps Deps) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 14},
		{Title: "Category", Width: 22},
		{Title: "Description", Width: 32},
		{Title: "Amount", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(deps.Hooks.PageSize()),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	h := deps.Hooks

	return TransactionsModel{
		deps:   deps,
		page:   1,
		table:  t,
		obs:    query.NewObserver(h.Cache(), h.Transactions(1), notifyOn[*transaction.Page](deps.Notifier)),
		cats:   query.NewObserver(h.Cache(), h.Categories(), notifyOn[[]category.Category](deps.Notifier)),
		create: h.CreateTransaction().OnChange(notifyOnMutation[*transaction.Transaction](deps.Notifier)),
		update: h.UpdateTransaction().OnChange(notifyOnMutation[*transaction.Transaction](deps.Notifier)),
		delete: h.DeleteTransaction().OnChange(notifyOnMutation[struct{}](deps.Notifier)),
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateForm:
		return "Navigate form | Esc: cancel"
	case txStateConfirmDelete:
		return "y: delete | n: keep"
	}

	return "a: add expense | i: add income | e: edit | d: delete | ←/→: page | r: refresh"
}

// Busy reports whether the view is capturing keys for a form or prompt, or
// still waiting on a write.
func (m TransactionsModel) Busy() bool { return m.state != txStateBrowse || m.pending() }

func (m TransactionsModel) pending() bool {
	return m.create.State().IsPending() || m.update.State().IsPending() || m.delete.State().IsPending()
}

func (m TransactionsModel) Init() tea.Cmd {
	m.obs.Mount(context.Background())
	m.cats.Mount(context.Background())

	// Rows are built on refresh; cached pages produce no change event.
	m.deps.Notifier.Notify()

	return nil
}

func (m TransactionsModel) Close() {
	m.obs.Unmount()
	m.cats.Unmount()
}

type txMutationMsg struct {
	action errs.Action
	done   string
	err    error
}

func (m TransactionsModel) Update(msg tea.Msg) (TransactionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		m.refreshTable()
		return m, sessionExpired(m.obs.State().Err, m.cats.State().Err)

	case txMutationMsg:
		m.state = txStateBrowse
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle.Render(errs.UserMessage(msg.err, msg.action))
			return m, sessionExpired(msg.err)
		}

		m.status = msg.done

		return m, nil

	case TxFormCancelledMsg:
		m.state = txStateBrowse
		m.table.Focus()

		return m, nil

	case TxFormSubmittedMsg:
		if m.pending() {
			return m, nil
		}

		return m, m.saveCmd(msg)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(min(max(msg.Height-14, 5), m.deps.Hooks.PageSize()))

		return m, nil
	}

	switch m.state {
	case txStateForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)

		return m, cmd
	case txStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (TransactionsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "right", "n":
			return m.goTo(m.page + 1), nil
		case "left", "p":
			return m.goTo(m.page - 1), nil
		case "home":
			return m.goTo(1), nil
		case "end":
			if st := m.obs.State(); st.HasData {
				return m.goTo(st.Data.TotalPages), nil
			}
		case "r":
			return m, m.refetchCmd()
		case "a":
			return m.openForm(nil, transaction.TypeOutflow)
		case "i":
			return m.openForm(nil, transaction.TypeInflow)
		case "e":
			if tx, ok := m.selected(); ok {
				return m.openForm(&tx, tx.Type)
			}
		case "d":
			if _, ok := m.selected(); ok {
				m.state = txStateConfirmDelete
				m.table.Blur()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateConfirm(msg tea.Msg) (TransactionsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.pending() {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		tx, ok := m.selected()
		if !ok {
			m.state = txStateBrowse
			return m, nil
		}

		return m, m.deleteCmd(tx.ID)
	case "n", "esc":
		m.state = txStateBrowse
		m.table.Focus()
	}

	return m, nil
}

// goTo moves to page, staying within the known page count.
func (m TransactionsModel) goTo(page int) TransactionsModel {
	if st := m.obs.State(); st.HasData {
		page = transaction.ClampPage(page, st.Data.TotalPages)
	}

	page = max(page, 1)
	if page == m.page {
		return m
	}

	m.page = page
	m.obs.SetQuery(m.deps.Hooks.Transactions(page))
	m.table.SetCursor(0)
	m.refreshTable()

	return m
}

func (m TransactionsModel) openForm(tx *transaction.Transaction, typ transaction.Type) (TransactionsModel, tea.Cmd) {
	st := m.cats.State()
	if !st.HasData || len(st.Data) == 0 {
		m.status = errorStyle.Render("Categories are still loading.")
		return m, nil
	}

	m.form = NewTxForm(st.Data, tx, typ, m.deps.Now())
	m.state = txStateForm
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) selected() (transaction.Transaction, bool) {
	st := m.obs.State()
	if !st.HasData || st.Placeholder {
		return transaction.Transaction{}, false
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(st.Data.Items) {
		return transaction.Transaction{}, false
	}

	return st.Data.Items[idx], true
}

func (m *TransactionsModel) refreshTable() {
	st := m.obs.State()
	if !st.HasData {
		m.table.SetRows(nil)
		return
	}

	// A delete can leave the current page past the end.
	if !st.Placeholder && !st.Fetching && len(st.Data.Items) == 0 && m.page > 1 && st.Data.TotalPages < m.page {
		*m = m.goTo(max(st.Data.TotalPages, 1))
		return
	}

	rows := make([]table.Row, 0, len(st.Data.Items))
	for _, tx := range st.Data.Items {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			strings.TrimSpace(tx.CategoryIcon + " " + tx.CategoryName),
			tx.Description,
			FormatSigned(tx.Type, tx.Amount),
		})
	}

	m.table.SetRows(rows)
}

func (m TransactionsModel) View() string {
	st := m.obs.State()

	var body string

	switch {
	case !st.HasData && st.IsError():
		body = errorStyle.Render(errs.UserMessage(st.Err, errs.ActionLoad))
	case !st.HasData:
		body = faintStyle.Render("Loading transactions...")
	case st.Data.Total == 0:
		body = titleStyle.Render("No transactions yet") + "\n" + faintStyle.Render("Press a to add your first expense.")
	default:
		tbl := lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())

		if st.Placeholder {
			tbl = faintStyle.Render(tbl)
		}

		body = lipgloss.JoinVertical(lipgloss.Left, tbl, pagination(m.page, st.Data))
	}

	switch m.state {
	case txStateForm:
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.form.View())
	case txStateConfirmDelete:
		if tx, ok := m.selected(); ok {
			body += "\n\n" + fmt.Sprintf("Delete %q (%s)? [y/n]", tx.Description, FormatSigned(tx.Type, tx.Amount))
		}
	}

	if m.pending() {
		body = faintStyle.Render("Saving...") + "\n" + body
	} else if m.status != "" {
		body = m.status + "\n" + body
	}

	return body
}

// pagination renders the page buttons, e.g. "‹ 1 … 4 5 [6] 7 8 … 12 ›".
func pagination(page int, p *transaction.Page) string {
	w := transaction.NewWindow(page, p.TotalPages)
	if len(w.Pages) == 0 {
		return faintStyle.Render(fmt.Sprintf("%d transactions", p.Total))
	}

	var parts []string

	if w.Prev {
		parts = append(parts, "‹")
	}

	if w.First {
		parts = append(parts, "1")
	}

	if w.LeadingGap {
		parts = append(parts, "…")
	}

	for _, n := range w.Pages {
		if n == page {
			parts = append(parts, activeStyle.Render("["+strconv.Itoa(n)+"]"))
			continue
		}

		parts = append(parts, strconv.Itoa(n))
	}

	if w.TrailingGap {
		parts = append(parts, "…")
	}

	if w.Last {
		parts = append(parts, strconv.Itoa(p.TotalPages))
	}

	if w.Next {
		parts = append(parts, "›")
	}

	return strings.Join(parts, " ") + faintStyle.Render(fmt.Sprintf("   %d transactions", p.Total))
}

func (m TransactionsModel) refetchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.deps.ReqCtx()
		defer cancel()

		if _, err := m.obs.Refetch(ctx); err != nil {
			m.deps.Log.Warn("refreshing transactions failed", "error", err)
		}

		return nil
	}
}

func (m TransactionsModel) saveCmd(msg TxFormSubmittedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.deps.ReqCtx()
		defer cancel()

		if msg.ID == "" {
			_, err := m.create.Mutate(ctx, msg.Params)
			return txMutationMsg{action: errs.ActionSave, done: "Transaction added.", err: err}
		}

		_, err := m.update.Mutate(ctx, hooks.UpdateTransactionParams{ID: msg.ID, Params: msg.Params})

		return txMutationMsg{action: errs.ActionSave, done: "Transaction updated.", err: err}
	}
}

func (m TransactionsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.deps.ReqCtx()
		defer cancel()

		_, err := m.delete.Mutate(ctx, id)

		return txMutationMsg{action: errs.ActionDelete, done: "Transaction deleted.", err: err}
	}
}
